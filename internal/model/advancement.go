package model

// IconKind distinguishes the two icon variants an advancement can carry.
type IconKind string

const (
	IconItem       IconKind = "item"
	IconPlayerHead IconKind = "playerHead"
)

// Icon is the display icon of an advancement: either a plain item (with an
// optional shimmer, for enchanted-looking icons) or a player head rendered
// from a cached skin texture.
type Icon struct {
	Kind       IconKind `json:"type"`
	Name       string   `json:"name,omitempty"`
	Shimmering bool     `json:"shimmering,omitempty"`
	TextureID  string   `json:"textureId,omitempty"`
}

// Type is the advancement's display frame, derived from display.frame.
type Type string

const (
	TypeRoot      Type = "root"
	TypeTask      Type = "task"
	TypeGoal      Type = "goal"
	TypeChallenge Type = "challenge"
)

// SpreadsheetInfo is the opaque overlay attached from the optional CSV.
type SpreadsheetInfo struct {
	Class               string  `json:"class"`
	RequirementDetails *string `json:"requirementDetails,omitempty"`
}

// Advancement is immutable after catalog load.
type Advancement struct {
	Key             string             `json:"key"`
	DisplayName     string             `json:"displayName"`
	Description     string             `json:"description"`
	Icon            Icon               `json:"icon"`
	Type            Type               `json:"type"`
	Source          string             `json:"source"`
	Parent          *string            `json:"parent,omitempty"`
	Category        string             `json:"category"`
	Requirements    *OrderedRequirements `json:"requirements"`
	CommonSubjects  []Subject          `json:"commonSubjects,omitempty"`
	SpreadsheetInfo SpreadsheetInfo    `json:"spreadsheetInfo"`
}

// Category is the UI-facing summary of a root advancement, used as a
// grouping key for every other advancement in its parent chain.
type Category struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	Icon        Icon   `json:"icon"`
}
