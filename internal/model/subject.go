package model

// SubjectBase identifies which of the seven base shapes a Subject carries.
type SubjectBase string

const (
	BaseItem        SubjectBase = "item"
	BaseBlock       SubjectBase = "block"
	BaseEntity      SubjectBase = "entity"
	BaseLocation    SubjectBase = "location"
	BaseEffect      SubjectBase = "effect"
	BaseAdvancement SubjectBase = "advancement"
	BaseStat        SubjectBase = "stat"
)

// SupplementKind identifies the four possible supplement shapes a Subject
// may additionally carry.
type SupplementKind string

const (
	SupplementEnchantment SupplementKind = "enchantment"
	SupplementEffect      SupplementKind = "effect"
	SupplementEntity      SupplementKind = "entity"
	SupplementBiome       SupplementKind = "biome"
)

// Enchantment is a supplement describing a required enchantment and an
// optional minimum level.
type Enchantment struct {
	ID    string `json:"id"`
	Level *int   `json:"level,omitempty"`
}

// EffectSupplement is a supplement (or, when promoted, a base) describing a
// status effect and an optional amplifier.
type EffectSupplement struct {
	ID        string `json:"id"`
	Amplifier *int   `json:"amplifier,omitempty"`
}

// EntitySupplement carries a nested entity reference, e.g. a panda's hidden
// gene or a zombie villager's passenger.
type EntitySupplement struct {
	ID      string `json:"id"`
	Variant string `json:"variant,omitempty"`
}

// Supplements bundles all optional supplement attachments a Subject may
// carry. At most one of each field is populated per occurrence list entry;
// several distinct supplement kinds may co-occur on one Subject.
type Supplements struct {
	Enchantments []Enchantment      `json:"enchantments,omitempty"`
	Effects      []EffectSupplement `json:"effects,omitempty"`
	Entities     []EntitySupplement `json:"entities,omitempty"`
	Biome        string             `json:"biome,omitempty"`
}

// IsEmpty reports whether a Supplements carries no attachments at all.
func (s *Supplements) IsEmpty() bool {
	return s == nil || (len(s.Enchantments) == 0 && len(s.Effects) == 0 && len(s.Entities) == 0 && s.Biome == "")
}

// Range is an opaque positional/value range: either a bare scalar or a
// {min,max} pair. Preserved literally as encountered in criteria JSON.
type Range struct {
	Scalar *float64 `json:"scalar,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// Subject is this system's normalized shape of "what a criterion is about".
type Subject struct {
	Base SubjectBase `json:"base"`

	// Item / Block
	IDs        []string `json:"ids,omitempty"`
	Count      *int     `json:"count,omitempty"`
	Variant    string   `json:"variant,omitempty"`
	CustomName string   `json:"customName,omitempty"`
	LootTable  string   `json:"lootTable,omitempty"`

	// Entity
	ID string `json:"id,omitempty"`

	// Location
	Biomes     []string `json:"biomes,omitempty"`
	Structures []string `json:"structures,omitempty"`
	Dimension  string   `json:"dimension,omitempty"`
	X, Y, Z    *Range   `json:"x,omitempty"`

	// Effect
	Amplifier *int `json:"amplifier,omitempty"`

	// Stat
	StatType string `json:"statType,omitempty"`
	Target   string `json:"target,omitempty"`
	Value    *int   `json:"value,omitempty"`

	Supplements *Supplements `json:"supplements,omitempty"`
}

// Valid applies the subject-drop law: an Item or Block with empty ids is
// invalid unless it is an Item coerced by an Enchantment supplement (the
// enchanted_book special case, applied by the caller before Valid runs); a
// Stat with no Value is invalid.
func (s Subject) Valid() bool {
	switch s.Base {
	case BaseItem, BaseBlock:
		return len(s.IDs) > 0
	case BaseStat:
		return s.Value != nil
	default:
		return true
	}
}

// AddEnchantment attaches an enchantment requirement to s.
func (s *Subject) AddEnchantment(e Enchantment) {
	if s.Supplements == nil {
		s.Supplements = &Supplements{}
	}
	s.Supplements.Enchantments = append(s.Supplements.Enchantments, e)
}

// AddEffectSupplement attaches a status-effect requirement to s.
func (s *Subject) AddEffectSupplement(e EffectSupplement) {
	if s.Supplements == nil {
		s.Supplements = &Supplements{}
	}
	s.Supplements.Effects = append(s.Supplements.Effects, e)
}

// AddEntitySupplement attaches a nested entity reference to s.
func (s *Subject) AddEntitySupplement(e EntitySupplement) {
	if s.Supplements == nil {
		s.Supplements = &Supplements{}
	}
	s.Supplements.Entities = append(s.Supplements.Entities, e)
}

// SetBiomeSupplement attaches a biome requirement to s.
func (s *Subject) SetBiomeSupplement(biome string) {
	if s.Supplements == nil {
		s.Supplements = &Supplements{}
	}
	s.Supplements.Biome = biome
}
