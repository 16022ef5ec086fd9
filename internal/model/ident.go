// Package model holds the data shapes shared across the advancement-tracking
// pipeline: identifiers, the advancement catalog, subjects, players, and the
// top-level in-memory state.
package model

import "strings"

// DefaultNamespace is the implicit namespace for a bare "path" identifier.
const DefaultNamespace = "minecraft"

// StripNamespace removes a leading "minecraft:" from an identifier, leaving
// any other namespace (e.g. "mypack:foo") untouched. Idempotent.
func StripNamespace(id string) string {
	return strings.TrimPrefix(id, DefaultNamespace+":")
}

// Namespace returns the namespace portion of a dotted/slashed identifier,
// defaulting to "minecraft" when the id carries no namespace prefix.
func Namespace(id string) string {
	if ns, _, ok := strings.Cut(id, ":"); ok {
		return ns
	}
	return DefaultNamespace
}

// IsTagReference reports whether id is a "#"-prefixed tag reference.
func IsTagReference(id string) bool {
	return strings.HasPrefix(id, "#")
}

// StripTagMarker removes a leading "#" if present.
func StripTagMarker(id string) string {
	return strings.TrimPrefix(id, "#")
}
