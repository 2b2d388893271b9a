package domain

import "strings"

// ChangeType classifies why a new content version was minted. The version
// numbering rules in VersionNumber.Bump switch exhaustively over this set, so
// adding a change type forces every numbering and transition site to handle it.
type ChangeType string

const (
	// ChangeTypeCreated is reserved for the first version of a content item
	ChangeTypeCreated ChangeType = "created"
	// ChangeTypeUpdated covers ordinary content edits
	ChangeTypeUpdated ChangeType = "updated"
	// ChangeTypeRepurposed marks a major rework for a new channel or audience
	ChangeTypeRepurposed ChangeType = "repurposed"
	// ChangeTypeFormatted covers formatting-only adjustments
	ChangeTypeFormatted ChangeType = "formatted"
	// ChangeTypeRolledBack marks a version minted by copying an older payload forward
	ChangeTypeRolledBack ChangeType = "rolled_back"
	// ChangeTypeMerged marks a version produced by a branch merge
	ChangeTypeMerged ChangeType = "merged"
)

// Valid reports whether the change type belongs to the closed set.
func (c ChangeType) Valid() bool {
	switch c {
	case ChangeTypeCreated, ChangeTypeUpdated, ChangeTypeRepurposed,
		ChangeTypeFormatted, ChangeTypeRolledBack, ChangeTypeMerged:
		return true
	default:
		return false
	}
}

// NormalizeChangeType coerces arbitrary change type strings into the canonical
// representation, defaulting to ChangeTypeUpdated when empty.
func NormalizeChangeType(input string) ChangeType {
	if strings.TrimSpace(input) == "" {
		return ChangeTypeUpdated
	}
	return ChangeType(strings.ToLower(strings.TrimSpace(input)))
}
