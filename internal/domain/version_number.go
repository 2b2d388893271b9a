package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrVersionNumberInvalid indicates a version number string that is not a MAJOR.MINOR.PATCH triple.
var ErrVersionNumberInvalid = errors.New("domain: invalid version number")

// VersionNumber is a semantic MAJOR.MINOR.PATCH triple. Version numbers are
// derived deterministically from the parent version and the change type, and
// are strictly increasing along any parent chain.
type VersionNumber struct {
	Major int
	Minor int
	Patch int
}

// InitialVersionNumber is the number minted for the first version of a content item.
func InitialVersionNumber() VersionNumber {
	return VersionNumber{Major: 1}
}

// ParseVersionNumber parses a MAJOR.MINOR.PATCH string.
func ParseVersionNumber(input string) (VersionNumber, error) {
	parts := strings.Split(strings.TrimSpace(input), ".")
	if len(parts) != 3 {
		return VersionNumber{}, fmt.Errorf("%w: %q", ErrVersionNumberInvalid, input)
	}
	numbers := make([]int, 3)
	for i, part := range parts {
		value, err := strconv.Atoi(part)
		if err != nil || value < 0 {
			return VersionNumber{}, fmt.Errorf("%w: %q", ErrVersionNumberInvalid, input)
		}
		numbers[i] = value
	}
	return VersionNumber{Major: numbers[0], Minor: numbers[1], Patch: numbers[2]}, nil
}

// String renders the canonical MAJOR.MINOR.PATCH form.
func (v VersionNumber) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare orders version numbers under (major, minor, patch) precedence.
// It returns -1, 0, or 1.
func (v VersionNumber) Compare(other VersionNumber) int {
	if v.Major != other.Major {
		return compareInt(v.Major, other.Major)
	}
	if v.Minor != other.Minor {
		return compareInt(v.Minor, other.Minor)
	}
	return compareInt(v.Patch, other.Patch)
}

// Bump derives the number for a child version minted with the supplied change
// type. The switch is exhaustive over ChangeType; unknown values fall through
// to a minor bump so a malformed record can never stall a lineage.
func (v VersionNumber) Bump(change ChangeType) VersionNumber {
	switch change {
	case ChangeTypeCreated:
		return InitialVersionNumber()
	case ChangeTypeRepurposed:
		return VersionNumber{Major: v.Major + 1}
	case ChangeTypeUpdated, ChangeTypeMerged:
		return VersionNumber{Major: v.Major, Minor: v.Minor + 1}
	case ChangeTypeFormatted, ChangeTypeRolledBack:
		return VersionNumber{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	default:
		return VersionNumber{Major: v.Major, Minor: v.Minor + 1}
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
