package diffing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-content-lifecycle/internal/versioning"
	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"
)

// ChangeKind classifies a single structural edit between two versions.
type ChangeKind string

const (
	ChangeInsert  ChangeKind = "insert"
	ChangeDelete  ChangeKind = "delete"
	ChangeReplace ChangeKind = "replace"
)

// ContentChange is one ordered line-level edit. Line ranges are half-open
// zero-based offsets into the respective payloads.
type ContentChange struct {
	Kind      ChangeKind `json:"kind"`
	FromStart int        `json:"from_start"`
	FromEnd   int        `json:"from_end"`
	ToStart   int        `json:"to_start"`
	ToEnd     int        `json:"to_end"`
	Removed   []string   `json:"removed,omitempty"`
	Added     []string   `json:"added,omitempty"`
}

// VersionDiff is the structural comparison of two versions. ChangeSummary
// starts with "Changes:" whenever ContentChanges is non-empty, so callers can
// detect the presence of changes from the summary alone.
type VersionDiff struct {
	FromVersionID  uuid.UUID       `json:"from_version_id"`
	ToVersionID    uuid.UUID       `json:"to_version_id"`
	ContentChanges []ContentChange `json:"content_changes"`
	ChangeSummary  string          `json:"change_summary"`
}

// NoChangesSummary is the summary used when two payloads are identical.
const NoChangesSummary = "No changes detected"

var ErrVersionIDRequired = errors.New("diffing: both version ids are required")

// Service compares stored versions.
type Service interface {
	CompareVersions(ctx context.Context, fromVersionID, toVersionID uuid.UUID) (*VersionDiff, error)
}

type service struct {
	versions versioning.VersionRepository
}

// NewService constructs a diff engine over the version repository.
func NewService(versions versioning.VersionRepository) Service {
	return &service{versions: versions}
}

// CompareVersions produces an ordered, reproducible line-level diff between
// two versions.
func (s *service) CompareVersions(ctx context.Context, fromVersionID, toVersionID uuid.UUID) (*VersionDiff, error) {
	if fromVersionID == uuid.Nil || toVersionID == uuid.Nil {
		return nil, ErrVersionIDRequired
	}

	from, err := s.versions.GetByID(ctx, fromVersionID)
	if err != nil {
		return nil, err
	}
	to, err := s.versions.GetByID(ctx, toVersionID)
	if err != nil {
		return nil, err
	}

	changes := Diff(from.ContentData, to.ContentData)

	return &VersionDiff{
		FromVersionID:  from.ID,
		ToVersionID:    to.ID,
		ContentChanges: changes,
		ChangeSummary:  Summarize(changes),
	}, nil
}

// Diff computes the ordered line-level edits turning a into b.
func Diff(a, b string) []ContentChange {
	fromLines := difflib.SplitLines(a)
	toLines := difflib.SplitLines(b)

	matcher := difflib.NewMatcher(fromLines, toLines)
	var changes []ContentChange
	for _, op := range matcher.GetOpCodes() {
		var kind ChangeKind
		switch op.Tag {
		case 'i':
			kind = ChangeInsert
		case 'd':
			kind = ChangeDelete
		case 'r':
			kind = ChangeReplace
		default:
			continue
		}
		changes = append(changes, ContentChange{
			Kind:      kind,
			FromStart: op.I1,
			FromEnd:   op.I2,
			ToStart:   op.J1,
			ToEnd:     op.J2,
			Removed:   trimLines(fromLines[op.I1:op.I2]),
			Added:     trimLines(toLines[op.J1:op.J2]),
		})
	}
	return changes
}

// Summarize renders a short human-readable change summary. The "Changes:"
// prefix is the programmatic signal that edits exist.
func Summarize(changes []ContentChange) string {
	if len(changes) == 0 {
		return NoChangesSummary
	}

	var insertions, deletions, replacements int
	for _, change := range changes {
		switch change.Kind {
		case ChangeInsert:
			insertions += change.ToEnd - change.ToStart
		case ChangeDelete:
			deletions += change.FromEnd - change.FromStart
		case ChangeReplace:
			replacements += max(change.FromEnd-change.FromStart, change.ToEnd-change.ToStart)
		}
	}

	parts := make([]string, 0, 3)
	if insertions > 0 {
		parts = append(parts, fmt.Sprintf("%d line(s) inserted", insertions))
	}
	if deletions > 0 {
		parts = append(parts, fmt.Sprintf("%d line(s) deleted", deletions))
	}
	if replacements > 0 {
		parts = append(parts, fmt.Sprintf("%d line(s) replaced", replacements))
	}
	return "Changes: " + strings.Join(parts, ", ")
}

func trimLines(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = strings.TrimSuffix(line, "\n")
	}
	return out
}
