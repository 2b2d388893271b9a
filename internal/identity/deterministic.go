package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// ContentHash computes the deterministic hash recorded on every content
// version. The hash is a pure function of the payload bytes: identical
// payloads hash identically regardless of which content item they belong to.
// Normalization is deliberately disabled so payloads differing only in case
// or surrounding whitespace remain distinguishable.
func ContentHash(data string) string {
	uid, err := hashid.NewUUID(data, hashid.WithHashAlgorithm(hashid.SHA256))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(data)).String()
	}
	return uid.String()
}

// ReviewerUUID derives a stable reviewer identity for the no-op review
// workflow adapter so tests see deterministic assignments.
func ReviewerUUID(contentID uuid.UUID) uuid.UUID {
	return UUID("lifecycle:reviewer:" + contentID.String())
}
