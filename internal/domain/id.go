package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ID is the storage-level identifier of items and tags.
type ID = primitive.ObjectID

// NewID generates a fresh identifier. Identifiers carry a timestamp prefix,
// so sorting them yields creation order.
func NewID() ID {
	return primitive.NewObjectID()
}

// ParseID converts an external identifier into an ID.
// It fails with ErrInvalidIdentifier unless s is 24 hexadecimal characters.
func ParseID(s string) (ID, error) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, InvalidIdentifierError{Value: s}
	}
	return id, nil
}

// FormatID returns the canonical (lower-case hex) form of id.
func FormatID(id ID) string {
	return id.Hex()
}

// FormatIDs externalizes a list of identifiers.
func FormatIDs(ids []ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}

// UniqueIDs drops repeated identifiers, keeping first-seen order.
func UniqueIDs(ids []ID) []ID {
	seen := make(map[ID]struct{}, len(ids))
	out := make([]ID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
