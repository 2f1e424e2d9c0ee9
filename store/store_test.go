package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseIDTreatsMalformedAsNotFound(t *testing.T) {
	for _, id := range []string{
		"ai_1700000000000abc123def",
		"not-hex",
		"",
		"12345",
	} {
		_, err := parseID(id)
		assert.ErrorIs(t, err, ErrNotFound, "id %q", id)
	}
}

func TestFindByHexIDsSkipsMalformed(t *testing.T) {
	s := NewRecipeStore(nil)
	out, err := s.FindByHexIDs(context.Background(), []string{"ai_1700000000000abc123def", "not-hex", ""})
	assert.NoError(t, err)
	assert.Empty(t, out, "no valid ids means no query and an empty map")
}

func TestParseIDAcceptsValidHex(t *testing.T) {
	oid := primitive.NewObjectID()
	parsed, err := parseID(oid.Hex())
	assert.NoError(t, err)
	assert.Equal(t, oid, parsed)
}
