package recipes

import (
	"encoding/json"
	"testing"

	"plateful/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestWithAuthorBuildsSubdocument(t *testing.T) {
	authorID := primitive.NewObjectID().Hex()
	recipe := models.Recipe{
		ID:        primitive.NewObjectID(),
		Title:     "Shakshuka",
		CreatedBy: authorID,
	}
	author := &models.User{Username: "alice", ProfilePicture: "/uploads/alice.jpg"}

	raw, err := json.Marshal(withAuthor(recipe, author))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	sub, ok := decoded["createdBy"].(map[string]interface{})
	require.True(t, ok, "createdBy should be an author sub-document")
	assert.Equal(t, authorID, sub["_id"])
	assert.Equal(t, "alice", sub["username"])
	assert.Equal(t, "/uploads/alice.jpg", sub["profilePicture"])
	assert.Equal(t, "Shakshuka", decoded["title"])
}

func TestWithAuthorUnknownUserKeepsID(t *testing.T) {
	authorID := primitive.NewObjectID().Hex()
	out := withAuthor(models.Recipe{Title: "Soup", CreatedBy: authorID}, nil)
	assert.Equal(t, authorID, out.CreatedBy)
}

func TestWithAuthorNoCreator(t *testing.T) {
	raw, err := json.Marshal(withAuthor(models.Recipe{Title: "Soup"}, nil))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	_, present := decoded["createdBy"]
	assert.False(t, present)
}
