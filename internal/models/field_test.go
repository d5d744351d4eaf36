package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_Presence(t *testing.T) {
	var body struct {
		Title       Field[string] `json:"title"`
		Description Field[string] `json:"description"`
		IsPublished Field[bool]   `json:"is_published"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Hello","description":null}`), &body))

	assert.True(t, body.Title.Set)
	assert.False(t, body.Title.Null)
	assert.Equal(t, "Hello", body.Title.Value)
	assert.Equal(t, "Hello", *body.Title.Ptr())

	assert.True(t, body.Description.Set)
	assert.True(t, body.Description.Null)
	assert.Nil(t, body.Description.Ptr())

	assert.False(t, body.IsPublished.Set)
}

func TestField_TypeMismatch(t *testing.T) {
	var body struct {
		Order Field[int] `json:"order"`
	}
	err := json.Unmarshal([]byte(`{"order":"first"}`), &body)
	assert.Error(t, err)
}

func TestSectionType_Valid(t *testing.T) {
	assert.True(t, SectionHero.Valid())
	assert.True(t, SectionType("custom").Valid())
	assert.False(t, SectionType("footer").Valid())
	assert.False(t, SectionType("").Valid())
}
