package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyOwner(t *testing.T) {
	owner, ok := keyOwner(uploadKey("avatars", "u1", "1-ab.png"))
	assert.True(t, ok)
	assert.Equal(t, "u1", owner)

	for _, key := range []string{"avatars/1-ab.png", "avatars//1-ab.png", "a/b/c/d.png", ""} {
		_, ok := keyOwner(key)
		assert.False(t, ok, key)
	}
}

func TestCollectStrings(t *testing.T) {
	got := collectStrings(nil, map[string]any{
		"images": []any{map[string]any{"url": "a"}, "b", 3.0, nil},
		"empty":  "",
		"flag":   true,
	})
	assert.ElementsMatch(t, []string{"a", "b"}, got)
}

func TestAssets_NilIsNoop(t *testing.T) {
	var a *Assets
	assert.Nil(t, a.ownedKeys("u1", []string{cdnBase + "uploads/u1/x.png"}))
	urls, err := a.referencedURLs(context.Background(), "u1")
	assert.NoError(t, err)
	assert.Nil(t, urls)
}
