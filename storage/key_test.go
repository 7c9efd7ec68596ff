package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// small valid PNG header so content sniffing has something to work with
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestObjectKeyKeepsKnownExtension(t *testing.T) {
	key := ObjectKey("photo.PNG", nil)
	assert.True(t, strings.HasSuffix(key, ".png"), "got %q", key)
}

func TestObjectKeySanitizesExtension(t *testing.T) {
	key := ObjectKey("weird.J P—G", pngBytes)
	for _, r := range key {
		ok := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' || r == '-'
		assert.True(t, ok, "unsafe rune %q in key %q", r, key)
	}
}

func TestObjectKeySniffsUnrecognizedExtension(t *testing.T) {
	key := ObjectKey("export.bin", pngBytes)
	assert.True(t, strings.HasSuffix(key, ".png"), "got %q", key)
}

func TestObjectKeyDefaultsToJPG(t *testing.T) {
	key := ObjectKey("mystery", []byte("definitely not an image"))
	assert.True(t, strings.HasSuffix(key, ".jpg"), "got %q", key)
}

func TestObjectKeyCollisionResistance(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		key := ObjectKey("a.jpg", nil)
		assert.False(t, seen[key], "duplicate key %q", key)
		seen[key] = true
	}
}
