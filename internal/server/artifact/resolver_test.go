package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveVariantsCollapseToOneURL(t *testing.T) {
	r := NewResolver("http://127.0.0.1:9000", "uploads")
	want := "http://127.0.0.1:9000/uploads/2024/pic.jpg"

	variants := []string{
		"2024/pic.jpg",
		"/2024/pic.jpg",
		"uploads/2024/pic.jpg",
		"public/uploads/2024/pic.jpg",
		"http://127.0.0.1:9000/uploads/2024/pic.jpg",
	}
	for _, ref := range variants {
		got, ok := r.Resolve(ref)
		assert.True(t, ok, ref)
		assert.Equal(t, want, got, ref)
	}
}

func TestResolveEmptyReference(t *testing.T) {
	r := NewResolver("http://127.0.0.1:9000", "uploads")

	_, ok := r.Resolve("")
	assert.False(t, ok)

	_, ok = r.Resolve("/")
	assert.False(t, ok)
}

func TestResolveIdempotent(t *testing.T) {
	r := NewResolver("http://127.0.0.1:9000/", "uploads")

	first, ok := r.Resolve("pic.jpg")
	assert.True(t, ok)
	second, ok := r.Resolve(first)
	assert.True(t, ok)
	assert.Equal(t, first, second)
}

func TestResolveGeneratedKeyRoundTrip(t *testing.T) {
	// A freshly generated key stored as-is must resolve to the exact
	// object it was uploaded under, with no segment stripped.
	r := NewResolver("http://127.0.0.1:9000", "uploads")

	key := RandomKey()
	url, ok := r.Resolve(key)
	assert.True(t, ok)
	assert.Equal(t, r.PublicURL(key), url)
	assert.Equal(t, key, r.Normalize(key))
}

func TestNormalizeStripsOnlyOneDisguise(t *testing.T) {
	r := NewResolver("http://127.0.0.1:9000", "uploads")

	// A key that legitimately starts with the bucket name after the real
	// prefix is stripped must keep it.
	assert.Equal(t, "uploads/nested.jpg", r.Normalize("uploads/uploads/nested.jpg"))
	assert.Equal(t, "other/pic.jpg", r.Normalize("other/pic.jpg"))
}
