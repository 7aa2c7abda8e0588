package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	t.Run("keeps plain names", func(t *testing.T) {
		name, err := SanitizeFilename("sunset.jpg")
		require.NoError(t, err)
		assert.Equal(t, "sunset.jpg", name)
	})

	t.Run("replaces path separators", func(t *testing.T) {
		name, err := SanitizeFilename(`../../etc/passwd`)
		require.NoError(t, err)
		assert.NotContains(t, name, "/")
		assert.NotContains(t, name, `\`)
	})

	t.Run("strips control characters", func(t *testing.T) {
		name, err := SanitizeFilename("pho\x01to​.png")
		require.NoError(t, err)
		assert.Equal(t, "photo.png", name)
	})

	t.Run("rejects empty and dot names", func(t *testing.T) {
		for _, in := range []string{"", "   ", ".", ".."} {
			_, err := SanitizeFilename(in)
			assert.Error(t, err, "input %q", in)
		}
	})

	t.Run("rejects null bytes", func(t *testing.T) {
		_, err := SanitizeFilename("a\x00b.jpg")
		assert.Error(t, err)
	})

	t.Run("truncates very long names", func(t *testing.T) {
		name, err := SanitizeFilename(strings.Repeat("я", 300) + ".jpg")
		require.NoError(t, err)
		assert.LessOrEqual(t, len([]rune(name)), 255)
	})
}
