package media

import (
	"bytes"
	"context"
	"image"
	"testing"

	"golang.org/x/image/webp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeThumbnail(t *testing.T) {
	t.Run("landscape scales to max width", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 1600, 800))

		data, err := EncodeThumbnail(src, 320)
		require.NoError(t, err)

		thumb, err := webp.Decode(bytes.NewReader(data))
		require.NoError(t, err)

		bounds := thumb.Bounds()
		assert.Equal(t, 320, bounds.Dx())
		assert.Equal(t, 160, bounds.Dy())
	})

	t.Run("portrait scales to max height", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 400, 800))

		data, err := EncodeThumbnail(src, 320)
		require.NoError(t, err)

		thumb, err := webp.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 320, thumb.Bounds().Dy())
		assert.Equal(t, 160, thumb.Bounds().Dx())
	})

	t.Run("small images are not upscaled", func(t *testing.T) {
		src := image.NewRGBA(image.Rect(0, 0, 100, 50))

		data, err := EncodeThumbnail(src, 320)
		require.NoError(t, err)

		thumb, err := webp.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 100, thumb.Bounds().Dx())
		assert.Equal(t, 50, thumb.Bounds().Dy())
	})
}

func TestThumbnailKey(t *testing.T) {
	assert.Equal(t, "therapy/t-1/123_thumb.webp", thumbnailKey("therapy/t-1/123.png"))
	assert.Equal(t, "noext_thumb.webp", thumbnailKey("noext"))
}

func TestPresignUploadRejectsUnknownType(t *testing.T) {
	// The allowlist check runs before any signing, so no client is needed.
	s := &Service{}
	_, err := s.PresignUpload(context.Background(), "therapy", "t-1", "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestAllowedTypes(t *testing.T) {
	assert.Equal(t, "jpeg", AllowedTypes["image/jpeg"])
	assert.Equal(t, "png", AllowedTypes["image/png"])
	_, ok := AllowedTypes["application/pdf"]
	assert.False(t, ok)
}
