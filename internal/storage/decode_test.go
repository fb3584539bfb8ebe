package storage

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeImage(t *testing.T) {
	t.Run("plain base64 png", func(t *testing.T) {
		img := pngBytes(t)
		raw, err := DecodeImage(b64(img), 1<<20)
		require.NoError(t, err)
		assert.Equal(t, img, raw)
	})

	t.Run("data uri prefix is stripped", func(t *testing.T) {
		img := jpegBytes(t)
		raw, err := DecodeImage("data:image/jpeg;base64,"+b64(img), 1<<20)
		require.NoError(t, err)
		assert.Equal(t, img, raw)
	})

	t.Run("unpadded base64", func(t *testing.T) {
		data := strings.TrimRight(b64(pngBytes(t)), "=")
		_, err := DecodeImage(data, 1<<20)
		assert.NoError(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := DecodeImage("data:image/png;base64,", 1<<20)
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("not base64", func(t *testing.T) {
		_, err := DecodeImage("%%%not-base64%%%", 1<<20)
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("not an image", func(t *testing.T) {
		_, err := DecodeImage(base64.StdEncoding.EncodeToString([]byte("hello, world")), 1<<20)
		assert.ErrorIs(t, err, ErrNotImage)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := DecodeImage(b64(pngBytes(t)), 16)
		assert.ErrorIs(t, err, ErrPayloadTooLarge)
	})
}
