package storage

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"regexp"
	"strings"

	// Registered so DecodeConfig recognises the formats clients upload.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

var (
	// ErrInvalidPayload means the data field is not valid base64.
	ErrInvalidPayload = errors.New("image data is not valid base64")
	// ErrPayloadTooLarge means the decoded image exceeds the upload limit.
	ErrPayloadTooLarge = errors.New("image exceeds the upload size limit")
	// ErrNotImage means the decoded bytes are not a supported image.
	ErrNotImage = errors.New("image data is not a supported image")
)

var dataURIPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

// DecodeImage strips a data-URI prefix, decodes the base64 payload and checks that
// it is a readable image no larger than maxBytes.
func DecodeImage(data string, maxBytes int64) ([]byte, error) {
	data = dataURIPrefix.ReplaceAllString(strings.TrimSpace(data), "")
	if data == "" {
		return nil, ErrInvalidPayload
	}
	if maxBytes > 0 && int64(base64.StdEncoding.DecodedLen(len(data))) > maxBytes+2 {
		return nil, ErrPayloadTooLarge
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(data, "="))
		if err != nil {
			return nil, ErrInvalidPayload
		}
	}
	if maxBytes > 0 && int64(len(raw)) > maxBytes {
		return nil, ErrPayloadTooLarge
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotImage, err)
	}
	return raw, nil
}
