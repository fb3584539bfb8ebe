package storage

import (
	"crypto/rand"
	"encoding/hex"
	"path"
	"strings"
	"time"
)

// timestampLayout matches an ISO-8601 UTC timestamp with milliseconds.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// SanitizeFilename reduces a client-supplied name to its base name.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	base := path.Base(name)
	if base == "." || base == "/" || base == "" {
		return "image"
	}
	return base
}

// BuildKey returns "{prefix}/{4 hex}_{UTC timestamp}_{filename}". The random part keeps
// keys unique when the same filename is uploaded within the same millisecond.
func BuildKey(prefix, filename string, now time.Time) (string, error) {
	var b [2]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	name := hex.EncodeToString(b[:]) + "_" + now.UTC().Format(timestampLayout) + "_" + SanitizeFilename(filename)
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name, nil
	}
	return prefix + "/" + name, nil
}

// ContentTypeFor returns image/png for .png files and image/jpeg for everything else.
func ContentTypeFor(filename string) string {
	if strings.EqualFold(path.Ext(SanitizeFilename(filename)), ".png") {
		return "image/png"
	}
	return "image/jpeg"
}
