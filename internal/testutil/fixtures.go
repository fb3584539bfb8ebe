// Package testutil provides shared test doubles and fixtures for package tests.
package testutil

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
)

func tinyImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 1, color.RGBA{B: 255, A: 255})
	return img
}

// PNGBytes returns a valid 2x2 PNG image.
func PNGBytes() []byte {
	var buf bytes.Buffer
	if err := png.Encode(&buf, tinyImage()); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// JPEGBytes returns a valid 2x2 JPEG image.
func JPEGBytes() []byte {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, tinyImage(), nil); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// PNGBase64 returns PNGBytes as standard base64 without a data-URI prefix.
func PNGBase64() string {
	return base64.StdEncoding.EncodeToString(PNGBytes())
}

// JPEGDataURI returns JPEGBytes as a data URI, the way browsers produce it.
func JPEGDataURI() string {
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(JPEGBytes())
}
