package validation

import (
	"strings"
	"testing"

	"portfolio/internal/models"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func TestValidatePostCreate(t *testing.T) {
	tests := []struct {
		name    string
		fields  models.PostFields
		wantErr string
	}{
		{"minimal", models.PostFields{Title: ptr("Robot")}, ""},
		{"full", models.PostFields{
			Title:            ptr("Robot"),
			ShortDescription: ptr("A robot"),
			LongDescription:  ptr(strings.Repeat("x", 5000)),
			Link:             ptr("https://example.com/robot"),
			LinkText:         ptr("See it"),
			PictureURI:       ptr("https://cdn.example.com/robot.png"),
		}, ""},
		{"empty link allowed", models.PostFields{Title: ptr("Robot"), Link: ptr("")}, ""},
		{"empty picture allowed", models.PostFields{Title: ptr("Robot"), PictureURI: ptr("")}, ""},
		{"blank link and picture allowed", models.PostFields{Title: ptr("Robot"), Link: ptr("  "), PictureURI: ptr(" ")}, ""},
		{"missing title", models.PostFields{Link: ptr("https://example.com")}, "title is required"},
		{"blank title", models.PostFields{Title: ptr("   ")}, "title is required"},
		{"bad link", models.PostFields{Title: ptr("Robot"), Link: ptr("not a url")}, "link must be a valid URL"},
		{"long title", models.PostFields{Title: ptr(strings.Repeat("t", 256))}, "title must be at most 255 characters"},
		{"two errors", models.PostFields{
			Title:    ptr("Robot"),
			Link:     ptr("nope"),
			LinkText: ptr(strings.Repeat("l", 300)),
		}, "link must be a valid URL; link_text must be at most 255 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePostCreate(tt.fields)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestValidatePostUpdate(t *testing.T) {
	assert.EqualError(t, ValidatePostUpdate(models.PostFields{}), "post must include at least one field")
	assert.NoError(t, ValidatePostUpdate(models.PostFields{LinkText: ptr("Docs")}))
	assert.NoError(t, ValidatePostUpdate(models.PostFields{Link: ptr("")}))
	assert.NoError(t, ValidatePostUpdate(models.PostFields{PictureURI: ptr("")}))
	assert.EqualError(t, ValidatePostUpdate(models.PostFields{Link: ptr("ftp//x")}), "link must be a valid URL")
	assert.EqualError(t, ValidatePostUpdate(models.PostFields{Title: ptr("")}), "title cannot be blank")
	assert.EqualError(t, ValidatePostUpdate(models.PostFields{PictureURI: ptr("::")}), "picture_uri must be a valid URL")
}

func TestValidateUpload(t *testing.T) {
	assert.NoError(t, ValidateUpload("aGVsbG8=", "a.png"))
	assert.Error(t, ValidateUpload("", "a.png"))
	assert.Error(t, ValidateUpload("aGVsbG8=", " "))
	assert.Error(t, ValidateUpload("aGVsbG8=", strings.Repeat("f", 256)+".png"))
}
