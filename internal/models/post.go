// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Post is a single portfolio entry. The identifier is assigned by the backing store.
type Post struct {
	ID               string     `json:"postId"`
	Title            string     `json:"title"`
	ShortDescription string     `json:"short_description"`
	LongDescription  string     `json:"long_description"`
	Link             string     `json:"link"`
	LinkText         string     `json:"link_text"`
	PictureURI       string     `json:"picture_uri"`
	CreatedAt        time.Time  `json:"created_at"`
	ModifiedAt       *time.Time `json:"modified_at,omitempty"`
}

// PostFields carries the client-editable attributes of a post. Nil fields are
// left untouched by an edit.
type PostFields struct {
	Title            *string `json:"title" validate:"omitempty,min=1,max=255"`
	ShortDescription *string `json:"short_description" validate:"omitempty,max=1024"`
	LongDescription  *string `json:"long_description" validate:"omitempty,max=65535"`
	Link             *string `json:"link" validate:"omitempty,max=2048,url"`
	LinkText         *string `json:"link_text" validate:"omitempty,max=255"`
	PictureURI       *string `json:"picture_uri" validate:"omitempty,max=2048,uri"`
}

// Apply copies every non-nil field onto p.
func (f PostFields) Apply(p *Post) {
	if f.Title != nil {
		p.Title = *f.Title
	}
	if f.ShortDescription != nil {
		p.ShortDescription = *f.ShortDescription
	}
	if f.LongDescription != nil {
		p.LongDescription = *f.LongDescription
	}
	if f.Link != nil {
		p.Link = *f.Link
	}
	if f.LinkText != nil {
		p.LinkText = *f.LinkText
	}
	if f.PictureURI != nil {
		p.PictureURI = *f.PictureURI
	}
}

// Empty reports whether no field is set.
func (f PostFields) Empty() bool {
	return f.Title == nil && f.ShortDescription == nil && f.LongDescription == nil &&
		f.Link == nil && f.LinkText == nil && f.PictureURI == nil
}
