package models

import (
	"strconv"
	"time"
)

// PostRecord is the relational row layout of a post.
type PostRecord struct {
	ID               uint64     `gorm:"column:id;primaryKey;autoIncrement"`
	Title            string     `gorm:"column:title;size:255;not null"`
	ShortDescription string     `gorm:"column:short_description;size:1024"`
	LongDescription  string     `gorm:"column:long_description;type:text"`
	Link             string     `gorm:"column:link;size:2048"`
	LinkText         string     `gorm:"column:link_text;size:255"`
	PictureURI       string     `gorm:"column:picture_uri;size:2048"`
	CreatedAt        time.Time  `gorm:"column:created_at;not null;index"`
	ModifiedAt       *time.Time `gorm:"column:modified_at"`
}

// ToPost converts the row into the API representation.
func (r PostRecord) ToPost() Post {
	return Post{
		ID:               strconv.FormatUint(r.ID, 10),
		Title:            r.Title,
		ShortDescription: r.ShortDescription,
		LongDescription:  r.LongDescription,
		Link:             r.Link,
		LinkText:         r.LinkText,
		PictureURI:       r.PictureURI,
		CreatedAt:        r.CreatedAt.UTC(),
		ModifiedAt:       utcPtr(r.ModifiedAt),
	}
}

// NewPostRecord builds an insertable row from p. The identifier is left for the store to assign.
func NewPostRecord(p *Post) PostRecord {
	return PostRecord{
		Title:            p.Title,
		ShortDescription: p.ShortDescription,
		LongDescription:  p.LongDescription,
		Link:             p.Link,
		LinkText:         p.LinkText,
		PictureURI:       p.PictureURI,
		CreatedAt:        p.CreatedAt.UTC(),
		ModifiedAt:       utcPtr(p.ModifiedAt),
	}
}

// Columns returns the column assignments for the non-nil fields.
func (f PostFields) Columns() map[string]any {
	cols := make(map[string]any, 6)
	if f.Title != nil {
		cols["title"] = *f.Title
	}
	if f.ShortDescription != nil {
		cols["short_description"] = *f.ShortDescription
	}
	if f.LongDescription != nil {
		cols["long_description"] = *f.LongDescription
	}
	if f.Link != nil {
		cols["link"] = *f.Link
	}
	if f.LinkText != nil {
		cols["link_text"] = *f.LinkText
	}
	if f.PictureURI != nil {
		cols["picture_uri"] = *f.PictureURI
	}
	return cols
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
