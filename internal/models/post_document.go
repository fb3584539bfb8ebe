package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// PostDocument is the document-store layout of a post.
type PostDocument struct {
	ID               bson.ObjectID `bson:"_id,omitempty"`
	Title            string        `bson:"title"`
	ShortDescription string        `bson:"short_description"`
	LongDescription  string        `bson:"long_description"`
	Link             string        `bson:"link"`
	LinkText         string        `bson:"link_text"`
	PictureURI       string        `bson:"picture_uri"`
	CreatedAt        time.Time     `bson:"created_at"`
	ModifiedAt       *time.Time    `bson:"modified_at,omitempty"`
}

// ToPost converts the document into the API representation.
func (d PostDocument) ToPost() Post {
	return Post{
		ID:               d.ID.Hex(),
		Title:            d.Title,
		ShortDescription: d.ShortDescription,
		LongDescription:  d.LongDescription,
		Link:             d.Link,
		LinkText:         d.LinkText,
		PictureURI:       d.PictureURI,
		CreatedAt:        d.CreatedAt.UTC(),
		ModifiedAt:       utcPtr(d.ModifiedAt),
	}
}

// NewPostDocument builds an insertable document from p.
func NewPostDocument(p *Post) PostDocument {
	return PostDocument{
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
