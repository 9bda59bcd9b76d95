package models

import (
	"time"
)

// Document is the row layout shared by the items and tags tables. The
// payload is kept verbatim as JSON.
type Document struct {
	ID    string    `json:"id" gorm:"primaryKey;type:text"`
	Body  string    `json:"document" gorm:"column:document;type:jsonb;not null"`
	CDate time.Time `json:"cdate" gorm:"->;<-:create;not null;index"`
}

type Item struct {
	Document
}

func (Item) TableName() string {
	return "items"
}

type Tag struct {
	Document
}

func (Tag) TableName() string {
	return "tags"
}

// ItemTag is one member of an item's tag set. The composite primary key
// keeps the set free of duplicates.
type ItemTag struct {
	ItemID string    `json:"itemID" gorm:"primaryKey;type:text"`
	Item   Item      `json:"-" gorm:"foreignKey:ItemID;references:ID;constraint:OnDelete:CASCADE;"`
	TagID  string    `json:"tagID" gorm:"primaryKey;type:text;index"`
	Tag    Tag       `json:"-" gorm:"foreignKey:TagID;references:ID;constraint:OnDelete:CASCADE;"`
	CDate  time.Time `json:"cdate" gorm:"->;<-:create;not null"`
}

func (ItemTag) TableName() string {
	return "item_tags"
}
