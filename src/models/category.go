package models

import "bts/src/types"

type Category struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	Name        string `gorm:"size:128" json:"name"`
	Slug        string `gorm:"uniqueIndex;size:160" json:"slug"`
	Description string `json:"description,omitempty"`

	Events []Event `gorm:"foreignKey:CategoryID" json:"events,omitempty"`

	types.Timestamps
}
