package models

import "bts/src/types"

type Notification struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	UserID  uint   `json:"userId"`
	Type    string `gorm:"size:32" json:"type"`
	Title   string `json:"title"`
	Content string `json:"content,omitempty"`
	IsRead  bool   `json:"isRead"`

	types.Timestamps
}
