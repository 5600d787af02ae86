package models

import (
	"bts/src/types"
	"time"

	"github.com/shopspring/decimal"
)

type Event struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	Title       string          `gorm:"size:255" json:"title"`
	Name        string          `gorm:"size:255" json:"name,omitempty"`
	Description string          `json:"description,omitempty"`
	Location    string          `json:"location,omitempty"`
	StartTime   *time.Time      `json:"startTime,omitempty"`
	EndTime     *time.Time      `json:"endTime,omitempty"`
	BannerURL   string          `json:"bannerUrl,omitempty"`
	CategoryID  uint            `json:"categoryId,omitempty"`
	BasePrice   decimal.Decimal `gorm:"type:decimal(18,2)" json:"basePrice"`
	IsHot       bool            `json:"isHot"`
	IsNew       bool            `json:"isNew"`
	Published   bool            `json:"published"`

	Category    *Category    `json:"category,omitempty"`
	TicketTypes []TicketType `gorm:"foreignKey:EventID" json:"ticketTypes,omitempty"`
	Performers  []Performer  `gorm:"many2many:event_performers;" json:"performers,omitempty"`

	types.Timestamps
}

type Performer struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	StageName string `gorm:"size:128" json:"stageName"`
	Slug      string `gorm:"uniqueIndex;size:160" json:"slug"`
	FullName  string `json:"fullName,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Bio       string `json:"bio,omitempty"`

	types.Timestamps
}

type EventPerformer struct {
	EventID     uint   `gorm:"primaryKey" json:"eventId"`
	PerformerID uint   `gorm:"primaryKey" json:"performerId"`
	RoleNote    string `json:"roleNote,omitempty"`
}
