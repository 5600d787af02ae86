package models

import (
	"bts/src/types"
	"time"
)

type User struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	Username      string     `gorm:"uniqueIndex;size:64" json:"username"`
	PasswordHash  string     `json:"-"`
	FullName      string     `json:"fullName,omitempty"`
	Email         string     `json:"email,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	BirthDate     *time.Time `json:"birthDate,omitempty"`
	Gender        string     `json:"gender,omitempty"`
	AvatarURL     string     `json:"avatarUrl,omitempty"`
	AddressLine   string     `json:"addressLine,omitempty"`
	ProvinceName  string     `json:"provinceName,omitempty"`
	DistrictName  string     `json:"districtName,omitempty"`
	WardName      string     `json:"wardName,omitempty"`
	EmailVerified bool       `json:"emailVerified,omitempty"`
	PhoneVerified bool       `json:"phoneVerified,omitempty"`
	Role          types.Role `gorm:"size:16;default:'User'" json:"role,omitempty"`

	Orders  []Order      `gorm:"foreignKey:UserID" json:"orders,omitempty"`
	Devices []UserDevice `gorm:"foreignKey:UserID" json:"devices,omitempty"`

	types.Timestamps
}

type UserDevice struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	UserID     uint   `json:"userId"`
	FcmToken   string `json:"fcmToken"`
	DeviceInfo string `json:"deviceInfo,omitempty"`

	types.Timestamps
}
