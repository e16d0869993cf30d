package model

import "time"

type Language struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Code      string    `gorm:"not null;uniqueIndex;size:10" json:"code"`
	Name      string    `gorm:"not null;size:100" json:"name"`
	Flag      string    `gorm:"not null;size:10" json:"flag"`
	IsActive  bool      `gorm:"not null;default:true" json:"isActive"`
	AddedBy   string    `gorm:"size:36" json:"addedBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Language) TableName() string {
	return "languages"
}

// ProtectedLanguageCode can be neither deleted nor deactivated.
const ProtectedLanguageCode = "en"

// DefaultLanguages seed an empty registry.
var DefaultLanguages = []Language{
	{Code: "en", Name: "English", Flag: "us", IsActive: true},
	{Code: "de", Name: "German", Flag: "de", IsActive: true},
	{Code: "fr", Name: "French", Flag: "fr", IsActive: true},
	{Code: "es", Name: "Spanish", Flag: "es", IsActive: true},
	{Code: "it", Name: "Italian", Flag: "it", IsActive: true},
	{Code: "pt", Name: "Portuguese", Flag: "pt", IsActive: true},
	{Code: "ja", Name: "Japanese", Flag: "jp", IsActive: true},
	{Code: "ko", Name: "Korean", Flag: "kr", IsActive: true},
	{Code: "zh", Name: "Chinese", Flag: "cn", IsActive: true},
	{Code: "vi", Name: "Vietnamese", Flag: "vn", IsActive: true},
}
