package model

import "time"

type Singer struct {
	BaseModel
	Name         string `gorm:"type:varchar(128);not null;index"`
	Gender       string `gorm:"type:varchar(16)"`
	Region       string `gorm:"type:varchar(64)"`
	Introduction string `gorm:"type:text"`

	Albums []Album `gorm:"foreignKey:SingerID"`
}

type Album struct {
	BaseModel
	Title       string `gorm:"type:varchar(255);not null;index"`
	SingerID    uint64 `gorm:"not null;index"`
	ReleaseDate *time.Time
	CoverURL    string `gorm:"type:varchar(255)"`

	Singer Singer `gorm:"foreignKey:SingerID"`
	Songs  []Song `gorm:"foreignKey:AlbumID"`
}

type Song struct {
	BaseModel
	Title     string  `gorm:"type:varchar(255);not null;index"`
	SingerID  uint64  `gorm:"not null;index"`
	AlbumID   *uint64 `gorm:"index"`
	Duration  uint32  `gorm:"not null;default:0"` // 秒
	FileURL   string  `gorm:"type:varchar(255)"`
	PlayCount uint64  `gorm:"not null;default:0"`

	Singer Singer `gorm:"foreignKey:SingerID"`
}
