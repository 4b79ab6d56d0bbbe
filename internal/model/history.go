package model

import "time"

type PlayHistory struct {
	ID           uint64    `gorm:"primarykey"`
	UserID       uint64    `gorm:"not null;index:idx_history_user_time,priority:1"`
	SongID       uint64    `gorm:"not null;index"`
	PlayDuration uint32    `gorm:"not null;default:0"` // 本次播放了多少秒
	PlayedAt     time.Time `gorm:"not null;index:idx_history_user_time,priority:2"`

	Song Song `gorm:"foreignKey:SongID"`
}

func (PlayHistory) TableName() string {
	return "play_histories"
}
