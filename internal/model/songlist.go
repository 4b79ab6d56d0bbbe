package model

import "time"

const DefaultSonglistCover = "/images/default_songlist_cover.jpg"

// 歌单。IsPublic不写gorm的default，否则Create时false会被当成零值替换成默认值
type Songlist struct {
	BaseModel
	UserID      uint64  `gorm:"not null;index"` // 所有者
	Title       string  `gorm:"type:varchar(255);not null"`
	Description *string `gorm:"type:text"`
	CoverURL    string  `gorm:"type:varchar(255);not null"`
	IsPublic    bool    `gorm:"not null"`
	LikeCount   uint64  `gorm:"not null;default:0"`

	User User `gorm:"foreignKey:UserID"`
}

// 歌单成员行，(songlist_id, song_id) 唯一
type SonglistSong struct {
	ID         uint64    `gorm:"primarykey"`
	SonglistID uint64    `gorm:"not null;uniqueIndex:idx_songlist_song"`
	SongID     uint64    `gorm:"not null;uniqueIndex:idx_songlist_song;index"`
	AddedAt    time.Time `gorm:"not null"`
}

func (SonglistSong) TableName() string {
	return "songlist_songs"
}
