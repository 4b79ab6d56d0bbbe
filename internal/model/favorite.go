package model

import "time"

// 收藏关系，uniqueIndex利用的是数据库的“自动查重”能力，并发的重复收藏只会有一个成功
type Favorite struct {
	ID         uint64     `gorm:"primarykey"`
	UserID     uint64     `gorm:"not null;uniqueIndex:idx_user_target"`
	TargetType TargetType `gorm:"type:varchar(16);not null;uniqueIndex:idx_user_target;index:idx_favorite_target,priority:1"`
	TargetID   uint64     `gorm:"not null;uniqueIndex:idx_user_target;index:idx_favorite_target,priority:2"`
	CreatedAt  time.Time
}

func (Favorite) TableName() string {
	return "favorites"
}
