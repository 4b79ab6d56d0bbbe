package model

import (
	"time"
)

// gorm自带的Model里ID是uint，这里统一成uint64
// 不带DeletedAt：评论、歌单、收藏的删除都是物理删除，级联由事务显式完成
type BaseModel struct {
	ID        uint64 `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
