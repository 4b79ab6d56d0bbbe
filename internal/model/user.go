package model

import "time"

type User struct {
	BaseModel        // 包括 ID, CreatedAt, UpdatedAt
	Username  string `gorm:"type:varchar(64);unique;not null"`
	Password  string `gorm:"not null"`
	Gender    string `gorm:"type:varchar(16)"`
	Region    string `gorm:"type:varchar(64)"`
	Email     string `gorm:"type:varchar(128)"`
	Profile   string `gorm:"type:text"`
	// 管理员是用户身上的角色标记，而不是某个写死的ID
	IsAdmin bool `gorm:"not null;default:false"`
}

// 用户关注用户，一对用户只能有一条记录
type UserFollow struct {
	ID         uint64 `gorm:"primarykey"`
	FollowerID uint64 `gorm:"not null;uniqueIndex:idx_follower_followed"`
	FollowedID uint64 `gorm:"not null;uniqueIndex:idx_follower_followed;index"`
	CreatedAt  time.Time
}

func (UserFollow) TableName() string {
	return "user_follows"
}

// 用户关注歌手
type SingerFollow struct {
	ID        uint64 `gorm:"primarykey"`
	UserID    uint64 `gorm:"not null;uniqueIndex:idx_user_singer"`
	SingerID  uint64 `gorm:"not null;uniqueIndex:idx_user_singer;index"`
	CreatedAt time.Time
}

func (SingerFollow) TableName() string {
	return "singer_follows"
}
