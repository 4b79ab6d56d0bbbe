package model

import "time"

type CommentStatus string

const (
	CommentNormal      CommentStatus = "normal"
	CommentUnderReview CommentStatus = "under_review" // 预留给外部审核流程，核心逻辑不会迁入或迁出
	CommentReported    CommentStatus = "reported"
)

// 评论表：所有评论放在一张表里，回复通过ParentID指向父评论，构成一棵没有深度限制的树
type Comment struct {
	ID         uint64     `gorm:"primarykey"`
	UserID     uint64     `gorm:"not null;index"`
	TargetType TargetType `gorm:"type:varchar(16);not null;index:idx_comment_target,priority:1"`
	TargetID   uint64     `gorm:"not null;index:idx_comment_target,priority:2"`
	// TEXT是MySQL中的一种文本类型，专门用于存储非常长的字符串
	Content string `gorm:"type:text;not null"`
	// 指针*uint64的零值是nil，nil就是一级评论
	ParentID  *uint64       `gorm:"index"`
	Status    CommentStatus `gorm:"type:varchar(16);not null;index"`
	LikeCount uint64        `gorm:"not null;default:0"`
	CreatedAt time.Time     `gorm:"index"`

	User User `gorm:"foreignKey:UserID"`
}

func (Comment) TableName() string {
	return "comments"
}
