package dto

import (
	"ShengHang/internal/model"
	"time"
)

// UserInfo 是在DTO中使用的、简化的用户信息
type UserInfo struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

type CommentResponse struct {
	ID         uint64           `json:"id"`
	TargetType model.TargetType `json:"target_type"`
	TargetID   uint64           `json:"target_id"`
	ParentID   *uint64          `json:"parent_id"`
	Content    string           `json:"content"`
	Status     string           `json:"status"`
	LikeCount  uint64           `json:"like_count"`
	CreatedAt  time.Time        `json:"created_at"`
	Author     UserInfo         `json:"author"`
}

// CommentDetailResponse 评论本身加上它的直接回复
type CommentDetailResponse struct {
	CommentResponse
	Replies []CommentResponse `json:"replies"`
}

type CommentStatsResponse struct {
	Count   int64            `json:"count"`
	Hottest *CommentResponse `json:"hottest_comment"`
}

func ToCommentResponse(comment *model.Comment) CommentResponse {
	resp := CommentResponse{
		ID:         comment.ID,
		TargetType: comment.TargetType,
		TargetID:   comment.TargetID,
		ParentID:   comment.ParentID,
		Content:    comment.Content,
		Status:     string(comment.Status),
		LikeCount:  comment.LikeCount,
		CreatedAt:  comment.CreatedAt,
		Author:     UserInfo{ID: comment.UserID},
	}
	// 检查User是否被成功preload
	if comment.User.ID != 0 {
		resp.Author.Username = comment.User.Username
	}
	return resp
}

func ToCommentResponses(comments []model.Comment) []CommentResponse {
	// 创建一个有预估容量的切片
	response := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		response = append(response, ToCommentResponse(&comments[i]))
	}
	return response
}

func ToCommentDetailResponse(root *model.Comment, replies []model.Comment) CommentDetailResponse {
	return CommentDetailResponse{
		CommentResponse: ToCommentResponse(root),
		Replies:         ToCommentResponses(replies),
	}
}

func ToCommentStatsResponse(count int64, hottest *model.Comment) CommentStatsResponse {
	resp := CommentStatsResponse{Count: count}
	if hottest != nil {
		h := ToCommentResponse(hottest)
		resp.Hottest = &h
	}
	return resp
}
