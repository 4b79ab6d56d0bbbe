package handler

import (
	"net/http"

	"ShengHang/internal/dto"
	"ShengHang/internal/middleware"
	"ShengHang/internal/service"
	"ShengHang/pkg/logger"

	"github.com/gin-gonic/gin"
)

type FollowHandler interface {
	FollowUser(c *gin.Context)
	UnfollowUser(c *gin.Context)
	FollowSinger(c *gin.Context)
	UnfollowSinger(c *gin.Context)
	GetFollowers(c *gin.Context)
	GetFollowings(c *gin.Context)
	GetFollowedSingers(c *gin.Context)
}

type followHandler struct {
	FollowService service.FollowService
}

func NewFollowHandler(followService service.FollowService) FollowHandler {
	return &followHandler{FollowService: followService}
}

func (h *followHandler) FollowUser(c *gin.Context) {
	targetID, ok := parseIDParam(c, "user_id", "无效的用户ID")
	if !ok {
		return
	}
	userID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", userID).WithField("target_user_id", targetID)
	if err := h.FollowService.FollowUser(userID, targetID); err != nil {
		sendServiceError(c, logCtx, err, "关注用户")
		return
	}
	logCtx.Info("关注成功")
	c.JSON(http.StatusCreated, gin.H{"message": "关注成功"})
}

func (h *followHandler) UnfollowUser(c *gin.Context) {
	targetID, ok := parseIDParam(c, "user_id", "无效的用户ID")
	if !ok {
		return
	}
	userID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", userID).WithField("target_user_id", targetID)
	if err := h.FollowService.UnfollowUser(userID, targetID); err != nil {
		sendServiceError(c, logCtx, err, "取消关注")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已取消关注"})
}

func (h *followHandler) FollowSinger(c *gin.Context) {
	singerID, ok := parseIDParam(c, "singer_id", "无效的歌手ID")
	if !ok {
		return
	}
	userID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", userID).WithField("singer_id", singerID)
	if err := h.FollowService.FollowSinger(userID, singerID); err != nil {
		sendServiceError(c, logCtx, err, "关注歌手")
		return
	}
	logCtx.Info("关注歌手成功")
	c.JSON(http.StatusCreated, gin.H{"message": "关注成功"})
}

func (h *followHandler) UnfollowSinger(c *gin.Context) {
	singerID, ok := parseIDParam(c, "singer_id", "无效的歌手ID")
	if !ok {
		return
	}
	userID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", userID).WithField("singer_id", singerID)
	if err := h.FollowService.UnfollowSinger(userID, singerID); err != nil {
		sendServiceError(c, logCtx, err, "取消关注歌手")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已取消关注"})
}

func (h *followHandler) GetFollowers(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id", "无效的用户ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("target_user_id", userID)
	users, err := h.FollowService.Followers(userID)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取粉丝列表")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "获取粉丝列表成功",
		"data":    dto.ToUserInfos(users),
	})
}

func (h *followHandler) GetFollowings(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id", "无效的用户ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("target_user_id", userID)
	users, err := h.FollowService.Followings(userID)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取关注列表")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "获取关注列表成功",
		"data":    dto.ToUserInfos(users),
	})
}

func (h *followHandler) GetFollowedSingers(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id", "无效的用户ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("target_user_id", userID)
	singers, err := h.FollowService.FollowedSingers(userID)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取关注歌手列表")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "获取关注歌手列表成功",
		"data":    dto.ToSingerInfos(singers),
	})
}
