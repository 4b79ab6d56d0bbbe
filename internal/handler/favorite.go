package handler

import (
	"net/http"
	"strconv"

	"ShengHang/internal/middleware"
	"ShengHang/internal/model"
	"ShengHang/internal/service"
	"ShengHang/pkg/logger"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler interface {
	AddFavorite(c *gin.Context)
	RemoveFavorite(c *gin.Context)
	ListFavorites(c *gin.Context)
	GetMySongStats(c *gin.Context)
	GetTopFavorited(c *gin.Context)
}

type favoriteHandler struct {
	FavoriteService service.FavoriteService
	RankingService  service.RankingService
}

func NewFavoriteHandler(favoriteService service.FavoriteService, rankingService service.RankingService) FavoriteHandler {
	return &favoriteHandler{
		FavoriteService: favoriteService,
		RankingService:  rankingService,
	}
}

// target_type由service校验
type FavoriteRequest struct {
	TargetType string `json:"target_type"`
	TargetID   uint64 `json:"target_id"`
}

func (h *favoriteHandler) AddFavorite(c *gin.Context) {
	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, &req, err)
		return
	}
	userID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", userID).WithField("target_type", req.TargetType).WithField("target_id", req.TargetID)
	if err := h.FavoriteService.Add(userID, model.TargetType(req.TargetType), req.TargetID); err != nil {
		sendServiceError(c, logCtx, err, "收藏")
		return
	}
	logCtx.Info("收藏成功")
	c.JSON(http.StatusCreated, gin.H{"message": "收藏成功"})
}

func (h *favoriteHandler) RemoveFavorite(c *gin.Context) {
	var req FavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, &req, err)
		return
	}
	userID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", userID).WithField("target_type", req.TargetType).WithField("target_id", req.TargetID)
	if err := h.FavoriteService.Remove(userID, model.TargetType(req.TargetType), req.TargetID); err != nil {
		sendServiceError(c, logCtx, err, "取消收藏")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "已取消收藏"})
}

// 我的收藏：?target_type=song|album|songlist，默认song
func (h *favoriteHandler) ListFavorites(c *gin.Context) {
	userID := middleware.ActorID(c)
	targetType := model.TargetType(c.DefaultQuery("target_type", string(model.TargetSong)))
	logCtx := logger.Log.WithField("user_id", userID).WithField("target_type", targetType)
	rows, err := h.FavoriteService.List(userID, targetType)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取收藏列表")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "获取收藏列表成功",
		"data":    rows,
	})
}

func (h *favoriteHandler) GetMySongStats(c *gin.Context) {
	userID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", userID)
	stats, err := h.FavoriteService.MySongStats(userID)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取收藏统计")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "获取收藏统计成功",
		"data":    stats,
	})
}

// 收藏排行榜：?target_type=song&limit=10
func (h *favoriteHandler) GetTopFavorited(c *gin.Context) {
	targetType := model.TargetType(c.DefaultQuery("target_type", string(model.TargetSong)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultRankingLimit)))
	logCtx := logger.Log.WithField("target_type", targetType).WithField("limit", limit)
	rows, err := h.RankingService.TopFavorited(targetType, limit)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取收藏排行")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "获取收藏排行成功",
		"data":    rows,
	})
}
