package handler

import (
	"net/http"
	"strconv"

	"ShengHang/internal/dto"
	"ShengHang/internal/middleware"
	"ShengHang/internal/service"
	"ShengHang/pkg/logger"

	"github.com/gin-gonic/gin"
)

type HistoryHandler interface {
	RecordPlay(c *gin.Context)
	GetMyHistory(c *gin.Context)
	GetMyStats(c *gin.Context)
	GetMyTopSongs(c *gin.Context)
}

type historyHandler struct {
	HistoryService service.HistoryService
}

func NewHistoryHandler(historyService service.HistoryService) HistoryHandler {
	return &historyHandler{HistoryService: historyService}
}

type RecordPlayRequest struct {
	SongID       uint64 `json:"song_id" binding:"required"`
	PlayDuration int    `json:"play_duration"`
}

// 播放上报只投递到队列，由consumer异步落库
func (h *historyHandler) RecordPlay(c *gin.Context) {
	var req RecordPlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, &req, err)
		return
	}
	userID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", userID).WithField("song_id", req.SongID)
	if err := h.HistoryService.RecordPlay(userID, req.SongID, req.PlayDuration); err != nil {
		sendServiceError(c, logCtx, err, "上报播放记录")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "播放记录已提交"})
}

func (h *historyHandler) GetMyHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	userID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", userID)
	histories, err := h.HistoryService.MyHistory(userID, limit)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取播放历史")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "获取播放历史成功",
		"data":    dto.ToPlayHistoryResponses(histories),
	})
}

func (h *historyHandler) GetMyStats(c *gin.Context) {
	userID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", userID)
	stats, err := h.HistoryService.Stats(userID)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取播放统计")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "获取播放统计成功",
		"data":    stats,
	})
}

func (h *historyHandler) GetMyTopSongs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	userID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", userID)
	rows, err := h.HistoryService.TopSongs(userID, limit)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取最常播放")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "获取最常播放成功",
		"data":    rows,
	})
}
