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

type SonglistHandler interface {
	CreateSonglist(c *gin.Context)
	UpdateSonglist(c *gin.Context)
	DeleteSonglist(c *gin.Context)
	AddSong(c *gin.Context)
	RemoveSong(c *gin.Context)

	ListSonglists(c *gin.Context)
	GetSonglistDetail(c *gin.Context)
	SearchSonglists(c *gin.Context)
	LikeSonglist(c *gin.Context)
}

type songlistHandler struct {
	SonglistService service.SonglistService
}

func NewSonglistHandler(songlistService service.SonglistService) SonglistHandler {
	return &songlistHandler{SonglistService: songlistService}
}

type CreateSonglistRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	CoverURL    string  `json:"cover_url"`
	IsPublic    *bool   `json:"is_public"`
}

type UpdateSonglistRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

type AddSongRequest struct {
	SongID uint64 `json:"song_id" binding:"required"`
}

func (h *songlistHandler) CreateSonglist(c *gin.Context) {
	var req CreateSonglistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, &req, err)
		return
	}
	userID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", userID)
	songlist, err := h.SonglistService.Create(userID, service.CreateSonglistInput{
		Title:       req.Title,
		Description: req.Description,
		CoverURL:    req.CoverURL,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		sendServiceError(c, logCtx, err, "创建歌单")
		return
	}
	logCtx.WithField("songlist_id", songlist.ID).Info("歌单创建成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "歌单创建成功",
		"data":    dto.ToSonglistResponse(songlist),
	})
}

func (h *songlistHandler) UpdateSonglist(c *gin.Context) {
	songlistID, ok := parseIDParam(c, "songlist_id", "无效的歌单ID")
	if !ok {
		return
	}
	var req UpdateSonglistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, &req, err)
		return
	}
	userID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", userID).WithField("songlist_id", songlistID)
	songlist, err := h.SonglistService.Update(userID, songlistID, service.UpdateSonglistInput{
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		sendServiceError(c, logCtx, err, "更新歌单")
		return
	}
	logCtx.Info("歌单更新成功")
	c.JSON(http.StatusOK, gin.H{
		"message": "歌单更新成功",
		"data":    dto.ToSonglistResponse(songlist),
	})
}

func (h *songlistHandler) DeleteSonglist(c *gin.Context) {
	songlistID, ok := parseIDParam(c, "songlist_id", "无效的歌单ID")
	if !ok {
		return
	}
	userID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", userID).WithField("songlist_id", songlistID)
	logCtx.Info("开始删除歌单")
	if err := h.SonglistService.Delete(userID, songlistID); err != nil {
		sendServiceError(c, logCtx, err, "删除歌单")
		return
	}
	logCtx.Info("歌单删除成功")
	c.JSON(http.StatusOK, gin.H{"message": "歌单删除成功"})
}

func (h *songlistHandler) AddSong(c *gin.Context) {
	songlistID, ok := parseIDParam(c, "songlist_id", "无效的歌单ID")
	if !ok {
		return
	}
	var req AddSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, &req, err)
		return
	}
	userID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", userID).WithField("songlist_id", songlistID).WithField("song_id", req.SongID)
	if err := h.SonglistService.AddSong(userID, songlistID, req.SongID); err != nil {
		sendServiceError(c, logCtx, err, "添加歌曲")
		return
	}
	logCtx.Info("歌曲已加入歌单")
	c.JSON(http.StatusCreated, gin.H{"message": "添加成功"})
}

func (h *songlistHandler) RemoveSong(c *gin.Context) {
	songlistID, ok := parseIDParam(c, "songlist_id", "无效的歌单ID")
	if !ok {
		return
	}
	songID, ok := parseIDParam(c, "song_id", "无效的歌曲ID")
	if !ok {
		return
	}
	userID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", userID).WithField("songlist_id", songlistID).WithField("song_id", songID)
	if err := h.SonglistService.RemoveSong(userID, songlistID, songID); err != nil {
		sendServiceError(c, logCtx, err, "移除歌曲")
		return
	}
	logCtx.Info("歌曲已移出歌单")
	c.JSON(http.StatusOK, gin.H{"message": "移除成功"})
}

// 歌单列表：?filter_user_id=&keyword=
func (h *songlistHandler) ListSonglists(c *gin.Context) {
	ownerID, _ := strconv.ParseUint(c.Query("filter_user_id"), 10, 64)
	viewerID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", viewerID)
	songlists, err := h.SonglistService.List(viewerID, ownerID, c.Query("keyword"))
	if err != nil {
		sendServiceError(c, logCtx, err, "获取歌单列表")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "获取歌单列表成功",
		"data":    dto.ToSonglistResponses(songlists),
	})
}

// 歌单详情：?sort_by=add_time|add_time_asc|duration|play_count
func (h *songlistHandler) GetSonglistDetail(c *gin.Context) {
	songlistID, ok := parseIDParam(c, "songlist_id", "无效的歌单ID")
	if !ok {
		return
	}
	viewerID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", viewerID).WithField("songlist_id", songlistID)
	detail, err := h.SonglistService.Detail(viewerID, songlistID, c.Query("sort_by"))
	if err != nil {
		sendServiceError(c, logCtx, err, "获取歌单详情")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "获取歌单详情成功",
		"data":    dto.ToSonglistDetailResponse(detail.Songlist, detail.Songs, detail.TotalDuration, detail.SortBy),
	})
}

func (h *songlistHandler) SearchSonglists(c *gin.Context) {
	keyword := c.Query("keyword")
	logCtx := logger.Log.WithField("keyword", keyword)
	songlists, err := h.SonglistService.Search(keyword)
	if err != nil {
		sendServiceError(c, logCtx, err, "搜索歌单")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "搜索成功",
		"data":    dto.ToSonglistResponses(songlists),
	})
}

func (h *songlistHandler) LikeSonglist(c *gin.Context) {
	songlistID, ok := parseIDParam(c, "songlist_id", "无效的歌单ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("user_id", middleware.ActorID(c)).WithField("songlist_id", songlistID)
	if err := h.SonglistService.Like(songlistID); err != nil {
		sendServiceError(c, logCtx, err, "点赞歌单")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "点赞成功"})
}
