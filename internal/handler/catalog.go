package handler

import (
	"net/http"
	"time"

	"ShengHang/internal/dto"
	"ShengHang/internal/service"
	"ShengHang/pkg/logger"

	"github.com/gin-gonic/gin"
)

// CatalogHandler 曲库：读接口公开，增删接口挂在/admin下
type CatalogHandler interface {
	CreateSinger(c *gin.Context)
	CreateAlbum(c *gin.Context)
	CreateSong(c *gin.Context)
	DeleteSinger(c *gin.Context)
	DeleteAlbum(c *gin.Context)
	DeleteSong(c *gin.Context)

	GetSinger(c *gin.Context)
	GetAlbum(c *gin.Context)
	GetSong(c *gin.Context)
	SearchSongs(c *gin.Context)
}

type catalogHandler struct {
	CatalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) CatalogHandler {
	return &catalogHandler{CatalogService: catalogService}
}

type CreateSingerRequest struct {
	Name         string `json:"name" binding:"required"`
	Gender       string `json:"gender"`
	Region       string `json:"region"`
	Introduction string `json:"introduction"`
}

type CreateAlbumRequest struct {
	Title       string `json:"title" binding:"required"`
	SingerID    uint64 `json:"singer_id" binding:"required"`
	ReleaseDate string `json:"release_date"` // 2006-01-02
	CoverURL    string `json:"cover_url"`
}

type CreateSongRequest struct {
	Title    string  `json:"title" binding:"required"`
	SingerID uint64  `json:"singer_id" binding:"required"`
	AlbumID  *uint64 `json:"album_id"`
	Duration uint32  `json:"duration"`
	FileURL  string  `json:"file_url"`
}

func (h *catalogHandler) CreateSinger(c *gin.Context) {
	var req CreateSingerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, &req, err)
		return
	}
	logCtx := logger.Log.WithField("name", req.Name)
	singer, err := h.CatalogService.CreateSinger(service.CreateSingerInput{
		Name:         req.Name,
		Gender:       req.Gender,
		Region:       req.Region,
		Introduction: req.Introduction,
	})
	if err != nil {
		sendServiceError(c, logCtx, err, "创建歌手")
		return
	}
	logCtx.WithField("singer_id", singer.ID).Info("歌手创建成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "创建成功",
		"data":    dto.ToSingerResponse(singer),
	})
}

func (h *catalogHandler) CreateAlbum(c *gin.Context) {
	var req CreateAlbumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, &req, err)
		return
	}
	in := service.CreateAlbumInput{
		Title:    req.Title,
		SingerID: req.SingerID,
		CoverURL: req.CoverURL,
	}
	if req.ReleaseDate != "" {
		t, err := time.Parse("2006-01-02", req.ReleaseDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "发行日期格式应为YYYY-MM-DD", Code: "invalid_argument", Field: "release_date"})
			return
		}
		in.ReleaseDate = &t
	}
	logCtx := logger.Log.WithField("singer_id", req.SingerID)
	album, err := h.CatalogService.CreateAlbum(in)
	if err != nil {
		sendServiceError(c, logCtx, err, "创建专辑")
		return
	}
	logCtx.WithField("album_id", album.ID).Info("专辑创建成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "创建成功",
		"data":    dto.ToAlbumResponse(album),
	})
}

func (h *catalogHandler) CreateSong(c *gin.Context) {
	var req CreateSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, &req, err)
		return
	}
	logCtx := logger.Log.WithField("singer_id", req.SingerID)
	song, err := h.CatalogService.CreateSong(service.CreateSongInput{
		Title:    req.Title,
		SingerID: req.SingerID,
		AlbumID:  req.AlbumID,
		Duration: req.Duration,
		FileURL:  req.FileURL,
	})
	if err != nil {
		sendServiceError(c, logCtx, err, "创建歌曲")
		return
	}
	logCtx.WithField("song_id", song.ID).Info("歌曲创建成功")
	c.JSON(http.StatusCreated, gin.H{
		"message": "创建成功",
		"data":    dto.ToSongResponse(song),
	})
}

func (h *catalogHandler) DeleteSinger(c *gin.Context) {
	singerID, ok := parseIDParam(c, "singer_id", "无效的歌手ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("singer_id", singerID)
	if err := h.CatalogService.DeleteSinger(singerID); err != nil {
		sendServiceError(c, logCtx, err, "删除歌手")
		return
	}
	logCtx.Info("歌手已删除")
	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

func (h *catalogHandler) DeleteAlbum(c *gin.Context) {
	albumID, ok := parseIDParam(c, "album_id", "无效的专辑ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("album_id", albumID)
	if err := h.CatalogService.DeleteAlbum(albumID); err != nil {
		sendServiceError(c, logCtx, err, "删除专辑")
		return
	}
	logCtx.Info("专辑已删除")
	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

func (h *catalogHandler) DeleteSong(c *gin.Context) {
	songID, ok := parseIDParam(c, "song_id", "无效的歌曲ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("song_id", songID)
	if err := h.CatalogService.DeleteSong(songID); err != nil {
		sendServiceError(c, logCtx, err, "删除歌曲")
		return
	}
	logCtx.Info("歌曲已删除")
	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

func (h *catalogHandler) GetSinger(c *gin.Context) {
	singerID, ok := parseIDParam(c, "singer_id", "无效的歌手ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("singer_id", singerID)
	singer, err := h.CatalogService.GetSinger(singerID)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取歌手")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "获取歌手成功",
		"data":    dto.ToSingerResponse(singer),
	})
}

func (h *catalogHandler) GetAlbum(c *gin.Context) {
	albumID, ok := parseIDParam(c, "album_id", "无效的专辑ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("album_id", albumID)
	album, err := h.CatalogService.GetAlbum(albumID)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取专辑")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "获取专辑成功",
		"data":    dto.ToAlbumResponse(album),
	})
}

func (h *catalogHandler) GetSong(c *gin.Context) {
	songID, ok := parseIDParam(c, "song_id", "无效的歌曲ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("song_id", songID)
	song, err := h.CatalogService.GetSong(songID)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取歌曲")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "获取歌曲成功",
		"data":    dto.ToSongResponse(song),
	})
}

func (h *catalogHandler) SearchSongs(c *gin.Context) {
	keyword := c.Query("keyword")
	logCtx := logger.Log.WithField("keyword", keyword)
	songs, err := h.CatalogService.SearchSongs(keyword)
	if err != nil {
		sendServiceError(c, logCtx, err, "搜索歌曲")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "搜索成功",
		"data":    dto.ToSongResponses(songs),
	})
}
