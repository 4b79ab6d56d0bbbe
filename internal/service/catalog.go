package service

import (
	"fmt"
	"strings"
	"time"

	"ShengHang/internal/apperr"
	"ShengHang/internal/model"
	"ShengHang/internal/repository"
	"ShengHang/pkg/logger"

	"golang.org/x/sync/singleflight"
)

const songSearchLimit = 50

type CreateSingerInput struct {
	Name         string
	Gender       string
	Region       string
	Introduction string
}

type CreateAlbumInput struct {
	Title       string
	SingerID    uint64
	ReleaseDate *time.Time
	CoverURL    string
}

type CreateSongInput struct {
	Title    string
	SingerID uint64
	AlbumID  *uint64
	Duration uint32
	FileURL  string
}

// CatalogService 歌手、专辑、歌曲。增删只给管理员用，路由上由RequireAdmin把关
type CatalogService interface {
	CreateSinger(in CreateSingerInput) (*model.Singer, error)
	CreateAlbum(in CreateAlbumInput) (*model.Album, error)
	CreateSong(in CreateSongInput) (*model.Song, error)
	DeleteSinger(singerID uint64) error
	DeleteAlbum(albumID uint64) error
	DeleteSong(songID uint64) error

	GetSinger(singerID uint64) (*model.Singer, error)
	GetAlbum(albumID uint64) (*model.Album, error)
	GetSong(songID uint64) (*model.Song, error)
	SearchSongs(keyword string) ([]model.Song, error)
}

type catalogService struct {
	sf singleflight.Group

	catalogRepo repository.CatalogRepository
}

func NewCatalogService(catalogRepo repository.CatalogRepository) CatalogService {
	return &catalogService{catalogRepo: catalogRepo}
}

func (s *catalogService) CreateSinger(in CreateSingerInput) (*model.Singer, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.NewInvalidArgument("name", "歌手名不能为空")
	}
	singer := &model.Singer{
		Name:         name,
		Gender:       in.Gender,
		Region:       in.Region,
		Introduction: in.Introduction,
	}
	if err := s.catalogRepo.CreateSinger(singer); err != nil {
		return nil, apperr.NewStorageFailure(err)
	}
	return singer, nil
}

func (s *catalogService) CreateAlbum(in CreateAlbumInput) (*model.Album, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.NewInvalidArgument("title", "专辑名不能为空")
	}
	if err := s.requireSinger(in.SingerID); err != nil {
		return nil, err
	}
	album := &model.Album{
		Title:       title,
		SingerID:    in.SingerID,
		ReleaseDate: in.ReleaseDate,
		CoverURL:    in.CoverURL,
	}
	if err := s.catalogRepo.CreateAlbum(album); err != nil {
		return nil, apperr.NewStorageFailure(err)
	}
	return album, nil
}

func (s *catalogService) CreateSong(in CreateSongInput) (*model.Song, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.NewInvalidArgument("title", "歌曲名不能为空")
	}
	if err := s.requireSinger(in.SingerID); err != nil {
		return nil, err
	}
	if in.AlbumID != nil {
		exists, err := s.catalogRepo.AlbumExists(*in.AlbumID)
		if err != nil {
			return nil, apperr.NewStorageFailure(err)
		}
		if !exists {
			return nil, apperr.NewNotFound("专辑不存在")
		}
	}
	song := &model.Song{
		Title:    title,
		SingerID: in.SingerID,
		AlbumID:  in.AlbumID,
		Duration: in.Duration,
		FileURL:  in.FileURL,
	}
	if err := s.catalogRepo.CreateSong(song); err != nil {
		return nil, apperr.NewStorageFailure(err)
	}
	return song, nil
}

func (s *catalogService) requireSinger(singerID uint64) error {
	exists, err := s.catalogRepo.SingerExists(singerID)
	if err != nil {
		return apperr.NewStorageFailure(err)
	}
	if !exists {
		return apperr.NewNotFound("歌手不存在")
	}
	return nil
}

func (s *catalogService) DeleteSinger(singerID uint64) error {
	return deleteWithCheck(s.catalogRepo.DeleteSinger, singerID, "歌手不存在")
}

func (s *catalogService) DeleteAlbum(albumID uint64) error {
	return deleteWithCheck(s.catalogRepo.DeleteAlbum, albumID, "专辑不存在")
}

// 删除后顺手把缓存删掉，缓存删失败只记日志，最多等它自己过期
func (s *catalogService) DeleteSong(songID uint64) error {
	if err := deleteWithCheck(s.catalogRepo.DeleteSong, songID, "歌曲不存在"); err != nil {
		return err
	}
	if err := s.catalogRepo.DeleteSongCache(songID); err != nil {
		logger.Log.WithError(err).WithField("song_id", songID).Warn("删除歌曲缓存失败")
	}
	return nil
}

func deleteWithCheck(del func(uint64) (int64, error), id uint64, notFoundMsg string) error {
	rows, err := del(id)
	if err != nil {
		return apperr.NewStorageFailure(err)
	}
	if rows == 0 {
		return apperr.NewNotFound(notFoundMsg)
	}
	return nil
}

func (s *catalogService) GetSinger(singerID uint64) (*model.Singer, error) {
	singer, err := s.catalogRepo.FindSingerByID(singerID)
	if err != nil {
		return nil, translate(err, "歌手不存在")
	}
	return singer, nil
}

func (s *catalogService) GetAlbum(albumID uint64) (*model.Album, error) {
	album, err := s.catalogRepo.FindAlbumByID(albumID)
	if err != nil {
		return nil, translate(err, "专辑不存在")
	}
	return album, nil
}

// 根据songID查找歌曲：1、查找Redis缓存 2、缓存未命中，通过SingleFlight合并同一时刻的数据库查询 3、写回缓存
func (s *catalogService) GetSong(songID uint64) (*model.Song, error) {
	song, err := s.catalogRepo.GetSongCache(songID)
	if err == nil && song != nil {
		return song, nil
	}
	// Redis本身出错了，记录日志后降级查数据库
	if err != nil {
		logger.Log.WithError(err).WithField("song_id", songID).Warn("读取歌曲缓存失败")
	}
	key := fmt.Sprintf("get_song_%d", songID)
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		dbSong, dbErr := s.catalogRepo.FindSongByID(songID)
		if dbErr != nil {
			return nil, dbErr
		}
		if cacheErr := s.catalogRepo.SetSongCache(dbSong); cacheErr != nil {
			logger.Log.WithError(cacheErr).WithField("song_id", songID).Warn("写入歌曲缓存失败")
		}
		return dbSong, nil
	})
	if err != nil {
		return nil, translate(err, "歌曲不存在")
	}
	// 返回值是interface{}结构，需要断言
	return result.(*model.Song), nil
}

// 简单的标题模糊匹配，不做相关性排序
func (s *catalogService) SearchSongs(keyword string) ([]model.Song, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, apperr.NewInvalidArgument("keyword", "搜索关键词不能为空")
	}
	songs, err := s.catalogRepo.SearchSongs(keyword, songSearchLimit)
	if err != nil {
		return nil, apperr.NewStorageFailure(err)
	}
	return songs, nil
}
