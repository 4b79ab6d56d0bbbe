package repository

import (
	"ShengHang/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// CatalogRepository 歌手、专辑、歌曲，以及歌曲详情的Redis缓存
type CatalogRepository interface {
	CreateSinger(singer *model.Singer) error
	CreateAlbum(album *model.Album) error
	CreateSong(song *model.Song) error
	DeleteSinger(singerID uint64) (int64, error)
	DeleteAlbum(albumID uint64) (int64, error)
	DeleteSong(songID uint64) (int64, error)

	FindSingerByID(singerID uint64) (*model.Singer, error)
	FindAlbumByID(albumID uint64) (*model.Album, error)
	FindSongByID(songID uint64) (*model.Song, error)
	SingerExists(singerID uint64) (bool, error)
	AlbumExists(albumID uint64) (bool, error)
	SongExists(songID uint64) (bool, error)
	SearchSongs(keyword string, limit int) ([]model.Song, error)
	IncrementPlayCount(songID uint64) (int64, error)

	GetSongCache(songID uint64) (*model.Song, error)
	SetSongCache(song *model.Song) error
	DeleteSongCache(songID uint64) error

	WithTx(tx *gorm.DB) CatalogRepository
}

type catalogRepository struct {
	db       *gorm.DB
	rdb      *redis.Client
	cacheTTL time.Duration
}

func NewCatalogRepository(db *gorm.DB, rdb *redis.Client, cacheTTL time.Duration) CatalogRepository {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &catalogRepository{
		db:       db,
		rdb:      rdb,
		cacheTTL: cacheTTL,
	}
}

// 事务里不操作Redis
func (r *catalogRepository) WithTx(tx *gorm.DB) CatalogRepository {
	return &catalogRepository{
		db:       tx,
		cacheTTL: r.cacheTTL,
	}
}

func (r *catalogRepository) CreateSinger(singer *model.Singer) error {
	return r.db.Create(singer).Error
}

func (r *catalogRepository) CreateAlbum(album *model.Album) error {
	return r.db.Create(album).Error
}

func (r *catalogRepository) CreateSong(song *model.Song) error {
	return r.db.Create(song).Error
}

func (r *catalogRepository) DeleteSinger(singerID uint64) (int64, error) {
	res := r.db.Delete(&model.Singer{}, singerID)
	return res.RowsAffected, res.Error
}

func (r *catalogRepository) DeleteAlbum(albumID uint64) (int64, error) {
	res := r.db.Delete(&model.Album{}, albumID)
	return res.RowsAffected, res.Error
}

func (r *catalogRepository) DeleteSong(songID uint64) (int64, error) {
	res := r.db.Delete(&model.Song{}, songID)
	return res.RowsAffected, res.Error
}

func (r *catalogRepository) FindSingerByID(singerID uint64) (*model.Singer, error) {
	var singer model.Singer
	err := r.db.Preload("Albums", func(db *gorm.DB) *gorm.DB {
		return db.Order("id asc")
	}).First(&singer, singerID).Error
	if err != nil {
		return nil, err
	}
	return &singer, nil
}

func (r *catalogRepository) FindAlbumByID(albumID uint64) (*model.Album, error) {
	var album model.Album
	err := r.db.Preload("Singer").Preload("Songs", func(db *gorm.DB) *gorm.DB {
		return db.Order("id asc")
	}).First(&album, albumID).Error
	if err != nil {
		return nil, err
	}
	return &album, nil
}

// 只查数据库，缓存由service层决定怎么用
func (r *catalogRepository) FindSongByID(songID uint64) (*model.Song, error) {
	var song model.Song
	err := r.db.Preload("Singer").First(&song, songID).Error
	if err != nil {
		return nil, err
	}
	return &song, nil
}

func (r *catalogRepository) SingerExists(singerID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Singer{}).Where("id = ?", singerID).Count(&count).Error
	return count > 0, err
}

func (r *catalogRepository) AlbumExists(albumID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Album{}).Where("id = ?", albumID).Count(&count).Error
	return count > 0, err
}

func (r *catalogRepository) SongExists(songID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Song{}).Where("id = ?", songID).Count(&count).Error
	return count > 0, err
}

func (r *catalogRepository) SearchSongs(keyword string, limit int) ([]model.Song, error) {
	var songs []model.Song
	err := r.db.Preload("Singer").
		Where("title LIKE ?", "%"+keyword+"%").
		Order("created_at desc").Order("id desc").
		Limit(limit).
		Find(&songs).Error
	return songs, err
}

func (r *catalogRepository) IncrementPlayCount(songID uint64) (int64, error) {
	// UPDATE `songs` SET `play_count` = `play_count` + 1 WHERE id = ?
	res := r.db.Model(&model.Song{}).Where("id = ?", songID).
		UpdateColumn("play_count", gorm.Expr("play_count + ?", 1))
	return res.RowsAffected, res.Error
}

// 返回存储单个歌曲信息的字符串Key
func (r *catalogRepository) keySongInfo(songID uint64) string {
	return fmt.Sprintf("song:info:%d", songID)
}

// 缓存不存在时返回(nil, nil)，Redis本身出错才返回error
func (r *catalogRepository) GetSongCache(songID uint64) (*model.Song, error) {
	if r.rdb == nil {
		return nil, nil
	}
	songJSON, err := r.rdb.Get(context.Background(), r.keySongInfo(songID)).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	var song model.Song
	if err := json.Unmarshal([]byte(songJSON), &song); err != nil {
		return nil, err // JSON反序列化失败
	}
	return &song, nil
}

func (r *catalogRepository) SetSongCache(song *model.Song) error {
	if r.rdb == nil {
		return nil
	}
	songJSON, err := json.Marshal(song)
	if err != nil {
		return err
	}
	// 过期时间加上随机性防止缓存雪崩
	expiration := r.cacheTTL + time.Duration(rand.Intn(60))*time.Second
	return r.rdb.Set(context.Background(), r.keySongInfo(song.ID), songJSON, expiration).Err()
}

func (r *catalogRepository) DeleteSongCache(songID uint64) error {
	if r.rdb == nil {
		return nil
	}
	return r.rdb.Del(context.Background(), r.keySongInfo(songID)).Err()
}
