package repository

import (
	"ShengHang/internal/model"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// 每种收藏对象从哪张表取展示名
var targetNameSources = map[model.TargetType]string{
	model.TargetSong:     "songs",
	model.TargetAlbum:    "albums",
	model.TargetSonglist: "songlists",
}

// FavoriteRow 我的收藏列表里的一行
type FavoriteRow struct {
	TargetID    uint64    `json:"target_id"`
	Name        string    `json:"name"`
	FavoritedAt time.Time `json:"favorited_at"`
}

// RankRow 收藏排行榜的一行
type RankRow struct {
	TargetID      uint64 `json:"target_id"`
	Name          string `json:"name"`
	FavoriteCount int64  `json:"favorite_count"`
}

// FavoriteSongStats 把收藏的歌曲当作一个默认歌单来统计
type FavoriteSongStats struct {
	SongCount     int64  `json:"song_count"`
	TotalDuration uint64 `json:"total_duration"`
}

type FavoriteRepository interface {
	Create(favorite *model.Favorite) error
	Delete(userID uint64, targetType model.TargetType, targetID uint64) (int64, error)
	ListByUser(userID uint64, targetType model.TargetType) ([]FavoriteRow, error)
	SongStats(userID uint64) (*FavoriteSongStats, error)
	TopFavorited(targetType model.TargetType, limit int) ([]RankRow, error)

	WithTx(tx *gorm.DB) FavoriteRepository
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) WithTx(tx *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: tx}
}

// 不先查再插，直接交给(user_id, target_type, target_id)唯一索引判重
func (r *favoriteRepository) Create(favorite *model.Favorite) error {
	return r.db.Create(favorite).Error
}

func (r *favoriteRepository) Delete(userID uint64, targetType model.TargetType, targetID uint64) (int64, error) {
	res := r.db.
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Delete(&model.Favorite{})
	return res.RowsAffected, res.Error
}

func (r *favoriteRepository) ListByUser(userID uint64, targetType model.TargetType) ([]FavoriteRow, error) {
	table, ok := targetNameSources[targetType]
	if !ok {
		return nil, fmt.Errorf("unknown target type %q", targetType)
	}
	var rows []FavoriteRow
	// LEFT JOIN：收藏时不校验目标是否存在，目标没了也照样列出来
	err := r.db.Table("favorites AS f").
		Select("f.target_id, COALESCE(t.title, '') AS name, f.created_at AS favorited_at").
		Joins(fmt.Sprintf("LEFT JOIN %s AS t ON t.id = f.target_id", table)).
		Where("f.user_id = ? AND f.target_type = ?", userID, targetType).
		Order("f.created_at desc").Order("f.id desc").
		Scan(&rows).Error
	return rows, err
}

func (r *favoriteRepository) SongStats(userID uint64) (*FavoriteSongStats, error) {
	var stats FavoriteSongStats
	err := r.db.Table("favorites AS f").
		Select("COUNT(s.id) AS song_count, COALESCE(SUM(s.duration), 0) AS total_duration").
		Joins("JOIN songs AS s ON s.id = f.target_id").
		Where("f.user_id = ? AND f.target_type = ?", userID, model.TargetSong).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// 按target_id分组计数，INNER JOIN取展示名，所以目录里已经不存在的对象不参与排名
// 数量相同按target_id升序
func (r *favoriteRepository) TopFavorited(targetType model.TargetType, limit int) ([]RankRow, error) {
	table, ok := targetNameSources[targetType]
	if !ok {
		return nil, fmt.Errorf("unknown target type %q", targetType)
	}
	var rows []RankRow
	err := r.db.Table("favorites AS f").
		Select("f.target_id, t.title AS name, COUNT(*) AS favorite_count").
		Joins(fmt.Sprintf("JOIN %s AS t ON t.id = f.target_id", table)).
		Where("f.target_type = ?", targetType).
		Group("f.target_id, t.title").
		Order("favorite_count desc").Order("f.target_id asc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
