package repository

import (
	"ShengHang/internal/model"

	"gorm.io/gorm"
)

// HistoryStats 个人播放统计
type HistoryStats struct {
	PlayCount     int64  `json:"play_count"`
	TotalDuration uint64 `json:"total_duration"`
}

// TopSongRow 个人听歌排行的一行
type TopSongRow struct {
	SongID    uint64 `json:"song_id"`
	Title     string `json:"title"`
	PlayCount int64  `json:"play_count"`
}

type HistoryRepository interface {
	Create(history *model.PlayHistory) error
	ListByUser(userID uint64, limit int) ([]model.PlayHistory, error)
	Stats(userID uint64) (*HistoryStats, error)
	TopSongs(userID uint64, limit int) ([]TopSongRow, error)

	// 给定时清理用
	UserIDs() ([]uint64, error)
	Count(userID uint64) (int64, error)
	// 只保留最新的keep条
	Cleanup(userID uint64, keep int) (int64, error)

	WithTx(tx *gorm.DB) HistoryRepository
}

type historyRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) WithTx(tx *gorm.DB) HistoryRepository {
	return &historyRepository{db: tx}
}

func (r *historyRepository) Create(history *model.PlayHistory) error {
	return r.db.Create(history).Error
}

func (r *historyRepository) ListByUser(userID uint64, limit int) ([]model.PlayHistory, error) {
	var histories []model.PlayHistory
	err := r.db.Preload("Song").
		Where("user_id = ?", userID).
		Order("played_at desc").Order("id desc").
		Limit(limit).
		Find(&histories).Error
	return histories, err
}

func (r *historyRepository) Stats(userID uint64) (*HistoryStats, error) {
	var stats HistoryStats
	err := r.db.Model(&model.PlayHistory{}).
		Select("COUNT(*) AS play_count, COALESCE(SUM(play_duration), 0) AS total_duration").
		Where("user_id = ?", userID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *historyRepository) TopSongs(userID uint64, limit int) ([]TopSongRow, error) {
	var rows []TopSongRow
	err := r.db.Table("play_histories AS h").
		Select("h.song_id, COALESCE(s.title, '') AS title, COUNT(*) AS play_count").
		Joins("LEFT JOIN songs AS s ON s.id = h.song_id").
		Where("h.user_id = ?", userID).
		Group("h.song_id, s.title").
		Order("play_count desc").Order("h.song_id asc").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *historyRepository) UserIDs() ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&model.PlayHistory{}).Distinct("user_id").Order("user_id asc").Pluck("user_id", &ids).Error
	return ids, err
}

func (r *historyRepository) Count(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&model.PlayHistory{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *historyRepository) Cleanup(userID uint64, keep int) (int64, error) {
	newest := r.db.Model(&model.PlayHistory{}).
		Select("id").
		Where("user_id = ?", userID).
		Order("played_at desc").Order("id desc").
		Limit(keep)
	// MySQL不允许IN子查询里直接带LIMIT，也不允许子查询直接引用正在删除的表，所以再包一层派生表
	res := r.db.
		Where("user_id = ? AND id NOT IN (?)", userID, r.db.Table("(?) AS keep_ids", newest).Select("id")).
		Delete(&model.PlayHistory{})
	return res.RowsAffected, res.Error
}
