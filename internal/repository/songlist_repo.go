package repository

import (
	"ShengHang/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 歌单详情里排序的白名单，key是对外暴露的排序名，value是真正拼进SQL的ORDER BY
var songlistSongOrders = map[string]string{
	"add_time":     "ss.added_at desc, s.id asc",
	"add_time_asc": "ss.added_at asc, s.id asc",
	"duration":     "s.duration desc, s.id asc",
	"play_count":   "s.play_count desc, s.id asc",
}

const DefaultSonglistSongSort = "add_time"

// NormalizeSonglistSongSort 不在白名单里的排序一律退回add_time，不报错
func NormalizeSonglistSongSort(sort string) string {
	if _, ok := songlistSongOrders[sort]; ok {
		return sort
	}
	return DefaultSonglistSongSort
}

// SonglistSongRow 歌单里一首歌的展示信息
type SonglistSongRow struct {
	SongID     uint64    `json:"song_id"`
	Title      string    `json:"title"`
	Duration   uint32    `json:"duration"`
	PlayCount  uint64    `json:"play_count"`
	FileURL    string    `json:"file_url"`
	SingerName string    `json:"singer_name"`
	AddedAt    time.Time `json:"added_at"`
}

// SonglistFilter 歌单列表的筛选条件
type SonglistFilter struct {
	OwnerID  uint64 // 0表示不按所有者过滤
	Keyword  string
	ViewerID uint64 // 私有歌单只对自己可见
}

type SonglistRepository interface {
	Create(songlist *model.Songlist) error
	FindByID(songlistID uint64) (*model.Songlist, error)
	FindByIDForUpdate(songlistID uint64) (*model.Songlist, error)
	ExistsOwnedBy(songlistID, ownerID uint64) (bool, error)
	Update(songlistID uint64, fields map[string]interface{}) (int64, error)
	Delete(songlistID uint64) (int64, error)
	IncrementLikeCount(songlistID uint64) (int64, error)
	List(filter SonglistFilter) ([]model.Songlist, error)
	SearchPublic(keyword string, limit int) ([]model.Songlist, error)

	AddSong(member *model.SonglistSong) error
	RemoveSong(songlistID, songID uint64) (int64, error)
	DeleteSongs(songlistID uint64) (int64, error)
	ListSongs(songlistID uint64, sort string) ([]SonglistSongRow, error)
	TotalDuration(songlistID uint64) (uint64, error)

	WithTx(tx *gorm.DB) SonglistRepository
}

type songlistRepository struct {
	db *gorm.DB
}

func NewSonglistRepository(db *gorm.DB) SonglistRepository {
	return &songlistRepository{db: db}
}

func (r *songlistRepository) WithTx(tx *gorm.DB) SonglistRepository {
	return &songlistRepository{db: tx}
}

func (r *songlistRepository) Create(songlist *model.Songlist) error {
	return r.db.Create(songlist).Error
}

func (r *songlistRepository) FindByID(songlistID uint64) (*model.Songlist, error) {
	var result model.Songlist
	err := r.db.Preload("User").First(&result, songlistID).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *songlistRepository) FindByIDForUpdate(songlistID uint64) (*model.Songlist, error) {
	var result model.Songlist
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&result, songlistID).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// 歌单不存在和不是自己的，这里都返回false
func (r *songlistRepository) ExistsOwnedBy(songlistID, ownerID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Songlist{}).
		Where("id = ? AND user_id = ?", songlistID, ownerID).
		Count(&count).Error
	return count > 0, err
}

func (r *songlistRepository) Update(songlistID uint64, fields map[string]interface{}) (int64, error) {
	res := r.db.Model(&model.Songlist{}).Where("id = ?", songlistID).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *songlistRepository) Delete(songlistID uint64) (int64, error) {
	res := r.db.Delete(&model.Songlist{}, songlistID)
	return res.RowsAffected, res.Error
}

func (r *songlistRepository) IncrementLikeCount(songlistID uint64) (int64, error) {
	res := r.db.Model(&model.Songlist{}).Where("id = ?", songlistID).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", 1))
	return res.RowsAffected, res.Error
}

func (r *songlistRepository) List(filter SonglistFilter) ([]model.Songlist, error) {
	var songlists []model.Songlist
	query := r.db.Preload("User")
	if filter.OwnerID != 0 {
		query = query.Where("user_id = ?", filter.OwnerID)
	}
	if filter.Keyword != "" {
		query = query.Where("title LIKE ?", "%"+filter.Keyword+"%")
	}
	// 公开的，或者是看的人自己的
	query = query.Where("is_public = ? OR user_id = ?", true, filter.ViewerID)
	err := query.Order("created_at desc").Order("id desc").Find(&songlists).Error
	return songlists, err
}

func (r *songlistRepository) SearchPublic(keyword string, limit int) ([]model.Songlist, error) {
	var songlists []model.Songlist
	err := r.db.
		Preload("User").
		Where("is_public = ? AND title LIKE ?", true, "%"+keyword+"%").
		Order("like_count desc").Order("id asc").
		Limit(limit).
		Find(&songlists).Error
	return songlists, err
}

// 插入成员行，重复由(songlist_id, song_id)唯一索引挡住
func (r *songlistRepository) AddSong(member *model.SonglistSong) error {
	return r.db.Create(member).Error
}

func (r *songlistRepository) RemoveSong(songlistID, songID uint64) (int64, error) {
	res := r.db.Where("songlist_id = ? AND song_id = ?", songlistID, songID).Delete(&model.SonglistSong{})
	return res.RowsAffected, res.Error
}

func (r *songlistRepository) DeleteSongs(songlistID uint64) (int64, error) {
	res := r.db.Where("songlist_id = ?", songlistID).Delete(&model.SonglistSong{})
	return res.RowsAffected, res.Error
}

func (r *songlistRepository) ListSongs(songlistID uint64, sort string) ([]SonglistSongRow, error) {
	var rows []SonglistSongRow
	order := songlistSongOrders[NormalizeSonglistSongSort(sort)]
	err := r.db.Table("songlist_songs AS ss").
		Select("s.id AS song_id, s.title, s.duration, s.play_count, s.file_url, COALESCE(sg.name, '') AS singer_name, ss.added_at").
		Joins("JOIN songs AS s ON s.id = ss.song_id").
		Joins("LEFT JOIN singers AS sg ON sg.id = s.singer_id").
		Where("ss.songlist_id = ?", songlistID).
		Order(order).
		Scan(&rows).Error
	return rows, err
}

func (r *songlistRepository) TotalDuration(songlistID uint64) (uint64, error) {
	var total uint64
	err := r.db.Table("songlist_songs AS ss").
		Select("COALESCE(SUM(s.duration), 0)").
		Joins("JOIN songs AS s ON s.id = ss.song_id").
		Where("ss.songlist_id = ?", songlistID).
		Scan(&total).Error
	return total, err
}
