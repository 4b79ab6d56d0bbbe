package repository

import (
	"ShengHang/internal/model"

	"gorm.io/gorm"
)

type FollowRepository interface {
	FollowUser(follow *model.UserFollow) error
	UnfollowUser(followerID, followedID uint64) (int64, error)
	// 关注我的人
	ListFollowers(userID uint64) ([]model.User, error)
	// 我关注的人
	ListFollowings(userID uint64) ([]model.User, error)

	FollowSinger(follow *model.SingerFollow) error
	UnfollowSinger(userID, singerID uint64) (int64, error)
	ListFollowedSingers(userID uint64) ([]model.Singer, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) FollowUser(follow *model.UserFollow) error {
	return r.db.Create(follow).Error
}

func (r *followRepository) UnfollowUser(followerID, followedID uint64) (int64, error) {
	res := r.db.Where("follower_id = ? AND followed_id = ?", followerID, followedID).Delete(&model.UserFollow{})
	return res.RowsAffected, res.Error
}

func (r *followRepository) ListFollowers(userID uint64) ([]model.User, error) {
	var users []model.User
	err := r.db.Table("users").Select("users.*").
		Joins("JOIN user_follows AS uf ON uf.follower_id = users.id").
		Where("uf.followed_id = ?", userID).
		Order("uf.created_at desc").Order("uf.id desc").
		Find(&users).Error
	return users, err
}

func (r *followRepository) ListFollowings(userID uint64) ([]model.User, error) {
	var users []model.User
	err := r.db.Table("users").Select("users.*").
		Joins("JOIN user_follows AS uf ON uf.followed_id = users.id").
		Where("uf.follower_id = ?", userID).
		Order("uf.created_at desc").Order("uf.id desc").
		Find(&users).Error
	return users, err
}

func (r *followRepository) FollowSinger(follow *model.SingerFollow) error {
	return r.db.Create(follow).Error
}

func (r *followRepository) UnfollowSinger(userID, singerID uint64) (int64, error) {
	res := r.db.Where("user_id = ? AND singer_id = ?", userID, singerID).Delete(&model.SingerFollow{})
	return res.RowsAffected, res.Error
}

func (r *followRepository) ListFollowedSingers(userID uint64) ([]model.Singer, error) {
	var singers []model.Singer
	err := r.db.Table("singers").Select("singers.*").
		Joins("JOIN singer_follows AS sf ON sf.singer_id = singers.id").
		Where("sf.user_id = ?", userID).
		Order("sf.created_at desc").Order("sf.id desc").
		Find(&singers).Error
	return singers, err
}
