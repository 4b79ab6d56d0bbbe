package repository

import (
	"ShengHang/internal/model"

	"gorm.io/gorm"
)

// 用户仓库接口：注册、查找、改密码改资料，以及管理员判定
type UserRepository interface {
	Create(user *model.User) error
	FindByID(userID uint64) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	// 用户不存在时返回false而不是错误
	IsAdmin(userID uint64) (bool, error)
	UpdatePassword(userID uint64, hashedPassword string) error
	UpdateProfile(userID uint64, fields map[string]interface{}) (int64, error)

	WithTx(tx *gorm.DB) UserRepository
}

// 数据库接口封装
type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx}
}

// 用户插入表
func (r *userRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(userID uint64) (*model.User, error) {
	var result model.User
	if err := r.db.First(&result, userID).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

// 根据用户名找用户
func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	var result model.User
	err := r.db.Where("username = ?", username).First(&result).Error
	if err != nil {
		return nil, err // 如果有错（包括没找到），直接返回
	}
	return &result, nil
}

func (r *userRepository) IsAdmin(userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).
		Where("id = ? AND is_admin = ?", userID, true).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepository) UpdatePassword(userID uint64, hashedPassword string) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).Update("password", hashedPassword).Error
}

func (r *userRepository) UpdateProfile(userID uint64, fields map[string]interface{}) (int64, error) {
	res := r.db.Model(&model.User{}).Where("id = ?", userID).Updates(fields)
	return res.RowsAffected, res.Error
}
