package repository

import (
	"ShengHang/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository interface {
	Create(comment *model.Comment) error
	FindByID(commentID uint64) (*model.Comment, error)
	// 带锁的查找，只在事务里有意义
	FindByIDForUpdate(commentID uint64) (*model.Comment, error)

	// 某个对象下status=normal的一级评论，hot为true时按点赞数排序
	ListTopLevelByTarget(targetType model.TargetType, targetID uint64, hot bool, offset, limit int) ([]model.Comment, error)
	// 一条评论的直接回复（只一层），只要normal的，时间正序
	ListReplies(parentID uint64) ([]model.Comment, error)
	ListByUser(userID uint64) ([]model.Comment, error)
	ListIDsByTarget(targetType model.TargetType, targetID uint64) ([]uint64, error)

	// 根据一批父评论ID，锁住并取出它们的直接子评论ID
	ChildIDsForUpdate(parentIDs []uint64) ([]uint64, error)
	DeleteByIDs(commentIDs []uint64) (int64, error)

	IncrementLikeCount(commentID uint64) (int64, error)
	GetLikeCount(commentID uint64) (uint64, error)
	UpdateStatus(commentID uint64, status model.CommentStatus) (int64, error)

	CountNormalByTarget(targetType model.TargetType, targetID uint64) (int64, error)
	CountByTarget(targetType model.TargetType, targetID uint64) (int64, error)
	FindHottestByTarget(targetType model.TargetType, targetID uint64) (*model.Comment, error)

	WithTx(tx *gorm.DB) CommentRepository
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// WithTx 返回一个新的、使用事务的 commentRepository 实例
func (r *commentRepository) WithTx(tx *gorm.DB) CommentRepository {
	return &commentRepository{db: tx}
}

func (r *commentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

// 利用commentID找comment，并顺便把作者Preload进去
func (r *commentRepository) FindByID(commentID uint64) (*model.Comment, error) {
	var result model.Comment
	err := r.db.Preload("User").First(&result, commentID).Error
	if err != nil {
		return nil, err // 如果有错（包括没找到），直接返回
	}
	return &result, nil
}

func (r *commentRepository) FindByIDForUpdate(commentID uint64) (*model.Comment, error) {
	var result model.Comment
	// SELECT * FROM `comments` WHERE `id` = ? LIMIT 1 FOR UPDATE;
	// 锁的生命周期和事务绑定，直到整个Execute包裹的事务结束
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&result, commentID).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *commentRepository) ListTopLevelByTarget(targetType model.TargetType, targetID uint64, hot bool, offset, limit int) ([]model.Comment, error) {
	var comments []model.Comment
	query := r.db.
		Preload("User").
		Where("target_type = ? AND target_id = ? AND parent_id IS NULL AND status = ?", targetType, targetID, model.CommentNormal)
	if hot {
		// 点赞数相同，越新的越靠前；id兜底保证同一份数据每次结果一样
		query = query.Order("like_count desc").Order("created_at desc").Order("id desc")
	} else {
		query = query.Order("created_at desc").Order("id desc")
	}
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	err := query.Find(&comments).Error
	return comments, err
}

func (r *commentRepository) ListReplies(parentID uint64) ([]model.Comment, error) {
	var replies []model.Comment
	err := r.db.
		Preload("User").
		Where("parent_id = ? AND status = ?", parentID, model.CommentNormal).
		Order("created_at asc").Order("id asc"). // 回复按时间正序排列
		Find(&replies).Error
	return replies, err
}

func (r *commentRepository) ListByUser(userID uint64) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at desc").Order("id desc").
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) ListIDsByTarget(targetType model.TargetType, targetID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&model.Comment{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("id asc").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *commentRepository) ChildIDsForUpdate(parentIDs []uint64) ([]uint64, error) {
	var ids []uint64
	if len(parentIDs) == 0 {
		return ids, nil
	}
	err := r.db.Model(&model.Comment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("parent_id IN ?", parentIDs).
		Order("id asc").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *commentRepository) DeleteByIDs(commentIDs []uint64) (int64, error) {
	if len(commentIDs) == 0 {
		return 0, nil
	}
	res := r.db.Where("id IN ?", commentIDs).Delete(&model.Comment{})
	return res.RowsAffected, res.Error
}

func (r *commentRepository) IncrementLikeCount(commentID uint64) (int64, error) {
	// 使用GORM的表达式来执行原子更新：UPDATE `comments` SET `like_count` = `like_count` + 1 WHERE id = ?
	res := r.db.Model(&model.Comment{}).Where("id = ?", commentID).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", 1))
	return res.RowsAffected, res.Error
}

func (r *commentRepository) GetLikeCount(commentID uint64) (uint64, error) {
	var count uint64
	err := r.db.Model(&model.Comment{}).Where("id = ?", commentID).
		Select("like_count").Scan(&count).Error
	return count, err
}

func (r *commentRepository) UpdateStatus(commentID uint64, status model.CommentStatus) (int64, error) {
	res := r.db.Model(&model.Comment{}).Where("id = ?", commentID).UpdateColumn("status", status)
	return res.RowsAffected, res.Error
}

func (r *commentRepository) CountNormalByTarget(targetType model.TargetType, targetID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).
		Where("target_type = ? AND target_id = ? AND status = ?", targetType, targetID, model.CommentNormal).
		Count(&count).Error
	return count, err
}

func (r *commentRepository) CountByTarget(targetType model.TargetType, targetID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&count).Error
	return count, err
}

// 点赞最多的normal评论，并列时取id最小的，没有评论时返回gorm.ErrRecordNotFound
func (r *commentRepository) FindHottestByTarget(targetType model.TargetType, targetID uint64) (*model.Comment, error) {
	var result model.Comment
	err := r.db.
		Preload("User").
		Where("target_type = ? AND target_id = ? AND status = ?", targetType, targetID, model.CommentNormal).
		Order("like_count desc").Order("id asc").
		Take(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}
