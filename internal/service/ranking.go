package service

import (
	"fmt"

	"ShengHang/internal/apperr"
	"ShengHang/internal/model"
	"ShengHang/internal/repository"
)

const (
	DefaultRankingLimit = 10
	MaxRankingLimit     = 100
)

// RankingService 只读的聚合查询
type RankingService interface {
	TopFavorited(targetType model.TargetType, limit int) ([]repository.RankRow, error)
}

type rankingService struct {
	favoriteRepo repository.FavoriteRepository
}

func NewRankingService(favoriteRepo repository.FavoriteRepository) RankingService {
	return &rankingService{favoriteRepo: favoriteRepo}
}

// 被收藏最多的对象，收藏数相同按target_id升序
func (s *rankingService) TopFavorited(targetType model.TargetType, limit int) ([]repository.RankRow, error) {
	if err := requireTarget(targetType); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRankingLimit
	}
	if limit > MaxRankingLimit {
		return nil, apperr.NewInvalidArgument("limit", fmt.Sprintf("limit不能超过%d", MaxRankingLimit))
	}
	rows, err := s.favoriteRepo.TopFavorited(targetType, limit)
	if err != nil {
		return nil, apperr.NewStorageFailure(err)
	}
	return rows, nil
}
