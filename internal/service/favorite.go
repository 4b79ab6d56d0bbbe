package service

import (
	"time"

	"ShengHang/internal/apperr"
	"ShengHang/internal/model"
	"ShengHang/internal/repository"
)

type FavoriteService interface {
	// 重复收藏返回AlreadyExists
	Add(actorID uint64, targetType model.TargetType, targetID uint64) error
	// 取消收藏是幂等的，没收藏过也算成功
	Remove(actorID uint64, targetType model.TargetType, targetID uint64) error
	List(actorID uint64, targetType model.TargetType) ([]repository.FavoriteRow, error)
	MySongStats(actorID uint64) (*repository.FavoriteSongStats, error)
}

type favoriteService struct {
	favoriteRepo repository.FavoriteRepository
	now          func() time.Time
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository) FavoriteService {
	return &favoriteService{
		favoriteRepo: favoriteRepo,
		now:          time.Now,
	}
}

// 不查目标是否存在；不先查重，两个并发的收藏请求只有一个能插进去，另一个撞唯一索引
func (s *favoriteService) Add(actorID uint64, targetType model.TargetType, targetID uint64) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	if err := requireTarget(targetType); err != nil {
		return err
	}
	favorite := &model.Favorite{
		UserID:     actorID,
		TargetType: targetType,
		TargetID:   targetID,
		CreatedAt:  s.now(),
	}
	if err := s.favoriteRepo.Create(favorite); err != nil {
		if repository.IsDuplicateKey(err) {
			return apperr.Wrap(apperr.AlreadyExists, "已经收藏过了", err)
		}
		return apperr.NewStorageFailure(err)
	}
	return nil
}

func (s *favoriteService) Remove(actorID uint64, targetType model.TargetType, targetID uint64) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	if err := requireTarget(targetType); err != nil {
		return err
	}
	if _, err := s.favoriteRepo.Delete(actorID, targetType, targetID); err != nil {
		return apperr.NewStorageFailure(err)
	}
	return nil
}

func (s *favoriteService) List(actorID uint64, targetType model.TargetType) ([]repository.FavoriteRow, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	if err := requireTarget(targetType); err != nil {
		return nil, err
	}
	rows, err := s.favoriteRepo.ListByUser(actorID, targetType)
	if err != nil {
		return nil, apperr.NewStorageFailure(err)
	}
	return rows, nil
}

// 把收藏的歌曲当作一个默认歌单，统计首数和总时长
func (s *favoriteService) MySongStats(actorID uint64) (*repository.FavoriteSongStats, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	stats, err := s.favoriteRepo.SongStats(actorID)
	if err != nil {
		return nil, apperr.NewStorageFailure(err)
	}
	return stats, nil
}
