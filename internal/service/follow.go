package service

import (
	"time"

	"ShengHang/internal/apperr"
	"ShengHang/internal/model"
	"ShengHang/internal/repository"
)

type FollowService interface {
	FollowUser(actorID, targetUserID uint64) error
	UnfollowUser(actorID, targetUserID uint64) error
	FollowSinger(actorID, singerID uint64) error
	UnfollowSinger(actorID, singerID uint64) error

	Followers(userID uint64) ([]model.User, error)
	Followings(userID uint64) ([]model.User, error)
	FollowedSingers(userID uint64) ([]model.Singer, error)
}

type followService struct {
	followRepo  repository.FollowRepository
	userRepo    repository.UserRepository
	catalogRepo repository.CatalogRepository
	now         func() time.Time
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository, catalogRepo repository.CatalogRepository) FollowService {
	return &followService{
		followRepo:  followRepo,
		userRepo:    userRepo,
		catalogRepo: catalogRepo,
		now:         time.Now,
	}
}

func (s *followService) FollowUser(actorID, targetUserID uint64) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	if actorID == targetUserID {
		return apperr.NewInvalidArgument("user_id", "不能关注自己")
	}
	if _, err := s.userRepo.FindByID(targetUserID); err != nil {
		return translate(err, "用户不存在")
	}
	err := s.followRepo.FollowUser(&model.UserFollow{
		FollowerID: actorID,
		FollowedID: targetUserID,
		CreatedAt:  s.now(),
	})
	if err != nil {
		if repository.IsDuplicateKey(err) {
			return apperr.Wrap(apperr.AlreadyExists, "已经关注过该用户", err)
		}
		return apperr.NewStorageFailure(err)
	}
	return nil
}

func (s *followService) UnfollowUser(actorID, targetUserID uint64) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	rows, err := s.followRepo.UnfollowUser(actorID, targetUserID)
	if err != nil {
		return apperr.NewStorageFailure(err)
	}
	if rows == 0 {
		return apperr.NewNotFound("还没有关注该用户")
	}
	return nil
}

func (s *followService) FollowSinger(actorID, singerID uint64) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	exists, err := s.catalogRepo.SingerExists(singerID)
	if err != nil {
		return apperr.NewStorageFailure(err)
	}
	if !exists {
		return apperr.NewNotFound("歌手不存在")
	}
	err = s.followRepo.FollowSinger(&model.SingerFollow{
		UserID:    actorID,
		SingerID:  singerID,
		CreatedAt: s.now(),
	})
	if err != nil {
		if repository.IsDuplicateKey(err) {
			return apperr.Wrap(apperr.AlreadyExists, "已经关注过该歌手", err)
		}
		return apperr.NewStorageFailure(err)
	}
	return nil
}

func (s *followService) UnfollowSinger(actorID, singerID uint64) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	rows, err := s.followRepo.UnfollowSinger(actorID, singerID)
	if err != nil {
		return apperr.NewStorageFailure(err)
	}
	if rows == 0 {
		return apperr.NewNotFound("还没有关注该歌手")
	}
	return nil
}

func (s *followService) Followers(userID uint64) ([]model.User, error) {
	users, err := s.followRepo.ListFollowers(userID)
	if err != nil {
		return nil, apperr.NewStorageFailure(err)
	}
	return users, nil
}

func (s *followService) Followings(userID uint64) ([]model.User, error) {
	users, err := s.followRepo.ListFollowings(userID)
	if err != nil {
		return nil, apperr.NewStorageFailure(err)
	}
	return users, nil
}

func (s *followService) FollowedSingers(userID uint64) ([]model.Singer, error) {
	singers, err := s.followRepo.ListFollowedSingers(userID)
	if err != nil {
		return nil, apperr.NewStorageFailure(err)
	}
	return singers, nil
}
