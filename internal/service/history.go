package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"ShengHang/internal/apperr"
	"ShengHang/internal/data"
	"ShengHang/internal/model"
	"ShengHang/internal/repository"
	"ShengHang/pkg/logger"
)

const (
	// 遵循：项目名.业务领域.实体/功能
	QueuePlayRecord = "shenghang.play.queue"

	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// PlayMessage 播放记录消息，API只负责投递，由consumer落库
type PlayMessage struct {
	UserID       uint64    `json:"user_id"`
	SongID       uint64    `json:"song_id"`
	PlayDuration uint32    `json:"play_duration"`
	PlayedAt     time.Time `json:"played_at"`
}

// MessagePublisher 按队列名投递消息，rabbitmq.Publisher实现了它
type MessagePublisher interface {
	Publish(queue string, body []byte) error
}

// CleanupStats 一次清理的统计
type CleanupStats struct {
	TotalUsers     int
	CleanedUsers   int
	FailedUsers    int
	DeletedRecords int64
}

type HistoryService interface {
	RecordPlay(actorID, songID uint64, playDuration int) error
	// consumer调用：写入播放记录并给歌曲播放数+1，在一个事务里
	PersistPlay(msg PlayMessage) error

	MyHistory(actorID uint64, limit int) ([]model.PlayHistory, error)
	Stats(actorID uint64) (*repository.HistoryStats, error)
	TopSongs(actorID uint64, limit int) ([]repository.TopSongRow, error)

	// 每个用户只保留最新的keep条
	CleanupAll(ctx context.Context) (*CleanupStats, error)
}

type historyService struct {
	historyRepo repository.HistoryRepository
	catalogRepo repository.CatalogRepository
	uow         data.UnitOfWork
	publisher   MessagePublisher
	keep        int
	now         func() time.Time
}

func NewHistoryService(historyRepo repository.HistoryRepository, catalogRepo repository.CatalogRepository, uow data.UnitOfWork, publisher MessagePublisher, keep int) HistoryService {
	if keep <= 0 {
		keep = MaxHistoryLimit
	}
	return &historyService{
		historyRepo: historyRepo,
		catalogRepo: catalogRepo,
		uow:         uow,
		publisher:   publisher,
		keep:        keep,
		now:         time.Now,
	}
}

// 记录播放：1、校验 2、确认歌曲存在 3、投递消息，不直接写库
func (s *historyService) RecordPlay(actorID, songID uint64, playDuration int) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	if playDuration < 0 {
		return apperr.NewInvalidArgument("play_duration", "播放时长不能为负数")
	}
	if int64(playDuration) > math.MaxUint32 {
		return apperr.NewInvalidArgument("play_duration", "播放时长超出范围")
	}
	exists, err := s.catalogRepo.SongExists(songID)
	if err != nil {
		return apperr.NewStorageFailure(err)
	}
	if !exists {
		return apperr.NewNotFound("歌曲不存在")
	}
	body, err := json.Marshal(PlayMessage{
		UserID:       actorID,
		SongID:       songID,
		PlayDuration: uint32(playDuration),
		PlayedAt:     s.now(),
	})
	if err != nil {
		return err
	}
	if err := s.publisher.Publish(QueuePlayRecord, body); err != nil {
		logger.Log.WithError(err).WithField("user_id", actorID).WithField("song_id", songID).Error("播放记录消息投递失败")
		return apperr.Wrap(apperr.StorageFailure, "播放记录保存失败", err)
	}
	return nil
}

// 歌曲在投递之后被删了的话返回NotFound，consumer据此直接丢弃消息
func (s *historyService) PersistPlay(msg PlayMessage) error {
	if msg.UserID == 0 || msg.SongID == 0 {
		return apperr.NewInvalidArgument("", "播放记录消息缺少user_id或song_id")
	}
	playedAt := msg.PlayedAt
	if playedAt.IsZero() {
		playedAt = s.now()
	}
	return s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		rows, err := repos.CatalogRepo.IncrementPlayCount(msg.SongID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return apperr.NewNotFound("歌曲不存在")
		}
		return repos.HistoryRepo.Create(&model.PlayHistory{
			UserID:       msg.UserID,
			SongID:       msg.SongID,
			PlayDuration: msg.PlayDuration,
			PlayedAt:     playedAt,
		})
	})
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

func (s *historyService) MyHistory(actorID uint64, limit int) ([]model.PlayHistory, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	histories, err := s.historyRepo.ListByUser(actorID, clampLimit(limit, DefaultHistoryLimit, MaxHistoryLimit))
	if err != nil {
		return nil, apperr.NewStorageFailure(err)
	}
	return histories, nil
}

func (s *historyService) Stats(actorID uint64) (*repository.HistoryStats, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	stats, err := s.historyRepo.Stats(actorID)
	if err != nil {
		return nil, apperr.NewStorageFailure(err)
	}
	return stats, nil
}

func (s *historyService) TopSongs(actorID uint64, limit int) ([]repository.TopSongRow, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	rows, err := s.historyRepo.TopSongs(actorID, clampLimit(limit, DefaultRankingLimit, MaxRankingLimit))
	if err != nil {
		return nil, apperr.NewStorageFailure(err)
	}
	return rows, nil
}

// 单个用户失败不影响其他用户，只有拿不到用户列表才整体失败
func (s *historyService) CleanupAll(ctx context.Context) (*CleanupStats, error) {
	userIDs, err := s.historyRepo.UserIDs()
	if err != nil {
		return nil, err
	}
	stats := &CleanupStats{TotalUsers: len(userIDs)}
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		logCtx := logger.Log.WithField("user_id", userID)
		count, err := s.historyRepo.Count(userID)
		if err != nil {
			logCtx.WithError(err).Error("统计播放记录失败")
			stats.FailedUsers++
			continue
		}
		if count <= int64(s.keep) {
			continue
		}
		deleted, err := s.historyRepo.Cleanup(userID, s.keep)
		if err != nil {
			logCtx.WithError(err).Error("清理播放记录失败")
			stats.FailedUsers++
			continue
		}
		stats.CleanedUsers++
		stats.DeletedRecords += deleted
	}
	return stats, nil
}
