package service

import (
	"ShengHang/internal/config"
	"ShengHang/internal/data"
	"ShengHang/internal/model"
	"ShengHang/pkg/logger"
)

// SonglistCleanupHook 歌单删除时，在同一个事务里处理挂在歌单下的评论
// 换策略只需要换实现，删除歌单本身的流程不用动
type SonglistCleanupHook interface {
	OnSonglistDeleted(repos *data.TransactionalRepositories, songlistID uint64) error
}

// NewSonglistCleanupHook 根据配置选择策略，默认保留评论
func NewSonglistCleanupHook(policy string) SonglistCleanupHook {
	if policy == config.OrphanCommentPurge {
		return PurgeSonglistComments{}
	}
	return KeepOrphanComments{}
}

// KeepOrphanComments 评论不随歌单删除，只记录有多少条评论成了孤儿
type KeepOrphanComments struct{}

func (KeepOrphanComments) OnSonglistDeleted(repos *data.TransactionalRepositories, songlistID uint64) error {
	count, err := repos.CommentRepo.CountByTarget(model.TargetSonglist, songlistID)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Log.WithField("songlist_id", songlistID).WithField("orphan_comments", count).
			Warn("歌单已删除，歌单下的评论被保留")
	}
	return nil
}

// PurgeSonglistComments 删除所有指向该歌单的评论，以及它们的整棵回复树
type PurgeSonglistComments struct{}

func (PurgeSonglistComments) OnSonglistDeleted(repos *data.TransactionalRepositories, songlistID uint64) error {
	roots, err := repos.CommentRepo.ListIDsByTarget(model.TargetSonglist, songlistID)
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		return nil
	}
	levels, err := collectSubtree(repos.CommentRepo, roots)
	if err != nil {
		return err
	}
	n, err := deleteLevels(repos.CommentRepo, levels)
	if err != nil {
		return err
	}
	logger.Log.WithField("songlist_id", songlistID).WithField("deleted_comments", n).Info("歌单下的评论已清理")
	return nil
}
