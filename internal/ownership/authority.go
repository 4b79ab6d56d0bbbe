// Package ownership 回答“某个用户能不能改某个资源”
package ownership

import (
	"errors"

	"ShengHang/internal/model"

	"gorm.io/gorm"
)

type AdminChecker interface {
	IsAdmin(userID uint64) (bool, error)
}

type SonglistOwnership interface {
	ExistsOwnedBy(songlistID, ownerID uint64) (bool, error)
}

type CommentFinder interface {
	FindByID(commentID uint64) (*model.Comment, error)
}

// Authority 只读，不做任何修改。
// 资源不存在和没有权限对调用方来说都是false，需要区分404的调用方自己先查存在性
type Authority struct {
	admins    AdminChecker
	songlists SonglistOwnership
	comments  CommentFinder
}

func NewAuthority(admins AdminChecker, songlists SonglistOwnership, comments CommentFinder) *Authority {
	return &Authority{
		admins:    admins,
		songlists: songlists,
		comments:  comments,
	}
}

// CanMutatePlaylist 管理员可以改任何歌单，其他人只能改自己的
func (a *Authority) CanMutatePlaylist(actorID, songlistID uint64) (bool, error) {
	if actorID == 0 {
		return false, nil
	}
	isAdmin, err := a.admins.IsAdmin(actorID)
	if err != nil {
		return false, err
	}
	if isAdmin {
		return true, nil
	}
	return a.songlists.ExistsOwnedBy(songlistID, actorID)
}

// CanDeleteComment 作者可以删自己的评论；歌单下的评论，歌单主人也可以删。
// 歌曲、专辑下的评论只有作者能删
func (a *Authority) CanDeleteComment(actorID, commentID uint64) (bool, error) {
	if actorID == 0 {
		return false, nil
	}
	comment, err := a.comments.FindByID(commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if comment.UserID == actorID {
		return true, nil
	}
	if comment.TargetType == model.TargetSonglist {
		return a.CanMutatePlaylist(actorID, comment.TargetID)
	}
	return false, nil
}
