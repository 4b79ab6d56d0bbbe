package service

import (
	"strings"
	"time"

	"ShengHang/internal/apperr"
	"ShengHang/internal/data"
	"ShengHang/internal/model"
	"ShengHang/internal/repository"
)

const songlistSearchLimit = 20

type CreateSonglistInput struct {
	Title       string
	Description *string
	CoverURL    string
	IsPublic    *bool // 不传默认公开
}

// 只更新非nil的字段
type UpdateSonglistInput struct {
	Title       *string
	Description *string
	IsPublic    *bool
}

type SonglistDetail struct {
	Songlist      *model.Songlist
	Songs         []repository.SonglistSongRow
	SongCount     int
	TotalDuration uint64
	SortBy        string // 实际生效的排序
}

type SonglistService interface {
	Create(actorID uint64, in CreateSonglistInput) (*model.Songlist, error)
	Update(actorID, songlistID uint64, in UpdateSonglistInput) (*model.Songlist, error)
	// 删除歌单，成员行和歌单在同一个事务里删除
	Delete(actorID, songlistID uint64) error
	AddSong(actorID, songlistID, songID uint64) error
	RemoveSong(actorID, songlistID, songID uint64) error

	List(viewerID, ownerID uint64, keyword string) ([]model.Songlist, error)
	Detail(viewerID, songlistID uint64, sortBy string) (*SonglistDetail, error)
	Search(keyword string) ([]model.Songlist, error)
	Like(songlistID uint64) error
}

type songlistService struct {
	songlistRepo repository.SonglistRepository
	uow          data.UnitOfWork
	cleanupHook  SonglistCleanupHook
	now          func() time.Time
}

func NewSonglistService(songlistRepo repository.SonglistRepository, uow data.UnitOfWork, cleanupHook SonglistCleanupHook) SonglistService {
	if cleanupHook == nil {
		cleanupHook = KeepOrphanComments{}
	}
	return &songlistService{
		songlistRepo: songlistRepo,
		uow:          uow,
		cleanupHook:  cleanupHook,
		now:          time.Now,
	}
}

func (s *songlistService) Create(actorID uint64, in CreateSonglistInput) (*model.Songlist, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperr.NewInvalidArgument("title", "歌单标题不能为空")
	}
	cover := strings.TrimSpace(in.CoverURL)
	if cover == "" {
		cover = model.DefaultSonglistCover
	}
	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}
	songlist := &model.Songlist{
		UserID:      actorID,
		Title:       title,
		Description: in.Description,
		CoverURL:    cover,
		IsPublic:    isPublic,
	}
	now := s.now()
	songlist.CreatedAt, songlist.UpdatedAt = now, now
	if err := s.songlistRepo.Create(songlist); err != nil {
		return nil, translate(err, "歌单不存在")
	}
	return songlist, nil
}

// lockAndAuthorize 锁住歌单并判断权限：不存在是NotFound，不是自己的是Forbidden
func lockAndAuthorize(repos *data.TransactionalRepositories, actorID, songlistID uint64) (*model.Songlist, error) {
	songlist, err := repos.SonglistRepo.FindByIDForUpdate(songlistID)
	if err != nil {
		return nil, translate(err, "歌单不存在")
	}
	allowed, err := repos.Authority().CanMutatePlaylist(actorID, songlistID)
	if err != nil {
		return nil, apperr.NewStorageFailure(err)
	}
	if !allowed {
		return nil, apperr.NewForbidden("只有歌单主人可以修改该歌单")
	}
	return songlist, nil
}

func (s *songlistService) Update(actorID, songlistID uint64, in UpdateSonglistInput) (*model.Songlist, error) {
	if err := requireActor(actorID); err != nil {
		return nil, err
	}
	fields := make(map[string]interface{})
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperr.NewInvalidArgument("title", "歌单标题不能为空")
		}
		fields["title"] = title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.IsPublic != nil {
		fields["is_public"] = *in.IsPublic
	}
	if len(fields) == 0 {
		return nil, apperr.NewInvalidArgument("", "没有需要更新的字段")
	}
	fields["updated_at"] = s.now()

	var updated *model.Songlist
	err := s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		if _, err := lockAndAuthorize(repos, actorID, songlistID); err != nil {
			return err
		}
		if _, err := repos.SonglistRepo.Update(songlistID, fields); err != nil {
			return apperr.NewStorageFailure(err)
		}
		var err error
		updated, err = repos.SonglistRepo.FindByID(songlistID)
		return translate(err, "歌单不存在")
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// 删除歌单：先删成员行，再交给清理钩子处理评论，最后删歌单本身，全部在一个事务里
func (s *songlistService) Delete(actorID, songlistID uint64) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	return s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		if _, err := lockAndAuthorize(repos, actorID, songlistID); err != nil {
			return err
		}
		if _, err := repos.SonglistRepo.DeleteSongs(songlistID); err != nil {
			return apperr.NewStorageFailure(err)
		}
		if err := s.cleanupHook.OnSonglistDeleted(repos, songlistID); err != nil {
			return apperr.NewStorageFailure(err)
		}
		if _, err := repos.SonglistRepo.Delete(songlistID); err != nil {
			return apperr.NewStorageFailure(err)
		}
		return nil
	})
}

// 添加歌曲：不先查重，直接插入，由唯一索引把并发的重复添加变成AlreadyExists
func (s *songlistService) AddSong(actorID, songlistID, songID uint64) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	return s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		if _, err := lockAndAuthorize(repos, actorID, songlistID); err != nil {
			return err
		}
		exists, err := repos.CatalogRepo.SongExists(songID)
		if err != nil {
			return apperr.NewStorageFailure(err)
		}
		if !exists {
			return apperr.NewNotFound("歌曲不存在")
		}
		member := &model.SonglistSong{
			SonglistID: songlistID,
			SongID:     songID,
			AddedAt:    s.now(),
		}
		if err := repos.SonglistRepo.AddSong(member); err != nil {
			if repository.IsDuplicateKey(err) {
				return apperr.Wrap(apperr.AlreadyExists, "歌曲已在歌单中", err)
			}
			return apperr.NewStorageFailure(err)
		}
		return nil
	})
}

func (s *songlistService) RemoveSong(actorID, songlistID, songID uint64) error {
	if err := requireActor(actorID); err != nil {
		return err
	}
	return s.uow.Execute(func(repos *data.TransactionalRepositories) error {
		if _, err := lockAndAuthorize(repos, actorID, songlistID); err != nil {
			return err
		}
		rows, err := repos.SonglistRepo.RemoveSong(songlistID, songID)
		if err != nil {
			return apperr.NewStorageFailure(err)
		}
		if rows == 0 {
			return apperr.NewNotFound("歌曲不在歌单中")
		}
		return nil
	})
}

// 歌单列表：私有歌单只有主人自己能看到
func (s *songlistService) List(viewerID, ownerID uint64, keyword string) ([]model.Songlist, error) {
	songlists, err := s.songlistRepo.List(repository.SonglistFilter{
		OwnerID:  ownerID,
		Keyword:  strings.TrimSpace(keyword),
		ViewerID: viewerID,
	})
	if err != nil {
		return nil, apperr.NewStorageFailure(err)
	}
	return songlists, nil
}

// 歌单详情：元信息、总时长、按白名单排序的歌曲列表
func (s *songlistService) Detail(viewerID, songlistID uint64, sortBy string) (*SonglistDetail, error) {
	songlist, err := s.songlistRepo.FindByID(songlistID)
	if err != nil {
		return nil, translate(err, "歌单不存在")
	}
	if !songlist.IsPublic && songlist.UserID != viewerID {
		return nil, apperr.NewForbidden("这是一个私有歌单")
	}
	sortBy = repository.NormalizeSonglistSongSort(sortBy)
	songs, err := s.songlistRepo.ListSongs(songlistID, sortBy)
	if err != nil {
		return nil, apperr.NewStorageFailure(err)
	}
	total, err := s.songlistRepo.TotalDuration(songlistID)
	if err != nil {
		return nil, apperr.NewStorageFailure(err)
	}
	return &SonglistDetail{
		Songlist:      songlist,
		Songs:         songs,
		SongCount:     len(songs),
		TotalDuration: total,
		SortBy:        sortBy,
	}, nil
}

// 只搜公开歌单，按点赞数排序
func (s *songlistService) Search(keyword string) ([]model.Songlist, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, apperr.NewInvalidArgument("keyword", "搜索关键词不能为空")
	}
	songlists, err := s.songlistRepo.SearchPublic(keyword, songlistSearchLimit)
	if err != nil {
		return nil, apperr.NewStorageFailure(err)
	}
	return songlists, nil
}

func (s *songlistService) Like(songlistID uint64) error {
	rows, err := s.songlistRepo.IncrementLikeCount(songlistID)
	if err != nil {
		return apperr.NewStorageFailure(err)
	}
	if rows == 0 {
		return apperr.NewNotFound("歌单不存在")
	}
	return nil
}
