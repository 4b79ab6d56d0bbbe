package service

import (
	"testing"
	"time"

	"ShengHang/internal/data"
	"ShengHang/internal/model"
	"ShengHang/internal/repository"
	"ShengHang/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db    *gorm.DB
	repos *data.Repositories
	uow   data.UnitOfWork
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)
	repos := data.NewRepositories(db, repository.NewCatalogRepository(db, nil, 0))
	return &testEnv{
		db:    db,
		repos: repos,
		uow:   data.NewUnitOfWork(db, repos),
	}
}

// 固定时钟，每调用一次前进一秒，保证created_at严格递增
func steppingClock(start time.Time) func() time.Time {
	current := start.UTC().Truncate(time.Second)
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func (e *testEnv) commentService() *commentService {
	return &commentService{
		commentRepo: e.repos.CommentRepo,
		uow:         e.uow,
		now:         steppingClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
}

func (e *testEnv) songlistService(hook SonglistCleanupHook) *songlistService {
	return &songlistService{
		songlistRepo: e.repos.SonglistRepo,
		uow:          e.uow,
		cleanupHook:  hook,
		now:          steppingClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
}

func (e *testEnv) user(t *testing.T, name string) *model.User {
	return testutil.CreateUser(t, e.db, name, false)
}

func (e *testEnv) admin(t *testing.T, name string) *model.User {
	return testutil.CreateUser(t, e.db, name, true)
}

func (e *testEnv) song(t *testing.T, title string, duration uint32, playCount uint64) *model.Song {
	t.Helper()
	singer := &model.Singer{Name: "singer-" + title}
	require.NoError(t, e.db.Create(singer).Error)
	song := &model.Song{Title: title, SingerID: singer.ID, Duration: duration, PlayCount: playCount}
	require.NoError(t, e.db.Create(song).Error)
	return song
}

func (e *testEnv) commentExists(t *testing.T, id uint64) bool {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.Comment{}).Where("id = ?", id).Count(&n).Error)
	return n > 0
}

func (e *testEnv) favoriteCount(t *testing.T, userID uint64, targetType model.TargetType, targetID uint64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.Favorite{}).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		Count(&n).Error)
	return n
}

func (e *testEnv) memberCount(t *testing.T, songlistID uint64) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&model.SonglistSong{}).Where("songlist_id = ?", songlistID).Count(&n).Error)
	return n
}

func uint64Ptr(v uint64) *uint64 { return &v }

func boolPtr(v bool) *bool { return &v }

func strPtr(v string) *string { return &v }
