package service

import (
	"sync"
	"testing"
	"time"

	"ShengHang/internal/apperr"
	"ShengHang/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteAddTwiceReportsAlreadyExists(t *testing.T) {
	env := newTestEnv(t)
	svc := NewFavoriteService(env.repos.FavoriteRepo)
	u := env.user(t, "u")

	require.NoError(t, svc.Add(u.ID, model.TargetSong, 7))
	err := svc.Add(u.ID, model.TargetSong, 7)
	assert.True(t, apperr.Is(err, apperr.AlreadyExists))

	// 同一个id，不同类型是不同的收藏
	require.NoError(t, svc.Add(u.ID, model.TargetAlbum, 7))

	assert.EqualValues(t, 1, env.favoriteCount(t, u.ID, model.TargetSong, 7))

	assert.True(t, apperr.Is(svc.Add(u.ID, "mv", 7), apperr.InvalidArgument))
	assert.True(t, apperr.Is(svc.Add(0, model.TargetSong, 7), apperr.Unauthenticated))
}

// 两个并发的收藏请求，最终只留下一行
func TestScenarioConcurrentFavorite(t *testing.T) {
	env := newTestEnv(t)
	svc := NewFavoriteService(env.repos.FavoriteRepo)
	u1 := env.user(t, "U1")
	s7 := env.song(t, "S7", 180, 0)

	const n = 8
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- svc.Add(u1.ID, model.TargetSong, s7.ID)
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperr.Is(err, apperr.AlreadyExists), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	assert.EqualValues(t, 1, env.favoriteCount(t, u1.ID, model.TargetSong, s7.ID))
}

func TestFavoriteRemoveIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	svc := NewFavoriteService(env.repos.FavoriteRepo)
	u := env.user(t, "u")

	require.NoError(t, svc.Remove(u.ID, model.TargetSong, 1))
	require.NoError(t, svc.Add(u.ID, model.TargetSong, 1))
	require.NoError(t, svc.Remove(u.ID, model.TargetSong, 1))
	require.NoError(t, svc.Add(u.ID, model.TargetSong, 1))
}

func TestFavoriteListAndSongStats(t *testing.T) {
	env := newTestEnv(t)
	svc := NewFavoriteService(env.repos.FavoriteRepo).(*favoriteService)
	svc.now = steppingClock(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	u := env.user(t, "u")
	a := env.song(t, "A", 100, 0)
	b := env.song(t, "B", 250, 0)

	require.NoError(t, svc.Add(u.ID, model.TargetSong, a.ID))
	require.NoError(t, svc.Add(u.ID, model.TargetSong, b.ID))
	// 目标不存在也能收藏，列表里名字为空
	require.NoError(t, svc.Add(u.ID, model.TargetSong, 4242))

	rows, err := svc.List(u.ID, model.TargetSong)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.EqualValues(t, 4242, rows[0].TargetID)
	assert.Empty(t, rows[0].Name)
	assert.Equal(t, "B", rows[1].Name)
	assert.Equal(t, "A", rows[2].Name)

	stats, err := svc.MySongStats(u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.SongCount)
	assert.EqualValues(t, 350, stats.TotalDuration)
}

func TestRankingTopFavorited(t *testing.T) {
	env := newTestEnv(t)
	favorites := NewFavoriteService(env.repos.FavoriteRepo)
	ranking := NewRankingService(env.repos.FavoriteRepo)
	users := []*model.User{env.user(t, "u1"), env.user(t, "u2"), env.user(t, "u3")}
	a := env.song(t, "A", 100, 0)
	b := env.song(t, "B", 100, 0)
	c := env.song(t, "C", 100, 0)

	fav := func(u *model.User, s *model.Song) {
		require.NoError(t, favorites.Add(u.ID, model.TargetSong, s.ID))
	}
	fav(users[0], c)
	fav(users[1], c)
	fav(users[2], c)
	fav(users[0], b)
	fav(users[1], b)
	fav(users[0], a)
	fav(users[1], a)
	// 已不存在的歌曲不参与排名
	require.NoError(t, favorites.Add(users[2].ID, model.TargetSong, 9999))
	require.NoError(t, favorites.Add(users[0].ID, model.TargetAlbum, a.ID))

	rows, err := ranking.TopFavorited(model.TargetSong, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, c.ID, rows[0].TargetID)
	assert.EqualValues(t, 3, rows[0].FavoriteCount)
	assert.Equal(t, "C", rows[0].Name)
	// 数量相同按id升序
	assert.Equal(t, a.ID, rows[1].TargetID)
	assert.Equal(t, b.ID, rows[2].TargetID)

	rows, err = ranking.TopFavorited(model.TargetSong, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	rows, err = ranking.TopFavorited(model.TargetSong, MaxRankingLimit)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	_, err = ranking.TopFavorited(model.TargetSong, MaxRankingLimit+1)
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))
	assert.Equal(t, "limit", apperr.FieldOf(err))

	_, err = ranking.TopFavorited("mv", 10)
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))
}
