package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"ShengHang/internal/apperr"
	"ShengHang/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(queue string, body []byte) error {
	args := m.Called(queue, body)
	return args.Error(0)
}

func (e *testEnv) historyService(publisher MessagePublisher, keep int) *historyService {
	svc := NewHistoryService(e.repos.HistoryRepo, e.repos.CatalogRepo, e.uow, publisher, keep).(*historyService)
	svc.now = steppingClock(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	return svc
}

func TestRecordPlayPublishesMessage(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "u")
	song := env.song(t, "S", 200, 0)

	pub := new(mockPublisher)
	pub.On("Publish", QueuePlayRecord, mock.MatchedBy(func(body []byte) bool {
		var msg PlayMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return false
		}
		return msg.UserID == u.ID && msg.SongID == song.ID && msg.PlayDuration == 120 && !msg.PlayedAt.IsZero()
	})).Return(nil).Once()

	svc := env.historyService(pub, 10)
	require.NoError(t, svc.RecordPlay(u.ID, song.ID, 120))
	pub.AssertExpectations(t)

	assert.True(t, apperr.Is(svc.RecordPlay(u.ID, song.ID, -1), apperr.InvalidArgument))
	err := svc.RecordPlay(u.ID, song.ID, math.MaxUint32+1)
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))
	assert.Equal(t, "play_duration", apperr.FieldOf(err))
	assert.True(t, apperr.Is(svc.RecordPlay(u.ID, 9999, 10), apperr.NotFound))
	assert.True(t, apperr.Is(svc.RecordPlay(0, song.ID, 10), apperr.Unauthenticated))
	pub.AssertNumberOfCalls(t, "Publish", 1)
}

func TestRecordPlayPublishFailure(t *testing.T) {
	env := newTestEnv(t)
	u := env.user(t, "u")
	song := env.song(t, "S", 200, 0)

	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("channel closed"))

	err := env.historyService(pub, 10).RecordPlay(u.ID, song.ID, 1)
	assert.True(t, apperr.Is(err, apperr.StorageFailure))
}

func TestPersistPlayAndQueries(t *testing.T) {
	env := newTestEnv(t)
	svc := env.historyService(nil, 10)
	u := env.user(t, "u")
	a := env.song(t, "A", 200, 0)
	b := env.song(t, "B", 100, 0)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	plays := []struct {
		song     *model.Song
		duration uint32
	}{{a, 200}, {b, 50}, {a, 100}, {b, 100}, {a, 10}}
	for i, p := range plays {
		require.NoError(t, svc.PersistPlay(PlayMessage{
			UserID: u.ID, SongID: p.song.ID, PlayDuration: p.duration, PlayedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	var song model.Song
	require.NoError(t, env.db.First(&song, a.ID).Error)
	assert.EqualValues(t, 3, song.PlayCount)

	stats, err := svc.Stats(u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, stats.PlayCount)
	assert.EqualValues(t, 460, stats.TotalDuration)

	history, err := svc.MyHistory(u.ID, 2)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, a.ID, history[0].SongID)
	assert.Equal(t, "A", history[0].Song.Title)
	assert.Equal(t, b.ID, history[1].SongID)

	top, err := svc.TopSongs(u.ID, 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, a.ID, top[0].SongID)
	assert.EqualValues(t, 3, top[0].PlayCount)

	// 歌曲已删除：不写入历史，播放数也不变
	err = svc.PersistPlay(PlayMessage{UserID: u.ID, SongID: 9999})
	assert.True(t, apperr.Is(err, apperr.NotFound))
	err = svc.PersistPlay(PlayMessage{SongID: a.ID})
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))

	stats, err = svc.Stats(u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, stats.PlayCount)
}

func TestCleanupAllKeepsNewestPerUser(t *testing.T) {
	env := newTestEnv(t)
	svc := env.historyService(nil, 3)
	heavy := env.user(t, "heavy")
	light := env.user(t, "light")
	song := env.song(t, "S", 100, 0)

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, svc.PersistPlay(PlayMessage{UserID: heavy.ID, SongID: song.ID, PlayedAt: base.Add(time.Duration(i) * time.Hour)}))
	}
	require.NoError(t, svc.PersistPlay(PlayMessage{UserID: light.ID, SongID: song.ID, PlayedAt: base}))

	stats, err := svc.CleanupAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 1, stats.CleanedUsers)
	assert.Zero(t, stats.FailedUsers)
	assert.EqualValues(t, 2, stats.DeletedRecords)

	remaining, err := svc.MyHistory(heavy.ID, 0)
	require.NoError(t, err)
	require.Len(t, remaining, 3)
	assert.True(t, remaining[2].PlayedAt.Equal(base.Add(2*time.Hour)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.CleanupAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
