package main

import (
	"errors"
	"testing"

	"ShengHang/internal/apperr"
	"ShengHang/internal/service"
	"ShengHang/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockPersister struct {
	mock.Mock
}

func (m *mockPersister) PersistPlay(msg service.PlayMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func TestHandlePlayMessage(t *testing.T) {
	body := []byte(`{"user_id":1,"song_id":2,"play_duration":180}`)
	logCtx := logger.Log.WithField("test", t.Name())

	t.Run("成功则确认", func(t *testing.T) {
		p := new(mockPersister)
		p.On("PersistPlay", mock.MatchedBy(func(msg service.PlayMessage) bool {
			return msg.UserID == 1 && msg.SongID == 2 && msg.PlayDuration == 180
		})).Return(nil).Once()

		assert.Equal(t, ackDone, handlePlayMessage(body, p, logCtx))
		p.AssertExpectations(t)
	})

	t.Run("坏JSON直接丢弃", func(t *testing.T) {
		p := new(mockPersister)
		assert.Equal(t, ackDrop, handlePlayMessage([]byte("not-json"), p, logCtx))
		p.AssertNotCalled(t, "PersistPlay", mock.Anything)
	})

	t.Run("歌曲已删除则确认丢弃", func(t *testing.T) {
		p := new(mockPersister)
		p.On("PersistPlay", mock.Anything).Return(apperr.NewNotFound("歌曲不存在")).Once()
		assert.Equal(t, ackDone, handlePlayMessage(body, p, logCtx))
	})

	t.Run("消息缺字段则确认丢弃", func(t *testing.T) {
		p := new(mockPersister)
		p.On("PersistPlay", mock.Anything).Return(apperr.NewInvalidArgument("", "播放记录消息缺少user_id或song_id")).Once()
		assert.Equal(t, ackDone, handlePlayMessage(body, p, logCtx))
	})

	t.Run("存储错误重新入队", func(t *testing.T) {
		p := new(mockPersister)
		p.On("PersistPlay", mock.Anything).Return(errors.New("connection reset")).Once()
		assert.Equal(t, ackRetry, handlePlayMessage(body, p, logCtx))
	})
}
