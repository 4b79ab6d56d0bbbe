package main

import (
	"encoding/json"

	"ShengHang/internal/apperr"
	"ShengHang/internal/service"

	"github.com/sirupsen/logrus"
)

type PlayPersister interface {
	PersistPlay(msg service.PlayMessage) error
}

type ackAction int

const (
	ackDone ackAction = iota
	ackDrop
	ackRetry
)

// handlePlayMessage 处理一条播放消息，返回该如何确认
func handlePlayMessage(body []byte, persister PlayPersister, logCtx *logrus.Entry) ackAction {
	var msg service.PlayMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		logCtx.WithError(err).Error("消息JSON解析失败")
		return ackDrop
	}
	logCtx = logCtx.WithField("user_id", msg.UserID).WithField("song_id", msg.SongID)

	err := persister.PersistPlay(msg)
	switch {
	case err == nil:
		logCtx.Info("播放记录已保存")
		return ackDone
	case apperr.Is(err, apperr.NotFound), apperr.Is(err, apperr.InvalidArgument):
		// 歌曲已被删除或消息本身不合法，重试也没用
		logCtx.WithError(err).Warn("播放记录无法保存，消息将被丢弃")
		return ackDone
	default:
		logCtx.WithError(err).Error("处理消息失败，将进行重试")
		return ackRetry
	}
}
