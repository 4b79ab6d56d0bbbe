package dto

import (
	"ShengHang/internal/model"
	"time"
)

type PlayHistoryResponse struct {
	ID           uint64    `json:"id"`
	SongID       uint64    `json:"song_id"`
	SongTitle    string    `json:"song_title"`
	PlayDuration uint32    `json:"play_duration"`
	PlayedAt     time.Time `json:"played_at"`
}

func ToPlayHistoryResponses(histories []model.PlayHistory) []PlayHistoryResponse {
	response := make([]PlayHistoryResponse, 0, len(histories))
	for _, h := range histories {
		response = append(response, PlayHistoryResponse{
			ID:           h.ID,
			SongID:       h.SongID,
			SongTitle:    h.Song.Title,
			PlayDuration: h.PlayDuration,
			PlayedAt:     h.PlayedAt,
		})
	}
	return response
}
