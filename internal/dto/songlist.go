package dto

import (
	"ShengHang/internal/model"
	"ShengHang/internal/repository"
	"time"
)

type SonglistResponse struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	CoverURL    string    `json:"cover_url"`
	IsPublic    bool      `json:"is_public"`
	LikeCount   uint64    `json:"like_count"`
	CreatedAt   time.Time `json:"created_at"`
	Owner       UserInfo  `json:"owner"`
}

type SonglistDetailResponse struct {
	SonglistResponse
	SortBy        string                       `json:"sort_by"`
	SongCount     int                          `json:"song_count"`
	TotalDuration uint64                       `json:"total_duration"`
	Songs         []repository.SonglistSongRow `json:"songs"`
}

func ToSonglistResponse(songlist *model.Songlist) SonglistResponse {
	resp := SonglistResponse{
		ID:          songlist.ID,
		Title:       songlist.Title,
		Description: songlist.Description,
		CoverURL:    songlist.CoverURL,
		IsPublic:    songlist.IsPublic,
		LikeCount:   songlist.LikeCount,
		CreatedAt:   songlist.CreatedAt,
		Owner:       UserInfo{ID: songlist.UserID},
	}
	if songlist.User.ID != 0 {
		resp.Owner.Username = songlist.User.Username
	}
	return resp
}

func ToSonglistResponses(songlists []model.Songlist) []SonglistResponse {
	response := make([]SonglistResponse, 0, len(songlists))
	for i := range songlists {
		response = append(response, ToSonglistResponse(&songlists[i]))
	}
	return response
}

func ToSonglistDetailResponse(songlist *model.Songlist, songs []repository.SonglistSongRow, totalDuration uint64, sortBy string) SonglistDetailResponse {
	if songs == nil {
		songs = []repository.SonglistSongRow{}
	}
	return SonglistDetailResponse{
		SonglistResponse: ToSonglistResponse(songlist),
		SortBy:           sortBy,
		SongCount:        len(songs),
		TotalDuration:    totalDuration,
		Songs:            songs,
	}
}
