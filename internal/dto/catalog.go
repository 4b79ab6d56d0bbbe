package dto

import (
	"ShengHang/internal/model"
	"time"
)

type SingerInfo struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

type SongResponse struct {
	ID        uint64     `json:"id"`
	Title     string     `json:"title"`
	AlbumID   *uint64    `json:"album_id"`
	Duration  uint32     `json:"duration"`
	FileURL   string     `json:"file_url"`
	PlayCount uint64     `json:"play_count"`
	Singer    SingerInfo `json:"singer"`
}

type AlbumResponse struct {
	ID          uint64         `json:"id"`
	Title       string         `json:"title"`
	ReleaseDate *time.Time     `json:"release_date"`
	CoverURL    string         `json:"cover_url"`
	Singer      SingerInfo     `json:"singer"`
	Songs       []SongResponse `json:"songs,omitempty"`
}

type SingerResponse struct {
	ID           uint64          `json:"id"`
	Name         string          `json:"name"`
	Gender       string          `json:"gender"`
	Region       string          `json:"region"`
	Introduction string          `json:"introduction"`
	Albums       []AlbumResponse `json:"albums,omitempty"`
}

func ToSongResponse(song *model.Song) SongResponse {
	resp := SongResponse{
		ID:        song.ID,
		Title:     song.Title,
		AlbumID:   song.AlbumID,
		Duration:  song.Duration,
		FileURL:   song.FileURL,
		PlayCount: song.PlayCount,
		Singer:    SingerInfo{ID: song.SingerID},
	}
	if song.Singer.ID != 0 {
		resp.Singer.Name = song.Singer.Name
	}
	return resp
}

func ToSongResponses(songs []model.Song) []SongResponse {
	response := make([]SongResponse, 0, len(songs))
	for i := range songs {
		response = append(response, ToSongResponse(&songs[i]))
	}
	return response
}

func ToAlbumResponse(album *model.Album) AlbumResponse {
	resp := AlbumResponse{
		ID:          album.ID,
		Title:       album.Title,
		ReleaseDate: album.ReleaseDate,
		CoverURL:    album.CoverURL,
		Singer:      SingerInfo{ID: album.SingerID},
	}
	if album.Singer.ID != 0 {
		resp.Singer.Name = album.Singer.Name
	}
	if len(album.Songs) > 0 {
		resp.Songs = ToSongResponses(album.Songs)
	}
	return resp
}

func ToSingerResponse(singer *model.Singer) SingerResponse {
	resp := SingerResponse{
		ID:           singer.ID,
		Name:         singer.Name,
		Gender:       singer.Gender,
		Region:       singer.Region,
		Introduction: singer.Introduction,
	}
	for i := range singer.Albums {
		resp.Albums = append(resp.Albums, ToAlbumResponse(&singer.Albums[i]))
	}
	return resp
}

func ToSingerInfos(singers []model.Singer) []SingerInfo {
	response := make([]SingerInfo, 0, len(singers))
	for _, s := range singers {
		response = append(response, SingerInfo{ID: s.ID, Name: s.Name})
	}
	return response
}
