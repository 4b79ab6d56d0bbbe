package service

import (
	"fmt"
	"testing"
	"time"

	"ShengHang/internal/apperr"
	"ShengHang/internal/model"
	"ShengHang/internal/repository"
	"ShengHang/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogWithCache(t *testing.T) (CatalogService, *miniredis.Miniredis, *testEnv) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	db := testutil.NewTestDB(t)
	catalogRepo := repository.NewCatalogRepository(db, rdb, time.Minute)
	env := &testEnv{db: db}
	return NewCatalogService(catalogRepo), mr, env
}

func TestCatalogCreateValidation(t *testing.T) {
	svc, _, _ := newCatalogWithCache(t)

	_, err := svc.CreateSinger(CreateSingerInput{Name: " "})
	assert.Equal(t, "name", apperr.FieldOf(err))

	_, err = svc.CreateAlbum(CreateAlbumInput{Title: "专辑", SingerID: 404})
	assert.True(t, apperr.Is(err, apperr.NotFound))

	singer, err := svc.CreateSinger(CreateSingerInput{Name: "周"})
	require.NoError(t, err)
	album, err := svc.CreateAlbum(CreateAlbumInput{Title: "范特西", SingerID: singer.ID})
	require.NoError(t, err)

	_, err = svc.CreateSong(CreateSongInput{Title: "双截棍", SingerID: singer.ID, AlbumID: uint64Ptr(404)})
	assert.True(t, apperr.Is(err, apperr.NotFound))

	song, err := svc.CreateSong(CreateSongInput{Title: "双截棍", SingerID: singer.ID, AlbumID: &album.ID, Duration: 200})
	require.NoError(t, err)

	gotAlbum, err := svc.GetAlbum(album.ID)
	require.NoError(t, err)
	require.Len(t, gotAlbum.Songs, 1)
	assert.Equal(t, song.ID, gotAlbum.Songs[0].ID)
	assert.Equal(t, "周", gotAlbum.Singer.Name)

	gotSinger, err := svc.GetSinger(singer.ID)
	require.NoError(t, err)
	require.Len(t, gotSinger.Albums, 1)
}

func TestCatalogGetSongUsesCache(t *testing.T) {
	svc, mr, env := newCatalogWithCache(t)
	singer, err := svc.CreateSinger(CreateSingerInput{Name: "歌手"})
	require.NoError(t, err)
	song, err := svc.CreateSong(CreateSongInput{Title: "原名", SingerID: singer.ID, Duration: 180})
	require.NoError(t, err)

	got, err := svc.GetSong(song.ID)
	require.NoError(t, err)
	assert.Equal(t, "原名", got.Title)
	assert.Equal(t, "歌手", got.Singer.Name)
	key := fmt.Sprintf("song:info:%d", song.ID)
	assert.True(t, mr.Exists(key))
	ttl := mr.TTL(key)
	assert.True(t, ttl >= time.Minute && ttl < 2*time.Minute, "ttl %v", ttl)

	// 直接改库，缓存未过期前读到的还是旧值
	require.NoError(t, env.db.Model(&model.Song{}).Where("id = ?", song.ID).Update("title", "新名").Error)
	got, err = svc.GetSong(song.ID)
	require.NoError(t, err)
	assert.Equal(t, "原名", got.Title)

	require.NoError(t, svc.DeleteSong(song.ID))
	assert.False(t, mr.Exists(key))
	_, err = svc.GetSong(song.ID)
	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.True(t, apperr.Is(svc.DeleteSong(song.ID), apperr.NotFound))
}

func TestCatalogGetSongFallsBackWhenRedisDown(t *testing.T) {
	svc, mr, _ := newCatalogWithCache(t)
	singer, err := svc.CreateSinger(CreateSingerInput{Name: "歌手"})
	require.NoError(t, err)
	song, err := svc.CreateSong(CreateSongInput{Title: "歌", SingerID: singer.ID})
	require.NoError(t, err)

	mr.Close()
	got, err := svc.GetSong(song.ID)
	require.NoError(t, err)
	assert.Equal(t, song.ID, got.ID)
}

func TestCatalogSearchAndDelete(t *testing.T) {
	svc, _, _ := newCatalogWithCache(t)
	singer, err := svc.CreateSinger(CreateSingerInput{Name: "歌手"})
	require.NoError(t, err)
	_, err = svc.CreateSong(CreateSongInput{Title: "晴天", SingerID: singer.ID})
	require.NoError(t, err)
	_, err = svc.CreateSong(CreateSongInput{Title: "雨天", SingerID: singer.ID})
	require.NoError(t, err)

	songs, err := svc.SearchSongs("晴")
	require.NoError(t, err)
	require.Len(t, songs, 1)
	assert.Equal(t, "晴天", songs[0].Title)

	_, err = svc.SearchSongs("")
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))

	require.NoError(t, svc.DeleteSinger(singer.ID))
	assert.True(t, apperr.Is(svc.DeleteSinger(singer.ID), apperr.NotFound))
	assert.True(t, apperr.Is(svc.DeleteAlbum(12345), apperr.NotFound))
}
