package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("ORPHAN_COMMENT_POLICY", "")
	t.Setenv("HISTORY_KEEP_PER_USER", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.Equal(t, OrphanCommentKeep, cfg.OrphanCommentPolicy)
	assert.Equal(t, 500, cfg.HistoryKeepPerUser)
	assert.Equal(t, "0 2 * * *", cfg.HistoryCleanupCron)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("JWT_TTL_HOURS", "1")
	t.Setenv("ORPHAN_COMMENT_POLICY", "purge")
	t.Setenv("SONG_CACHE_TTL_SECONDS", "not-a-number")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.ServerAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, OrphanCommentPurge, cfg.OrphanCommentPolicy)
	assert.Equal(t, 300*time.Second, cfg.SongCacheTTL)
}

func TestFromEnv_UnknownPolicyFallsBackToKeep(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("ORPHAN_COMMENT_POLICY", "cascade")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, OrphanCommentKeep, cfg.OrphanCommentPolicy)
}

func TestFromEnv_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	_, err := FromEnv()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}
