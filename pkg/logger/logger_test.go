package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLogger_WritesJSONToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, InitLogger("debug", file))
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())

	Log.WithField("comment_id", 42).Info("评论删除成功")

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"comment_id":42`)
	assert.Contains(t, string(content), "评论删除成功")
}

func TestInitLogger_BadLevelFallsBackToInfo(t *testing.T) {
	require.NoError(t, InitLogger("loud", ""))
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}
