package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(nil))
	assert.Equal(t, NotFound, KindOf(NewNotFound("评论不存在")))
	assert.Equal(t, StorageFailure, KindOf(errors.New("boom")))

	wrapped := fmt.Errorf("删除评论: %w", NewForbidden("无权删除"))
	assert.True(t, Is(wrapped, Forbidden))
	assert.False(t, Is(wrapped, NotFound))
}

func TestInvalidArgumentCarriesField(t *testing.T) {
	err := NewInvalidArgument("content", "评论内容不能为空")
	assert.Equal(t, "content", FieldOf(err))
	assert.Equal(t, "", FieldOf(errors.New("x")))
	assert.Contains(t, err.Error(), "invalid_argument")
}

func TestStorageFailureUnwraps(t *testing.T) {
	root := errors.New("connection refused")
	err := NewStorageFailure(root)
	assert.ErrorIs(t, err, root)
	assert.True(t, Is(err, StorageFailure))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "歌单不存在", MessageOf(fmt.Errorf("x: %w", NewNotFound("歌单不存在"))))
	assert.Equal(t, "plain", MessageOf(errors.New("plain")))
}
