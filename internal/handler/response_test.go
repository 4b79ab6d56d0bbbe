package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ShengHang/internal/apperr"
	"ShengHang/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendServiceErrorMapsKinds(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err    error
		status int
		code   string
		msg    string
	}{
		{apperr.NewUnauthenticated("请先登录"), http.StatusUnauthorized, "unauthenticated", "请先登录"},
		{apperr.NewForbidden("不是你的"), http.StatusForbidden, "forbidden", "不是你的"},
		{apperr.NewNotFound("没找到"), http.StatusNotFound, "not_found", "没找到"},
		{apperr.NewInvalidArgument("content", "不能为空"), http.StatusBadRequest, "invalid_argument", "不能为空"},
		{apperr.NewAlreadyExists("重复了"), http.StatusConflict, "already_exists", "重复了"},
		{apperr.NewStorageFailure(errors.New("dial tcp: refused")), http.StatusInternalServerError, "storage_failure", "测试失败，请稍后再试"},
		{errors.New("raw"), http.StatusInternalServerError, "storage_failure", "测试失败，请稍后再试"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		sendServiceError(c, logger.Log.WithField("case", tc.code), tc.err, "测试")

		assert.Equal(t, tc.status, w.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, tc.code, body.Code)
		assert.Equal(t, tc.msg, body.Error)
		assert.NotContains(t, body.Error, "refused")
	}
}

func TestParseIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for raw, ok := range map[string]bool{"12": true, "0": false, "-1": false, "abc": false} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: raw}}
		_, got := parseIDParam(c, "id", "bad id")
		assert.Equal(t, ok, got, raw)
		if !ok {
			assert.Equal(t, http.StatusBadRequest, w.Code)
		}
	}
}

func TestSendBindErrorReportsField(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		body  string
		field string
	}{
		{`{}`, "song_id"},
		{`{"song_id":"abc"}`, "song_id"},
		{`{"song_id":1,"play_duration":"long"}`, "play_duration"},
		{`not-json`, ""},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/history/plays", strings.NewReader(tc.body))
		c.Request.Header.Set("Content-Type", "application/json")

		var req RecordPlayRequest
		err := c.ShouldBindJSON(&req)
		require.Error(t, err, tc.body)
		sendBindError(c, &req, err)

		assert.Equal(t, http.StatusBadRequest, w.Code, tc.body)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "invalid_argument", body.Code, tc.body)
		assert.Equal(t, tc.field, body.Field, tc.body)
		assert.NotEmpty(t, body.Error)
	}
}

func TestJSONFieldName(t *testing.T) {
	assert.Equal(t, "target_type", jsonFieldName(&PublishCommentRequest{}, "TargetType"))
	assert.Equal(t, "old_password", jsonFieldName(ChangePasswordRequest{}, "OldPassword"))
	assert.Equal(t, "Missing", jsonFieldName(&PublishCommentRequest{}, "Missing"))
	assert.Equal(t, "X", jsonFieldName(nil, "X"))
}
