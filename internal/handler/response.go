package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"ShengHang/internal/apperr"
	"ShengHang/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// ErrorResponse 定义了标准的API错误响应结构
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
}

// sendErrorResponse 是一个辅助函数，用于发送标准格式的错误响应
func sendErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}

// sendBindError 请求体绑定失败时返回400，能定位到字段的就把json字段名带上
func sendBindError(c *gin.Context, req any, err error) {
	resp := ErrorResponse{Error: "无效的参数", Code: string(apperr.InvalidArgument)}
	var validationErrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &validationErrs) && len(validationErrs) > 0:
		resp.Field = jsonFieldName(req, validationErrs[0].StructField())
		resp.Error = "参数缺失或不合法: " + resp.Field
	case errors.As(err, &typeErr):
		resp.Field = typeErr.Field
		resp.Error = "参数类型错误: " + typeErr.Field
	}
	logger.Log.WithError(err).WithField("field", resp.Field).Warn("请求参数解析失败")
	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}

// jsonFieldName 把结构体字段名换成json tag里的名字
func jsonFieldName(req any, structField string) string {
	t := reflect.TypeOf(req)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return structField
	}
	f, ok := t.FieldByName(structField)
	if !ok {
		return structField
	}
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return structField
	}
	return name
}

var kindStatus = map[apperr.Kind]int{
	apperr.Unauthenticated: http.StatusUnauthorized,
	apperr.Forbidden:       http.StatusForbidden,
	apperr.NotFound:        http.StatusNotFound,
	apperr.InvalidArgument: http.StatusBadRequest,
	apperr.AlreadyExists:   http.StatusConflict,
	apperr.StorageFailure:  http.StatusInternalServerError,
}

// sendServiceError 按错误类型返回对应的HTTP状态码，存储错误不把细节暴露给前端
func sendServiceError(c *gin.Context, logCtx *logrus.Entry, err error, action string) {
	kind := apperr.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	resp := ErrorResponse{Code: string(kind), Field: apperr.FieldOf(err)}
	if status == http.StatusInternalServerError {
		logCtx.WithError(err).Error(action + "失败")
		resp.Error = action + "失败，请稍后再试"
	} else {
		logCtx.WithError(err).Warn(action + "失败")
		resp.Error = apperr.MessageOf(err)
	}
	c.AbortWithStatusJSON(status, resp)
}

// parseIDParam 解析URL里的ID参数，失败时直接写400
func parseIDParam(c *gin.Context, name, message string) (uint64, bool) {
	// 利用strconv.ParseUint将string转化为uint64
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		sendErrorResponse(c, http.StatusBadRequest, message)
		return 0, false
	}
	return id, true
}
