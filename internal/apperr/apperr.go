// Package apperr 定义业务层统一的错误分类，handler根据Kind决定HTTP状态码
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	Unauthenticated Kind = "unauthenticated" // 没有登录态
	Forbidden       Kind = "forbidden"       // 登录了但没有权限
	NotFound        Kind = "not_found"
	InvalidArgument Kind = "invalid_argument"
	AlreadyExists   Kind = "already_exists"
	StorageFailure  Kind = "storage_failure"
)

// Error 携带足够渲染具体提示的信息：出错字段、原因、底层错误
type Error struct {
	Kind    Kind
	Message string
	Field   string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NewUnauthenticated(message string) *Error { return New(Unauthenticated, message) }
func NewForbidden(message string) *Error       { return New(Forbidden, message) }
func NewNotFound(message string) *Error        { return New(NotFound, message) }
func NewAlreadyExists(message string) *Error   { return New(AlreadyExists, message) }

// NewInvalidArgument 记录是哪个字段不合法
func NewInvalidArgument(field, message string) *Error {
	return &Error{Kind: InvalidArgument, Message: message, Field: field}
}

func NewStorageFailure(err error) *Error {
	return Wrap(StorageFailure, "存储操作失败", err)
}

// KindOf 取出错误链上第一个*Error的Kind，不是*Error的一律视为存储失败
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return StorageFailure
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// FieldOf 返回参数错误对应的字段名
func FieldOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// MessageOf 返回给用户看的提示，不是*Error时退回err.Error()
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
