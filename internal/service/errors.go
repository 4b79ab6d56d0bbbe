package service

import (
	"errors"

	"ShengHang/internal/apperr"
	"ShengHang/internal/model"
	"ShengHang/internal/repository"
)

// translate 把repository返回的原始错误翻译成业务错误，已经是*apperr.Error的原样返回
func translate(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	if repository.IsNotFound(err) {
		return apperr.NewNotFound(notFoundMsg)
	}
	if repository.IsDuplicateKey(err) {
		return apperr.Wrap(apperr.AlreadyExists, "记录已存在", err)
	}
	return apperr.NewStorageFailure(err)
}

func requireActor(actorID uint64) error {
	if actorID == 0 {
		return apperr.NewUnauthenticated("用户未认证")
	}
	return nil
}

func requireTarget(targetType model.TargetType) error {
	if !targetType.Valid() {
		return apperr.NewInvalidArgument("target_type", "target_type 只能是 song、album 或 songlist")
	}
	return nil
}
