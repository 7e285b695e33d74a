package service

import (
	stderrors "errors"

	"gorm.io/gorm"
	"scrobblex/internal/ledger"
	"scrobblex/pkg/errors"
	"scrobblex/pkg/errors/ecode"
)

func isNotFound(err error) bool {
	return stderrors.Is(err, gorm.ErrRecordNotFound)
}

// ledgerErr 把账本错误转换为业务错误码
func ledgerErr(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, ledger.ErrInvalidInput):
		return errors.Wrap(err, ecode.ValidateErr, err.Error())
	case stderrors.Is(err, ledger.ErrUserNotFound):
		return errors.Wrap(err, ecode.NotFoundErr, "user not found")
	case stderrors.Is(err, ledger.ErrInsufficientFunds):
		return errors.Wrap(err, ecode.InsufficientFundsErr, "")
	case stderrors.Is(err, ledger.ErrInsufficientShares):
		return errors.Wrap(err, ecode.InsufficientSharesErr, "")
	case stderrors.Is(err, ledger.ErrStorageConflict):
		return errors.Wrap(err, ecode.ConflictErr, "")
	default:
		return errors.Wrap(err, ecode.Unknown, "trade failed")
	}
}
