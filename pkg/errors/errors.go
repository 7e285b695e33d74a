package errors

import (
	stderrors "errors"
	"fmt"

	"scrobblex/pkg/errors/ecode"
)

// codeError 带业务错误码的错误，message 是返回给客户端的提示，cause 是内部原因
type codeError struct {
	code    int
	message string
	cause   error
}

func (e *codeError) Error() string {
	if e.cause == nil {
		return e.message
	}
	return e.message + ": " + e.cause.Error()
}

func (e *codeError) Unwrap() error {
	return e.cause
}

func (e *codeError) Code() int {
	return e.code
}

func New(text string) error {
	return stderrors.New(text)
}

// WithCode 创建一个带错误码的错误
func WithCode(code int, format string, args ...interface{}) error {
	return &codeError{code: code, message: fmt.Sprintf(format, args...)}
}

// Wrap 给已有错误附加错误码和提示，err 可以为 nil
func Wrap(err error, code int, message string) error {
	return &codeError{code: code, message: message, cause: err}
}

func Wrapf(err error, code int, format string, args ...interface{}) error {
	return &codeError{code: code, message: fmt.Sprintf(format, args...), cause: err}
}

// DecodeErr 解析出错误码和提示信息；普通错误一律当作 Unknown
func DecodeErr(err error) (int, string) {
	if err == nil {
		return ecode.Success, ecode.Message(ecode.Success)
	}
	var ce *codeError
	if stderrors.As(err, &ce) {
		msg := ce.message
		if msg == "" {
			msg = ecode.Message(ce.code)
		}
		return ce.code, msg
	}
	return ecode.Unknown, err.Error()
}

// Code 返回错误码
func Code(err error) int {
	code, _ := DecodeErr(err)
	return code
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}
