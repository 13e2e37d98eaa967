package errcode

import "errors"

// Error 业务错误，携带错误码和可直接展示给用户的原因说明。
// 所有业务操作失败都通过 *Error 返回，调用方据此映射HTTP状态码；
// 任何一次失败都不会破坏服务的后续可用性。
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string { return e.Message }

// New 按错误码构造业务错误，使用默认消息
func New(code int) *Error {
	return &Error{Code: code, Message: GetMessage(code)}
}

// NewWithMessage 按错误码构造业务错误，使用自定义消息
func NewWithMessage(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// CodeOf 提取错误对应的业务错误码，非业务错误归为 ErrUnknown
func CodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrUnknown
}

// Is 判断错误是否为指定错误码的业务错误
func Is(err error, code int) bool {
	return CodeOf(err) == code
}
