package errcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewUsesDefaultMessage(t *testing.T) {
	err := New(ErrDeviceNotFound)
	if err.Code != ErrDeviceNotFound {
		t.Fatalf("Code = %d, 期望 %d", err.Code, ErrDeviceNotFound)
	}
	if err.Message != GetMessage(ErrDeviceNotFound) {
		t.Fatalf("Message = %s", err.Message)
	}
}

func TestNewWithMessage(t *testing.T) {
	err := NewWithMessage(ErrInvalidState, "设备已报废")
	if err.Error() != "设备已报废" {
		t.Fatalf("Error() = %s", err.Error())
	}
	if err.Code != ErrInvalidState {
		t.Fatalf("Code = %d", err.Code)
	}
}

func TestCodeOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"业务错误", New(ErrUserFrozen), ErrUserFrozen},
		{"包装后的业务错误", fmt.Errorf("handle: %w", New(ErrBorrowLimitExceeded)), ErrBorrowLimitExceeded},
		{"普通错误", errors.New("boom"), ErrUnknown},
		{"nil", nil, ErrUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CodeOf(tc.err); got != tc.want {
				t.Fatalf("CodeOf = %d, 期望 %d", got, tc.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	err := New(ErrDuplicateName)
	if !Is(err, ErrDuplicateName) {
		t.Fatal("Is 未识别业务错误码")
	}
	if Is(err, ErrDeviceNotFound) {
		t.Fatal("Is 误判了错误码")
	}
}

func TestGetStatus(t *testing.T) {
	cases := []struct {
		code int
		want int
	}{
		{ErrSuccess, StatusOK},
		{ErrDeviceNotFound, StatusNotFound},
		{ErrUnauthorizedOperation, StatusForbidden},
		{ErrTokenInvalid, StatusUnauthorized},
		{ErrTooManyRequests, StatusTooManyRequests},
		{ErrDatabase, StatusInternalServerError},
		{-1, StatusInternalServerError}, // 未登记的错误码按500处理
	}
	for _, tc := range cases {
		if got := GetStatus(tc.code); got != tc.want {
			t.Fatalf("GetStatus(%d) = %d, 期望 %d", tc.code, got, tc.want)
		}
	}
}

func TestGetMessageUnknownCode(t *testing.T) {
	if got := GetMessage(-1); got == "" {
		t.Fatal("未登记错误码应返回兜底消息")
	}
}
