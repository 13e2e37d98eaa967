package errcode

// 错误码消息映射
var codeMessageMap = map[int]string{
	ErrSuccess:         "成功",
	ErrUnknown:         "未知错误",
	ErrBind:            "请求参数绑定错误",
	ErrValidation:      "请求参数验证错误",
	ErrTokenInvalid:    "无效的认证令牌",
	ErrTooManyRequests: "请求频率过高，请稍后再试",

	ErrUserNotFound:          "用户不存在",
	ErrUserAlreadyExist:      "用户已存在",
	ErrUserPasswordIncorrect: "账号或密码错误",
	ErrUserFrozen:            "账号已被冻结，请联系管理员",
	ErrBorrowerNameTaken:     "借用人名称已被使用",

	ErrDeviceNotFound:        "设备不存在",
	ErrDuplicateName:         "设备名称已存在",
	ErrInvalidState:          "设备当前状态不允许该操作",
	ErrUnauthorizedOperation: "无权对该设备执行此操作",
	ErrBorrowLimitExceeded:   "您已超出可借设备上限，请归还后再借",

	ErrRecordNotFound:       "记录不存在",
	ErrNotificationNotFound: "通知不存在",
	ErrAnnouncementNotFound: "公告不存在",
	ErrRemarkNotFound:       "备注不存在",

	ErrDatabase: "数据库错误",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTokenInvalid:    StatusUnauthorized,
	ErrTooManyRequests: StatusTooManyRequests,

	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusBadRequest,
	ErrUserPasswordIncorrect: StatusUnauthorized,
	ErrUserFrozen:            StatusForbidden,
	ErrBorrowerNameTaken:     StatusBadRequest,

	ErrDeviceNotFound:        StatusNotFound,
	ErrDuplicateName:         StatusBadRequest,
	ErrInvalidState:          StatusBadRequest,
	ErrUnauthorizedOperation: StatusForbidden,
	ErrBorrowLimitExceeded:   StatusBadRequest,

	ErrRecordNotFound:       StatusNotFound,
	ErrNotificationNotFound: StatusNotFound,
	ErrAnnouncementNotFound: StatusNotFound,
	ErrRemarkNotFound:       StatusNotFound,

	ErrDatabase: StatusInternalServerError,
}

// GetMessage 获取错误码对应的默认消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return codeMessageMap[ErrUnknown]
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
