package errcode

// HTTP状态码.
const (
	StatusOK                  = 200
	StatusBadRequest          = 400
	StatusUnauthorized        = 401
	StatusForbidden           = 403
	StatusNotFound            = 404
	StatusConflict            = 409
	StatusTooManyRequests     = 429
	StatusInternalServerError = 500
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
)

// 用户相关错误码 (101xxx).
const (
	// ErrUserNotFound - 404: 用户不存在.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 400: 用户已存在.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: 账号或密码错误.
	ErrUserPasswordIncorrect
	// ErrUserFrozen - 403: 账号已被冻结.
	ErrUserFrozen
	// ErrBorrowerNameTaken - 400: 借用人名称已被使用.
	ErrBorrowerNameTaken
)

// 设备相关错误码 (102xxx).
const (
	// ErrDeviceNotFound - 404: 设备不存在.
	ErrDeviceNotFound int = iota + 102000
	// ErrDuplicateName - 400: 设备名称已存在.
	ErrDuplicateName
	// ErrInvalidState - 400: 设备当前状态不允许该操作.
	ErrInvalidState
	// ErrUnauthorizedOperation - 403: 无权对该设备执行此操作.
	ErrUnauthorizedOperation
	// ErrBorrowLimitExceeded - 400: 超出可借设备上限.
	ErrBorrowLimitExceeded
)

// 记录/通知相关错误码 (103xxx).
const (
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound int = iota + 103000
	// ErrNotificationNotFound - 404: 通知不存在.
	ErrNotificationNotFound
	// ErrAnnouncementNotFound - 404: 公告不存在.
	ErrAnnouncementNotFound
	// ErrRemarkNotFound - 404: 备注不存在.
	ErrRemarkNotFound
)

// 数据库相关错误码 (105xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 105000
)
