package models

import "time"

type PaginationQuery struct {
	PageNum  int  `form:"pageNum" json:"pageNum"`
	PageSize int  `form:"pageSize" json:"pageSize"`
	Asc      bool `form:"asc" json:"asc"`
}

type PaginationResult struct {
	Total    int `form:"total" json:"total"`
	PageNum  int `form:"pageNum" json:"pageNum"`
	PageSize int `form:"pageSize" json:"pageSize"`
}

// NewPaginationResult 创建一个新的分页结果对象
func NewPaginationResult(total, pageNum, pageSize int) PaginationResult {
	return PaginationResult{
		Total:    total,
		PageNum:  pageNum,
		PageSize: pageSize,
	}
}

// OverdueEntry 逾期报表行，由查询层按需计算，不落库
type OverdueEntry struct {
	DeviceID           string     `json:"id"`
	DeviceName         string     `json:"device_name"`
	DeviceType         DeviceType `json:"device_type"`
	Borrower           string     `json:"borrower"`
	Phone              string     `json:"phone"`
	BorrowTime         *time.Time `json:"borrow_time"`
	ExpectedReturnDate time.Time  `json:"expect_return_time"`
	OverdueDays        int        `json:"overdue_days"`
	OverdueHours       int        `json:"overdue_hours"`
}

// DeviceStats 首页设备统计
type DeviceStats struct {
	TotalDevices   int64 `json:"total_devices"`
	AvailableCount int64 `json:"available_devices"`
	BorrowedCount  int64 `json:"borrowed_devices_count"`
	OverdueCount   int   `json:"overdue_count"`
}
