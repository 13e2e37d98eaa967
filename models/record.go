package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OperationType 借还记录的操作类型
type OperationType string

const (
	OperationBorrow          OperationType = "借出"
	OperationReturn          OperationType = "归还"
	OperationForceBorrow     OperationType = "强制借出"
	OperationForceReturn     OperationType = "强制归还"
	OperationTransfer        OperationType = "转借"
	OperationReportLost      OperationType = "丢失报备"
	OperationReportDamage    OperationType = "损坏报备"
	OperationFound           OperationType = "找回"
	OperationRepaired        OperationType = "修复"
	OperationScrap           OperationType = "报废"
	OperationCustodianChange OperationType = "保管人变更"
	OperationNotFound        OperationType = "借用人未找到"
	OperationRenew           OperationType = "借用续期"
	OperationShip            OperationType = "寄出"
	OperationStatusChange    OperationType = "状态变更"
	OperationBatchImport     OperationType = "批量导入"
)

// Record 借还记录，仅追加，创建后不再修改或删除。
// 每次状态变更操作恰好产生一条。
type Record struct {
	ID            string        `gorm:"type:varchar(36);primaryKey" json:"id"`
	DeviceID      string        `gorm:"type:varchar(36);not null;index" json:"device_id"`
	DeviceName    string        `gorm:"type:varchar(100)" json:"device_name"`
	DeviceType    DeviceType    `gorm:"type:varchar(20);index" json:"device_type"`
	OperationType OperationType `gorm:"type:varchar(20);not null;index" json:"operation_type"`
	Operator      string        `gorm:"type:varchar(50)" json:"operator"`
	OperationTime time.Time     `gorm:"not null;index" json:"operation_time"`
	Borrower      string        `gorm:"type:varchar(100)" json:"borrower"`
	Phone         string        `gorm:"type:varchar(20)" json:"phone"`
	Reason        string        `gorm:"type:varchar(255)" json:"reason"`
	EntrySource   EntrySource   `gorm:"type:varchar(20)" json:"entry_source"`
	Remark        string        `gorm:"type:varchar(255)" json:"remark"`
	CreatedAt     time.Time     `json:"created_at"`
}

func (r *Record) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
