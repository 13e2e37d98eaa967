package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeviceStatus 设备状态（取值与历史Excel台账保持一致）
type DeviceStatus string

const (
	DeviceStatusInStock   DeviceStatus = "在库"
	DeviceStatusInCustody DeviceStatus = "保管中" // 手机、手机卡、其它设备的"可借"常驻状态
	DeviceStatusBorrowed  DeviceStatus = "借出"
	DeviceStatusShipped   DeviceStatus = "已寄出"
	DeviceStatusDamaged   DeviceStatus = "已损坏"
	DeviceStatusLost      DeviceStatus = "丢失"
	DeviceStatusScrapped  DeviceStatus = "报废"
	DeviceStatusCirculate DeviceStatus = "流通"
	DeviceStatusNoCabinet DeviceStatus = "无柜号"
	DeviceStatusSealed    DeviceStatus = "封存"
)

// DeviceType 设备类型
type DeviceType string

const (
	DeviceTypeCarMachine DeviceType = "车机"
	DeviceTypeInstrument DeviceType = "仪表"
	DeviceTypePhone      DeviceType = "手机"
	DeviceTypeSimCard    DeviceType = "手机卡"
	DeviceTypeOther      DeviceType = "其它设备"
)

// EntrySource 录入来源
type EntrySource string

const (
	EntrySourceAdmin EntrySource = "管理员录入"
	EntrySourceUser  EntrySource = "用户自助"
)

// Device 测试设备。所有类型共用一张表，通过 DeviceType 字段区分，
// 类型特有字段对其它类型留空。
type Device struct {
	ID         string       `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name       string       `gorm:"type:varchar(100);not null;index" json:"name"`
	DeviceType DeviceType   `gorm:"type:varchar(20);not null;index" json:"device_type"`
	Model      string       `gorm:"type:varchar(100)" json:"model"`
	// CabinetNumber 在库时为柜号，手机/手机卡/其它设备为保管人姓名
	CabinetNumber string       `gorm:"type:varchar(50)" json:"cabinet_number"`
	Status        DeviceStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Remark        string       `gorm:"type:varchar(255)" json:"remark"`
	JiraAddress   string       `gorm:"type:varchar(100)" json:"jira_address"`
	IsDeleted     bool         `gorm:"default:false;index" json:"is_deleted"`

	// 借用信息
	Borrower           string      `gorm:"type:varchar(50);index" json:"borrower"`
	Phone              string      `gorm:"type:varchar(20)" json:"phone"`
	BorrowTime         *time.Time  `json:"borrow_time"`
	Location           string      `gorm:"type:varchar(100)" json:"location"`
	Reason             string      `gorm:"type:varchar(255)" json:"reason"`
	EntrySource        EntrySource `gorm:"type:varchar(20)" json:"entry_source"`
	ExpectedReturnDate *time.Time  `json:"expected_return_date"`
	AdminOperator      string      `gorm:"type:varchar(50)" json:"admin_operator"`
	// PreviousBorrower 仅在转借/找回/修复链路中有意义，归还时必须清空
	PreviousBorrower string `gorm:"type:varchar(50)" json:"previous_borrower"`

	// 丢失/损坏信息
	LostTime     *time.Time `json:"lost_time"`
	DamageReason string     `gorm:"type:varchar(255)" json:"damage_reason"`
	DamageTime   *time.Time `json:"damage_time"`

	// 寄出信息
	ShipTime   *time.Time `json:"ship_time"`
	ShipRemark string     `gorm:"type:varchar(255)" json:"ship_remark"`
	ShipBy     string     `gorm:"type:varchar(50)" json:"ship_by"`

	// 寄出前借用快照（未寄出还原时使用）
	PreShipBorrower           string     `gorm:"type:varchar(50)" json:"pre_ship_borrower"`
	PreShipBorrowTime         *time.Time `json:"pre_ship_borrow_time"`
	PreShipExpectedReturnDate *time.Time `json:"pre_ship_expected_return_date"`

	// 手机特有信息
	SN            string `gorm:"type:varchar(100)" json:"sn"`
	IMEI          string `gorm:"type:varchar(50)" json:"imei"`
	SystemVersion string `gorm:"type:varchar(50)" json:"system_version"`
	Carrier       string `gorm:"type:varchar(20)" json:"carrier"`

	// 车机特有信息
	SoftwareVersion string `gorm:"type:varchar(100)" json:"software_version"`
	HardwareVersion string `gorm:"type:varchar(100)" json:"hardware_version"`

	// 车机和仪表特有信息
	ProjectAttribute  string `gorm:"type:varchar(100)" json:"project_attribute"`
	ConnectionMethod  string `gorm:"type:varchar(50)" json:"connection_method"`
	OSVersion         string `gorm:"type:varchar(50)" json:"os_version"`
	OSPlatform        string `gorm:"type:varchar(50)" json:"os_platform"`
	ProductName       string `gorm:"type:varchar(100)" json:"product_name"`
	ScreenOrientation string `gorm:"type:varchar(20)" json:"screen_orientation"`
	ScreenResolution  string `gorm:"type:varchar(20)" json:"screen_resolution"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate 生成UUID主键
func (d *Device) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Status == "" {
		d.Status = d.DefaultStatus()
	}
	return nil
}

// DefaultStatus 设备归还/入库后的默认状态：
// 手机、手机卡、其它设备为"保管中"，车机、仪表为"在库"。
func (d *Device) DefaultStatus() DeviceStatus {
	switch d.DeviceType {
	case DeviceTypePhone, DeviceTypeSimCard, DeviceTypeOther:
		return DeviceStatusInCustody
	default:
		return DeviceStatusInStock
	}
}

// AvailableForBorrow 设备是否可被借用（在库或保管中）
func (d *Device) AvailableForBorrow() bool {
	return d.Status == DeviceStatusInStock || d.Status == DeviceStatusInCustody
}

// Shippable 是否允许寄出，只有车机和仪表可以寄出
func (d *Device) Shippable() bool {
	return d.DeviceType == DeviceTypeCarMachine || d.DeviceType == DeviceTypeInstrument
}

// ClearBorrowInfo 清空全部借用字段，归还、报废、强制归还等出借转出时调用
func (d *Device) ClearBorrowInfo() {
	d.Borrower = ""
	d.Phone = ""
	d.BorrowTime = nil
	d.Location = ""
	d.Reason = ""
	d.EntrySource = ""
	d.ExpectedReturnDate = nil
	d.PreviousBorrower = ""
}
