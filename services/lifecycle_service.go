package services

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/config"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/errcode"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/models"

	"gorm.io/gorm"
)

const (
	// BorrowLimit 单个借用人同时持有的设备上限
	BorrowLimit = 10
	// DefaultBorrowDuration 自助借用的默认借用时长
	DefaultBorrowDuration = 24 * time.Hour
	// RenewOverdueLimit 逾期超过该时长后不允许续期，只能先归还
	RenewOverdueLimit = 3 * 24 * time.Hour
)

// BorrowRequest 借用请求
type BorrowRequest struct {
	Borrower           string     `json:"borrower" binding:"required"`
	Phone              string     `json:"phone"`
	Location           string     `json:"location"`
	Reason             string     `json:"reason"`
	ExpectedReturnDate *time.Time `json:"expected_return_date"`
	Operator           string     `json:"operator"`
	IsAdmin            bool       `json:"-"`
}

// TransferRequest 转借请求
type TransferRequest struct {
	NewBorrower string `json:"new_borrower" binding:"required"`
	Phone       string `json:"phone"`
	Reason      string `json:"reason"`
	Operator    string `json:"operator"`
	IsAdmin     bool   `json:"-"`
}

// 找回/修复后的设备去向
const (
	RecoverActionKeep     = "keep"     // 留在当前借用人手里
	RecoverActionReturn   = "return"   // 直接归还入库
	RecoverActionTransfer = "transfer" // 转交给其他借用人
)

// RecoverRequest 找回/修复请求
type RecoverRequest struct {
	Action      string `json:"action" binding:"required"`
	NewBorrower string `json:"new_borrower"`
	Phone       string `json:"phone"`
	Operator    string `json:"operator"`
}

// ShipRequest 寄出请求
type ShipRequest struct {
	Remark   string `json:"remark"`
	Operator string `json:"operator"`
}

// InterfaceLifecycleService defines the device lifecycle service interface
type InterfaceLifecycleService interface {
	Borrow(deviceID string, req *BorrowRequest) (*models.Device, error)
	ForceBorrow(deviceID string, req *BorrowRequest) (*models.Device, error)
	Return(deviceID string, operator string, isAdmin bool) (*models.Device, error)
	Transfer(deviceID string, req *TransferRequest) (*models.Device, error)
	ReportLost(deviceID string, operator string, isAdmin bool) (*models.Device, error)
	ReportDamage(deviceID string, reason string, operator string, isAdmin bool) (*models.Device, error)
	Found(deviceID string, req *RecoverRequest) (*models.Device, error)
	Repaired(deviceID string, req *RecoverRequest) (*models.Device, error)
	NotFound(deviceID string, operator string) (*models.Device, error)
	CustodianChange(deviceID string, newCustodian string, operator string) (*models.Device, error)
	Renew(deviceID string, newDate time.Time, operator string, isAdmin bool) (*models.Device, error)
	Ship(deviceID string, req *ShipRequest) (*models.Device, error)
	Unship(deviceID string, operator string) (*models.Device, error)
	ChangeStatus(deviceID string, status models.DeviceStatus, operator string) (*models.Device, error)
	Delete(deviceID string, operator string) error
}

// LifecycleService 设备生命周期服务，负责全部状态迁移。
// 每个操作在一个事务内完成校验、状态变更、记录和通知的写入，
// 并由互斥锁保证同一时刻只有一个写操作在执行。
type LifecycleService struct {
	DB     *gorm.DB
	Config *config.Config

	mu sync.Mutex
	// now 可注入的时钟，测试时替换
	now func() time.Time
}

// NewLifecycleService 创建一个新的设备生命周期服务
func NewLifecycleService(db *gorm.DB, cfg *config.Config) InterfaceLifecycleService {
	return &LifecycleService{
		DB:     db,
		Config: cfg,
		now:    time.Now,
	}
}

// getDevice 在事务内按ID取设备，已删除的设备视为不存在
func (s *LifecycleService) getDevice(tx *gorm.DB, id string) (*models.Device, error) {
	var device models.Device
	if err := tx.Where("id = ? AND is_deleted = ?", id, false).First(&device).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errcode.New(errcode.ErrDeviceNotFound)
		}
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return &device, nil
}

// countBorrowed 统计借用人当前持有的设备数量
func (s *LifecycleService) countBorrowed(tx *gorm.DB, borrower string) (int64, error) {
	var count int64
	err := tx.Model(&models.Device{}).
		Where("borrower = ? AND status = ? AND is_deleted = ?", borrower, models.DeviceStatusBorrowed, false).
		Count(&count).Error
	if err != nil {
		return 0, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return count, nil
}

// checkBorrowLimit 借用上限校验，超限返回业务错误且不做任何修改。
// 借用人是已注册账号且被冻结时同样拒绝。
func (s *LifecycleService) checkBorrowLimit(tx *gorm.DB, borrower string) error {
	var frozen int64
	err := tx.Model(&models.User{}).
		Where("borrower_name = ? AND is_frozen = ? AND is_deleted = ?", borrower, true, false).
		Count(&frozen).Error
	if err != nil {
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	if frozen > 0 {
		return errcode.NewWithMessage(errcode.ErrUserFrozen,
			fmt.Sprintf("「%s」的账号已被冻结，不能借用设备", borrower))
	}

	count, err := s.countBorrowed(tx, borrower)
	if err != nil {
		return err
	}
	if count >= BorrowLimit {
		return errcode.NewWithMessage(errcode.ErrBorrowLimitExceeded,
			fmt.Sprintf("「%s」已借用%d台设备，达到上限%d台", borrower, count, BorrowLimit))
	}
	return nil
}

// checkActive 报废和封存设备不再参与任何流转
func (s *LifecycleService) checkActive(device *models.Device) error {
	switch device.Status {
	case models.DeviceStatusScrapped:
		return errcode.NewWithMessage(errcode.ErrInvalidState, "设备已报废，不能再进行任何操作")
	case models.DeviceStatusSealed:
		return errcode.NewWithMessage(errcode.ErrInvalidState, "设备已封存，请先解除封存")
	}
	return nil
}

// appendRecord 追加一条借还记录
func (s *LifecycleService) appendRecord(tx *gorm.DB, rec *models.Record) error {
	if err := tx.Create(rec).Error; err != nil {
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return nil
}

// notifyBorrower 给借用人名称对应的用户发站内通知，用户不存在时静默跳过
func (s *LifecycleService) notifyBorrower(tx *gorm.DB, borrower, title, content string, device *models.Device, notificationType string) error {
	if borrower == "" {
		return nil
	}
	var user models.User
	err := tx.Where("borrower_name = ? AND is_deleted = ?", borrower, false).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	notification := models.Notification{
		UserID:           user.ID,
		UserName:         user.BorrowerName,
		Title:            title,
		Content:          content,
		DeviceName:       device.Name,
		DeviceID:         device.ID,
		NotificationType: notificationType,
	}
	if err := tx.Create(&notification).Error; err != nil {
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return nil
}

// bumpBorrowCount 累加用户的历史借用次数，用户不存在时跳过
func (s *LifecycleService) bumpBorrowCount(tx *gorm.DB, borrower string) error {
	err := tx.Model(&models.User{}).
		Where("borrower_name = ? AND is_deleted = ?", borrower, false).
		UpdateColumn("borrow_count", gorm.Expr("borrow_count + 1")).Error
	if err != nil {
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return nil
}

func (s *LifecycleService) saveDevice(tx *gorm.DB, device *models.Device) error {
	if err := tx.Save(device).Error; err != nil {
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return nil
}

// 1 Borrow 借用设备。设备必须处于在库或保管中，借用人未达上限。
// 管理员代录入时 Operator 为管理员，自助借用时 Operator 即借用人。
func (s *LifecycleService) Borrow(deviceID string, req *BorrowRequest) (*models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result *models.Device
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		device, err := s.getDevice(tx, deviceID)
		if err != nil {
			return err
		}
		if err := s.checkActive(device); err != nil {
			return err
		}
		if !device.AvailableForBorrow() {
			return errcode.NewWithMessage(errcode.ErrInvalidState,
				fmt.Sprintf("设备当前状态为「%s」，不可借用", device.Status))
		}
		if err := s.checkBorrowLimit(tx, req.Borrower); err != nil {
			return err
		}

		now := s.now()
		expected := now.Add(DefaultBorrowDuration)
		if req.ExpectedReturnDate != nil {
			expected = *req.ExpectedReturnDate
		}
		entrySource := models.EntrySourceUser
		if req.IsAdmin {
			entrySource = models.EntrySourceAdmin
			device.AdminOperator = req.Operator
		}

		device.Status = models.DeviceStatusBorrowed
		device.Borrower = req.Borrower
		device.Phone = req.Phone
		device.BorrowTime = &now
		device.Location = req.Location
		device.Reason = req.Reason
		device.EntrySource = entrySource
		device.ExpectedReturnDate = &expected
		device.PreviousBorrower = ""
		if err := s.saveDevice(tx, device); err != nil {
			return err
		}

		if err := s.appendRecord(tx, &models.Record{
			DeviceID:      device.ID,
			DeviceName:    device.Name,
			DeviceType:    device.DeviceType,
			OperationType: models.OperationBorrow,
			Operator:      req.Operator,
			OperationTime: now,
			Borrower:      req.Borrower,
			Phone:         req.Phone,
			Reason:        req.Reason,
			EntrySource:   entrySource,
		}); err != nil {
			return err
		}
		if err := s.bumpBorrowCount(tx, req.Borrower); err != nil {
			return err
		}
		// 管理员代借时通知借用人
		if req.IsAdmin && req.Operator != req.Borrower {
			if err := s.notifyBorrower(tx, req.Borrower, "设备借用",
				fmt.Sprintf("管理员「%s」已将设备「%s」登记到您名下", req.Operator, device.Name),
				device, models.NotificationTypeInfo); err != nil {
				return err
			}
		}
		result = device
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// 2 ForceBorrow 强制借出（管理员录入）。管理员代为登记借用，
// 录入来源记为管理端并保存经办管理员，借用人收到借出通知。
func (s *LifecycleService) ForceBorrow(deviceID string, req *BorrowRequest) (*models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result *models.Device
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		device, err := s.getDevice(tx, deviceID)
		if err != nil {
			return err
		}
		if err := s.checkActive(device); err != nil {
			return err
		}
		if !device.AvailableForBorrow() {
			return errcode.NewWithMessage(errcode.ErrInvalidState,
				fmt.Sprintf("设备当前状态为「%s」，不能强制借出", device.Status))
		}
		if err := s.checkBorrowLimit(tx, req.Borrower); err != nil {
			return err
		}

		now := s.now()
		expected := now.Add(DefaultBorrowDuration)
		if req.ExpectedReturnDate != nil {
			expected = *req.ExpectedReturnDate
		}

		device.Status = models.DeviceStatusBorrowed
		device.Borrower = req.Borrower
		device.Phone = req.Phone
		device.BorrowTime = &now
		device.Location = req.Location
		device.Reason = req.Reason
		device.EntrySource = models.EntrySourceAdmin
		device.AdminOperator = req.Operator
		device.ExpectedReturnDate = &expected
		device.PreviousBorrower = ""
		if err := s.saveDevice(tx, device); err != nil {
			return err
		}

		if err := s.appendRecord(tx, &models.Record{
			DeviceID:      device.ID,
			DeviceName:    device.Name,
			DeviceType:    device.DeviceType,
			OperationType: models.OperationForceBorrow,
			Operator:      req.Operator,
			OperationTime: now,
			Borrower:      req.Borrower,
			Phone:         req.Phone,
			Reason:        req.Reason,
			EntrySource:   models.EntrySourceAdmin,
		}); err != nil {
			return err
		}
		if err := s.bumpBorrowCount(tx, req.Borrower); err != nil {
			return err
		}
		if err := s.notifyBorrower(tx, req.Borrower, "设备借出通知",
			fmt.Sprintf("管理员「%s」已将设备「%s」借出给您，请注意按时归还", req.Operator, device.Name),
			device, models.NotificationTypeSuccess); err != nil {
			return err
		}
		result = device
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// 3 Return 归还设备。普通用户只能归还自己名下的设备，
// 管理员归还他人设备按强制归还处理并通知原借用人。
func (s *LifecycleService) Return(deviceID string, operator string, isAdmin bool) (*models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result *models.Device
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		device, err := s.getDevice(tx, deviceID)
		if err != nil {
			return err
		}
		if device.Status != models.DeviceStatusBorrowed {
			return errcode.NewWithMessage(errcode.ErrInvalidState, "设备未处于借出状态")
		}
		if !isAdmin && device.Borrower != operator {
			return errcode.New(errcode.ErrUnauthorizedOperation)
		}

		now := s.now()
		previous := device.Borrower
		previousPhone := device.Phone
		forced := previous != operator

		device.Status = device.DefaultStatus()
		device.ClearBorrowInfo()
		device.AdminOperator = ""
		if err := s.saveDevice(tx, device); err != nil {
			return err
		}

		operationType := models.OperationReturn
		if forced {
			operationType = models.OperationForceReturn
		}
		if err := s.appendRecord(tx, &models.Record{
			DeviceID:      device.ID,
			DeviceName:    device.Name,
			DeviceType:    device.DeviceType,
			OperationType: operationType,
			Operator:      operator,
			OperationTime: now,
			Borrower:      previous,
			Phone:         previousPhone,
		}); err != nil {
			return err
		}
		if forced {
			if err := s.notifyBorrower(tx, previous, "设备被强制归还",
				fmt.Sprintf("您名下的设备「%s」已被管理员「%s」归还", device.Name, operator),
				device, models.NotificationTypeWarning); err != nil {
				return err
			}
		}
		result = device
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// 4 Transfer 转借。设备从当前借用人转到新借用人名下，
// 借用时间刷新，应还时间重置为24小时后，原借用人记入 PreviousBorrower。
func (s *LifecycleService) Transfer(deviceID string, req *TransferRequest) (*models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result *models.Device
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		device, err := s.getDevice(tx, deviceID)
		if err != nil {
			return err
		}
		if device.Status != models.DeviceStatusBorrowed {
			return errcode.NewWithMessage(errcode.ErrInvalidState, "设备未处于借出状态，不能转借")
		}
		if !req.IsAdmin && device.Borrower != req.Operator {
			return errcode.New(errcode.ErrUnauthorizedOperation)
		}
		if device.Borrower == req.NewBorrower {
			return errcode.NewWithMessage(errcode.ErrInvalidState, "设备已在该借用人名下")
		}
		if err := s.checkBorrowLimit(tx, req.NewBorrower); err != nil {
			return err
		}

		now := s.now()
		expected := now.Add(DefaultBorrowDuration)
		previous := device.Borrower

		device.PreviousBorrower = previous
		device.Borrower = req.NewBorrower
		device.Phone = req.Phone
		device.BorrowTime = &now
		device.ExpectedReturnDate = &expected
		device.Reason = req.Reason
		device.EntrySource = models.EntrySourceUser
		if req.IsAdmin {
			device.EntrySource = models.EntrySourceAdmin
		}
		if err := s.saveDevice(tx, device); err != nil {
			return err
		}

		if err := s.appendRecord(tx, &models.Record{
			DeviceID:      device.ID,
			DeviceName:    device.Name,
			DeviceType:    device.DeviceType,
			OperationType: models.OperationTransfer,
			Operator:      req.Operator,
			OperationTime: now,
			Borrower:      req.NewBorrower,
			Phone:         req.Phone,
			Reason:        req.Reason,
			EntrySource:   device.EntrySource,
			Remark:        fmt.Sprintf("由「%s」转借", previous),
		}); err != nil {
			return err
		}
		if err := s.bumpBorrowCount(tx, req.NewBorrower); err != nil {
			return err
		}
		if err := s.notifyBorrower(tx, req.NewBorrower, "设备转借通知",
			fmt.Sprintf("「%s」已将设备「%s」转借给您，请在24小时内归还或续期", previous, device.Name),
			device, models.NotificationTypeSuccess); err != nil {
			return err
		}
		if err := s.notifyBorrower(tx, previous, "设备转借通知",
			fmt.Sprintf("设备「%s」已从您名下转借给「%s」", device.Name, req.NewBorrower),
			device, models.NotificationTypeWarning); err != nil {
			return err
		}
		result = device
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// 5 ReportLost 丢失报备。借用人转入 PreviousBorrower 并清空，便于找回时恢复。
func (s *LifecycleService) ReportLost(deviceID string, operator string, isAdmin bool) (*models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result *models.Device
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		device, err := s.getDevice(tx, deviceID)
		if err != nil {
			return err
		}
		if device.Status != models.DeviceStatusBorrowed {
			return errcode.NewWithMessage(errcode.ErrInvalidState, "设备未处于借出状态，不能报备丢失")
		}
		if !isAdmin && device.Borrower != operator {
			return errcode.New(errcode.ErrUnauthorizedOperation)
		}

		now := s.now()
		previous := device.Borrower
		device.PreviousBorrower = previous
		device.Borrower = ""
		device.Status = models.DeviceStatusLost
		device.LostTime = &now
		if err := s.saveDevice(tx, device); err != nil {
			return err
		}

		if err := s.appendRecord(tx, &models.Record{
			DeviceID:      device.ID,
			DeviceName:    device.Name,
			DeviceType:    device.DeviceType,
			OperationType: models.OperationReportLost,
			Operator:      operator,
			OperationTime: now,
			Borrower:      previous,
			Phone:         device.Phone,
		}); err != nil {
			return err
		}
		result = device
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// 6 ReportDamage 损坏报备。记录损坏原因和时间，借用人记入 PreviousBorrower。
func (s *LifecycleService) ReportDamage(deviceID string, reason string, operator string, isAdmin bool) (*models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result *models.Device
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		device, err := s.getDevice(tx, deviceID)
		if err != nil {
			return err
		}
		if device.Status != models.DeviceStatusBorrowed {
			return errcode.NewWithMessage(errcode.ErrInvalidState, "设备未处于借出状态，不能报备损坏")
		}
		if !isAdmin && device.Borrower != operator {
			return errcode.New(errcode.ErrUnauthorizedOperation)
		}

		now := s.now()
		device.PreviousBorrower = device.Borrower
		device.Status = models.DeviceStatusDamaged
		device.DamageReason = reason
		device.DamageTime = &now
		if err := s.saveDevice(tx, device); err != nil {
			return err
		}

		if err := s.appendRecord(tx, &models.Record{
			DeviceID:      device.ID,
			DeviceName:    device.Name,
			DeviceType:    device.DeviceType,
			OperationType: models.OperationReportDamage,
			Operator:      operator,
			OperationTime: now,
			Borrower:      device.Borrower,
			Phone:         device.Phone,
			Reason:        reason,
		}); err != nil {
			return err
		}
		result = device
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// recover 找回/修复共用的去向处理：keep 留在原借用人名下（重新校验上限），
// return 清空借用信息入库，transfer 转交给新借用人。
func (s *LifecycleService) recover(deviceID string, req *RecoverRequest, fromStatus models.DeviceStatus, operationType models.OperationType) (*models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result *models.Device
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		device, err := s.getDevice(tx, deviceID)
		if err != nil {
			return err
		}
		if device.Status != fromStatus {
			return errcode.NewWithMessage(errcode.ErrInvalidState,
				fmt.Sprintf("设备当前状态为「%s」，不能执行该操作", device.Status))
		}

		now := s.now()
		// 丢失报备会清空借用人，原持有人落在 PreviousBorrower 中
		borrower := device.Borrower
		if borrower == "" {
			borrower = device.PreviousBorrower
		}
		phone := device.Phone
		remark := ""

		switch req.Action {
		case RecoverActionKeep:
			if borrower == "" {
				return errcode.NewWithMessage(errcode.ErrInvalidState, "设备没有原借用人，无法保留在其名下")
			}
			if err := s.checkBorrowLimit(tx, borrower); err != nil {
				return err
			}
			expected := now.Add(DefaultBorrowDuration)
			device.Status = models.DeviceStatusBorrowed
			device.Borrower = borrower
			device.PreviousBorrower = ""
			device.BorrowTime = &now
			device.ExpectedReturnDate = &expected
			remark = "设备留在原借用人名下"
		case RecoverActionReturn:
			device.Status = device.DefaultStatus()
			device.ClearBorrowInfo()
			remark = "设备归还入库"
		case RecoverActionTransfer:
			if req.NewBorrower == "" {
				return errcode.New(errcode.ErrValidation)
			}
			if err := s.checkBorrowLimit(tx, req.NewBorrower); err != nil {
				return err
			}
			expected := now.Add(DefaultBorrowDuration)
			device.PreviousBorrower = borrower
			device.Status = models.DeviceStatusBorrowed
			device.Borrower = req.NewBorrower
			device.Phone = req.Phone
			device.BorrowTime = &now
			device.ExpectedReturnDate = &expected
			borrower = req.NewBorrower
			phone = req.Phone
			remark = "设备转交新借用人"
		default:
			return errcode.New(errcode.ErrValidation)
		}

		device.LostTime = nil
		device.DamageReason = ""
		device.DamageTime = nil
		if err := s.saveDevice(tx, device); err != nil {
			return err
		}

		if err := s.appendRecord(tx, &models.Record{
			DeviceID:      device.ID,
			DeviceName:    device.Name,
			DeviceType:    device.DeviceType,
			OperationType: operationType,
			Operator:      req.Operator,
			OperationTime: now,
			Borrower:      borrower,
			Phone:         phone,
			Remark:        remark,
		}); err != nil {
			return err
		}
		if req.Action == RecoverActionTransfer {
			if err := s.bumpBorrowCount(tx, req.NewBorrower); err != nil {
				return err
			}
			if err := s.notifyBorrower(tx, req.NewBorrower, "设备转交",
				fmt.Sprintf("设备「%s」已转交到您名下，请在24小时内归还或续期", device.Name),
				device, models.NotificationTypeInfo); err != nil {
				return err
			}
		}
		result = device
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// 7 Found 丢失设备找回
func (s *LifecycleService) Found(deviceID string, req *RecoverRequest) (*models.Device, error) {
	return s.recover(deviceID, req, models.DeviceStatusLost, models.OperationFound)
}

// 8 Repaired 损坏设备修复
func (s *LifecycleService) Repaired(deviceID string, req *RecoverRequest) (*models.Device, error) {
	return s.recover(deviceID, req, models.DeviceStatusDamaged, models.OperationRepaired)
}

// 9 NotFound 借用人未找到。设备若有上一任借用人则退回其名下并保持借出，
// 否则按丢失处理。
func (s *LifecycleService) NotFound(deviceID string, operator string) (*models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result *models.Device
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		device, err := s.getDevice(tx, deviceID)
		if err != nil {
			return err
		}
		if device.Status != models.DeviceStatusBorrowed {
			return errcode.NewWithMessage(errcode.ErrInvalidState, "设备未处于借出状态")
		}

		now := s.now()
		missing := device.Borrower
		remark := ""

		if device.PreviousBorrower != "" {
			expected := now.Add(DefaultBorrowDuration)
			device.Borrower = device.PreviousBorrower
			device.PreviousBorrower = ""
			device.BorrowTime = &now
			device.ExpectedReturnDate = &expected
			remark = fmt.Sprintf("借用人「%s」未找到，设备退回「%s」名下", missing, device.Borrower)
			if err := s.notifyBorrower(tx, device.Borrower, "设备退回",
				fmt.Sprintf("借用人「%s」未找到，设备「%s」已退回您名下", missing, device.Name),
				device, models.NotificationTypeWarning); err != nil {
				return err
			}
		} else {
			device.Status = models.DeviceStatusLost
			device.LostTime = &now
			remark = fmt.Sprintf("借用人「%s」未找到，设备按丢失处理", missing)
		}
		if err := s.saveDevice(tx, device); err != nil {
			return err
		}

		if err := s.appendRecord(tx, &models.Record{
			DeviceID:      device.ID,
			DeviceName:    device.Name,
			DeviceType:    device.DeviceType,
			OperationType: models.OperationNotFound,
			Operator:      operator,
			OperationTime: now,
			Borrower:      missing,
			Remark:        remark,
		}); err != nil {
			return err
		}
		result = device
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// 10 CustodianChange 保管人变更，仅适用于保管中的设备（手机、手机卡、其它设备）
func (s *LifecycleService) CustodianChange(deviceID string, newCustodian string, operator string) (*models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result *models.Device
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		device, err := s.getDevice(tx, deviceID)
		if err != nil {
			return err
		}
		if device.Status != models.DeviceStatusInCustody {
			return errcode.NewWithMessage(errcode.ErrInvalidState, "设备未处于保管中状态")
		}
		if newCustodian == "" {
			return errcode.New(errcode.ErrValidation)
		}

		now := s.now()
		oldCustodian := device.CabinetNumber
		device.CabinetNumber = newCustodian
		if err := s.saveDevice(tx, device); err != nil {
			return err
		}

		if err := s.appendRecord(tx, &models.Record{
			DeviceID:      device.ID,
			DeviceName:    device.Name,
			DeviceType:    device.DeviceType,
			OperationType: models.OperationCustodianChange,
			Operator:      operator,
			OperationTime: now,
			Borrower:      newCustodian,
			Remark:        fmt.Sprintf("保管人由「%s」变更为「%s」", oldCustodian, newCustodian),
		}); err != nil {
			return err
		}
		if err := s.notifyBorrower(tx, newCustodian, "保管人变更",
			fmt.Sprintf("设备「%s」的保管人已变更为您", device.Name),
			device, models.NotificationTypeInfo); err != nil {
			return err
		}
		result = device
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// 11 Renew 借用续期。逾期超过3天的设备不允许续期，只能先归还。
func (s *LifecycleService) Renew(deviceID string, newDate time.Time, operator string, isAdmin bool) (*models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result *models.Device
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		device, err := s.getDevice(tx, deviceID)
		if err != nil {
			return err
		}
		if device.Status != models.DeviceStatusBorrowed {
			return errcode.NewWithMessage(errcode.ErrInvalidState, "设备未处于借出状态，不能续期")
		}
		if !isAdmin && device.Borrower != operator {
			return errcode.New(errcode.ErrUnauthorizedOperation)
		}

		now := s.now()
		if device.ExpectedReturnDate != nil {
			overdue := now.Sub(*device.ExpectedReturnDate)
			if overdue > RenewOverdueLimit {
				return errcode.NewWithMessage(errcode.ErrInvalidState, "设备逾期已超过3天，不能续期，请先归还")
			}
		}
		if !newDate.After(now) {
			return errcode.NewWithMessage(errcode.ErrValidation, "新的应还时间必须晚于当前时间")
		}

		device.ExpectedReturnDate = &newDate
		if err := s.saveDevice(tx, device); err != nil {
			return err
		}

		if err := s.appendRecord(tx, &models.Record{
			DeviceID:      device.ID,
			DeviceName:    device.Name,
			DeviceType:    device.DeviceType,
			OperationType: models.OperationRenew,
			Operator:      operator,
			OperationTime: now,
			Borrower:      device.Borrower,
			Phone:         device.Phone,
			Remark:        fmt.Sprintf("应还时间延长至 %s", newDate.Format("2006-01-02 15:04")),
		}); err != nil {
			return err
		}
		result = device
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// 12 Ship 寄出设备，仅车机和仪表支持。设备处于借出状态时
// 保存借用快照，以便取消寄出时还原。
func (s *LifecycleService) Ship(deviceID string, req *ShipRequest) (*models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result *models.Device
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		device, err := s.getDevice(tx, deviceID)
		if err != nil {
			return err
		}
		if err := s.checkActive(device); err != nil {
			return err
		}
		if !device.Shippable() {
			return errcode.NewWithMessage(errcode.ErrInvalidState, "只有车机和仪表支持寄出")
		}
		if device.Status != models.DeviceStatusInStock && device.Status != models.DeviceStatusBorrowed {
			return errcode.NewWithMessage(errcode.ErrInvalidState,
				fmt.Sprintf("设备当前状态为「%s」，不能寄出", device.Status))
		}

		now := s.now()
		if device.Status == models.DeviceStatusBorrowed {
			device.PreShipBorrower = device.Borrower
			device.PreShipBorrowTime = device.BorrowTime
			device.PreShipExpectedReturnDate = device.ExpectedReturnDate
		}
		device.Status = models.DeviceStatusShipped
		device.ShipTime = &now
		device.ShipRemark = req.Remark
		device.ShipBy = req.Operator
		if err := s.saveDevice(tx, device); err != nil {
			return err
		}

		if err := s.appendRecord(tx, &models.Record{
			DeviceID:      device.ID,
			DeviceName:    device.Name,
			DeviceType:    device.DeviceType,
			OperationType: models.OperationShip,
			Operator:      req.Operator,
			OperationTime: now,
			Borrower:      device.PreShipBorrower,
			Remark:        req.Remark,
		}); err != nil {
			return err
		}
		result = device
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// 13 Unship 取消寄出。寄出前有借用人的还原为借出状态，否则回到默认状态。
func (s *LifecycleService) Unship(deviceID string, operator string) (*models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result *models.Device
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		device, err := s.getDevice(tx, deviceID)
		if err != nil {
			return err
		}
		if device.Status != models.DeviceStatusShipped {
			return errcode.NewWithMessage(errcode.ErrInvalidState, "设备未处于已寄出状态")
		}

		now := s.now()
		remark := ""
		if device.PreShipBorrower != "" {
			device.Status = models.DeviceStatusBorrowed
			device.Borrower = device.PreShipBorrower
			device.BorrowTime = device.PreShipBorrowTime
			device.ExpectedReturnDate = device.PreShipExpectedReturnDate
			remark = fmt.Sprintf("取消寄出，设备还原到「%s」名下", device.Borrower)
		} else {
			device.Status = device.DefaultStatus()
			remark = "取消寄出，设备回到库中"
		}
		device.ShipTime = nil
		device.ShipRemark = ""
		device.ShipBy = ""
		device.PreShipBorrower = ""
		device.PreShipBorrowTime = nil
		device.PreShipExpectedReturnDate = nil
		if err := s.saveDevice(tx, device); err != nil {
			return err
		}

		if err := s.appendRecord(tx, &models.Record{
			DeviceID:      device.ID,
			DeviceName:    device.Name,
			DeviceType:    device.DeviceType,
			OperationType: models.OperationStatusChange,
			Operator:      operator,
			OperationTime: now,
			Borrower:      device.Borrower,
			Remark:        remark,
		}); err != nil {
			return err
		}
		result = device
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// statusChangeTargets 管理员可直接设置的状态。
// 借出状态只能经由借用类操作进入，保证借出设备一定有借用人。
var statusChangeTargets = map[models.DeviceStatus]bool{
	models.DeviceStatusInStock:   true,
	models.DeviceStatusInCustody: true,
	models.DeviceStatusShipped:   true,
	models.DeviceStatusDamaged:   true,
	models.DeviceStatusLost:      true,
	models.DeviceStatusScrapped:  true,
	models.DeviceStatusCirculate: true,
	models.DeviceStatusNoCabinet: true,
	models.DeviceStatusSealed:    true,
}

// 14 ChangeStatus 管理员直接变更设备状态（含报废、封存）。
// 报废状态不可逆，设备在他人名下时会先清空借用信息并通知借用人。
func (s *LifecycleService) ChangeStatus(deviceID string, status models.DeviceStatus, operator string) (*models.Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if status == models.DeviceStatusBorrowed {
		return nil, errcode.NewWithMessage(errcode.ErrValidation, "不能通过状态变更借出设备，请使用借用操作")
	}
	if !statusChangeTargets[status] {
		return nil, errcode.NewWithMessage(errcode.ErrValidation, fmt.Sprintf("无效的设备状态「%s」", status))
	}

	var result *models.Device
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		device, err := s.getDevice(tx, deviceID)
		if err != nil {
			return err
		}
		if device.Status == models.DeviceStatusScrapped {
			return errcode.NewWithMessage(errcode.ErrInvalidState, "设备已报废，状态不能再变更")
		}
		if device.Status == status {
			return errcode.NewWithMessage(errcode.ErrInvalidState, "设备已处于该状态")
		}

		now := s.now()
		previous := device.Borrower
		previousStatus := device.Status

		device.Status = status
		if previous != "" {
			device.ClearBorrowInfo()
		}
		if err := s.saveDevice(tx, device); err != nil {
			return err
		}

		operationType := models.OperationStatusChange
		if status == models.DeviceStatusScrapped {
			operationType = models.OperationScrap
		}
		if err := s.appendRecord(tx, &models.Record{
			DeviceID:      device.ID,
			DeviceName:    device.Name,
			DeviceType:    device.DeviceType,
			OperationType: operationType,
			Operator:      operator,
			OperationTime: now,
			Borrower:      previous,
			Remark:        fmt.Sprintf("状态由「%s」变更为「%s」", previousStatus, status),
		}); err != nil {
			return err
		}
		if previous != "" {
			// 损坏和丢失按错误级别通知，其余状态变更为警告
			notifyType := models.NotificationTypeWarning
			if status == models.DeviceStatusDamaged || status == models.DeviceStatusLost {
				notifyType = models.NotificationTypeError
			}
			if err := s.notifyBorrower(tx, previous, "设备状态变更",
				fmt.Sprintf("您名下的设备「%s」状态已被管理员变更为「%s」", device.Name, status),
				device, notifyType); err != nil {
				return err
			}
		}
		result = device
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// 15 Delete 软删除设备。借出和已寄出状态的设备不允许删除。
func (s *LifecycleService) Delete(deviceID string, operator string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.DB.Transaction(func(tx *gorm.DB) error {
		device, err := s.getDevice(tx, deviceID)
		if err != nil {
			return err
		}
		if device.Status == models.DeviceStatusBorrowed || device.Status == models.DeviceStatusShipped {
			return errcode.NewWithMessage(errcode.ErrInvalidState, "设备处于借出或寄出状态，不能删除")
		}

		device.IsDeleted = true
		if err := s.saveDevice(tx, device); err != nil {
			return err
		}

		log := models.OperationLog{
			OperationTime:    s.now(),
			Operator:         operator,
			OperationContent: "删除设备",
			DeviceInfo:       fmt.Sprintf("%s(%s)", device.Name, device.DeviceType),
		}
		if err := tx.Create(&log).Error; err != nil {
			return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
		}
		return nil
	})
}
