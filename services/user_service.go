package services

import (
	"errors"
	"fmt"

	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/config"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/errcode"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/models"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/utils"

	"gorm.io/gorm"
)

// RegisterRequest 用户注册请求
type RegisterRequest struct {
	Phone        string `json:"phone" binding:"required"`
	Password     string `json:"password" binding:"required,min=6"`
	WechatName   string `json:"wechat_name"`
	BorrowerName string `json:"borrower_name"`
}

// InterfaceUserService defines the user account service interface
type InterfaceUserService interface {
	Register(req *RegisterRequest) (*models.User, error)
	Login(phone, password string) (*models.User, error)
	AdminLogin(username, password string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	ListUsers(query *models.PaginationQuery) ([]models.User, models.PaginationResult, error)
	UpdateUser(id string, updates map[string]interface{}) (*models.User, error)
	SetBorrowerName(id string, borrowerName string) (*models.User, error)
	SetFrozen(id string, frozen bool) error
	SetAdmin(id string, isAdmin bool) error
	ResetPassword(id string) (string, error)
	DeleteUser(id string) error
}

// UserService 用户账号服务，密码一律 bcrypt 存储
type UserService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewUserService 创建一个新的用户服务
func NewUserService(db *gorm.DB, cfg *config.Config) InterfaceUserService {
	return &UserService{
		DB:     db,
		Config: cfg,
	}
}

// 1 Register 注册新用户，手机号唯一，借用人名称唯一（可留空后补）
func (s *UserService) Register(req *RegisterRequest) (*models.User, error) {
	var count int64
	err := s.DB.Model(&models.User{}).
		Where("phone = ? AND is_deleted = ?", req.Phone, false).
		Count(&count).Error
	if err != nil {
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	if count > 0 {
		return nil, errcode.NewWithMessage(errcode.ErrUserAlreadyExist, "手机号已注册")
	}
	if req.BorrowerName != "" {
		if err := s.checkBorrowerName(req.BorrowerName, ""); err != nil {
			return nil, err
		}
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, errcode.NewWithMessage(errcode.ErrUnknown, err.Error())
	}
	user := models.User{
		Phone:        req.Phone,
		Password:     hashed,
		WechatName:   req.WechatName,
		BorrowerName: req.BorrowerName,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return &user, nil
}

// 2 Login 手机号+密码登录，冻结账号拒绝登录
func (s *UserService) Login(phone, password string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("phone = ? AND is_deleted = ?", phone, false).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errcode.New(errcode.ErrUserPasswordIncorrect)
		}
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, errcode.New(errcode.ErrUserPasswordIncorrect)
	}
	if user.IsFrozen {
		return nil, errcode.New(errcode.ErrUserFrozen)
	}
	return &user, nil
}

// 3 AdminLogin 管理端登录。先查独立管理员表，
// 再退回到带管理员标记的普通用户。
func (s *UserService) AdminLogin(username, password string) (*models.User, error) {
	var admin models.Admin
	err := s.DB.Where("username = ?", username).First(&admin).Error
	if err == nil {
		if !utils.CheckPasswordHash(password, admin.Password) {
			return nil, errcode.New(errcode.ErrUserPasswordIncorrect)
		}
		return &models.User{
			ID:           admin.ID,
			BorrowerName: admin.Username,
			IsAdmin:      true,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}

	user, loginErr := s.Login(username, password)
	if loginErr != nil {
		// 也允许用手机号以外的借用人名称登录管理端
		var byName models.User
		err := s.DB.Where("borrower_name = ? AND is_deleted = ?", username, false).First(&byName).Error
		if err != nil {
			return nil, errcode.New(errcode.ErrUserPasswordIncorrect)
		}
		if !utils.CheckPasswordHash(password, byName.Password) {
			return nil, errcode.New(errcode.ErrUserPasswordIncorrect)
		}
		if byName.IsFrozen {
			return nil, errcode.New(errcode.ErrUserFrozen)
		}
		user = &byName
	}
	if !user.IsAdmin {
		return nil, errcode.New(errcode.ErrUnauthorizedOperation)
	}
	return user, nil
}

// 4 GetUserByID 根据ID获取用户
func (s *UserService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ? AND is_deleted = ?", id, false).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errcode.New(errcode.ErrUserNotFound)
		}
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return &user, nil
}

// 5 ListUsers 分页查询用户列表
func (s *UserService) ListUsers(query *models.PaginationQuery) ([]models.User, models.PaginationResult, error) {
	db := s.DB.Model(&models.User{}).Where("is_deleted = ?", false)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, models.PaginationResult{}, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}

	pageNum := query.PageNum
	pageSize := query.PageSize
	if pageNum <= 0 {
		pageNum = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	var users []models.User
	err := db.Order("created_at DESC").
		Offset((pageNum - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	if err != nil {
		return nil, models.PaginationResult{}, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return users, models.NewPaginationResult(int(total), pageNum, pageSize), nil
}

// 6 UpdateUser 更新用户基础信息，密码和敏感标记不在此修改
func (s *UserService) UpdateUser(id string, updates map[string]interface{}) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	for _, field := range []string{"password", "is_admin", "is_frozen", "is_deleted", "borrow_count"} {
		delete(updates, field)
	}
	if name, ok := updates["borrower_name"].(string); ok && name != user.BorrowerName {
		if err := s.checkBorrowerName(name, id); err != nil {
			return nil, err
		}
	}
	if err := s.DB.Model(user).Updates(updates).Error; err != nil {
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return s.GetUserByID(id)
}

// 7 SetBorrowerName 设置借用人名称，全局唯一，设备台账以该名称关联用户
func (s *UserService) SetBorrowerName(id string, borrowerName string) (*models.User, error) {
	if borrowerName == "" {
		return nil, errcode.New(errcode.ErrValidation)
	}
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	if user.BorrowerName == borrowerName {
		return user, nil
	}
	if err := s.checkBorrowerName(borrowerName, id); err != nil {
		return nil, err
	}
	if err := s.DB.Model(user).Update("borrower_name", borrowerName).Error; err != nil {
		return nil, errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return s.GetUserByID(id)
}

// 8 SetFrozen 冻结/解冻账号，冻结后无法登录和借用
func (s *UserService) SetFrozen(id string, frozen bool) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}
	if err := s.DB.Model(user).Update("is_frozen", frozen).Error; err != nil {
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return nil
}

// 9 SetAdmin 授予/撤销管理员权限
func (s *UserService) SetAdmin(id string, isAdmin bool) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}
	if err := s.DB.Model(user).Update("is_admin", isAdmin).Error; err != nil {
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return nil
}

// 10 ResetPassword 管理员重置用户密码，返回随机生成的临时密码
func (s *UserService) ResetPassword(id string) (string, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return "", err
	}
	n := utils.RandomInt32()
	if n < 0 {
		n = -n
	}
	tempPassword := fmt.Sprintf("%08d", n%100000000)
	hashed, err := utils.HashPassword(tempPassword)
	if err != nil {
		return "", errcode.NewWithMessage(errcode.ErrUnknown, err.Error())
	}
	if err := s.DB.Model(user).Update("password", hashed).Error; err != nil {
		return "", errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return tempPassword, nil
}

// 11 DeleteUser 软删除用户
func (s *UserService) DeleteUser(id string) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}
	if err := s.DB.Model(user).Update("is_deleted", true).Error; err != nil {
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	return nil
}

// checkBorrowerName 借用人名称唯一性校验，excludeID 为空表示新用户
func (s *UserService) checkBorrowerName(name string, excludeID string) error {
	db := s.DB.Model(&models.User{}).
		Where("borrower_name = ? AND is_deleted = ?", name, false)
	if excludeID != "" {
		db = db.Where("id != ?", excludeID)
	}
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return errcode.NewWithMessage(errcode.ErrDatabase, err.Error())
	}
	if count > 0 {
		return errcode.New(errcode.ErrBorrowerNameTaken)
	}
	return nil
}
