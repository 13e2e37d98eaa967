package controllers

import (
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/services"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/services/container"

	"github.com/gin-gonic/gin"
)

// InterfaceJWTController 定义认证控制器接口
type InterfaceJWTController interface {
	Login()
	AdminLogin()
	Register()
}

// JWTController 处理身份验证请求
type JWTController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewJWTController 创建一个新的认证控制器
func NewJWTController(ctx *gin.Context, container *container.ServiceContainer) *JWTController {
	return &JWTController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest 表示登录请求
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required" example:"13800000000"`
	Password string `json:"password" binding:"required" example:"123456"`
}

// AdminLoginRequest 表示管理端登录请求
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// LoginData 表示登录成功后返回的数据
type LoginData struct {
	Token        string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	UserID       string `json:"user_id"`
	Role         string `json:"role" example:"user"`
	BorrowerName string `json:"borrower_name" example:"张三"`
}

// HandleJWTFunc 返回一个处理认证请求的Gin处理函数
func HandleJWTFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewJWTController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		case "adminLogin":
			controller.AdminLogin()
		case "register":
			controller.Register()
		default:
			respondInvalidMethod(ctx)
		}
	}
}

// 1 Login 用户登录
// @Summary      用户登录
// @Description  手机号+密码登录，返回JWT令牌
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "登录参数"
// @Success      200  {object}  map[string]interface{}  "登录成功，data 为 LoginData"
// @Failure      401  {object}  ErrorResponse  "账号或密码错误"
// @Failure      403  {object}  ErrorResponse  "账号已被冻结"
// @Router       /auth/login [post]
func (c *JWTController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	jwtService := c.Container.GetService("jwt").(*services.JWTService)

	user, err := userService.Login(req.Phone, req.Password)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	role := services.RoleUser
	if user.IsAdmin {
		role = services.RoleAdmin
	}
	token, err := jwtService.GenerateToken(user.ID, role, user.BorrowerName)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	respondOK(c.Ctx, LoginData{
		Token:        token,
		UserID:       user.ID,
		Role:         role,
		BorrowerName: user.BorrowerName,
	})
}

// 2 AdminLogin 管理端登录
// @Summary      管理端登录
// @Description  管理员账号登录，返回带管理员角色的JWT令牌
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body AdminLoginRequest true "登录参数"
// @Success      200  {object}  map[string]interface{}  "登录成功，data 为 LoginData"
// @Failure      401  {object}  ErrorResponse  "账号或密码错误"
// @Router       /auth/admin/login [post]
func (c *JWTController) AdminLogin() {
	var req AdminLoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	jwtService := c.Container.GetService("jwt").(*services.JWTService)

	user, err := userService.AdminLogin(req.Username, req.Password)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	token, err := jwtService.GenerateToken(user.ID, services.RoleAdmin, user.BorrowerName)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}

	respondOK(c.Ctx, LoginData{
		Token:        token,
		UserID:       user.ID,
		Role:         services.RoleAdmin,
		BorrowerName: user.BorrowerName,
	})
}

// 3 Register 用户注册
// @Summary      用户注册
// @Description  注册新用户，手机号唯一
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body services.RegisterRequest true "注册参数"
// @Success      200  {object}  map[string]interface{}  "注册成功，data 为用户信息"
// @Failure      400  {object}  ErrorResponse  "手机号已注册"
// @Router       /auth/register [post]
func (c *JWTController) Register() {
	var req services.RegisterRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		respondBindError(c.Ctx, err)
		return
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	user, err := userService.Register(&req)
	if err != nil {
		respondError(c.Ctx, err)
		return
	}
	respondOK(c.Ctx, user)
}
