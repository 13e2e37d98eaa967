package middleware

import (
	"net/http"
	"strings"

	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/config"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/errcode"
	"github.com/lan870606637/Automotive-Mobile-Device-Management-Platform/services"

	"github.com/gin-gonic/gin"
)

var jwtService *services.JWTService

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(cfg *config.Config) {
	jwtService = services.NewJWTService(cfg)
}

// extractToken 从授权头中提取token
func extractToken(authHeader string) string {
	// 检查并移除 "Bearer " 前缀
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"code":    errcode.ErrTokenInvalid,
		"message": message,
		"data":    nil,
	})
	c.Abort()
}

// authenticate 校验令牌并把声明写入上下文，requireAdmin 为真时同时校验管理员角色
func authenticate(requireAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "缺少 Authorization 请求头")
			return
		}

		claims, err := jwtService.ExtractClaims(extractToken(authHeader))
		if err != nil {
			abortUnauthorized(c, "无效的令牌: "+err.Error())
			return
		}

		if requireAdmin && claims.Role != services.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    errcode.ErrUnauthorizedOperation,
				"message": "需要管理员权限",
				"data":    nil,
			})
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("borrower_name", claims.BorrowerName)
		c.Next()
	}
}

// AuthenticateUser 验证登录用户
func AuthenticateUser() gin.HandlerFunc {
	return authenticate(false)
}

// AuthenticateAdmin 验证管理员权限
func AuthenticateAdmin() gin.HandlerFunc {
	return authenticate(true)
}
