package middleware

import (
	"net/http"

	"ShengHang/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AdminChecker interface {
	IsAdmin(userID uint64) (bool, error)
}

// RequireAdmin 必须挂在AuthMiddleware之后，按用户上的is_admin标记判断
func RequireAdmin(admins AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := ActorID(c)
		if userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "用户未认证", "code": "unauthenticated"})
			return
		}
		isAdmin, err := admins.IsAdmin(userID)
		if err != nil {
			logger.Log.WithError(err).WithField("user_id", userID).Error("查询管理员身份失败")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "服务器内部错误", "code": "storage_failure"})
			return
		}
		if !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "需要管理员权限", "code": "forbidden"})
			return
		}
		c.Next()
	}
}
