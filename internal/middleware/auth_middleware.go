package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"ShengHang/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextTokenID  = "tokenID"
	ContextTokenExp = "tokenExp"
)

// RevocationChecker 查询token是否已经登出
type RevocationChecker interface {
	IsRevoked(jti string) (bool, error)
}

type tokenClaims struct {
	userID   uint64
	username string
	tokenID  string
	exp      time.Time
}

var (
	errMissingToken   = errors.New("请求未包含授权令牌")
	errMalformedToken = errors.New("授权令牌格式不正确")
	errInvalidToken   = errors.New("无效的授权令牌")
	errRevokedToken   = errors.New("授权令牌已失效，请重新登录")
)

// 流程：1、从http请求中取出"Authorization"字段 2、验证"Bearer [token]" 3、通过secretKey验证token有效性 4、检查是否已登出
func parseRequestToken(c *gin.Context, secretKey []byte, revoked RevocationChecker) (*tokenClaims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, errMissingToken
	}
	// 通常Token的格式是 "Bearer [token]"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errMalformedToken
	}

	// 解析Token，还附带valid判断是否有效
	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		// 确保签名方法是对称加密族
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("非预期的签名方法")
		}
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidToken
	}
	// jwt.MapClaims中的数字会被解析为float64
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok || userIDFloat <= 0 {
		return nil, errInvalidToken
	}
	result := &tokenClaims{userID: uint64(userIDFloat)}
	result.username, _ = claims["username"].(string)
	result.tokenID, _ = claims["jti"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		result.exp = exp.Time
	}

	if result.tokenID != "" && revoked != nil {
		isRevoked, err := revoked.IsRevoked(result.tokenID)
		if err != nil {
			// Redis出问题时不放行
			logger.Log.WithError(err).Error("查询token黑名单失败")
			return nil, errInvalidToken
		}
		if isRevoked {
			return nil, errRevokedToken
		}
	}
	return result, nil
}

func setClaims(c *gin.Context, claims *tokenClaims) {
	c.Set(ContextUserID, claims.userID)
	c.Set(ContextUsername, claims.username)
	c.Set(ContextTokenID, claims.tokenID)
	c.Set(ContextTokenExp, claims.exp)
}

// AuthMiddleware 必须登录，验证成功后把用户信息存入Context
func AuthMiddleware(secretKey []byte, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseRequestToken(c, secretKey, revoked)
		if err != nil {
			// 立刻调用c.Abort()，阻止后续的任何处理器被执行
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "code": "unauthenticated"})
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware 带了合法token就识别出用户，没带或不合法就当匿名访问
func OptionalAuthMiddleware(secretKey []byte, revoked RevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := parseRequestToken(c, secretKey, revoked); err == nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}

// ActorID 取当前用户ID，匿名时为0
func ActorID(c *gin.Context) uint64 {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return 0
	}
	id, _ := v.(uint64)
	return id
}
