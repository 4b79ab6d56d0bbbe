package handler

import (
	"net/http"

	"ShengHang/internal/dto"
	"ShengHang/internal/middleware"
	"ShengHang/internal/service"
	"ShengHang/pkg/logger"

	"github.com/gin-gonic/gin"
)

type UserHandler interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	GetProfile(c *gin.Context)
	UpdateProfile(c *gin.Context)
	ChangePassword(c *gin.Context)
	GetUserInfo(c *gin.Context)
}

// 对Service进行封装
type userHandler struct {
	UserService service.UserService
}

func NewUserHandler(userService service.UserService) UserHandler {
	return &userHandler{UserService: userService}
}

// 用处：接收http发来的全部注册信息，用户名+密码
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type UpdateProfileRequest struct {
	Gender  *string `json:"gender"`
	Region  *string `json:"region"`
	Email   *string `json:"email"`
	Profile *string `json:"profile"`
}

// 注册：1、JSON解析为注册请求结构体 2、service层利用Username和Password进行注册 3、返回注册成功后的User
func (h *userHandler) Register(c *gin.Context) {
	var req RegisterRequest
	// c.ShouldBindJSON，绑定和校验，如果context中不包含req的“required”字段，则会返回错误
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, &req, err)
		return
	}

	logCtx := logger.Log.WithField("username", req.Username)
	logCtx.Info("开始处理用户注册请求")

	user, err := h.UserService.Register(req.Username, req.Password)
	if err != nil {
		sendServiceError(c, logCtx, err, "用户注册")
		return
	}

	logCtx.WithField("user_id", user.ID).Info("用户注册成功")

	c.JSON(http.StatusCreated, gin.H{
		"message": "注册成功",
		"data": gin.H{
			"id":       user.ID,
			"username": user.Username,
		},
	})
}

// 登录：成功则返回token
func (h *userHandler) Login(c *gin.Context) {
	var login LoginRequest
	if err := c.ShouldBindJSON(&login); err != nil {
		sendBindError(c, &login, err)
		return
	}

	logCtx := logger.Log.WithField("username", login.Username)
	logCtx.Info("开始处理用户登录请求")

	token, err := h.UserService.Login(login.Username, login.Password)
	if err != nil {
		sendServiceError(c, logCtx, err, "用户登录")
		return
	}

	logCtx.Info("用户登录成功")

	c.JSON(http.StatusOK, gin.H{
		"message": "登录成功",
		"data": gin.H{
			"token": token,
		},
	})
}

func (h *userHandler) Logout(c *gin.Context) {
	userID := middleware.ActorID(c)
	tokenID := c.GetString(middleware.ContextTokenID)
	expiresAt := c.GetTime(middleware.ContextTokenExp)
	logCtx := logger.Log.WithField("user_id", userID)

	if err := h.UserService.Logout(tokenID, expiresAt); err != nil {
		sendServiceError(c, logCtx, err, "退出登录")
		return
	}
	logCtx.Info("用户已退出登录")
	c.JSON(http.StatusOK, gin.H{"message": "已退出登录"})
}

// 获取当前登录用户的完整资料
func (h *userHandler) GetProfile(c *gin.Context) {
	userID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", userID)
	user, err := h.UserService.GetUserInfo(userID)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取个人资料")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "成功获取用户信息",
		"data":    dto.ToUserProfileResponse(user),
	})
}

func (h *userHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, &req, err)
		return
	}
	userID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", userID)
	user, err := h.UserService.UpdateProfile(userID, service.UpdateProfileInput{
		Gender:  req.Gender,
		Region:  req.Region,
		Email:   req.Email,
		Profile: req.Profile,
	})
	if err != nil {
		sendServiceError(c, logCtx, err, "更新个人资料")
		return
	}
	logCtx.Info("个人资料已更新")
	c.JSON(http.StatusOK, gin.H{
		"message": "更新成功",
		"data":    dto.ToUserProfileResponse(user),
	})
}

func (h *userHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, &req, err)
		return
	}
	userID := middleware.ActorID(c)
	logCtx := logger.Log.WithField("user_id", userID)
	if err := h.UserService.ChangePassword(userID, req.OldPassword, req.NewPassword); err != nil {
		sendServiceError(c, logCtx, err, "修改密码")
		return
	}
	// 旧token仍然有效，直到过期或登出
	logCtx.Info("密码修改成功")
	c.JSON(http.StatusOK, gin.H{"message": "密码修改成功"})
}

// 查看他人的公开资料
func (h *userHandler) GetUserInfo(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id", "无效的用户ID")
	if !ok {
		return
	}
	logCtx := logger.Log.WithField("target_user_id", userID)
	user, err := h.UserService.GetUserInfo(userID)
	if err != nil {
		sendServiceError(c, logCtx, err, "获取用户信息")
		return
	}
	resp := dto.ToUserProfileResponse(user)
	resp.Email = ""
	c.JSON(http.StatusOK, gin.H{
		"message": "成功获取用户信息",
		"data":    resp,
	})
}

