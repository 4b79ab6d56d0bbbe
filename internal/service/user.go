package service

import (
	"strings"
	"time"

	"ShengHang/internal/apperr"
	"ShengHang/internal/model"
	"ShengHang/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UpdateProfileInput struct {
	Gender  *string
	Region  *string
	Email   *string
	Profile *string
}

// 用户服务接口：注册、登录、登出、改密码、改资料、查看用户
type UserService interface {
	Register(username, password string) (*model.User, error)
	Login(username, password string) (string, error)
	// 把token的jti拉黑到它原本的过期时间
	Logout(tokenID string, expiresAt time.Time) error
	ChangePassword(userID uint64, oldPassword, newPassword string) error
	UpdateProfile(userID uint64, in UpdateProfileInput) (*model.User, error)
	GetUserInfo(userID uint64) (*model.User, error)
}

// 用户服务包装
type userService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	secretKey []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func NewUserService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, secretKey []byte, tokenTTL time.Duration) UserService {
	return &userService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		secretKey: secretKey,
		tokenTTL:  tokenTTL,
		now:       time.Now,
	}
}

// 注册逻辑：1、检查是否重名 2、密码加密存储 3、插入数据库，并发注册同名时由唯一索引兜底
func (s *userService) Register(username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperr.NewInvalidArgument("username", "用户名不能为空")
	}
	if password == "" {
		return nil, apperr.NewInvalidArgument("password", "密码不能为空")
	}
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, apperr.NewAlreadyExists("用户名已存在")
	} else if !repository.IsNotFound(err) {
		return nil, apperr.NewStorageFailure(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	newUser := &model.User{
		Username: username,
		Password: string(hashedPassword),
	}
	if err := s.userRepo.Create(newUser); err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperr.Wrap(apperr.AlreadyExists, "用户名已存在", err)
		}
		return nil, apperr.NewStorageFailure(err)
	}
	return newUser, nil
}

// 登录逻辑：1、检查库中是否有该用户名 2、加密后密码和输入密码比对 3、生成jwt签名
func (s *userService) Login(username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if repository.IsNotFound(err) {
			return "", apperr.NewUnauthenticated("用户名或密码错误")
		}
		return "", apperr.NewStorageFailure(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", apperr.NewUnauthenticated("用户名或密码错误")
	}
	now := s.now()
	// token对象的Payload，不能将密码放在其中，Payload不加密
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"jti":      uuid.NewString(), // 登出时按jti拉黑
		"exp":      now.Add(s.tokenTTL).Unix(),
		"iat":      now.Unix(),
	}
	// token加上Header，算法信息HS256，对称加密
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

func (s *userService) Logout(tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return apperr.NewUnauthenticated("无效的授权令牌")
	}
	if err := s.tokenRepo.Revoke(tokenID, expiresAt.Sub(s.now())); err != nil {
		return apperr.NewStorageFailure(err)
	}
	return nil
}

func (s *userService) ChangePassword(userID uint64, oldPassword, newPassword string) error {
	if err := requireActor(userID); err != nil {
		return err
	}
	if newPassword == "" {
		return apperr.NewInvalidArgument("new_password", "新密码不能为空")
	}
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return translate(err, "用户不存在")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return apperr.NewInvalidArgument("old_password", "原密码错误")
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(userID, string(hashedPassword)); err != nil {
		return apperr.NewStorageFailure(err)
	}
	return nil
}

func (s *userService) UpdateProfile(userID uint64, in UpdateProfileInput) (*model.User, error) {
	if err := requireActor(userID); err != nil {
		return nil, err
	}
	fields := make(map[string]interface{})
	if in.Gender != nil {
		fields["gender"] = *in.Gender
	}
	if in.Region != nil {
		fields["region"] = *in.Region
	}
	if in.Email != nil {
		fields["email"] = strings.TrimSpace(*in.Email)
	}
	if in.Profile != nil {
		fields["profile"] = *in.Profile
	}
	if len(fields) == 0 {
		return nil, apperr.NewInvalidArgument("", "没有需要更新的字段")
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return nil, translate(err, "用户不存在")
	}
	if _, err := s.userRepo.UpdateProfile(userID, fields); err != nil {
		return nil, apperr.NewStorageFailure(err)
	}
	return s.GetUserInfo(userID)
}

func (s *userService) GetUserInfo(userID uint64) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, translate(err, "用户不存在")
	}
	return user, nil
}
