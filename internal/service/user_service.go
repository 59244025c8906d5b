package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"ridelink/internal/domain"
	"ridelink/pkg/utils"
)

// UserService 账号注册/登录/注销。会话签发在 transport 层（JWTer）。
type UserService struct {
	Users    domain.UserRepository
	Contacts domain.ContactRepository
	Rides    domain.RideRepository
	Notifs   domain.NotificationRepository
	Log      *zap.Logger
}

type RegisterInput struct {
	Name        string
	Phone       string // E.164，接入层已规范化
	CountryCode string
	Email       string
	Password    string
}

var ErrBadPhone = errors.New("phone must be E.164")

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if !utils.ValidE164(in.Phone) {
		return nil, ErrBadPhone
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Name:         in.Name,
		Phone:        in.Phone,
		CountryCode:  in.CountryCode,
		Email:        in.Email,
		PasswordHash: utils.HashPassword(in.Password),
		Role:         "user",
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.Log.Info("user registered", zap.String("user", u.ID))
	return u, nil
}

// Login 标识符是手机号（E.164）或邮箱。凭据错误统一 ErrForbidden，
// 不区分"用户不存在"和"密码错误"。
func (s *UserService) Login(ctx context.Context, identifier, password string) (*domain.User, error) {
	var (
		u   *domain.User
		err error
	)
	if utils.ValidE164(identifier) {
		u, err = s.Users.FindByPhone(ctx, identifier)
	} else {
		u, err = s.Users.FindByEmail(ctx, identifier)
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.ErrForbidden
	}
	return u, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID, name, countryCode string) (*domain.User, error) {
	u, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		u.Name = name
	}
	if countryCode != "" {
		u.CountryCode = countryCode
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete 注销级联：软删用户，硬删联系人边，未终态行程收口，清通知。
func (s *UserService) Delete(ctx context.Context, userID string) error {
	if err := s.Users.SoftDelete(ctx, userID); err != nil {
		return err
	}
	if err := s.Contacts.DeleteAllOf(ctx, userID); err != nil {
		s.Log.Error("cascade contacts failed", zap.String("user", userID), zap.Error(err))
		return err
	}
	if err := s.Rides.CloseAllOf(ctx, userID); err != nil {
		s.Log.Error("cascade rides failed", zap.String("user", userID), zap.Error(err))
		return err
	}
	if err := s.Notifs.DeleteAllOf(ctx, userID); err != nil {
		s.Log.Error("cascade notifications failed", zap.String("user", userID), zap.Error(err))
		return err
	}
	s.Log.Info("user deleted", zap.String("user", userID))
	return nil
}
