package router

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"ridelink/internal/domain"
	"ridelink/internal/service"
	httpez "ridelink/internal/transport/http/ez"
)

type userOut struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	CountryCode string `json:"countryCode"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Verified    bool   `json:"verified"`
}

func toUserOut(u *domain.User) userOut {
	return userOut{
		ID: u.ID, Name: u.Name, Phone: u.Phone, CountryCode: u.CountryCode,
		Email: u.Email, Role: u.Role, Verified: u.Verified,
	}
}

// mountAuthActions /auth/* 挂公共分组，/me 必须挂鉴权分组
func mountAuthActions(api, authed *gin.RouterGroup, d *Deps) {
	ezPublic := httpez.New(api)
	ezAuth := httpez.New(authed)

	// /auth/register
	type registerIn struct {
		Name        string `json:"name"        binding:"required,max=64"`
		Phone       string `json:"phone"       binding:"required"`
		CountryCode string `json:"countryCode" binding:"omitempty,max=8"`
		Email       string `json:"email"       binding:"required,email"`
		Password    string `json:"password"    binding:"required,min=8"`
	}
	type authOut struct {
		Token string  `json:"token"`
		User  userOut `json:"user"`
	}
	httpez.RegisterAction[registerIn, authOut](ezPublic, d.DB, httpez.Action[registerIn, authOut]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *registerIn) (authOut, error) {
			u, err := d.Users.Register(c, service.RegisterInput{
				Name:        strings.TrimSpace(in.Name),
				Phone:       strings.TrimSpace(in.Phone),
				CountryCode: strings.TrimSpace(in.CountryCode),
				Email:       strings.ToLower(strings.TrimSpace(in.Email)),
				Password:    in.Password,
			})
			if errors.Is(err, service.ErrBadPhone) {
				return authOut{}, httpez.BadRequest(err.Error())
			}
			if errors.Is(err, domain.ErrDuplicateEdge) {
				return authOut{}, httpez.Conflict("phone or email already registered")
			}
			if err != nil {
				return authOut{}, httpez.FromDomain(err)
			}
			tok, err := d.JWT.Issue(u.ID, u.Role)
			if err != nil {
				return authOut{}, httpez.Internal("issue token failed", err)
			}
			return authOut{Token: tok, User: toUserOut(u)}, nil
		},
	})

	// /auth/login：identifier 是手机号或邮箱
	type loginIn struct {
		Identifier string `json:"identifier" binding:"required"`
		Password   string `json:"password"   binding:"required"`
	}
	httpez.RegisterAction[loginIn, authOut](ezPublic, d.DB, httpez.Action[loginIn, authOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *loginIn) (authOut, error) {
			u, err := d.Users.Login(c, strings.TrimSpace(in.Identifier), in.Password)
			if errors.Is(err, domain.ErrForbidden) {
				return authOut{}, httpez.Unauthorized("invalid credentials")
			}
			if err != nil {
				return authOut{}, httpez.FromDomain(err)
			}
			tok, err := d.JWT.Issue(u.ID, u.Role)
			if err != nil {
				return authOut{}, httpez.Internal("issue token failed", err)
			}
			return authOut{Token: tok, User: toUserOut(u)}, nil
		},
	})

	// /me
	httpez.RegisterAction[struct{}, userOut](ezAuth, d.DB, httpez.Action[struct{}, userOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (userOut, error) {
			u, err := d.Users.Users.FindByID(c, c.GetString("userId"))
			if err != nil {
				return userOut{}, httpez.FromDomain(err)
			}
			return toUserOut(u), nil
		},
	})

	type profileIn struct {
		Name        string `json:"name"        binding:"omitempty,max=64"`
		CountryCode string `json:"countryCode" binding:"omitempty,max=8"`
	}
	httpez.RegisterAction[profileIn, userOut](ezAuth, d.DB, httpez.Action[profileIn, userOut]{
		Method: http.MethodPut,
		Path:   "/me",
		Binder: httpez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, in *profileIn) (userOut, error) {
			u, err := d.Users.UpdateProfile(c, c.GetString("userId"),
				strings.TrimSpace(in.Name), strings.TrimSpace(in.CountryCode))
			if err != nil {
				return userOut{}, httpez.FromDomain(err)
			}
			return toUserOut(u), nil
		},
	})

	// 注销：软删账号并级联收口联系人/行程/通知
	httpez.RegisterAction[struct{}, gin.H](ezAuth, d.DB, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/me",
		Binder: httpez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *gorm.DB, _ *struct{}) (gin.H, error) {
			uid := c.GetString("userId")
			if err := d.Users.Delete(c, uid); err != nil {
				return nil, httpez.FromDomain(err)
			}
			return gin.H{"id": uid}, nil
		},
	})
}
