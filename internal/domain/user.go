package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           string `gorm:"primaryKey;size:32" json:"id"`
	Name         string `gorm:"size:64;not null" json:"name"`
	Phone        string `gorm:"uniqueIndex;size:20;not null" json:"phone"` // E.164，入库前已规范化
	CountryCode  string `gorm:"size:8" json:"countryCode"`
	Email        string `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	Role         string `gorm:"size:16;not null;default:user" json:"role"` // "user"/"admin"
	Verified     bool   `gorm:"not null;default:false" json:"verified"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByPhone(ctx context.Context, phone string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByIDs(ctx context.Context, ids []string) ([]User, error)
	ListIDs(ctx context.Context) ([]string, error)
	Update(ctx context.Context, u *User) error
	SetVerified(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error
}
