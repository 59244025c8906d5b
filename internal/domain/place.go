package domain

import "time"

// Place 用户收藏的常用地点（发单时可直接带入 from/to）。
// 归属单一用户，走通用 Crud 挂载。
type Place struct {
	ID     string  `gorm:"primaryKey;size:32" json:"id"`
	UserID string  `gorm:"size:32;not null;index" json:"userId"`
	Label  string  `gorm:"size:64;not null" json:"label" binding:"required,max=64"`
	Text   string  `gorm:"size:255;not null" json:"text" binding:"required,max=255"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Place) TableName() string { return "places" }
