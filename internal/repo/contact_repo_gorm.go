package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"ridelink/internal/domain"
)

// ContactRepo 联系人边的 gorm 实现。边已按 user_a < user_b 规范化存储，
// 唯一性由 idx_contact_pair 复合唯一索引兜底。
type ContactRepo struct{ db *gorm.DB }

func NewContactRepo(db *gorm.DB) *ContactRepo { return &ContactRepo{db: db} }

func (r *ContactRepo) Create(ctx context.Context, c *domain.Contact) error {
	// 先查一次给出干净的错误；并发竞争由唯一索引收口
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Contact{}).
		Where("user_a = ? AND user_b = ?", c.UserA, c.UserB).
		Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrDuplicateEdge
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if isDupKey(err) {
			return domain.ErrDuplicateEdge
		}
		return err
	}
	return nil
}

func (r *ContactRepo) FindByID(ctx context.Context, id string) (*domain.Contact, error) {
	var c domain.Contact
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContactRepo) Accept(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&domain.Contact{}).
		Where("id = ? AND status = ?", id, domain.ContactStatusPending).
		Update("status", domain.ContactStatusAccepted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// 分不清是不存在还是已处理，补一次点查
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrInvalidState
	}
	return nil
}

func (r *ContactRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Contact{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ContactRepo) EdgesOf(ctx context.Context, userID string) ([]domain.Contact, error) {
	var out []domain.Contact
	err := r.db.WithContext(ctx).
		Where("user_a = ? OR user_b = ?", userID, userID).
		Find(&out).Error
	return out, err
}

func (r *ContactRepo) EdgesTouching(ctx context.Context, ids []string, status string) ([]domain.Contact, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []domain.Contact
	err := r.db.WithContext(ctx).
		Where("(user_a IN ? OR user_b IN ?) AND status = ?", ids, ids, status).
		Find(&out).Error
	return out, err
}

func (r *ContactRepo) DeleteAllOf(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_a = ? OR user_b = ?", userID, userID).
		Delete(&domain.Contact{}).Error
}

// isDupKey 不依赖 gorm.ErrDuplicatedKey，避免驱动差异
func isDupKey(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "unique failed")
}
