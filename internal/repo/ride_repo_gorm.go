package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ridelink/internal/domain"
)

type RideRepo struct{ db *gorm.DB }

func NewRideRepo(db *gorm.DB) *RideRepo { return &RideRepo{db: db} }

func (r *RideRepo) Insert(ctx context.Context, ride *domain.Ride) error {
	return r.db.WithContext(ctx).Create(ride).Error
}

func (r *RideRepo) Get(ctx context.Context, id string) (*domain.Ride, error) {
	var ride domain.Ride
	err := r.db.WithContext(ctx).First(&ride, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ride, nil
}

// UpdateStatus 单条条件写（CAS）：只有当前状态等于 expected 才落盘。
// 两个并发 accept 只有先到的能改到行，输家拿 ErrConflict。
func (r *RideRepo) UpdateStatus(ctx context.Context, id, expected, next string, extra map[string]any) error {
	fields := map[string]any{"status": next}
	for k, v := range extra {
		fields[k] = v
	}
	res := r.db.WithContext(ctx).Model(&domain.Ride{}).
		Where("id = ? AND status = ?", id, expected).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *RideRepo) ListByParticipant(ctx context.Context, userID string) ([]domain.Ride, error) {
	var out []domain.Ride
	err := r.db.WithContext(ctx).
		Where("requester_id = ? OR accepter_id = ?", userID, userID).
		Order("scheduled_at ASC").
		Find(&out).Error
	return out, err
}

func (r *RideRepo) ListPendingByRequesters(ctx context.Context, ids []string) ([]domain.Ride, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []domain.Ride
	err := r.db.WithContext(ctx).
		Where("status = ? AND requester_id IN ?", domain.RideStatusPending, ids).
		Order("scheduled_at ASC").
		Find(&out).Error
	return out, err
}

func (r *RideRepo) ListTouching(ctx context.Context, ids []string) ([]domain.Ride, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []domain.Ride
	err := r.db.WithContext(ctx).
		Where("requester_id IN ? OR accepter_id IN ?", ids, ids).
		Find(&out).Error
	return out, err
}

// CloseAllOf 用户删除级联：发起的未终态行程置 cancelled；
// 接下的行程退回 pending 并清空接单方，保持 accepter ⇔ 状态 的不变式。
func (r *RideRepo) CloseAllOf(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Ride{}).
			Where("accepter_id = ? AND status = ?", userID, domain.RideStatusAccepted).
			Updates(map[string]any{"status": domain.RideStatusPending, "accepter_id": nil}).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Ride{}).
			Where("requester_id = ? AND status IN ?", userID,
				[]string{domain.RideStatusPending, domain.RideStatusAccepted}).
			Updates(map[string]any{"status": domain.RideStatusCancelled, "accepter_id": nil}).Error
	})
}
