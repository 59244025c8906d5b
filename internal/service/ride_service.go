package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"ridelink/internal/domain"
	"ridelink/internal/observability"
	"ridelink/pkg/utils"
)

// RideService 行程状态机。所有迁移同步单发，不在内部重试；
// accept 上的并发竞争交给仓储层的条件写收口。
type RideService struct {
	Rides    domain.RideRepository
	Contacts domain.ContactRepository
	Users    domain.UserRepository
	Notifier Notifier
	Log      *zap.Logger
}

type CreateRideInput struct {
	FromText    string
	FromLat     float64
	FromLon     float64
	ToText      string
	ToLat       float64
	ToLon       float64
	ScheduledAt time.Time
	RiderName   string
	RiderPhone  *string
	Note        *string
}

var ErrBadRideInput = errors.New("ride needs both locations and a schedule time")

// Create 新行程落为 pending，接单方为空。
func (s *RideService) Create(ctx context.Context, requesterID string, in CreateRideInput) (*domain.Ride, error) {
	if in.FromText == "" || in.ToText == "" || in.ScheduledAt.IsZero() {
		return nil, ErrBadRideInput
	}
	ride := &domain.Ride{
		ID:          utils.NewID(),
		RequesterID: requesterID,
		FromText:    in.FromText,
		FromLat:     in.FromLat,
		FromLon:     in.FromLon,
		ToText:      in.ToText,
		ToLat:       in.ToLat,
		ToLon:       in.ToLon,
		ScheduledAt: in.ScheduledAt,
		Status:      domain.RideStatusPending,
		RiderName:   in.RiderName,
		RiderPhone:  in.RiderPhone,
		Note:        in.Note,
	}
	if err := s.Rides.Insert(ctx, ride); err != nil {
		return nil, err
	}
	observability.RideTransitions.WithLabelValues("create").Inc()
	s.Log.Info("ride created", zap.String("ride", ride.ID), zap.String("requester", requesterID))
	return ride, nil
}

// Accept 接单。信任模型的关键闸门：接单方必须是发起方的 accepted
// 联系人，且在接单时刻校验（列表之后关系可能已经变了）。
// 并发双接单由 pending→accepted 的条件写裁决，输家拿 ErrConflict。
func (s *RideService) Accept(ctx context.Context, rideID, actorID string) (*domain.Ride, error) {
	ride, err := s.Rides.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.RequesterID == actorID {
		return nil, domain.ErrForbidden
	}
	if ride.Terminal() {
		return nil, domain.ErrInvalidState
	}
	if ride.Status == domain.RideStatusAccepted {
		return nil, domain.ErrConflict
	}
	ok, err := s.isAcceptedContact(ctx, actorID, ride.RequesterID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrForbidden
	}

	err = s.Rides.UpdateStatus(ctx, rideID,
		domain.RideStatusPending, domain.RideStatusAccepted,
		map[string]any{"accepter_id": actorID})
	if errors.Is(err, domain.ErrConflict) {
		observability.RideAcceptConflicts.Inc()
		return nil, domain.ErrConflict
	}
	if err != nil {
		return nil, err
	}
	ride.Status = domain.RideStatusAccepted
	ride.AccepterID = &actorID
	observability.RideTransitions.WithLabelValues("accept").Inc()

	s.Notifier.Notify(ctx, ride.RequesterID,
		fmt.Sprintf("%s offered to take your ride to %s", s.displayName(ctx, actorID), ride.ToText),
		domain.NotifyRideAccepted, ride.ID)
	return ride, nil
}

// CancelOffer 接单方撤回，行程退回 pending 并清空接单方。
func (s *RideService) CancelOffer(ctx context.Context, rideID, actorID string) (*domain.Ride, error) {
	ride, err := s.Rides.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.AccepterID == nil || *ride.AccepterID != actorID {
		return nil, domain.ErrForbidden
	}
	if ride.Status != domain.RideStatusAccepted {
		return nil, domain.ErrInvalidState
	}
	err = s.Rides.UpdateStatus(ctx, rideID,
		domain.RideStatusAccepted, domain.RideStatusPending,
		map[string]any{"accepter_id": nil})
	if err != nil {
		return nil, asStateError(err)
	}
	ride.Status = domain.RideStatusPending
	ride.AccepterID = nil
	observability.RideTransitions.WithLabelValues("cancel_offer").Inc()

	s.Notifier.Notify(ctx, ride.RequesterID,
		fmt.Sprintf("The offer on your ride to %s was withdrawn", ride.ToText),
		domain.NotifyRideOfferCancelled, ride.ID)
	return ride, nil
}

// Cancel 发起方或接单方都可以取消，终态后不可再迁移。
// cancelled 不保留接单方，维持 accepter ⇔ 状态 的不变式。
func (s *RideService) Cancel(ctx context.Context, rideID, actorID string) (*domain.Ride, error) {
	ride, err := s.Rides.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !ride.Participant(actorID) {
		return nil, domain.ErrForbidden
	}
	if ride.Terminal() {
		return nil, domain.ErrInvalidState
	}
	other := s.counterpart(ride, actorID)

	err = s.Rides.UpdateStatus(ctx, rideID,
		ride.Status, domain.RideStatusCancelled,
		map[string]any{"accepter_id": nil})
	if err != nil {
		return nil, asStateError(err)
	}
	ride.Status = domain.RideStatusCancelled
	ride.AccepterID = nil
	observability.RideTransitions.WithLabelValues("cancel").Inc()

	if other != "" {
		s.Notifier.Notify(ctx, other,
			fmt.Sprintf("The ride to %s was cancelled", ride.ToText),
			domain.NotifyRideCancelled, ride.ID)
	}
	return ride, nil
}

// Complete 只能从 accepted 完成；接单方保留在记录上。
func (s *RideService) Complete(ctx context.Context, rideID, actorID string) (*domain.Ride, error) {
	ride, err := s.Rides.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !ride.Participant(actorID) {
		return nil, domain.ErrForbidden
	}
	if ride.Status != domain.RideStatusAccepted {
		return nil, domain.ErrInvalidState
	}
	err = s.Rides.UpdateStatus(ctx, rideID,
		domain.RideStatusAccepted, domain.RideStatusCompleted, nil)
	if err != nil {
		return nil, asStateError(err)
	}
	ride.Status = domain.RideStatusCompleted
	observability.RideTransitions.WithLabelValues("complete").Inc()

	if other := s.counterpart(ride, actorID); other != "" {
		s.Notifier.Notify(ctx, other,
			fmt.Sprintf("The ride to %s was completed", ride.ToText),
			domain.NotifyRideCompleted, ride.ID)
	}
	return ride, nil
}

// Get 只有参与方可见单条详情。
func (s *RideService) Get(ctx context.Context, rideID, actorID string) (*domain.Ride, error) {
	ride, err := s.Rides.Get(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !ride.Participant(actorID) {
		return nil, domain.ErrForbidden
	}
	return ride, nil
}

func (s *RideService) MyRides(ctx context.Context, userID string) ([]domain.Ride, error) {
	return s.Rides.ListByParticipant(ctx, userID)
}

// AvailableRides 一跳可见性查询：accepted 联系人发起的 pending 行程，
// 不含自己的。每次调用都重算，这里没有缓存层。
func (s *RideService) AvailableRides(ctx context.Context, userID string) ([]domain.Ride, error) {
	_, ids, err := acceptedContactIDs(ctx, s.Contacts, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []domain.Ride{}, nil
	}
	rides, err := s.Rides.ListPendingByRequesters(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Ride, 0, len(rides))
	for _, r := range rides {
		if r.RequesterID == userID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *RideService) isAcceptedContact(ctx context.Context, a, b string) (bool, error) {
	set, _, err := acceptedContactIDs(ctx, s.Contacts, a)
	if err != nil {
		return false, err
	}
	_, ok := set[b]
	return ok, nil
}

func (s *RideService) counterpart(r *domain.Ride, actorID string) string {
	if r.RequesterID != actorID {
		return r.RequesterID
	}
	if r.AccepterID != nil {
		return *r.AccepterID
	}
	return ""
}

func (s *RideService) displayName(ctx context.Context, userID string) string {
	u, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return "A contact"
	}
	return u.Name
}

// asStateError 非 accept 迁移上的条件写落空说明状态已被抢先改掉，
// 对调用方呈现为状态不允许而不是竞争冲突。
func asStateError(err error) error {
	if errors.Is(err, domain.ErrConflict) {
		return domain.ErrInvalidState
	}
	return err
}
