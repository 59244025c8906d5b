package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"ridelink/internal/domain"
	"ridelink/internal/observability"
	"ridelink/pkg/utils"
)

// ContactService 联系人图的写路径和鉴权规则。
type ContactService struct {
	Contacts domain.ContactRepository
	Users    domain.UserRepository
	Notifier Notifier
	Log      *zap.Logger
}

// Request 通过手机号（E.164，已规范化）向对方发起联系人请求。
// 无序对上已有任何状态的边 → ErrDuplicateEdge。
func (s *ContactService) Request(ctx context.Context, initiatorID, targetPhone string) (*domain.Contact, error) {
	target, err := s.Users.FindByPhone(ctx, targetPhone)
	if err != nil {
		return nil, err
	}
	if target.ID == initiatorID {
		return nil, domain.ErrInvalidState // 不能加自己
	}
	edge := domain.NewContact(utils.NewID(), initiatorID, target.ID)
	if err := s.Contacts.Create(ctx, edge); err != nil {
		return nil, err
	}
	observability.ContactRequests.Inc()

	initiator, err := s.Users.FindByID(ctx, initiatorID)
	name := "Someone"
	if err == nil {
		name = initiator.Name
	}
	s.Notifier.Notify(ctx, target.ID,
		fmt.Sprintf("%s sent you a contact request", name),
		domain.NotifyContactRequest, edge.ID)

	s.Log.Info("contact requested",
		zap.String("edge", edge.ID), zap.String("from", initiatorID), zap.String("to", target.ID))
	return edge, nil
}

// Accept 只有被请求方能接受，且边必须还是 pending。
func (s *ContactService) Accept(ctx context.Context, edgeID, accepterID string) (*domain.Contact, error) {
	edge, err := s.Contacts.FindByID(ctx, edgeID)
	if err != nil {
		return nil, err
	}
	if edge.AddressedTo() != accepterID {
		return nil, domain.ErrForbidden
	}
	if edge.Status != domain.ContactStatusPending {
		return nil, domain.ErrInvalidState
	}
	if err := s.Contacts.Accept(ctx, edgeID); err != nil {
		return nil, err
	}
	edge.Status = domain.ContactStatusAccepted

	accepter, err := s.Users.FindByID(ctx, accepterID)
	name := "Your contact"
	if err == nil {
		name = accepter.Name
	}
	s.Notifier.Notify(ctx, edge.RequestedBy,
		fmt.Sprintf("%s accepted your contact request", name),
		domain.NotifyContactAccepted, edge.ID)
	return edge, nil
}

// Remove 任一方都可以删除，硬删。
func (s *ContactService) Remove(ctx context.Context, edgeID, requesterID string) error {
	edge, err := s.Contacts.FindByID(ctx, edgeID)
	if err != nil {
		return err
	}
	if !edge.Involves(requesterID) {
		return domain.ErrForbidden
	}
	return s.Contacts.Delete(ctx, edgeID)
}

// List 返回用户的边，status 为空时不过滤。
func (s *ContactService) List(ctx context.Context, userID, status string) ([]domain.Contact, error) {
	edges, err := s.Contacts.EdgesOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return edges, nil
	}
	out := edges[:0]
	for _, e := range edges {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out, nil
}

// acceptedContactIDs 接受态联系人的对端 id 集合，可见性过滤和推荐共用。
func acceptedContactIDs(ctx context.Context, repo domain.ContactRepository, userID string) (map[string]struct{}, []string, error) {
	edges, err := repo.EdgesOf(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	set := make(map[string]struct{})
	var ids []string
	for _, e := range edges {
		if e.Status != domain.ContactStatusAccepted {
			continue
		}
		other := e.OtherParty(userID)
		if _, dup := set[other]; !dup {
			set[other] = struct{}{}
			ids = append(ids, other)
		}
	}
	return set, ids, nil
}
