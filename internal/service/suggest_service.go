package service

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"ridelink/internal/domain"
	"ridelink/internal/observability"
)

// SuggestService 纯读的推荐引擎：二跳共同联系人 + 共同行程两路信号。
type SuggestService struct {
	Contacts domain.ContactRepository
	Rides    domain.RideRepository
	Users    domain.UserRepository
	Limit    int // 截断条数，默认 10
	Log      *zap.Logger
}

type Suggestion struct {
	UserID         string `json:"userId"`
	Name           string `json:"name"`
	MutualContacts int    `json:"mutualContacts"`
	SharedRides    int    `json:"sharedRides"`
}

// Suggest 排序严格按 (共同联系人数 desc, 共同行程数 desc, 用户 id asc)。
// 第三键是我们自己定的确定性平手键。没有任何 accepted 联系人时直接空列表。
func (s *SuggestService) Suggest(ctx context.Context, userID string) ([]Suggestion, error) {
	cSet, cIDs, err := acceptedContactIDs(ctx, s.Contacts, userID)
	if err != nil {
		return nil, err
	}
	if len(cIDs) == 0 {
		return []Suggestion{}, nil
	}

	// 信号一：二跳边。bridge 去重 —— 数的是不同的中间联系人，不是边数。
	frontier, err := s.Contacts.EdgesTouching(ctx, cIDs, domain.ContactStatusAccepted)
	if err != nil {
		return nil, err
	}
	mutual := make(map[string]map[string]struct{})
	for _, e := range frontier {
		if e.UserA == userID || e.UserB == userID {
			continue
		}
		_, aIn := cSet[e.UserA]
		_, bIn := cSet[e.UserB]
		if aIn == bIn { // 全在圈内或全在圈外的边都不产生候选
			continue
		}
		bridge, other := e.UserA, e.UserB
		if bIn {
			bridge, other = e.UserB, e.UserA
		}
		if other == userID {
			continue
		}
		if mutual[other] == nil {
			mutual[other] = make(map[string]struct{})
		}
		mutual[other][bridge] = struct{}{}
	}

	// 信号二：联系人参与过的行程里出现的陌生人，每个行程记一次。
	common := make(map[string]int)
	rides, err := s.Rides.ListTouching(ctx, cIDs)
	if err != nil {
		return nil, err
	}
	for _, r := range rides {
		if r.Participant(userID) {
			continue
		}
		parts := []string{r.RequesterID}
		if r.AccepterID != nil {
			parts = append(parts, *r.AccepterID)
		}
		for _, p := range parts {
			if p == userID {
				continue
			}
			if _, in := cSet[p]; in {
				continue
			}
			common[p]++
		}
	}

	// 候选合并，排除自己和已有联系人
	seen := make(map[string]struct{})
	var out []Suggestion
	add := func(id string) {
		if _, dup := seen[id]; dup {
			return
		}
		if id == userID {
			return
		}
		if _, in := cSet[id]; in {
			return
		}
		seen[id] = struct{}{}
		out = append(out, Suggestion{
			UserID:         id,
			MutualContacts: len(mutual[id]),
			SharedRides:    common[id],
		})
	}
	for id := range mutual {
		add(id)
	}
	for id := range common {
		add(id)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].MutualContacts != out[j].MutualContacts {
			return out[i].MutualContacts > out[j].MutualContacts
		}
		if out[i].SharedRides != out[j].SharedRides {
			return out[i].SharedRides > out[j].SharedRides
		}
		return out[i].UserID < out[j].UserID
	})

	limit := s.Limit
	if limit <= 0 {
		limit = 10
	}
	if len(out) > limit {
		out = out[:limit]
	}

	s.fillNames(ctx, out)
	observability.SuggestionsServed.Inc()
	return out, nil
}

func (s *SuggestService) fillNames(ctx context.Context, sugs []Suggestion) {
	if len(sugs) == 0 || s.Users == nil {
		return
	}
	ids := make([]string, 0, len(sugs))
	for _, g := range sugs {
		ids = append(ids, g.UserID)
	}
	users, err := s.Users.FindByIDs(ctx, ids)
	if err != nil {
		s.Log.Warn("suggestion name lookup failed", zap.Error(err))
		return
	}
	byID := make(map[string]string, len(users))
	for _, u := range users {
		byID[u.ID] = u.Name
	}
	for i := range sugs {
		sugs[i].Name = byID[sugs[i].UserID]
	}
}
