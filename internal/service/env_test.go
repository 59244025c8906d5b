package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"ridelink/internal/domain"
	"ridelink/internal/repo"
	"ridelink/internal/service"
)

type testEnv struct {
	db       *gorm.DB
	users    *repo.UserRepo
	contacts *repo.ContactRepo
	rides    *repo.RideRepo
	notifs   *repo.NotificationRepo

	userSvc    *service.UserService
	contactSvc *service.ContactService
	rideSvc    *service.RideService
	suggestSvc *service.SuggestService
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.User{}, &domain.Contact{}, &domain.Ride{}, &domain.Notification{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	users := repo.NewUserRepo(db)
	contacts := repo.NewContactRepo(db)
	rides := repo.NewRideRepo(db)
	notifs := repo.NewNotificationRepo(db)
	log := zap.NewNop()

	notifier := &service.DBNotifier{Repo: notifs, Log: log, UnreadTTL: time.Minute}

	return &testEnv{
		db: db, users: users, contacts: contacts, rides: rides, notifs: notifs,
		userSvc: &service.UserService{
			Users: users, Contacts: contacts, Rides: rides, Notifs: notifs, Log: log,
		},
		contactSvc: &service.ContactService{
			Contacts: contacts, Users: users, Notifier: notifier, Log: log,
		},
		rideSvc: &service.RideService{
			Rides: rides, Contacts: contacts, Users: users, Notifier: notifier, Log: log,
		},
		suggestSvc: &service.SuggestService{
			Contacts: contacts, Rides: rides, Users: users, Limit: 10, Log: log,
		},
	}
}

// mustUser 直接落库，不走注册流程
func (e *testEnv) mustUser(t *testing.T, id, name string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:           id,
		Name:         name,
		Phone:        fmt.Sprintf("+4479%08d", len(id)*1000000+hash8(id)),
		Email:        id + "@example.com",
		PasswordHash: "x",
		Role:         "user",
	}
	if err := e.users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
	return u
}

func hash8(s string) int {
	n := 0
	for _, r := range s {
		n = (n*31 + int(r)) % 1000000
	}
	return n
}

// mustContact 直接落一条 accepted 边
func (e *testEnv) mustContact(t *testing.T, a, b string) {
	t.Helper()
	edge := domain.NewContact("edge-"+a+"-"+b, a, b)
	edge.Status = domain.ContactStatusAccepted
	if err := e.contacts.Create(context.Background(), edge); err != nil {
		t.Fatalf("seed contact %s-%s: %v", a, b, err)
	}
}

func (e *testEnv) mustRide(t *testing.T, id, requester string, status string, accepter *string) {
	t.Helper()
	r := &domain.Ride{
		ID:          id,
		RequesterID: requester,
		AccepterID:  accepter,
		FromText:    "a",
		ToText:      "b",
		ScheduledAt: time.Now().Add(time.Hour),
		Status:      status,
	}
	if err := e.rides.Insert(context.Background(), r); err != nil {
		t.Fatalf("seed ride %s: %v", id, err)
	}
}
