package command_test

import (
	"context"
	"errors"
	"testing"
	"time"

	inventorydomain "github.com/tair/grocery-pos/internal/inventory/domain"
	"github.com/tair/grocery-pos/internal/notification/domain"
	"github.com/tair/grocery-pos/internal/notification/repository"
	"github.com/tair/grocery-pos/internal/notification/usecase/command"
	"github.com/tair/grocery-pos/internal/notification/usecase/query"
	"github.com/tair/grocery-pos/internal/testutil"
	"github.com/tair/grocery-pos/pkg/apperror"
)

type staticRecipients struct {
	ids []uint
	err error
}

func (s staticRecipients) ActiveStockRecipients(context.Context) ([]uint, error) {
	return s.ids, s.err
}

func TestFanOutCreatesOneRowPerRecipient(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewGormNotificationRepository(db)
	svc := command.NewFanOutService(repo, staticRecipients{ids: []uint{3, 7}}, nil)
	ctx := context.Background()

	err := svc.NotifyExpiry(ctx, inventorydomain.ExpiryAlert{
		ProductID:   9,
		ProductName: "Milk",
		ExpiryDate:  time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		Status:      inventorydomain.ExpiryExpired,
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, userID := range []uint{3, 7} {
		rows, total, err := repo.ListByUser(ctx, userID, true, 10, 0)
		if err != nil {
			t.Fatal(err)
		}
		if total != 1 {
			t.Fatalf("user %d has %d notifications, want 1", userID, total)
		}
		n := rows[0]
		if n.Type != domain.TypeExpired || n.Title != "Product expired" || n.Message != "Milk expired on 2026-05-01" {
			t.Errorf("notification = %+v", n)
		}
	}
}

func TestFanOutWithoutRecipientsIsNotAnError(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewGormNotificationRepository(db)
	svc := command.NewFanOutService(repo, staticRecipients{}, nil)

	if err := svc.NotifyLowStock(context.Background(), inventorydomain.LowStockAlert{ProductID: 1, Quantity: 2, MinStockLevel: 5}); err != nil {
		t.Fatalf("err = %v", err)
	}
	var n int64
	db.Model(&domain.Notification{}).Count(&n)
	if n != 0 {
		t.Errorf("created %d notifications without recipients", n)
	}
}

func TestFanOutPropagatesRecipientFailure(t *testing.T) {
	db := testutil.NewDB(t)
	svc := command.NewFanOutService(repository.NewGormNotificationRepository(db), staticRecipients{err: errors.New("db down")}, nil)

	if err := svc.NotifySystem(context.Background(), "Backup", "done"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestFanOutRejectsUnknownExpiryStatus(t *testing.T) {
	db := testutil.NewDB(t)
	svc := command.NewFanOutService(repository.NewGormNotificationRepository(db), staticRecipients{ids: []uint{1}}, nil)

	err := svc.NotifyExpiry(context.Background(), inventorydomain.ExpiryAlert{ProductID: 1, Status: "stale"})
	if err == nil {
		t.Fatal("expected an error for an unknown status")
	}
}

func TestNotificationsAreOwnerScoped(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewGormNotificationRepository(db)
	svc := command.NewFanOutService(repo, staticRecipients{ids: []uint{1, 2}}, nil)
	markRead := command.NewMarkReadHandler(repo)
	remove := command.NewDeleteNotificationHandler(repo)
	list := query.NewListNotificationsHandler(repo)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := svc.NotifySystem(ctx, "Notice", "message"); err != nil {
			t.Fatal(err)
		}
	}

	page, err := list.Handle(ctx, query.ListNotificationsQuery{UserID: 1})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 3 || page.Unread != 3 || page.Limit != 20 {
		t.Fatalf("page = %+v", page)
	}
	mine := page.Notifications[0].ID

	if err := markRead.Handle(ctx, mine, 2); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("marking another user's notification: %v, want not found", err)
	}
	if err := remove.Handle(ctx, mine, 2); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("deleting another user's notification: %v, want not found", err)
	}

	if err := markRead.Handle(ctx, mine, 1); err != nil {
		t.Fatal(err)
	}
	if unread, _ := list.UnreadCount(ctx, 1); unread != 2 {
		t.Errorf("unread = %d, want 2", unread)
	}

	changed, err := markRead.All(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if changed != 2 {
		t.Errorf("mark all changed %d, want 2", changed)
	}
	if unread, _ := list.UnreadCount(ctx, 2); unread != 3 {
		t.Errorf("user 2 unread = %d, want 3", unread)
	}

	if err := remove.Handle(ctx, mine, 1); err != nil {
		t.Fatal(err)
	}
	page, err = list.Handle(ctx, query.ListNotificationsQuery{UserID: 1})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 || page.Unread != 0 {
		t.Errorf("after delete page = %+v", page)
	}
}
