package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/tair/grocery-pos/internal/app"
	notificationdomain "github.com/tair/grocery-pos/internal/notification/domain"
	"github.com/tair/grocery-pos/internal/testutil"
	userdomain "github.com/tair/grocery-pos/internal/user/domain"
	"github.com/tair/grocery-pos/pkg/config"
)

func TestBootstrapCreatesAdminAndNoticeOnce(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret:         "test-secret",
		JWTTTL:            time.Hour,
		NotificationSink:  config.SinkDirect,
		ReportCacheTTL:    time.Minute,
		ExpiryWarningDays: 7,
	}
	server, err := app.InitializeServer(cfg, db, nil, nil, nil)
	if err != nil {
		t.Fatalf("InitializeServer: %v", err)
	}

	admin := config.BootstrapAdmin{Username: "admin", Password: "change-me-now", Email: "admin@localhost"}
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := server.Bootstrap(ctx, admin); err != nil {
			t.Fatalf("Bootstrap #%d: %v", i+1, err)
		}
	}

	var users []userdomain.User
	if err := db.Find(&users).Error; err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 || users[0].Username != "admin" {
		t.Fatalf("users = %+v, want the single bootstrap admin", users)
	}

	var notices []notificationdomain.Notification
	if err := db.Find(&notices).Error; err != nil {
		t.Fatal(err)
	}
	if len(notices) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notices))
	}
	if notices[0].Type != notificationdomain.TypeSystem || notices[0].UserID != users[0].ID {
		t.Errorf("notice = %+v, want system notice for user %d", notices[0], users[0].ID)
	}
}

func TestBootstrapWithoutPasswordSkipsAdmin(t *testing.T) {
	db := testutil.NewDB(t)
	server, err := app.InitializeServer(&config.Config{JWTSecret: "s", JWTTTL: time.Hour, NotificationSink: config.SinkDirect}, db, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := server.Bootstrap(context.Background(), config.BootstrapAdmin{Username: "admin"}); err != nil {
		t.Fatal(err)
	}
	var n int64
	if err := db.Model(&userdomain.User{}).Count(&n).Error; err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("users = %d, want 0", n)
	}
}
