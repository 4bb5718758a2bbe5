package command

import (
	"context"
	"time"

	"github.com/tair/grocery-pos/internal/notification/domain"
)

// MarkReadHandler marks notifications of the calling user as read
type MarkReadHandler struct {
	repo domain.NotificationRepository
	now  func() time.Time
}

func NewMarkReadHandler(repo domain.NotificationRepository) *MarkReadHandler {
	return &MarkReadHandler{repo: repo, now: time.Now}
}

func (h *MarkReadHandler) Handle(ctx context.Context, id, userID uint) error {
	return h.repo.MarkRead(ctx, id, userID, h.now())
}

// All marks every unread notification of the user and returns how many changed
func (h *MarkReadHandler) All(ctx context.Context, userID uint) (int64, error) {
	return h.repo.MarkAllRead(ctx, userID, h.now())
}

type DeleteNotificationHandler struct {
	repo domain.NotificationRepository
}

func NewDeleteNotificationHandler(repo domain.NotificationRepository) *DeleteNotificationHandler {
	return &DeleteNotificationHandler{repo: repo}
}

func (h *DeleteNotificationHandler) Handle(ctx context.Context, id, userID uint) error {
	return h.repo.Delete(ctx, id, userID)
}
