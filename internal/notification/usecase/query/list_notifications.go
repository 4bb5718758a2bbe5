package query

import (
	"context"

	"github.com/tair/grocery-pos/internal/notification/domain"
)

// ListNotificationsQuery pages through the notifications of one user
type ListNotificationsQuery struct {
	UserID     uint
	UnreadOnly bool
	Limit      int
	Offset     int
}

type NotificationPage struct {
	Notifications []domain.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	Unread        int64                 `json:"unread"`
	Limit         int                   `json:"limit"`
	Offset        int                   `json:"offset"`
}

type ListNotificationsHandler struct {
	repo domain.NotificationRepository
}

func NewListNotificationsHandler(repo domain.NotificationRepository) *ListNotificationsHandler {
	return &ListNotificationsHandler{repo: repo}
}

// Handle returns the newest notifications first
func (h *ListNotificationsHandler) Handle(ctx context.Context, q ListNotificationsQuery) (*NotificationPage, error) {
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	rows, total, err := h.repo.ListByUser(ctx, q.UserID, q.UnreadOnly, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	unread, err := h.repo.CountUnread(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	return &NotificationPage{
		Notifications: rows,
		Total:         total,
		Unread:        unread,
		Limit:         q.Limit,
		Offset:        q.Offset,
	}, nil
}

// UnreadCount returns the number of unread notifications of a user
func (h *ListNotificationsHandler) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return h.repo.CountUnread(ctx, userID)
}

type GetNotificationHandler struct {
	repo domain.NotificationRepository
}

func NewGetNotificationHandler(repo domain.NotificationRepository) *GetNotificationHandler {
	return &GetNotificationHandler{repo: repo}
}

func (h *GetNotificationHandler) Handle(ctx context.Context, id, userID uint) (*domain.Notification, error) {
	return h.repo.FindByID(ctx, id, userID)
}
