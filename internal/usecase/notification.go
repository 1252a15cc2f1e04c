package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/markvault/markvault/internal/config"
)

type Notification struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	Title         string
	Message       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ReadAt        *time.Time
	ReferenceID   *uuid.UUID
	ReferenceType string
	DeletedAt     *time.Time
}

type ListNotificationsOption struct {
	Skip   int
	Limit  int
	UserID uuid.UUID
}

func (u Usecase) ListNotifications(ctx context.Context, opt ListNotificationsOption) ([]Notification, int, int, error) {
	userID, ok := ctx.Value(config.CTX_KEY_USER_ID).(uuid.UUID)
	if !ok {
		return nil, 0, 0, fmt.Errorf("user id not found in context")
	}
	return u.repo.ListNotifications(ctx, ListNotificationsOption{
		Skip:   opt.Skip,
		Limit:  opt.Limit,
		UserID: userID,
	})
}

func (u Usecase) ReadNotification(ctx context.Context, id uuid.UUID) error {
	return u.repo.ReadNotification(ctx, id)
}

func (u Usecase) ReadAllNotifications(ctx context.Context) error {
	userID, ok := ctx.Value(config.CTX_KEY_USER_ID).(uuid.UUID)
	if !ok {
		return fmt.Errorf("user id not found in context")
	}
	return u.repo.ReadAllNotifications(ctx, userID)
}

// StreamNotifications creates a notification stream for the specified user.
// It filters notifications based on the userID and handles cleanup when
// the context is done.
func (u Usecase) StreamNotifications(ctx context.Context, userID uuid.UUID) (<-chan Notification, error) {
	inbound := make(chan Notification, 10)
	if err := u.repo.SubscribeNotifications(ctx, inbound); err != nil {
		close(inbound)
		return nil, fmt.Errorf("subscribe to notifications: %w", err)
	}

	notifications := make(chan Notification, 10)
	go func() {
		defer close(notifications)
		defer u.repo.UnsubscribeNotifications(ctx, inbound)

		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-inbound:
				if !ok {
					return
				}
				if n.UserID != userID {
					continue
				}
				// Non-blocking send to avoid slow consumers
				select {
				case notifications <- n:
				default:
					fmt.Printf("dropping notification for user %s: channel full\n", userID)
				}
			}
		}
	}()

	return notifications, nil
}

func (u Usecase) CreateNotification(ctx context.Context, n Notification) error {
	return u.repo.CreateNotification(ctx, n)
}
