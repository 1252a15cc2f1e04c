package database

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/markvault/markvault/internal/usecase"
)

type Notification struct {
	ID            uuid.UUID  `gorm:"column:id;primaryKey;type:uuid;default:uuid_generate_v4()" json:"id"`
	UserID        uuid.UUID  `gorm:"column:user_id;type:uuid;" json:"user_id"`
	User          *User      `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Title         string     `gorm:"column:title" json:"title"`
	Message       string     `gorm:"column:message" json:"message"`
	CreatedAt     time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at" json:"updated_at"`
	ReadAt        *time.Time `gorm:"column:read_at" json:"read_at"`
	ReferenceID   *uuid.UUID `gorm:"column:reference_id;type:uuid" json:"reference_id"`
	ReferenceType string     `gorm:"column:reference_type" json:"reference_type"`
	DeletedAt     *gorm.DeletedAt `json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n Notification) ConvertToUsecase() usecase.Notification {
	var d *time.Time
	if n.DeletedAt != nil {
		d = &n.DeletedAt.Time
	}
	return usecase.Notification{
		ID:            n.ID,
		UserID:        n.UserID,
		Title:         n.Title,
		Message:       n.Message,
		CreatedAt:     n.CreatedAt,
		UpdatedAt:     n.UpdatedAt,
		ReadAt:        n.ReadAt,
		ReferenceID:   n.ReferenceID,
		ReferenceType: n.ReferenceType,
		DeletedAt:     d,
	}
}

const notificationChannel = "notifications"

// notificationHub fans postgres NOTIFY payloads out to in-process
// subscribers, so every API instance sees rows written by any instance.
type notificationHub struct {
	mu          sync.Mutex
	subscribers map[chan<- usecase.Notification]struct{}
	conn        *pgx.Conn
}

func NewNotificationHub(ctx context.Context, connStr string) (*notificationHub, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("notification hub: connect: %w", err)
	}
	if _, err := conn.Exec(ctx, "LISTEN "+notificationChannel); err != nil {
		return nil, fmt.Errorf("notification hub: listen: %w", err)
	}

	hub := &notificationHub{
		conn:        conn,
		subscribers: make(map[chan<- usecase.Notification]struct{}),
	}
	go hub.listen()
	return hub, nil
}

func (h *notificationHub) listen() {
	ctx := context.Background()
	for {
		n, err := h.conn.WaitForNotification(ctx)
		if err != nil {
			fmt.Printf("Error waiting for notification: %v\n", err)
			return
		}
		if n == nil {
			continue
		}

		notif := parseNotification(n)

		h.mu.Lock()
		for ch := range h.subscribers {
			select {
			case ch <- notif:
			default:
				// Never block the hub on a slow subscriber.
				fmt.Printf("Subscriber channel is full, skipping notification: %v\n", notif.ID)
			}
		}
		h.mu.Unlock()
	}
}

func (h *notificationHub) Subscribe(ch chan<- usecase.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribers[ch] = struct{}{}
}

func (h *notificationHub) Unsubscribe(ch chan<- usecase.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscribers, ch)
}

func parseNotification(n *pgconn.Notification) usecase.Notification {
	var notification Notification
	if err := json.Unmarshal([]byte(n.Payload), &notification); err != nil {
		fmt.Printf("Error parsing notification: %v\n", err)
		return usecase.Notification{}
	}
	return notification.ConvertToUsecase()
}

func (s *service) SubscribeNotifications(_ context.Context, ch chan<- usecase.Notification) error {
	s.hub.Subscribe(ch)
	return nil
}

func (s *service) UnsubscribeNotifications(_ context.Context, ch chan<- usecase.Notification) error {
	s.hub.Unsubscribe(ch)
	return nil
}

func (s *service) CreateNotification(ctx context.Context, un usecase.Notification) error {
	n := Notification{
		UserID:        un.UserID,
		Title:         un.Title,
		Message:       un.Message,
		ReferenceID:   un.ReferenceID,
		ReferenceType: un.ReferenceType,
	}

	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return err
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).
		Exec("SELECT pg_notify(?, ?)", notificationChannel, string(payload)).
		Error
}

func (s *service) ListNotifications(ctx context.Context, opt usecase.ListNotificationsOption) ([]usecase.Notification, int, int, error) {
	var (
		notifications  []Notification
		unotifications []usecase.Notification
		count          int64
		unread         int64
	)

	db := s.db.Model([]Notification{}).WithContext(ctx).
		Where("user_id = ?", opt.UserID)

	err := db.
		Count(&count).
		Order("created_at desc").
		Limit(opt.Limit).
		Offset(opt.Skip).
		Find(&notifications).
		Error
	if err != nil {
		return nil, 0, 0, err
	}

	err = s.db.Model([]Notification{}).WithContext(ctx).
		Where("user_id = ? AND read_at IS NULL", opt.UserID).
		Count(&unread).
		Error
	if err != nil {
		return nil, 0, 0, err
	}

	for _, n := range notifications {
		unotifications = append(unotifications, n.ConvertToUsecase())
	}

	return unotifications, int(unread), int(count), nil
}

func (s *service) ReadNotification(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", time.Now()).
		Error
}

func (s *service) ReadAllNotifications(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", time.Now()).
		Error
}
