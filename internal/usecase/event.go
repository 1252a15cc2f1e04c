package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventAssetCreated          EventType = "ASSET_CREATED"
	EventAssetApproved         EventType = "ASSET_APPROVED"
	EventAssetRejected         EventType = "ASSET_REJECTED"
	EventAssetDeleted          EventType = "ASSET_DELETED"
	EventCarouselStatusChanged EventType = "CAROUSEL_STATUS_CHANGED"
)

// Event is the fact record emitted after every successful mutation. The
// engine guarantees emission, not delivery; audit and notification
// collaborators consume it from here.
type Event struct {
	Type      EventType
	AssetID   uuid.UUID
	ActorID   uuid.UUID
	Timestamp time.Time
	Detail    string
}

// AuditLog is the persisted form of an emitted event.
type AuditLog struct {
	ID        uuid.UUID
	EventType EventType
	AssetID   uuid.UUID
	ActorID   uuid.UUID
	Detail    string
	CreatedAt time.Time
}

type ListAuditLogsOption struct {
	Skip  int
	Limit int

	AssetIDs   uuid.UUIDs
	ActorIDs   uuid.UUIDs
	EventTypes []EventType
}

// NotificationEmailPayload is the queue task payload for async email
// delivery of a decision.
type NotificationEmailPayload struct {
	UserID  uuid.UUID `json:"user_id"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

// emitEvent persists the audit row synchronously and fans out
// notifications in the background. Notification and email failures are
// logged and dropped; they never fail the originating mutation.
func (u Usecase) emitEvent(ctx context.Context, e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	if err := u.repo.CreateAuditLog(ctx, AuditLog{
		EventType: e.Type,
		AssetID:   e.AssetID,
		ActorID:   e.ActorID,
		Detail:    e.Detail,
		CreatedAt: e.Timestamp,
	}); err != nil {
		fmt.Printf("event: failed to persist audit log for %s: %v\n", e.AssetID, err)
	}

	go u.notifyForEvent(context.Background(), e)
}

func (u Usecase) notifyForEvent(ctx context.Context, e Event) {
	var (
		title   string
		message string
	)

	switch e.Type {
	case EventAssetApproved:
		title = "Asset Approved"
		message = "Your asset has been approved and is now visible to its audience."
	case EventAssetRejected:
		title = "Asset Rejected"
		message = fmt.Sprintf("Your asset was rejected: %s", e.Detail)
	default:
		return
	}

	a, err := u.repo.GetAssetByID(ctx, e.AssetID)
	if err != nil {
		fmt.Printf("event: failed to load asset %s for notification: %v\n", e.AssetID, err)
		return
	}

	if err := u.repo.CreateNotification(ctx, Notification{
		UserID:        a.UploaderID,
		Title:         title,
		Message:       message,
		ReferenceType: "ASSET",
		ReferenceID:   &e.AssetID,
	}); err != nil {
		fmt.Printf("event: failed to create notification for asset %s: %v\n", e.AssetID, err)
	}

	payload, err := json.Marshal(NotificationEmailPayload{
		UserID:  a.UploaderID,
		Title:   title,
		Message: message,
	})
	if err != nil {
		return
	}
	if err := u.queueClient.EnqueueTask(ctx, TaskNotificationEmail, payload); err != nil {
		fmt.Printf("event: failed to enqueue email for asset %s: %v\n", e.AssetID, err)
	}
}

// Task type names shared with the queue worker.
const (
	TaskNotificationEmail = "notification:email"
	TaskPendingDigest     = "digest:pending"
)

// ProcessNotificationEmail delivers one queued decision email. Called by
// the queue worker.
func (u Usecase) ProcessNotificationEmail(ctx context.Context, payload NotificationEmailPayload) error {
	user, err := u.repo.GetUserByID(ctx, payload.UserID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user.Email == "" {
		return nil
	}

	return u.emailProvider.SendEmail(ctx, Email{
		To:      []string{user.Email},
		Subject: payload.Title,
		Body:    fmt.Sprintf("<p>%s</p>", payload.Message),
	})
}

// ProcessPendingDigest emails every admin a count of assets waiting for
// review. Scheduled daily by the queue scheduler.
func (u Usecase) ProcessPendingDigest(ctx context.Context) error {
	_, pending, err := u.repo.ListAssets(ctx, ListAssetsOption{
		Statuses: []Status{StatusPendingReview},
	})
	if err != nil {
		return fmt.Errorf("failed to count pending assets: %w", err)
	}
	if pending == 0 {
		return nil
	}

	admins, _, err := u.repo.ListUsers(ctx, ListUsersOption{Role: RoleAdmin})
	if err != nil {
		return fmt.Errorf("failed to list admins: %w", err)
	}

	for _, admin := range admins {
		if admin.Email == "" {
			continue
		}
		if err := u.emailProvider.SendEmail(ctx, Email{
			To:      []string{admin.Email},
			Subject: "Assets pending review",
			Body:    fmt.Sprintf("<p>%d assets are waiting for review.</p>", pending),
		}); err != nil {
			fmt.Printf("digest: failed to email admin %s: %v\n", admin.ID, err)
		}
	}

	return nil
}

func (u Usecase) ListAuditLogs(ctx context.Context, opt ListAuditLogsOption) ([]AuditLog, int, error) {
	p, err := principalFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}
	if p.Role != RoleAdmin {
		return nil, 0, ErrForbidden{Message: "audit logs are admin only"}
	}
	return u.repo.ListAuditLogs(ctx, opt)
}
