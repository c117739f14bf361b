package app

import (
	"context"
	"fmt"
	"time"

	"admitdesk/internal/common"
	"admitdesk/internal/domain/application"
	"admitdesk/internal/domain/audit"
	"admitdesk/internal/domain/notification"
	"admitdesk/internal/domain/user"
	"admitdesk/internal/integration/twilio"
	"admitdesk/internal/mail"
)

const emailSubject = "Entrance Examination Update"

type EnqueueNotificationInput struct {
	UserID   string
	Channel  notification.Channel
	Message  string
	SendAt   time.Time
	Metadata map[string]string
}

// NotificationService records outbound messages and pushes the ones that are
// due straight through their channel. There is no retry loop; a pending item
// with a future SendAt waits for an external trigger via ListPending.
type NotificationService struct {
	notifications notification.Repository
	users         user.Repository
	audit         audit.Repository
	email         mail.Sender
	messaging     twilio.Client
	logger        Logger
}

func NewNotificationService(notifications notification.Repository, users user.Repository, auditRepo audit.Repository, email mail.Sender, messaging twilio.Client, logger Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		audit:         auditRepo,
		email:         email,
		messaging:     messaging,
		logger:        logger,
	}
}

func (s *NotificationService) Enqueue(ctx context.Context, input EnqueueNotificationInput) (*notification.Notification, error) {
	fields := map[string]string{}
	if input.UserID == "" {
		fields["user_id"] = "required"
	}
	if input.Message == "" {
		fields["message"] = "required"
	}
	switch input.Channel {
	case notification.ChannelEmail, notification.ChannelSMS, notification.ChannelWhatsApp:
	default:
		fields["channel"] = "must be email, sms or whatsapp"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid notification payload", fields)
	}

	account, err := s.users.GetByUID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	created, err := s.notifications.Create(ctx, notification.Notification{
		UserID:   input.UserID,
		Channel:  input.Channel,
		Message:  input.Message,
		Status:   notification.StatusPending,
		SendAt:   input.SendAt,
		Metadata: input.Metadata,
	})
	if err != nil {
		return nil, err
	}
	if created.SendAt.After(time.Now()) {
		return created, nil
	}
	return s.dispatch(ctx, created, account), nil
}

// StatusChanged fans an approval flip out to the owner: always an email, plus
// an SMS when a phone number is on file. Delivery failures are recorded on the
// notification itself and never surface to the caller.
func (s *NotificationService) StatusChanged(ctx context.Context, app *application.Application, account *user.User, approved bool) {
	verdict := "disapproved"
	if approved {
		verdict = "approved"
	}
	message := fmt.Sprintf("Your application %s has been %s.", app.ApplicationNo, verdict)
	metadata := map[string]string{
		"application_id": app.ID.String(),
		"application_no": app.ApplicationNo,
		"event":          "approval_" + verdict,
	}

	s.fanOut(ctx, account, notification.ChannelEmail, message, metadata)
	if account.PhoneNumber != "" {
		s.fanOut(ctx, account, notification.ChannelSMS, message, metadata)
	}
}

func (s *NotificationService) fanOut(ctx context.Context, account *user.User, channel notification.Channel, message string, metadata map[string]string) {
	created, err := s.notifications.Create(ctx, notification.Notification{
		UserID:   account.UID,
		Channel:  channel,
		Message:  message,
		Status:   notification.StatusPending,
		SendAt:   time.Now(),
		Metadata: metadata,
	})
	if err != nil {
		s.logger.Error("notification: create failed for user " + account.UID + ": " + err.Error())
		return
	}
	s.dispatch(ctx, created, account)
}

// DispatchDue sends every pending notification whose SendAt has passed.
// Intended for an external scheduler hitting the admin API.
func (s *NotificationService) DispatchDue(ctx context.Context) (int, error) {
	pending, err := s.notifications.ListPending(ctx)
	if err != nil {
		return 0, err
	}
	sent := 0
	now := time.Now()
	for i := range pending {
		n := pending[i]
		if n.SendAt.After(now) {
			continue
		}
		account, err := s.users.GetByUID(ctx, n.UserID)
		if err != nil {
			s.logger.Error("notification: lookup failed for user " + n.UserID + ": " + err.Error())
			continue
		}
		if out := s.dispatch(ctx, &n, account); out.Status == notification.StatusSent {
			sent++
		}
	}
	return sent, nil
}

func (s *NotificationService) ListPending(ctx context.Context) ([]notification.Notification, error) {
	return s.notifications.ListPending(ctx)
}

func (s *NotificationService) ListByUser(ctx context.Context, userID string) ([]notification.Notification, error) {
	return s.notifications.ListByUser(ctx, userID)
}

// dispatch pushes one notification through its channel. A missing recipient
// address leaves the item pending rather than failed: the user may add the
// contact later and an external retry can pick it up.
func (s *NotificationService) dispatch(ctx context.Context, n *notification.Notification, account *user.User) *notification.Notification {
	var (
		deliveryID string
		sendErr    error
	)
	switch n.Channel {
	case notification.ChannelEmail:
		if account.Email == "" {
			s.logger.Info("notification: no email on file for user " + account.UID + ", left pending")
			return n
		}
		sendErr = s.email.Send(account.Email, emailSubject, n.Message)
	case notification.ChannelSMS:
		if account.PhoneNumber == "" {
			s.logger.Info("notification: no phone on file for user " + account.UID + ", left pending")
			return n
		}
		deliveryID, sendErr = s.messaging.SendSMS(ctx, account.PhoneNumber, n.Message)
	case notification.ChannelWhatsApp:
		if account.PhoneNumber == "" {
			s.logger.Info("notification: no phone on file for user " + account.UID + ", left pending")
			return n
		}
		deliveryID, sendErr = s.messaging.SendWhatsApp(ctx, account.PhoneNumber, n.Message)
	default:
		return n
	}

	metadata := map[string]string{}
	for k, v := range n.Metadata {
		metadata[k] = v
	}
	if sendErr != nil {
		metadata["error"] = sendErr.Error()
		updated, err := s.notifications.UpdateStatus(ctx, n.ID, notification.StatusFailed, metadata)
		if err != nil {
			s.logger.Error("notification: mark failed errored for " + n.ID.String() + ": " + err.Error())
			return n
		}
		_ = s.audit.Create(ctx, audit.Event{
			Name:    "notification.failed",
			UserID:  &account.UID,
			Payload: map[string]string{"notification_id": n.ID.String(), "channel": string(n.Channel)},
		})
		return updated
	}

	if deliveryID != "" {
		metadata["delivery_id"] = deliveryID
	}
	updated, err := s.notifications.UpdateStatus(ctx, n.ID, notification.StatusSent, metadata)
	if err != nil {
		s.logger.Error("notification: mark sent errored for " + n.ID.String() + ": " + err.Error())
		return n
	}
	_ = s.audit.Create(ctx, audit.Event{
		Name:    "notification.sent",
		UserID:  &account.UID,
		Payload: map[string]string{"notification_id": n.ID.String(), "channel": string(n.Channel)},
	})
	return updated
}
