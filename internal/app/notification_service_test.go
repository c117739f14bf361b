package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"admitdesk/internal/common"
	"admitdesk/internal/domain/application"
	"admitdesk/internal/domain/notification"
	"admitdesk/internal/domain/user"
)

type notificationServiceFixture struct {
	service       *NotificationService
	notifications *fakeNotificationRepo
	users         *fakeUserRepo
	mailer        *fakeMailer
	messenger     *fakeMessenger
}

func newNotificationServiceFixture(t *testing.T) *notificationServiceFixture {
	t.Helper()
	notifications := newFakeNotificationRepo()
	users := newFakeUserRepo()
	mailer := &fakeMailer{}
	messenger := &fakeMessenger{}
	service := NewNotificationService(notifications, users, noopAuditRepo{}, mailer, messenger, noopLogger{})
	return &notificationServiceFixture{
		service:       service,
		notifications: notifications,
		users:         users,
		mailer:        mailer,
		messenger:     messenger,
	}
}

func (f *notificationServiceFixture) seedUser(t *testing.T, uid, email, phone string) *user.User {
	t.Helper()
	account, err := f.users.Upsert(context.Background(), user.User{
		UID:         uid,
		Role:        user.RoleUser,
		DisplayName: "Test User",
		Email:       email,
		PhoneNumber: phone,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return account
}

func TestStatusChangedFansOutEmailAndSMS(t *testing.T) {
	f := newNotificationServiceFixture(t)
	account := f.seedUser(t, "uid-1", "applicant@example.com", "+911234567890")
	app := &application.Application{ID: common.NewUUID(), UserID: "uid-1", ApplicationNo: "EXM20260042"}

	f.service.StatusChanged(context.Background(), app, account, true)

	items := f.notifications.all()
	if len(items) != 2 {
		t.Fatalf("got %d notifications, want 2", len(items))
	}
	channels := map[notification.Channel]bool{}
	for _, n := range items {
		channels[n.Channel] = true
		if n.Status != notification.StatusSent {
			t.Fatalf("channel %s status = %s, want sent", n.Channel, n.Status)
		}
		if n.Metadata["application_no"] != "EXM20260042" {
			t.Fatalf("application_no metadata = %q", n.Metadata["application_no"])
		}
		if !strings.Contains(n.Message, "approved") {
			t.Fatalf("message %q does not mention the verdict", n.Message)
		}
	}
	if !channels[notification.ChannelEmail] || !channels[notification.ChannelSMS] {
		t.Fatalf("channels = %v, want email and sms", channels)
	}
	if len(f.mailer.sent) != 1 || f.mailer.sent[0].to != "applicant@example.com" {
		t.Fatalf("mailer sent = %+v", f.mailer.sent)
	}
	if len(f.messenger.sms) != 1 || f.messenger.sms[0].to != "+911234567890" {
		t.Fatalf("sms sent = %+v", f.messenger.sms)
	}
}

func TestStatusChangedSkipsSMSWithoutPhone(t *testing.T) {
	f := newNotificationServiceFixture(t)
	account := f.seedUser(t, "uid-1", "applicant@example.com", "")
	app := &application.Application{ID: common.NewUUID(), UserID: "uid-1", ApplicationNo: "EXM20260001"}

	f.service.StatusChanged(context.Background(), app, account, false)

	items := f.notifications.all()
	if len(items) != 1 {
		t.Fatalf("got %d notifications, want 1", len(items))
	}
	if items[0].Channel != notification.ChannelEmail {
		t.Fatalf("channel = %s, want email", items[0].Channel)
	}
	if !strings.Contains(items[0].Message, "disapproved") {
		t.Fatalf("message %q does not mention the verdict", items[0].Message)
	}
}

func TestDispatchRecordsSendFailure(t *testing.T) {
	f := newNotificationServiceFixture(t)
	f.messenger.smsErr = errors.New("carrier rejected")
	account := f.seedUser(t, "uid-1", "applicant@example.com", "+911234567890")
	app := &application.Application{ID: common.NewUUID(), UserID: "uid-1", ApplicationNo: "EXM20260007"}

	f.service.StatusChanged(context.Background(), app, account, true)

	var sms *notification.Notification
	for _, n := range f.notifications.all() {
		if n.Channel == notification.ChannelSMS {
			clone := n
			sms = &clone
		}
	}
	if sms == nil {
		t.Fatalf("no sms notification recorded")
	}
	if sms.Status != notification.StatusFailed {
		t.Fatalf("sms status = %s, want failed", sms.Status)
	}
	if sms.Metadata["error"] != "carrier rejected" {
		t.Fatalf("error metadata = %q", sms.Metadata["error"])
	}
}

func TestEnqueueLeavesMissingRecipientPending(t *testing.T) {
	f := newNotificationServiceFixture(t)
	f.seedUser(t, "uid-1", "", "")

	created, err := f.service.Enqueue(context.Background(), EnqueueNotificationInput{
		UserID:  "uid-1",
		Channel: notification.ChannelEmail,
		Message: "Exam hall update",
		SendAt:  time.Now().Add(-time.Minute),
	})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if created.Status != notification.StatusPending {
		t.Fatalf("status = %s, want pending", created.Status)
	}
	if len(f.mailer.sent) != 0 {
		t.Fatalf("mailer sent = %+v, want none", f.mailer.sent)
	}
}

func TestEnqueueHoldsFutureSendAt(t *testing.T) {
	f := newNotificationServiceFixture(t)
	f.seedUser(t, "uid-1", "applicant@example.com", "")

	created, err := f.service.Enqueue(context.Background(), EnqueueNotificationInput{
		UserID:  "uid-1",
		Channel: notification.ChannelEmail,
		Message: "Exam reminder",
		SendAt:  time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if created.Status != notification.StatusPending {
		t.Fatalf("status = %s, want pending", created.Status)
	}
	if len(f.mailer.sent) != 0 {
		t.Fatalf("mailer sent = %+v, want none before SendAt", f.mailer.sent)
	}
}

func TestEnqueueValidatesPayload(t *testing.T) {
	f := newNotificationServiceFixture(t)
	_, err := f.service.Enqueue(context.Background(), EnqueueNotificationInput{
		Channel: notification.Channel("pigeon"),
	})
	if !common.Is(err, common.CodeValidation) {
		t.Fatalf("error = %v, want validation_error", err)
	}
}

func TestDispatchDueSendsOnlyRipeItems(t *testing.T) {
	f := newNotificationServiceFixture(t)
	f.seedUser(t, "uid-1", "applicant@example.com", "")

	past, err := f.service.Enqueue(context.Background(), EnqueueNotificationInput{
		UserID:  "uid-1",
		Channel: notification.ChannelEmail,
		Message: "Ready now",
		SendAt:  time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if _, err := f.service.Enqueue(context.Background(), EnqueueNotificationInput{
		UserID:  "uid-1",
		Channel: notification.ChannelEmail,
		Message: "Still scheduled",
		SendAt:  time.Now().Add(2 * time.Hour),
	}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	// Pull the first item's SendAt into the past so one of the two is due.
	f.notifications.mu.Lock()
	f.notifications.items[past.ID].SendAt = time.Now().Add(-time.Minute)
	f.notifications.mu.Unlock()

	sent, err := f.service.DispatchDue(context.Background())
	if err != nil {
		t.Fatalf("DispatchDue: %v", err)
	}
	if sent != 1 {
		t.Fatalf("sent = %d, want 1", sent)
	}
	pending, err := f.service.ListPending(context.Background())
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(pending) != 1 || pending[0].Message != "Still scheduled" {
		t.Fatalf("pending = %+v, want only the scheduled item", pending)
	}
}
