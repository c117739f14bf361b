package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"admitdesk/internal/common"
	"admitdesk/internal/domain/application"
	"admitdesk/internal/domain/audit"
	"admitdesk/internal/domain/department"
	"admitdesk/internal/domain/notification"
	"admitdesk/internal/domain/user"
)

type noopLogger struct{}

func (noopLogger) Info(msg string)  {}
func (noopLogger) Error(msg string) {}

type noopAuditRepo struct{}

func (noopAuditRepo) Create(ctx context.Context, event audit.Event) error {
	return nil
}

type fakeSequenceRepo struct {
	mu       sync.Mutex
	counters map[string]int64
	err      error
}

func newFakeSequenceRepo() *fakeSequenceRepo {
	return &fakeSequenceRepo{counters: make(map[string]int64)}
}

func (r *fakeSequenceRepo) Next(ctx context.Context, name string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	r.counters[name]++
	return r.counters[name], nil
}

type fakeApplicationRepo struct {
	mu       sync.Mutex
	byID     map[common.UUID]*application.Application
	byNumber map[string]common.UUID
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{
		byID:     make(map[common.UUID]*application.Application),
		byNumber: make(map[string]common.UUID),
	}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byNumber[app.ApplicationNo]; ok {
		return nil, common.NewError(common.CodeConflict, "application number already exists", nil)
	}
	app.ID = common.NewUUID()
	stored := app
	r.byID[app.ID] = &stored
	r.byNumber[app.ApplicationNo] = app.ID
	clone := stored
	return &clone, nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeApplicationRepo) GetByNumber(ctx context.Context, applicationNo string) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byNumber[applicationNo]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	clone := *r.byID[id]
	return &clone, nil
}

func (r *fakeApplicationRepo) Update(ctx context.Context, app application.Application) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[app.ID]; !ok {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	stored := app
	r.byID[app.ID] = &stored
	clone := stored
	return &clone, nil
}

func (r *fakeApplicationRepo) ListByUser(ctx context.Context, userID string) ([]application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []application.Application{}
	for _, stored := range r.byID {
		if stored.UserID == userID {
			items = append(items, *stored)
		}
	}
	return items, nil
}

func (r *fakeApplicationRepo) List(ctx context.Context, filter application.ListFilter, page, limit int) ([]application.Application, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := []application.Application{}
	for _, stored := range r.byID {
		if filter.State != "" && !matchesStateFilter(stored.Status, filter.State) {
			continue
		}
		if filter.Search != "" && !strings.Contains(stored.ApplicationNo, filter.Search) && !strings.Contains(stored.PersonalInfo.Name, filter.Search) {
			continue
		}
		matched = append(matched, *stored)
	}
	total := len(matched)
	start := (page - 1) * limit
	if start >= total {
		return []application.Application{}, total, nil
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// matchesStateFilter mirrors the flag equalities the SQL listing uses.
func matchesStateFilter(st application.Status, state application.State) bool {
	switch state {
	case application.StateApproved:
		return st.IsApproved
	case application.StateDisapproved:
		return !st.IsApproved && st.ReviewedAt != nil
	case application.StateQualified:
		return st.IsQualified != nil && *st.IsQualified
	case application.StateDisqualified:
		return st.IsQualified != nil && !*st.IsQualified && st.ReviewedAt != nil
	case application.StatePending:
		return !st.IsApproved && st.ReviewedAt == nil
	}
	return false
}

func (r *fakeApplicationRepo) Stats(ctx context.Context) (*application.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := &application.Stats{Total: len(r.byID)}
	for _, stored := range r.byID {
		switch application.DeriveState(stored.Status) {
		case application.StateApproved:
			stats.Approved++
		case application.StateDisapproved:
			stats.Disapproved++
		case application.StateQualified:
			stats.Qualified++
		case application.StateDisqualified:
			stats.Disqualified++
		}
	}
	return stats, nil
}

type fakeDepartmentRepo struct {
	mu   sync.Mutex
	byID map[common.UUID]*department.Department
}

func newFakeDepartmentRepo() *fakeDepartmentRepo {
	return &fakeDepartmentRepo{byID: make(map[common.UUID]*department.Department)}
}

func (r *fakeDepartmentRepo) Create(ctx context.Context, dep department.Department) (*department.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.byID {
		if stored.Code == dep.Code {
			return nil, common.NewError(common.CodeConflict, "department code already exists", nil)
		}
	}
	dep.ID = common.NewUUID()
	now := time.Now().UTC()
	dep.CreatedAt = now
	dep.UpdatedAt = now
	stored := dep
	r.byID[dep.ID] = &stored
	clone := stored
	return &clone, nil
}

func (r *fakeDepartmentRepo) Update(ctx context.Context, dep department.Department) (*department.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[dep.ID]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "department not found", nil)
	}
	dep.CreatedAt = existing.CreatedAt
	dep.UpdatedAt = time.Now().UTC()
	stored := dep
	r.byID[dep.ID] = &stored
	clone := stored
	return &clone, nil
}

func (r *fakeDepartmentRepo) Delete(ctx context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return common.NewError(common.CodeNotFound, "department not found", nil)
	}
	delete(r.byID, id)
	return nil
}

func (r *fakeDepartmentRepo) GetByID(ctx context.Context, id common.UUID) (*department.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "department not found", nil)
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeDepartmentRepo) List(ctx context.Context) ([]department.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []department.Department{}
	for _, stored := range r.byID {
		items = append(items, *stored)
	}
	return items, nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	byUID map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byUID: make(map[string]*user.User)}
}

func (r *fakeUserRepo) GetByUID(ctx context.Context, uid string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byUID[uid]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeUserRepo) Upsert(ctx context.Context, account user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	existing, ok := r.byUID[account.UID]
	if !ok {
		account.ID = common.NewUUID()
		account.CreatedAt = now
		account.UpdatedAt = now
		stored := account
		r.byUID[account.UID] = &stored
		clone := stored
		return &clone, nil
	}
	existing.PhoneNumber = account.PhoneNumber
	existing.DisplayName = account.DisplayName
	existing.PhotoURL = account.PhotoURL
	existing.Email = account.Email
	existing.UpdatedAt = now
	clone := *existing
	return &clone, nil
}

func (r *fakeUserRepo) SetRole(ctx context.Context, uid string, role user.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byUID[uid]
	if !ok {
		return common.NewError(common.CodeNotFound, "user not found", nil)
	}
	stored.Role = role
	return nil
}

type fakeNotificationRepo struct {
	mu    sync.Mutex
	items map[common.UUID]*notification.Notification
	order []common.UUID
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{items: make(map[common.UUID]*notification.Notification)}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n notification.Notification) (*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.ID = common.NewUUID()
	n.CreatedAt = time.Now().UTC()
	if n.SendAt.IsZero() {
		n.SendAt = n.CreatedAt
	}
	if n.Status == "" {
		n.Status = notification.StatusPending
	}
	stored := n
	r.items[n.ID] = &stored
	r.order = append(r.order, n.ID)
	clone := stored
	return &clone, nil
}

func (r *fakeNotificationRepo) UpdateStatus(ctx context.Context, id common.UUID, status notification.Status, metadata map[string]string) (*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.items[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "notification not found", nil)
	}
	stored.Status = status
	if metadata != nil {
		stored.Metadata = metadata
	}
	if status == notification.StatusSent {
		now := time.Now().UTC()
		stored.SentAt = &now
	}
	clone := *stored
	return &clone, nil
}

func (r *fakeNotificationRepo) ListPending(ctx context.Context) ([]notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []notification.Notification{}
	for _, id := range r.order {
		if r.items[id].Status == notification.StatusPending {
			items = append(items, *r.items[id])
		}
	}
	return items, nil
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID string) ([]notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []notification.Notification{}
	for _, id := range r.order {
		if r.items[id].UserID == userID {
			items = append(items, *r.items[id])
		}
	}
	return items, nil
}

func (r *fakeNotificationRepo) all() []notification.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := []notification.Notification{}
	for _, id := range r.order {
		items = append(items, *r.items[id])
	}
	return items
}

type fakeVerifier struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (v *fakeVerifier) VerifyPayment(ctx context.Context, orderID, paymentID, signature string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	return v.err
}

type notifierCall struct {
	applicationNo string
	approved      bool
}

type recordingNotifier struct {
	mu    sync.Mutex
	calls []notifierCall
}

func (n *recordingNotifier) StatusChanged(ctx context.Context, app *application.Application, account *user.User, approved bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, notifierCall{applicationNo: app.ApplicationNo, approved: approved})
}

type sentMessage struct {
	to   string
	body string
}

type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent []sentMessage
}

func (m *fakeMailer) Send(to, subject, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMessage{to: to, body: message})
	return nil
}

type fakeMessenger struct {
	mu       sync.Mutex
	smsErr   error
	sms      []sentMessage
	whatsapp []sentMessage
}

func (m *fakeMessenger) SendSMS(ctx context.Context, to, body string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.smsErr != nil {
		return "", m.smsErr
	}
	m.sms = append(m.sms, sentMessage{to: to, body: body})
	return "SM" + common.NewUUID().String(), nil
}

func (m *fakeMessenger) SendWhatsApp(ctx context.Context, to, body string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.whatsapp = append(m.whatsapp, sentMessage{to: to, body: body})
	return "WA" + common.NewUUID().String(), nil
}
