package app

import (
	"context"
	"time"

	"admitdesk/internal/common"
	"admitdesk/internal/domain/application"
	"admitdesk/internal/domain/audit"
	"admitdesk/internal/domain/department"
	"admitdesk/internal/domain/user"
)

// Actor is the resolved identity behind a request. Admin comes from the
// server-side user record, never from anything the client sent.
type Actor struct {
	UID   string
	Admin bool
}

type Notifier interface {
	StatusChanged(ctx context.Context, app *application.Application, account *user.User, approved bool)
}

type PaymentVerifier interface {
	VerifyPayment(ctx context.Context, orderID, paymentID, signature string) error
}

type PaymentAssertion struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
	Amount    int64  `json:"amount"`
	Date      string `json:"date"`
}

type SubmitInput struct {
	PersonalInfo    application.PersonalInfo    `json:"personal_info"`
	AddressInfo     application.AddressInfo     `json:"address_info"`
	ContactInfo     application.ContactInfo     `json:"contact_info"`
	EducationalInfo application.EducationalInfo `json:"educational_info"`
	Payment         PaymentAssertion            `json:"payment"`
}

// ContentUpdate carries the amendable blocks. Nil blocks are left untouched.
type ContentUpdate struct {
	PersonalInfo    *application.PersonalInfo    `json:"personal_info"`
	AddressInfo     *application.AddressInfo     `json:"address_info"`
	ContactInfo     *application.ContactInfo     `json:"contact_info"`
	EducationalInfo *application.EducationalInfo `json:"educational_info"`
}

type ExamScheduleUpdate struct {
	CenterName *string `json:"center_name"`
	ExamDate   *string `json:"exam_date"`
	ExamTime   *string `json:"exam_time"`
}

type ApplicationService struct {
	applications application.Repository
	sequences    application.SequenceRepository
	departments  department.Repository
	users        user.Repository
	payments     PaymentVerifier
	notifier     Notifier
	audit        audit.Repository
	logger       Logger
}

func NewApplicationService(
	applications application.Repository,
	sequences application.SequenceRepository,
	departments department.Repository,
	users user.Repository,
	payments PaymentVerifier,
	notifier Notifier,
	auditRepo audit.Repository,
	logger Logger,
) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		sequences:    sequences,
		departments:  departments,
		users:        users,
		payments:     payments,
		notifier:     notifier,
		audit:        auditRepo,
		logger:       logger,
	}
}

// Submit creates a pending application. The payment assertion must verify
// before anything is persisted; the application number is minted only after
// that so a rejected payment never consumes a sequence value.
func (s *ApplicationService) Submit(ctx context.Context, userID string, input SubmitInput) (*application.Application, error) {
	fields := map[string]string{}
	if input.PersonalInfo.Name == "" {
		fields["personal_info.name"] = "required"
	}
	if input.ContactInfo.MobileNumber == "" {
		fields["contact_info.mobile_number"] = "required"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid application payload", fields)
	}

	if err := s.payments.VerifyPayment(ctx, input.Payment.OrderID, input.Payment.PaymentID, input.Payment.Signature); err != nil {
		return nil, err
	}

	number, err := nextApplicationNumber(ctx, s.sequences, time.Now())
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to assign application number", err)
	}

	now := time.Now()
	created, err := s.applications.Create(ctx, application.Application{
		ApplicationNo:   number,
		UserID:          userID,
		PersonalInfo:    input.PersonalInfo,
		AddressInfo:     input.AddressInfo,
		ContactInfo:     input.ContactInfo,
		EducationalInfo: input.EducationalInfo,
		PaymentInfo: application.PaymentInfo{
			TransactionID: input.Payment.PaymentID,
			Amount:        input.Payment.Amount,
			Date:          input.Payment.Date,
			Status:        application.PaymentCompleted,
		},
		Status: application.Status{
			AppliedAt: now,
			UpdatedAt: now,
		},
	})
	if err != nil {
		return nil, err
	}

	_ = s.audit.Create(ctx, audit.Event{
		Name:    "application.submitted",
		UserID:  &userID,
		Payload: map[string]string{"application_id": created.ID.String(), "application_no": created.ApplicationNo},
	})
	return created, nil
}

func (s *ApplicationService) Get(ctx context.Context, id common.UUID, actor Actor) (*application.Application, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && app.UserID != actor.UID {
		return nil, common.NewError(common.CodeForbidden, "not your application", nil)
	}
	return app, nil
}

func (s *ApplicationService) GetByNumber(ctx context.Context, applicationNo string, actor Actor) (*application.Application, error) {
	app, err := s.applications.GetByNumber(ctx, applicationNo)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && app.UserID != actor.UID {
		return nil, common.NewError(common.CodeForbidden, "not your application", nil)
	}
	return app, nil
}

func (s *ApplicationService) ListOwn(ctx context.Context, userID string) ([]application.Application, error) {
	return s.applications.ListByUser(ctx, userID)
}

// NormalizePagination clamps page and limit to the values List actually uses,
// so callers building a pagination envelope report the effective ones.
func NormalizePagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return page, limit
}

func (s *ApplicationService) List(ctx context.Context, filter application.ListFilter, page, limit int) ([]application.Application, int, error) {
	page, limit = NormalizePagination(page, limit)
	return s.applications.List(ctx, filter, page, limit)
}

func (s *ApplicationService) Stats(ctx context.Context) (*application.Stats, error) {
	return s.applications.Stats(ctx)
}

// UpdateContent amends the candidate-supplied blocks. Owners are locked out
// once the application is approved; admins can amend at any point.
func (s *ApplicationService) UpdateContent(ctx context.Context, id common.UUID, actor Actor, update ContentUpdate) (*application.Application, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.Admin {
		if app.UserID != actor.UID {
			return nil, common.NewError(common.CodeForbidden, "not your application", nil)
		}
		if app.Status.IsApproved {
			return nil, common.NewError(common.CodeForbidden, "application is locked after approval", nil)
		}
	}

	if update.PersonalInfo != nil {
		app.PersonalInfo = *update.PersonalInfo
	}
	if update.AddressInfo != nil {
		app.AddressInfo = *update.AddressInfo
	}
	if update.ContactInfo != nil {
		app.ContactInfo = *update.ContactInfo
	}
	if update.EducationalInfo != nil {
		app.EducationalInfo = *update.EducationalInfo
	}
	app.Status.UpdatedAt = time.Now()

	updated, err := s.applications.Update(ctx, *app)
	if err != nil {
		return nil, err
	}
	_ = s.audit.Create(ctx, audit.Event{
		Name:    "application.updated",
		UserID:  &actor.UID,
		Payload: map[string]string{"application_id": id.String()},
	})
	return updated, nil
}

// Review sets the approval verdict. Re-applying the current verdict is a
// plain re-stamp, not an error. A changed verdict notifies the owner; the
// notification outcome never affects the transition.
func (s *ApplicationService) Review(ctx context.Context, id common.UUID, adminUID string, approved bool) (*application.Application, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	flipped := app.Status.IsApproved != approved

	now := time.Now()
	app.Status.IsApproved = approved
	app.Status.ReviewedBy = adminUID
	app.Status.ReviewedAt = &now
	app.Status.UpdatedAt = now

	updated, err := s.applications.Update(ctx, *app)
	if err != nil {
		return nil, err
	}

	if flipped {
		if account, err := s.users.GetByUID(ctx, updated.UserID); err != nil {
			s.logger.Error("application: owner lookup failed for " + updated.UserID + ": " + err.Error())
		} else {
			s.notifier.StatusChanged(ctx, updated, account, approved)
		}
	}

	verdict := "disapproved"
	if approved {
		verdict = "approved"
	}
	_ = s.audit.Create(ctx, audit.Event{
		Name:    "application.reviewed",
		UserID:  &adminUID,
		Payload: map[string]string{"application_id": id.String(), "verdict": verdict},
	})
	return updated, nil
}

// Qualify records the qualification verdict. It is rejected on an application
// that was never approved, since the verdict would be unreadable there.
func (s *ApplicationService) Qualify(ctx context.Context, id common.UUID, adminUID string, qualified bool) (*application.Application, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !app.Status.IsApproved {
		return nil, common.NewError(common.CodeValidation, "application is not approved", nil)
	}

	now := time.Now()
	app.Status.IsQualified = &qualified
	app.Status.ReviewedBy = adminUID
	app.Status.ReviewedAt = &now
	app.Status.UpdatedAt = now

	updated, err := s.applications.Update(ctx, *app)
	if err != nil {
		return nil, err
	}
	verdict := "disqualified"
	if qualified {
		verdict = "qualified"
	}
	_ = s.audit.Create(ctx, audit.Event{
		Name:    "application.qualified",
		UserID:  &adminUID,
		Payload: map[string]string{"application_id": id.String(), "verdict": verdict},
	})
	return updated, nil
}

// AssignDepartment points the application at a department. Allowed at any
// lifecycle state; the department must exist.
func (s *ApplicationService) AssignDepartment(ctx context.Context, id common.UUID, adminUID string, departmentID common.UUID) (*application.Application, error) {
	if _, err := s.departments.GetByID(ctx, departmentID); err != nil {
		return nil, err
	}
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	app.Status.DepartmentID = &departmentID
	app.Status.UpdatedAt = time.Now()

	updated, err := s.applications.Update(ctx, *app)
	if err != nil {
		return nil, err
	}
	_ = s.audit.Create(ctx, audit.Event{
		Name:    "application.department_assigned",
		UserID:  &adminUID,
		Payload: map[string]string{"application_id": id.String(), "department_id": departmentID.String()},
	})
	return updated, nil
}

// ScheduleExam merges exam details into an approved application. Scheduling
// does not issue the hall ticket; that is a separate explicit step.
func (s *ApplicationService) ScheduleExam(ctx context.Context, id common.UUID, adminUID string, update ExamScheduleUpdate) (*application.Application, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !app.Status.IsApproved {
		return nil, common.NewError(common.CodeForbidden, "application is not approved", nil)
	}

	if update.CenterName != nil {
		app.ExamInfo.CenterName = *update.CenterName
	}
	if update.ExamDate != nil {
		app.ExamInfo.ExamDate = *update.ExamDate
	}
	if update.ExamTime != nil {
		app.ExamInfo.ExamTime = *update.ExamTime
	}
	app.Status.UpdatedAt = time.Now()

	updated, err := s.applications.Update(ctx, *app)
	if err != nil {
		return nil, err
	}
	_ = s.audit.Create(ctx, audit.Event{
		Name:    "application.exam_scheduled",
		UserID:  &adminUID,
		Payload: map[string]string{"application_id": id.String()},
	})
	return updated, nil
}

// IssueHallTicket flips hall-ticket availability on an approved application.
func (s *ApplicationService) IssueHallTicket(ctx context.Context, id common.UUID, adminUID string, issued bool) (*application.Application, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !app.Status.IsApproved {
		return nil, common.NewError(common.CodeForbidden, "application is not approved", nil)
	}

	app.ExamInfo.HallTicketIssued = issued
	if issued {
		now := time.Now()
		app.ExamInfo.HallTicketIssuedAt = &now
	} else {
		app.ExamInfo.HallTicketIssuedAt = nil
	}
	app.Status.UpdatedAt = time.Now()

	updated, err := s.applications.Update(ctx, *app)
	if err != nil {
		return nil, err
	}
	_ = s.audit.Create(ctx, audit.Event{
		Name:    "application.hall_ticket",
		UserID:  &adminUID,
		Payload: map[string]string{"application_id": id.String(), "issued": boolString(issued)},
	})
	return updated, nil
}

// ApplicationDocument resolves the record behind the printable application
// form. Owner or admin only.
func (s *ApplicationService) ApplicationDocument(ctx context.Context, id common.UUID, actor Actor) (*application.Application, error) {
	return s.Get(ctx, id, actor)
}

// HallTicketDocument resolves the record behind the hall ticket. Owners get
// it only once the application is approved; admins always can.
func (s *ApplicationService) HallTicketDocument(ctx context.Context, id common.UUID, actor Actor) (*application.Application, error) {
	app, err := s.Get(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && !app.Status.IsApproved {
		return nil, common.NewError(common.CodeForbidden, "hall ticket is not available yet", nil)
	}
	return app, nil
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
