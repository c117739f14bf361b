package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"admitdesk/internal/common"
	"admitdesk/internal/domain/application"
)

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `id, application_no, user_id,
	name, father_name, mother_name, guardian_name, date_of_birth, photo,
	place, mahallu, post_office, pin_code, panchayath, constituency, district, state,
	mobile_number, candidate_mobile, whatsapp_number, email,
	madrasa, school, reg_no, medium, hifz_completed,
	payment_transaction_id, payment_amount, payment_date, payment_status,
	is_approved, is_qualified, department_id, applied_at, updated_at, reviewed_by, reviewed_at,
	center_name, exam_date, exam_time, hall_ticket_issued, hall_ticket_issued_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*application.Application, error) {
	var app application.Application
	var isQualified sql.NullBool
	var departmentID sql.NullString
	var reviewedBy sql.NullString
	var reviewedAt sql.NullTime
	var hallTicketIssuedAt sql.NullTime
	err := row.Scan(
		&app.ID, &app.ApplicationNo, &app.UserID,
		&app.PersonalInfo.Name, &app.PersonalInfo.FatherName, &app.PersonalInfo.MotherName, &app.PersonalInfo.GuardianName, &app.PersonalInfo.DateOfBirth, &app.PersonalInfo.Photo,
		&app.AddressInfo.Place, &app.AddressInfo.Mahallu, &app.AddressInfo.PostOffice, &app.AddressInfo.PinCode, &app.AddressInfo.Panchayath, &app.AddressInfo.Constituency, &app.AddressInfo.District, &app.AddressInfo.State,
		&app.ContactInfo.MobileNumber, &app.ContactInfo.CandidateMobile, &app.ContactInfo.WhatsAppNumber, &app.ContactInfo.Email,
		&app.EducationalInfo.Madrasa, &app.EducationalInfo.School, &app.EducationalInfo.RegNo, &app.EducationalInfo.Medium, &app.EducationalInfo.HifzCompleted,
		&app.PaymentInfo.TransactionID, &app.PaymentInfo.Amount, &app.PaymentInfo.Date, &app.PaymentInfo.Status,
		&app.Status.IsApproved, &isQualified, &departmentID, &app.Status.AppliedAt, &app.Status.UpdatedAt, &reviewedBy, &reviewedAt,
		&app.ExamInfo.CenterName, &app.ExamInfo.ExamDate, &app.ExamInfo.ExamTime, &app.ExamInfo.HallTicketIssued, &hallTicketIssuedAt,
	)
	if err != nil {
		return nil, err
	}
	if isQualified.Valid {
		v := isQualified.Bool
		app.Status.IsQualified = &v
	}
	if departmentID.Valid {
		id := common.UUID(departmentID.String)
		app.Status.DepartmentID = &id
	}
	if reviewedBy.Valid {
		app.Status.ReviewedBy = reviewedBy.String
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time.UTC()
		app.Status.ReviewedAt = &t
	}
	if hallTicketIssuedAt.Valid {
		t := hallTicketIssuedAt.Time.UTC()
		app.ExamInfo.HallTicketIssuedAt = &t
	}
	return &app, nil
}

func nullableUUID(id *common.UUID) any {
	if id == nil {
		return nil
	}
	return string(*id)
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func nullableBool(value *bool) any {
	if value == nil {
		return nil
	}
	return *value
}

func (r *ApplicationRepository) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	app.ID = common.NewUUID()
	now := time.Now().UTC()
	if app.Status.AppliedAt.IsZero() {
		app.Status.AppliedAt = now
	}
	app.Status.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, `INSERT INTO applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21,
			$22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34, $35, $36, $37, $38, $39, $40, $41, $42)`,
		app.ID, app.ApplicationNo, app.UserID,
		app.PersonalInfo.Name, app.PersonalInfo.FatherName, app.PersonalInfo.MotherName, app.PersonalInfo.GuardianName, app.PersonalInfo.DateOfBirth, app.PersonalInfo.Photo,
		app.AddressInfo.Place, app.AddressInfo.Mahallu, app.AddressInfo.PostOffice, app.AddressInfo.PinCode, app.AddressInfo.Panchayath, app.AddressInfo.Constituency, app.AddressInfo.District, app.AddressInfo.State,
		app.ContactInfo.MobileNumber, app.ContactInfo.CandidateMobile, app.ContactInfo.WhatsAppNumber, app.ContactInfo.Email,
		app.EducationalInfo.Madrasa, app.EducationalInfo.School, app.EducationalInfo.RegNo, app.EducationalInfo.Medium, app.EducationalInfo.HifzCompleted,
		app.PaymentInfo.TransactionID, app.PaymentInfo.Amount, app.PaymentInfo.Date, app.PaymentInfo.Status,
		app.Status.IsApproved, nullableBool(app.Status.IsQualified), nullableUUID(app.Status.DepartmentID), app.Status.AppliedAt, app.Status.UpdatedAt, nullableString(app.Status.ReviewedBy), nullableTime(app.Status.ReviewedAt),
		app.ExamInfo.CenterName, app.ExamInfo.ExamDate, app.ExamInfo.ExamTime, app.ExamInfo.HallTicketIssued, nullableTime(app.ExamInfo.HallTicketIssuedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "application number already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create application", err)
	}
	return &app, nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	return app, nil
}

func (r *ApplicationRepository) GetByNumber(ctx context.Context, applicationNo string) (*application.Application, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE application_no = $1`, applicationNo)
	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "application not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load application", err)
	}
	return app, nil
}

// Update writes every mutable field back. ApplicationNo, UserID and the
// payment block are never touched after creation.
func (r *ApplicationRepository) Update(ctx context.Context, app application.Application) (*application.Application, error) {
	app.Status.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE applications SET
		name = $1, father_name = $2, mother_name = $3, guardian_name = $4, date_of_birth = $5, photo = $6,
		place = $7, mahallu = $8, post_office = $9, pin_code = $10, panchayath = $11, constituency = $12, district = $13, state = $14,
		mobile_number = $15, candidate_mobile = $16, whatsapp_number = $17, email = $18,
		madrasa = $19, school = $20, reg_no = $21, medium = $22, hifz_completed = $23,
		is_approved = $24, is_qualified = $25, department_id = $26, updated_at = $27, reviewed_by = $28, reviewed_at = $29,
		center_name = $30, exam_date = $31, exam_time = $32, hall_ticket_issued = $33, hall_ticket_issued_at = $34
		WHERE id = $35`,
		app.PersonalInfo.Name, app.PersonalInfo.FatherName, app.PersonalInfo.MotherName, app.PersonalInfo.GuardianName, app.PersonalInfo.DateOfBirth, app.PersonalInfo.Photo,
		app.AddressInfo.Place, app.AddressInfo.Mahallu, app.AddressInfo.PostOffice, app.AddressInfo.PinCode, app.AddressInfo.Panchayath, app.AddressInfo.Constituency, app.AddressInfo.District, app.AddressInfo.State,
		app.ContactInfo.MobileNumber, app.ContactInfo.CandidateMobile, app.ContactInfo.WhatsAppNumber, app.ContactInfo.Email,
		app.EducationalInfo.Madrasa, app.EducationalInfo.School, app.EducationalInfo.RegNo, app.EducationalInfo.Medium, app.EducationalInfo.HifzCompleted,
		app.Status.IsApproved, nullableBool(app.Status.IsQualified), nullableUUID(app.Status.DepartmentID), app.Status.UpdatedAt, nullableString(app.Status.ReviewedBy), nullableTime(app.Status.ReviewedAt),
		app.ExamInfo.CenterName, app.ExamInfo.ExamDate, app.ExamInfo.ExamTime, app.ExamInfo.HallTicketIssued, nullableTime(app.ExamInfo.HallTicketIssuedAt),
		app.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update application", err)
	}
	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return nil, common.NewError(common.CodeNotFound, "application not found", sql.ErrNoRows)
	}
	return r.GetByID(ctx, app.ID)
}

func (r *ApplicationRepository) ListByUser(ctx context.Context, userID string) ([]application.Application, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+applicationColumns+` FROM applications WHERE user_id = $1 ORDER BY applied_at DESC`, userID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()
	var items []application.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan application", err)
		}
		items = append(items, *app)
	}
	return items, nil
}

// List returns one admin page plus the unpaged match count. The state
// conditions are flag equalities, so approved matches every approved record
// regardless of a later qualification verdict.
func (r *ApplicationRepository) List(ctx context.Context, filter application.ListFilter, page, limit int) ([]application.Application, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var conditions []string
	var args []any
	arg := func(value any) string {
		args = append(args, value)
		return fmt.Sprintf("$%d", len(args))
	}

	switch filter.State {
	case application.StateApproved:
		conditions = append(conditions, "is_approved = TRUE")
	case application.StateDisapproved:
		conditions = append(conditions, "is_approved = FALSE AND reviewed_at IS NOT NULL")
	case application.StateQualified:
		conditions = append(conditions, "is_qualified = TRUE")
	case application.StateDisqualified:
		conditions = append(conditions, "is_qualified = FALSE AND reviewed_at IS NOT NULL")
	case application.StatePending:
		conditions = append(conditions, "is_approved = FALSE AND reviewed_at IS NULL")
	}
	if filter.DepartmentID != "" {
		conditions = append(conditions, "department_id = "+arg(filter.DepartmentID))
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		placeholder := arg(pattern)
		conditions = append(conditions, fmt.Sprintf("(application_no ILIKE %[1]s OR name ILIKE %[1]s OR mobile_number ILIKE %[1]s OR email ILIKE %[1]s)", placeholder))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applications`+where, args...).Scan(&total); err != nil {
		return nil, 0, common.NewError(common.CodeInternal, "failed to count applications", err)
	}

	query := `SELECT ` + applicationColumns + ` FROM applications` + where +
		` ORDER BY applied_at DESC LIMIT ` + arg(limit) + ` OFFSET ` + arg((page-1)*limit)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, common.NewError(common.CodeInternal, "failed to list applications", err)
	}
	defer rows.Close()
	var items []application.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, 0, common.NewError(common.CodeInternal, "failed to scan application", err)
		}
		items = append(items, *app)
	}
	return items, total, nil
}

func (r *ApplicationRepository) Stats(ctx context.Context) (*application.Stats, error) {
	row := r.db.QueryRowContext(ctx, `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE is_approved),
		COUNT(*) FILTER (WHERE NOT is_approved AND reviewed_at IS NOT NULL),
		COUNT(*) FILTER (WHERE is_qualified),
		COUNT(*) FILTER (WHERE NOT is_qualified AND reviewed_at IS NOT NULL)
		FROM applications`)
	var stats application.Stats
	if err := row.Scan(&stats.Total, &stats.Approved, &stats.Disapproved, &stats.Qualified, &stats.Disqualified); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to load application stats", err)
	}
	return &stats, nil
}
