package app

import (
	"context"
	"regexp"
	"strings"

	"admitdesk/internal/common"
	"admitdesk/internal/domain/audit"
	"admitdesk/internal/domain/department"
)

var departmentCodePattern = regexp.MustCompile(`^[A-Z0-9]{2,10}$`)

type DepartmentInput struct {
	Name        string   `json:"name"`
	Code        string   `json:"code"`
	Description string   `json:"description"`
	Subjects    []string `json:"subjects"`
}

type DepartmentService struct {
	departments department.Repository
	audit       audit.Repository
	logger      Logger
}

func NewDepartmentService(departments department.Repository, auditRepo audit.Repository, logger Logger) *DepartmentService {
	return &DepartmentService{departments: departments, audit: auditRepo, logger: logger}
}

func validateDepartment(input DepartmentInput) map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = "required"
	}
	if !departmentCodePattern.MatchString(input.Code) {
		fields["code"] = "must be 2-10 uppercase letters or digits"
	}
	return fields
}

func (s *DepartmentService) Create(ctx context.Context, adminUID string, input DepartmentInput) (*department.Department, error) {
	if fields := validateDepartment(input); len(fields) > 0 {
		return nil, common.NewValidationError("invalid department payload", fields)
	}
	created, err := s.departments.Create(ctx, department.Department{
		Name:        strings.TrimSpace(input.Name),
		Code:        input.Code,
		Description: input.Description,
		Subjects:    input.Subjects,
	})
	if err != nil {
		return nil, err
	}
	_ = s.audit.Create(ctx, audit.Event{
		Name:    "department.created",
		UserID:  &adminUID,
		Payload: map[string]string{"department_id": created.ID.String(), "code": created.Code},
	})
	return created, nil
}

func (s *DepartmentService) Update(ctx context.Context, adminUID string, id common.UUID, input DepartmentInput) (*department.Department, error) {
	if fields := validateDepartment(input); len(fields) > 0 {
		return nil, common.NewValidationError("invalid department payload", fields)
	}
	updated, err := s.departments.Update(ctx, department.Department{
		ID:          id,
		Name:        strings.TrimSpace(input.Name),
		Code:        input.Code,
		Description: input.Description,
		Subjects:    input.Subjects,
	})
	if err != nil {
		return nil, err
	}
	_ = s.audit.Create(ctx, audit.Event{
		Name:    "department.updated",
		UserID:  &adminUID,
		Payload: map[string]string{"department_id": id.String()},
	})
	return updated, nil
}

// Delete removes the department. Applications already pointing at it keep
// their dangling reference; there is no restrict or cascade here.
func (s *DepartmentService) Delete(ctx context.Context, adminUID string, id common.UUID) error {
	if err := s.departments.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.audit.Create(ctx, audit.Event{
		Name:    "department.deleted",
		UserID:  &adminUID,
		Payload: map[string]string{"department_id": id.String()},
	})
	return nil
}

func (s *DepartmentService) Get(ctx context.Context, id common.UUID) (*department.Department, error) {
	return s.departments.GetByID(ctx, id)
}

func (s *DepartmentService) List(ctx context.Context) ([]department.Department, error) {
	return s.departments.List(ctx)
}
