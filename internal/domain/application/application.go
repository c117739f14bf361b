package application

import (
	"time"

	"admitdesk/internal/common"
)

type PersonalInfo struct {
	Name         string `json:"name"`
	FatherName   string `json:"father_name"`
	MotherName   string `json:"mother_name"`
	GuardianName string `json:"guardian_name"`
	DateOfBirth  string `json:"date_of_birth"`
	Photo        string `json:"photo"`
}

type AddressInfo struct {
	Place        string `json:"place"`
	Mahallu      string `json:"mahallu"`
	PostOffice   string `json:"post_office"`
	PinCode      string `json:"pin_code"`
	Panchayath   string `json:"panchayath"`
	Constituency string `json:"constituency"`
	District     string `json:"district"`
	State        string `json:"state"`
}

type ContactInfo struct {
	MobileNumber    string `json:"mobile_number"`
	CandidateMobile string `json:"candidate_mobile"`
	WhatsAppNumber  string `json:"whatsapp_number"`
	Email           string `json:"email"`
}

type EducationalInfo struct {
	Madrasa       string `json:"madrasa"`
	School        string `json:"school"`
	RegNo         string `json:"reg_no"`
	Medium        string `json:"medium"`
	HifzCompleted bool   `json:"hifz_completed"`
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

type PaymentInfo struct {
	TransactionID string        `json:"transaction_id"`
	Amount        int64         `json:"amount"`
	Date          string        `json:"date"`
	Status        PaymentStatus `json:"status"`
}

// Status is the stored review block. ReviewedAt absent means no admin has
// acted on the record yet; present with IsApproved=false means explicitly
// disapproved, not pending. IsQualified carries the same absent/false
// distinction, so it is a pointer: nil means the verdict was never given.
type Status struct {
	IsApproved   bool         `json:"is_approved"`
	IsQualified  *bool        `json:"is_qualified,omitempty"`
	DepartmentID *common.UUID `json:"department_id,omitempty"`
	AppliedAt    time.Time    `json:"applied_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	ReviewedBy   string       `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time   `json:"reviewed_at,omitempty"`
}

type ExamInfo struct {
	CenterName         string     `json:"center_name,omitempty"`
	ExamDate           string     `json:"exam_date,omitempty"`
	ExamTime           string     `json:"exam_time,omitempty"`
	HallTicketIssued   bool       `json:"hall_ticket_issued"`
	HallTicketIssuedAt *time.Time `json:"hall_ticket_issued_at,omitempty"`
}

type Application struct {
	ID              common.UUID     `json:"id"`
	ApplicationNo   string          `json:"application_no"`
	UserID          string          `json:"user_id"`
	PersonalInfo    PersonalInfo    `json:"personal_info"`
	AddressInfo     AddressInfo     `json:"address_info"`
	ContactInfo     ContactInfo     `json:"contact_info"`
	EducationalInfo EducationalInfo `json:"educational_info"`
	PaymentInfo     PaymentInfo     `json:"payment_info"`
	Status          Status          `json:"status"`
	ExamInfo        ExamInfo        `json:"exam_info"`
}

// State is the display status derived from the stored review block. It is
// never persisted.
type State string

const (
	StatePending      State = "pending"
	StateApproved     State = "approved"
	StateDisapproved  State = "disapproved"
	StateQualified    State = "qualified"
	StateDisqualified State = "disqualified"
)

// DeriveState is the single source of the status label. Order matters:
// qualified wins over disqualified, disqualified over approved. An approved
// record with no qualification verdict reads as plain Approved even after
// the approval stamped ReviewedAt.
func DeriveState(st Status) State {
	if st.IsApproved {
		if st.IsQualified != nil && *st.IsQualified {
			return StateQualified
		}
		if st.IsQualified != nil && st.ReviewedAt != nil {
			return StateDisqualified
		}
		return StateApproved
	}
	if st.ReviewedAt != nil {
		return StateDisapproved
	}
	return StatePending
}
