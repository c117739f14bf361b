package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"admitdesk/internal/domain/application"
)

const (
	collegeName     = "COLLEGE NAME"
	collegeAddress1 = "College Address Line 1"
	collegeAddress2 = "College Address Line 2"
	examTitle       = "ENTRANCE EXAMINATION"
)

// Renderer produces the application form and hall ticket documents.
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

func (r *Renderer) header(doc *fpdf.Fpdf, subtitle string) {
	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 9, collegeName, "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(0, 6, collegeAddress1, "", 1, "C", false, 0, "")
	doc.CellFormat(0, 6, collegeAddress2, "", 1, "C", false, 0, "")
	doc.Ln(4)
	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 8, subtitle, "", 1, "C", false, 0, "")
	doc.Ln(4)
}

func (r *Renderer) section(doc *fpdf.Fpdf, title string) {
	doc.Ln(3)
	doc.SetFont("Helvetica", "BU", 12)
	doc.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 11)
}

func (r *Renderer) field(doc *fpdf.Fpdf, label, value string) {
	doc.CellFormat(0, 6, fmt.Sprintf("%s: %s", label, value), "", 1, "L", false, 0, "")
}

// ApplicationForm renders the full submitted application.
func (r *Renderer) ApplicationForm(app *application.Application) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	r.header(doc, examTitle)

	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 6, "Application No: "+app.ApplicationNo, "", 1, "R", false, 0, "")
	doc.CellFormat(0, 6, "Date: "+formatDate(app.Status.AppliedAt), "", 1, "R", false, 0, "")

	// photo box
	doc.Rect(160, 60, 35, 42, "D")

	r.section(doc, "Personal Information")
	r.field(doc, "Name of the Candidate", app.PersonalInfo.Name)
	r.field(doc, "Name of Father", app.PersonalInfo.FatherName)
	r.field(doc, "Name of Mother", app.PersonalInfo.MotherName)
	r.field(doc, "Name of Guardian", app.PersonalInfo.GuardianName)
	r.field(doc, "Date of Birth", app.PersonalInfo.DateOfBirth)

	doc.AddPage()
	r.section(doc, "Address Information")
	r.field(doc, "Place", app.AddressInfo.Place)
	r.field(doc, "Mahallu", app.AddressInfo.Mahallu)
	r.field(doc, "Post Office", app.AddressInfo.PostOffice)
	r.field(doc, "Pin Code", app.AddressInfo.PinCode)
	r.field(doc, "Panchayath", app.AddressInfo.Panchayath)
	r.field(doc, "Constituency", app.AddressInfo.Constituency)
	r.field(doc, "District", app.AddressInfo.District)
	r.field(doc, "State", app.AddressInfo.State)

	r.section(doc, "Contact Details")
	r.field(doc, "Mobile Number", app.ContactInfo.MobileNumber)
	r.field(doc, "Mobile No of Candidate", app.ContactInfo.CandidateMobile)
	r.field(doc, "WhatsApp", app.ContactInfo.WhatsAppNumber)
	r.field(doc, "Email", app.ContactInfo.Email)

	r.section(doc, "Educational Qualification")
	r.field(doc, "Madrasa", app.EducationalInfo.Madrasa)
	r.field(doc, "School", app.EducationalInfo.School)
	r.field(doc, "Reg. No of SSLC/Equivalent", app.EducationalInfo.RegNo)
	r.field(doc, "Medium", app.EducationalInfo.Medium)
	hifz := "No"
	if app.EducationalInfo.HifzCompleted {
		hifz = "Yes"
	}
	r.field(doc, "Hifz Completed", hifz)

	r.section(doc, "Fee Payment Details")
	r.field(doc, "Transaction No", app.PaymentInfo.TransactionID)
	r.field(doc, "Fee Amount", fmt.Sprintf("Rs. %d.00", app.PaymentInfo.Amount))
	r.field(doc, "Date of Payment", app.PaymentInfo.Date)
	r.field(doc, "Status", string(app.PaymentInfo.Status))

	r.section(doc, "Declaration")
	doc.MultiCell(0, 5, "I hereby declare that the information provided in this application form is true and correct to the best of my knowledge. I understand that providing false information may result in the cancellation of my application.", "", "J", false)

	doc.Ln(16)
	doc.CellFormat(90, 6, "__________________________", "", 0, "L", false, 0, "")
	doc.CellFormat(90, 6, "__________________________", "", 1, "R", false, 0, "")
	doc.CellFormat(90, 6, "Signature of Candidate", "", 0, "L", false, 0, "")
	doc.CellFormat(90, 6, "Signature of Parent/Guardian", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// HallTicket renders the admit card. Callers gate access on approval.
func (r *Renderer) HallTicket(app *application.Application) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	r.header(doc, "ADMIT CARD - "+examTitle)

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, 6, "Application No: "+app.ApplicationNo, "", 1, "L", false, 0, "")
	doc.Ln(2)

	doc.Rect(160, 60, 35, 42, "D")

	examDate := app.ExamInfo.ExamDate
	if examDate == "" {
		examDate = "To be announced"
	}
	examTime := app.ExamInfo.ExamTime
	if examTime == "" {
		examTime = "To be announced"
	}
	r.field(doc, "Date of Examination", examDate)
	r.field(doc, "Time of Examination", examTime)
	if app.ExamInfo.CenterName != "" {
		r.field(doc, "Examination Center", app.ExamInfo.CenterName)
	}
	doc.Ln(3)

	doc.SetFont("Helvetica", "", 11)
	r.field(doc, "Name of the Candidate", app.PersonalInfo.Name)
	r.field(doc, "Date of Birth", app.PersonalInfo.DateOfBirth)
	r.field(doc, "Name of Father", app.PersonalInfo.FatherName)
	doc.Ln(2)

	addr := fmt.Sprintf("%s, %s, %s, %s, %s, %s",
		app.AddressInfo.Place, app.AddressInfo.Mahallu, app.AddressInfo.PostOffice,
		app.AddressInfo.PinCode, app.AddressInfo.District, app.AddressInfo.State)
	r.field(doc, "Address", addr)
	r.field(doc, "Mobile Number", app.ContactInfo.MobileNumber)
	r.field(doc, "Medium", app.EducationalInfo.Medium)

	doc.Ln(16)
	doc.CellFormat(63, 6, "____________________", "", 0, "L", false, 0, "")
	doc.CellFormat(63, 6, "____________________", "", 0, "C", false, 0, "")
	doc.CellFormat(63, 6, "____________________", "", 1, "R", false, 0, "")
	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(63, 5, "Signature of Parent/Guardian", "", 0, "L", false, 0, "")
	doc.CellFormat(63, 5, "Signature of Candidate", "", 0, "C", false, 0, "")
	doc.CellFormat(63, 5, "Signature of Invigilator", "", 1, "R", false, 0, "")

	r.section(doc, "Important Instructions")
	doc.SetFont("Helvetica", "", 10)
	instructions := []string{
		"1. Candidates should reach the examination center 30 minutes before the examination.",
		"2. Candidates must bring this admit card to the examination hall.",
		"3. No electronic devices are allowed in the examination hall.",
		"4. Candidates must follow all instructions given by the invigilator.",
	}
	for _, line := range instructions {
		doc.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
