package pdf

import (
	"bytes"
	"testing"
	"time"

	"admitdesk/internal/common"
	"admitdesk/internal/domain/application"
)

func sampleApplication() *application.Application {
	return &application.Application{
		ID:            common.NewUUID(),
		UserID:        "uid-1",
		ApplicationNo: "EXM20260042",
		PersonalInfo: application.PersonalInfo{
			Name:        "Ayesha Rahman",
			FatherName:  "Abdul Rahman",
			MotherName:  "Fatima Rahman",
			DateOfBirth: "12/05/2009",
		},
		AddressInfo: application.AddressInfo{
			Place:      "Kozhikode",
			PostOffice: "Feroke",
			PinCode:    "673631",
			District:   "Kozhikode",
			State:      "Kerala",
		},
		ContactInfo: application.ContactInfo{
			MobileNumber: "+911234567890",
			Email:        "ayesha@example.com",
		},
		EducationalInfo: application.EducationalInfo{
			School: "Government HSS Feroke",
			Medium: "English",
		},
		PaymentInfo: application.PaymentInfo{
			TransactionID: "pay_test_1",
			Amount:        500,
			Status:        application.PaymentCompleted,
		},
		Status: application.Status{
			AppliedAt: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC),
		},
	}
}

func TestApplicationFormRendersPDF(t *testing.T) {
	renderer := NewRenderer()
	out, err := renderer.ApplicationForm(sampleApplication())
	if err != nil {
		t.Fatalf("ApplicationForm: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("empty document")
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not start with %%PDF, got %q", out[:8])
	}
}

func TestHallTicketRendersPDF(t *testing.T) {
	renderer := NewRenderer()
	app := sampleApplication()
	app.ExamInfo = application.ExamInfo{
		CenterName: "Main Campus Hall A",
		ExamDate:   "15/03/2026",
		ExamTime:   "10:00 AM",
	}

	out, err := renderer.HallTicket(app)
	if err != nil {
		t.Fatalf("HallTicket: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("output is not a PDF document")
	}
}

func TestHallTicketWithoutSchedule(t *testing.T) {
	renderer := NewRenderer()
	out, err := renderer.HallTicket(sampleApplication())
	if err != nil {
		t.Fatalf("HallTicket: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatal("output is not a PDF document")
	}
}
