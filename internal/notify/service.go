package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/medibook/hospital-booking/internal/hospital"
	"github.com/medibook/hospital-booking/pkg/logging"
)

const dispatchTimeout = 15 * time.Second

// Service sends booking confirmations. Sends are best-effort: failures are
// logged and never reported back to the booking transaction.
type Service struct {
	email  EmailSender
	sms    SMSSender
	logger *logging.Logger
}

func NewService(email EmailSender, sms SMSSender, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if email == nil {
		email = NewStubEmailSender(logger)
	}
	if sms == nil {
		sms = NewStubSMSSender(logger)
	}
	return &Service{
		email:  email,
		sms:    sms,
		logger: logger,
	}
}

// DispatchBookingConfirmation sends the confirmation email and SMS in the
// background, detached from the request context.
func (s *Service) DispatchBookingConfirmation(appt hospital.Appointment) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		s.SendBookingConfirmation(ctx, appt)
	}()
}

// SendBookingConfirmation sends both channels synchronously. Errors are
// logged only; a lost confirmation never unwinds a committed booking.
func (s *Service) SendBookingConfirmation(ctx context.Context, appt hospital.Appointment) {
	dateLong := appt.Date.Format("Monday, January 02, 2006")

	msg := EmailMessage{
		To:      appt.PatientEmail,
		ToName:  appt.PatientName,
		Subject: fmt.Sprintf("Appointment Confirmation: %s on %s", appt.DoctorName, appt.Date.Format("January 2, 2006")),
		Body: fmt.Sprintf(
			"Dear %s,\n\nYour appointment with %s (%s) is confirmed for %s at %s.\n\nThank you for using MediBook.",
			appt.PatientName, appt.DoctorName, appt.DepartmentName, dateLong, appt.TimeSlot.StartTime,
		),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("confirmation email failed", "error", err, "appointment_id", appt.ID)
	}

	smsBody := fmt.Sprintf(
		"Your appointment with %s on %s at %s is confirmed. - MediBook",
		appt.DoctorName, appt.Date.Format("Jan 2, 2006"), appt.TimeSlot.StartTime,
	)
	if err := s.sms.SendSMS(ctx, appt.PatientPhone, smsBody); err != nil {
		s.logger.Error("confirmation sms failed", "error", err, "appointment_id", appt.ID)
	}
}
