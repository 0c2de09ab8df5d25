package hospital

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redisclient "github.com/medibook/hospital-booking/internal/redis"
	"github.com/medibook/hospital-booking/pkg/logging"
)

var (
	ErrSlotUnavailable = errors.New("time slot is no longer available")
	ErrInvalidBooking  = errors.New("booking request is incomplete")
)

// BookingRequest carries everything needed to commit one appointment.
type BookingRequest struct {
	Department   Department
	Doctor       Doctor
	Date         time.Time
	Slot         TimeSlot
	PatientName  string
	PatientEmail string
	PatientPhone string
}

func (r BookingRequest) validate() error {
	switch {
	case r.Doctor.ID == "",
		r.Department.ID == "",
		r.Slot.ID == "",
		r.Date.IsZero(),
		strings.TrimSpace(r.PatientName) == "",
		strings.TrimSpace(r.PatientEmail) == "",
		strings.TrimSpace(r.PatientPhone) == "":
		return ErrInvalidBooking
	}
	return nil
}

// Service implements slot availability and the booking transaction on top
// of the repository. A Locker serializes bookings for the same
// (doctor, day, slot) so concurrent sessions cannot both pass the
// availability re-check.
type Service struct {
	repo   Repository
	locker redisclient.Locker
	logger *logging.Logger
}

func NewService(repo Repository, locker redisclient.Locker, logger *logging.Logger) *Service {
	if locker == nil {
		locker = redisclient.NewNoopLocker()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:   repo,
		locker: locker,
		logger: logger,
	}
}

// AvailableSlots returns the daily template minus the slot ids already
// booked for the doctor on the same calendar day, in template order.
// Rejecting past dates is the caller's concern, not this engine's.
func (s *Service) AvailableSlots(ctx context.Context, doctorID string, date time.Time) ([]TimeSlot, error) {
	appts, err := s.repo.AppointmentsForDoctorOnDay(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("load booked slots: %w", err)
	}

	booked := make(map[string]struct{}, len(appts))
	for _, a := range appts {
		booked[a.TimeSlot.ID] = struct{}{}
	}

	var free []TimeSlot
	for _, slot := range SlotTemplate() {
		if _, taken := booked[slot.ID]; !taken {
			free = append(free, slot)
		}
	}
	return free, nil
}

// Book re-derives availability at commit time and inserts the appointment
// only if the requested slot is still free. The availability re-check runs
// inside the booking lock; without a configured lock it is a plain
// check-then-act and only single-process safe.
func (s *Service) Book(ctx context.Context, req BookingRequest) (*Appointment, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var created *Appointment

	err := s.locker.WithBookingLock(ctx, req.Doctor.ID, req.Date, req.Slot.ID, func(lockCtx context.Context) error {
		free, err := s.AvailableSlots(lockCtx, req.Doctor.ID, req.Date)
		if err != nil {
			return err
		}

		available := false
		for _, slot := range free {
			if slot.ID == req.Slot.ID {
				available = true
				break
			}
		}
		if !available {
			return ErrSlotUnavailable
		}

		appt, err := s.repo.InsertAppointment(lockCtx, NewAppointment{
			DepartmentID:   req.Department.ID,
			DepartmentName: req.Department.Name,
			DoctorID:       req.Doctor.ID,
			DoctorName:     req.Doctor.Name,
			Date:           req.Date,
			TimeSlot:       req.Slot,
			PatientName:    req.PatientName,
			PatientEmail:   strings.ToLower(req.PatientEmail),
			PatientPhone:   req.PatientPhone,
		})
		if err != nil {
			return fmt.Errorf("insert appointment: %w", err)
		}

		created = appt
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			// Someone else is committing this exact slot right now.
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	s.logger.Info("appointment booked",
		"appointment_id", created.ID,
		"doctor_id", created.DoctorID,
		"slot_id", created.TimeSlot.ID,
		"date", created.Date.Format("2006-01-02"),
	)

	return created, nil
}

// RegisterDoctor creates a doctor account, rejecting duplicate emails.
func (s *Service) RegisterDoctor(ctx context.Context, reg DoctorRegistration) (*Doctor, error) {
	if strings.TrimSpace(reg.Name) == "" || strings.TrimSpace(reg.Email) == "" || reg.DepartmentID == "" {
		return nil, fmt.Errorf("name, email and department are required")
	}

	doc, err := s.repo.RegisterDoctor(ctx, reg)
	if err != nil {
		return nil, err
	}

	s.logger.Info("doctor registered", "doctor_id", doc.ID, "department_id", doc.DepartmentID)
	return doc, nil
}

// DoctorByEmail resolves the doctor login key.
func (s *Service) DoctorByEmail(ctx context.Context, email string) (*Doctor, error) {
	return s.repo.FindDoctorByEmail(ctx, email)
}

func (s *Service) Departments(ctx context.Context) ([]Department, error) {
	return s.repo.ListDepartments(ctx)
}

func (s *Service) Department(ctx context.Context, id string) (*Department, error) {
	return s.repo.GetDepartment(ctx, id)
}

func (s *Service) Doctor(ctx context.Context, id string) (*Doctor, error) {
	return s.repo.GetDoctor(ctx, id)
}

func (s *Service) Doctors(ctx context.Context, departmentID string) ([]Doctor, error) {
	return s.repo.ListDoctors(ctx, departmentID)
}

func (s *Service) Appointments(ctx context.Context, f AppointmentFilter) ([]Appointment, error) {
	return s.repo.ListAppointments(ctx, f)
}
