package hospital

import (
	"context"
	"errors"
	"time"
)

var (
	ErrDepartmentNotFound = errors.New("department not found")
	ErrDoctorNotFound     = errors.New("doctor not found")
	ErrDuplicateEmail     = errors.New("doctor with this email already exists")
	ErrBackendUnavailable = errors.New("backing store unavailable")
)

// DoctorRegistration carries the fields a doctor supplies at registration.
// The repository assigns the id and normalizes the email to lower case.
type DoctorRegistration struct {
	Name         string
	Email        string
	DepartmentID string
	Specialty    string
}

// NewAppointment carries a fully resolved booking ready for insertion.
// Department and doctor names have already been snapshotted by the caller.
type NewAppointment struct {
	DepartmentID   string
	DepartmentName string
	DoctorID       string
	DoctorName     string
	Date           time.Time
	TimeSlot       TimeSlot
	PatientName    string
	PatientEmail   string
	PatientPhone   string
}

// AppointmentFilter narrows appointment listings. Zero-value fields are
// ignored; an empty filter lists everything.
type AppointmentFilter struct {
	PatientEmail string
	DoctorID     string
}

// Repository is the uniform access contract over the backing store. The
// in-memory dataset and the remote document store implement identical query
// semantics behind it.
type Repository interface {
	// ListDepartments returns all departments ordered by name.
	ListDepartments(ctx context.Context) ([]Department, error)
	// GetDepartment returns ErrDepartmentNotFound on a miss.
	GetDepartment(ctx context.Context, id string) (*Department, error)

	// ListDoctors returns doctors ordered by name, filtered by department
	// when departmentID is non-empty.
	ListDoctors(ctx context.Context, departmentID string) ([]Doctor, error)
	// GetDoctor returns ErrDoctorNotFound on a miss.
	GetDoctor(ctx context.Context, id string) (*Doctor, error)
	// FindDoctorByEmail matches case-insensitively and returns
	// ErrDoctorNotFound on a miss.
	FindDoctorByEmail(ctx context.Context, email string) (*Doctor, error)
	// RegisterDoctor assigns a fresh id and fails with ErrDuplicateEmail if
	// a doctor with the same normalized email already exists.
	RegisterDoctor(ctx context.Context, reg DoctorRegistration) (*Doctor, error)

	// ListAppointments returns matching appointments ordered by date
	// descending.
	ListAppointments(ctx context.Context, f AppointmentFilter) ([]Appointment, error)
	// AppointmentsForDoctorOnDay returns the doctor's appointments whose
	// date falls on the same calendar day, in no particular order.
	AppointmentsForDoctorOnDay(ctx context.Context, doctorID string, day time.Time) ([]Appointment, error)
	// InsertAppointment assigns a fresh unique id and stores the record.
	InsertAppointment(ctx context.Context, na NewAppointment) (*Appointment, error)
}
