package hospital

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps everything in process memory. It backs the demo
// when no remote store is configured and serves as the read fallback when
// one is. A single mutex keeps it safe within one process; it makes no
// claims across processes.
type MemoryRepository struct {
	mu           sync.RWMutex
	departments  []Department
	doctors      []Doctor
	appointments []Appointment
}

// NewMemoryRepository copies the dataset so the repository owns its state.
func NewMemoryRepository(ds Dataset) *MemoryRepository {
	r := &MemoryRepository{
		departments:  make([]Department, len(ds.Departments)),
		doctors:      make([]Doctor, len(ds.Doctors)),
		appointments: make([]Appointment, len(ds.Appointments)),
	}
	copy(r.departments, ds.Departments)
	copy(r.doctors, ds.Doctors)
	copy(r.appointments, ds.Appointments)
	return r
}

func (r *MemoryRepository) ListDepartments(ctx context.Context) ([]Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Department, len(r.departments))
	copy(out, r.departments)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepository) GetDepartment(ctx context.Context, id string) (*Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.departments {
		if d.ID == id {
			dep := d
			return &dep, nil
		}
	}
	return nil, ErrDepartmentNotFound
}

func (r *MemoryRepository) ListDoctors(ctx context.Context, departmentID string) ([]Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Doctor
	for _, d := range r.doctors {
		if departmentID == "" || d.DepartmentID == departmentID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepository) GetDoctor(ctx context.Context, id string) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.doctors {
		if d.ID == id {
			doc := d
			return &doc, nil
		}
	}
	return nil, ErrDoctorNotFound
}

func (r *MemoryRepository) FindDoctorByEmail(ctx context.Context, email string) (*Doctor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, d := range r.doctors {
		if strings.EqualFold(d.Email, email) {
			doc := d
			return &doc, nil
		}
	}
	return nil, ErrDoctorNotFound
}

func (r *MemoryRepository) RegisterDoctor(ctx context.Context, reg DoctorRegistration) (*Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.doctors {
		if strings.EqualFold(d.Email, reg.Email) {
			return nil, ErrDuplicateEmail
		}
	}

	doc := Doctor{
		ID:           uuid.NewString(),
		Name:         reg.Name,
		Email:        strings.ToLower(reg.Email),
		DepartmentID: reg.DepartmentID,
		Specialty:    reg.Specialty,
	}
	r.doctors = append(r.doctors, doc)
	return &doc, nil
}

func (r *MemoryRepository) ListAppointments(ctx context.Context, f AppointmentFilter) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Appointment
	for _, a := range r.appointments {
		if f.PatientEmail != "" && !strings.EqualFold(a.PatientEmail, f.PatientEmail) {
			continue
		}
		if f.DoctorID != "" && a.DoctorID != f.DoctorID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *MemoryRepository) AppointmentsForDoctorOnDay(ctx context.Context, doctorID string, day time.Time) ([]Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Appointment
	for _, a := range r.appointments {
		if a.DoctorID == doctorID && SameCalendarDay(a.Date, day) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *MemoryRepository) InsertAppointment(ctx context.Context, na NewAppointment) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appt := Appointment{
		ID:             uuid.NewString(),
		DepartmentID:   na.DepartmentID,
		DepartmentName: na.DepartmentName,
		DoctorID:       na.DoctorID,
		DoctorName:     na.DoctorName,
		Date:           na.Date,
		TimeSlot:       na.TimeSlot,
		PatientName:    na.PatientName,
		PatientEmail:   strings.ToLower(na.PatientEmail),
		PatientPhone:   na.PatientPhone,
	}
	r.appointments = append(r.appointments, appt)
	return &appt, nil
}

var _ Repository = (*MemoryRepository)(nil)
