package hospital

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medibook/hospital-booking/pkg/logging"
)

// FallbackRepository wraps the remote backing with the in-memory dataset.
// Reads that fail against the remote are served from the local dataset
// within the same call, so callers never observe a failed read, only a
// possibly-stale result. Business-rule failures (not-found, duplicate
// email) are not storage failures and pass through unchanged.
//
// Writes are not replayed locally: a remote write failure surfaces as
// ErrBackendUnavailable so the caller can drive its own recovery.
type FallbackRepository struct {
	remote Repository
	local  Repository
	logger *logging.Logger
}

func NewFallbackRepository(remote, local Repository, logger *logging.Logger) *FallbackRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackRepository{
		remote: remote,
		local:  local,
		logger: logger,
	}
}

// businessErr reports whether err is a rule violation rather than a
// storage failure.
func businessErr(err error) bool {
	return errors.Is(err, ErrDepartmentNotFound) ||
		errors.Is(err, ErrDoctorNotFound) ||
		errors.Is(err, ErrDuplicateEmail)
}

func (r *FallbackRepository) ListDepartments(ctx context.Context) ([]Department, error) {
	deps, err := r.remote.ListDepartments(ctx)
	if err != nil {
		r.logger.Warn("remote store failed, serving departments from fallback", "error", err)
		return r.local.ListDepartments(ctx)
	}
	return deps, nil
}

func (r *FallbackRepository) GetDepartment(ctx context.Context, id string) (*Department, error) {
	dep, err := r.remote.GetDepartment(ctx, id)
	if err != nil && !businessErr(err) {
		r.logger.Warn("remote store failed, serving department from fallback", "id", id, "error", err)
		return r.local.GetDepartment(ctx, id)
	}
	return dep, err
}

func (r *FallbackRepository) ListDoctors(ctx context.Context, departmentID string) ([]Doctor, error) {
	docs, err := r.remote.ListDoctors(ctx, departmentID)
	if err != nil {
		r.logger.Warn("remote store failed, serving doctors from fallback", "department_id", departmentID, "error", err)
		return r.local.ListDoctors(ctx, departmentID)
	}
	return docs, nil
}

func (r *FallbackRepository) GetDoctor(ctx context.Context, id string) (*Doctor, error) {
	doc, err := r.remote.GetDoctor(ctx, id)
	if err != nil && !businessErr(err) {
		r.logger.Warn("remote store failed, serving doctor from fallback", "id", id, "error", err)
		return r.local.GetDoctor(ctx, id)
	}
	return doc, err
}

func (r *FallbackRepository) FindDoctorByEmail(ctx context.Context, email string) (*Doctor, error) {
	doc, err := r.remote.FindDoctorByEmail(ctx, email)
	if err != nil && !businessErr(err) {
		r.logger.Warn("remote store failed, looking up doctor in fallback", "error", err)
		return r.local.FindDoctorByEmail(ctx, email)
	}
	return doc, err
}

func (r *FallbackRepository) RegisterDoctor(ctx context.Context, reg DoctorRegistration) (*Doctor, error) {
	doc, err := r.remote.RegisterDoctor(ctx, reg)
	if err != nil && !businessErr(err) {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return doc, err
}

func (r *FallbackRepository) ListAppointments(ctx context.Context, f AppointmentFilter) ([]Appointment, error) {
	appts, err := r.remote.ListAppointments(ctx, f)
	if err != nil {
		r.logger.Warn("remote store failed, serving appointments from fallback", "error", err)
		return r.local.ListAppointments(ctx, f)
	}
	return appts, nil
}

func (r *FallbackRepository) AppointmentsForDoctorOnDay(ctx context.Context, doctorID string, day time.Time) ([]Appointment, error) {
	appts, err := r.remote.AppointmentsForDoctorOnDay(ctx, doctorID, day)
	if err != nil {
		r.logger.Warn("remote store failed, serving day appointments from fallback", "doctor_id", doctorID, "error", err)
		return r.local.AppointmentsForDoctorOnDay(ctx, doctorID, day)
	}
	return appts, nil
}

func (r *FallbackRepository) InsertAppointment(ctx context.Context, na NewAppointment) (*Appointment, error) {
	appt, err := r.remote.InsertAppointment(ctx, na)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	return appt, nil
}

var _ Repository = (*FallbackRepository)(nil)
