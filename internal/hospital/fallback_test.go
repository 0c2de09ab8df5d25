package hospital

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyRepository fails every call with the configured error, or delegates
// to inner when err is nil.
type flakyRepository struct {
	inner Repository
	err   error
}

func (f *flakyRepository) call() error { return f.err }

func (f *flakyRepository) ListDepartments(ctx context.Context) ([]Department, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	return f.inner.ListDepartments(ctx)
}

func (f *flakyRepository) GetDepartment(ctx context.Context, id string) (*Department, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	return f.inner.GetDepartment(ctx, id)
}

func (f *flakyRepository) ListDoctors(ctx context.Context, departmentID string) ([]Doctor, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	return f.inner.ListDoctors(ctx, departmentID)
}

func (f *flakyRepository) GetDoctor(ctx context.Context, id string) (*Doctor, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	return f.inner.GetDoctor(ctx, id)
}

func (f *flakyRepository) FindDoctorByEmail(ctx context.Context, email string) (*Doctor, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	return f.inner.FindDoctorByEmail(ctx, email)
}

func (f *flakyRepository) RegisterDoctor(ctx context.Context, reg DoctorRegistration) (*Doctor, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	return f.inner.RegisterDoctor(ctx, reg)
}

func (f *flakyRepository) ListAppointments(ctx context.Context, filter AppointmentFilter) ([]Appointment, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	return f.inner.ListAppointments(ctx, filter)
}

func (f *flakyRepository) AppointmentsForDoctorOnDay(ctx context.Context, doctorID string, day time.Time) ([]Appointment, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	return f.inner.AppointmentsForDoctorOnDay(ctx, doctorID, day)
}

func (f *flakyRepository) InsertAppointment(ctx context.Context, na NewAppointment) (*Appointment, error) {
	if err := f.call(); err != nil {
		return nil, err
	}
	return f.inner.InsertAppointment(ctx, na)
}

var _ Repository = (*flakyRepository)(nil)

func TestFallback_ReadsServedLocallyWhenRemoteDown(t *testing.T) {
	remote := &flakyRepository{err: errors.New("connection refused")}
	local := NewMemoryRepository(DefaultDataset())
	repo := NewFallbackRepository(remote, local, nil)
	ctx := context.Background()

	deps, err := repo.ListDepartments(ctx)
	require.NoError(t, err)
	assert.Len(t, deps, 5)

	dep, err := repo.GetDepartment(ctx, "dept1")
	require.NoError(t, err)
	assert.Equal(t, "Cardiology", dep.Name)

	docs, err := repo.ListDoctors(ctx, "dept1")
	require.NoError(t, err)
	assert.Len(t, docs, 3)

	doc, err := repo.FindDoctorByEmail(ctx, "alice.smith@example.com")
	require.NoError(t, err)
	assert.Equal(t, "doc1", doc.ID)

	appts, err := repo.ListAppointments(ctx, AppointmentFilter{})
	require.NoError(t, err)
	assert.Len(t, appts, 3)
}

func TestFallback_ReadsPreferRemoteWhenHealthy(t *testing.T) {
	remoteInner := NewMemoryRepository(Dataset{
		Departments: []Department{{ID: "remote-dept", Name: "Remote Cardiology"}},
	})
	remote := &flakyRepository{inner: remoteInner}
	local := NewMemoryRepository(DefaultDataset())
	repo := NewFallbackRepository(remote, local, nil)

	deps, err := repo.ListDepartments(context.Background())
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "remote-dept", deps[0].ID)
}

func TestFallback_BusinessErrorsPassThrough(t *testing.T) {
	remote := &flakyRepository{inner: NewMemoryRepository(DefaultDataset())}
	local := NewMemoryRepository(Dataset{})
	repo := NewFallbackRepository(remote, local, nil)
	ctx := context.Background()

	_, err := repo.GetDepartment(ctx, "missing")
	assert.ErrorIs(t, err, ErrDepartmentNotFound)

	_, err = repo.FindDoctorByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	_, err = repo.RegisterDoctor(ctx, DoctorRegistration{
		Name:         "Dr. Clone",
		Email:        "alice.smith@example.com",
		DepartmentID: "dept1",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.NotErrorIs(t, err, ErrBackendUnavailable)
}

func TestFallback_WritesSurfaceBackendUnavailable(t *testing.T) {
	remote := &flakyRepository{err: errors.New("connection refused")}
	local := NewMemoryRepository(DefaultDataset())
	repo := NewFallbackRepository(remote, local, nil)
	ctx := context.Background()

	_, err := repo.InsertAppointment(ctx, NewAppointment{
		DoctorID:     "doc1",
		Date:         time.Now(),
		TimeSlot:     SlotTemplate()[0],
		PatientName:  "P",
		PatientEmail: "p@example.com",
		PatientPhone: "1",
	})
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	_, err = repo.RegisterDoctor(ctx, DoctorRegistration{
		Name:         "Dr. New",
		Email:        "new@example.com",
		DepartmentID: "dept1",
	})
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	// The failed write must not leak into the local dataset.
	appts, err := local.ListAppointments(ctx, AppointmentFilter{PatientEmail: "p@example.com"})
	require.NoError(t, err)
	assert.Empty(t, appts)
}
