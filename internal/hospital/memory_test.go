package hospital

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_ListDepartmentsSortedByName(t *testing.T) {
	repo := NewMemoryRepository(DefaultDataset())

	deps, err := repo.ListDepartments(context.Background())
	require.NoError(t, err)
	require.Len(t, deps, 5)

	for i := 1; i < len(deps); i++ {
		assert.LessOrEqual(t, deps[i-1].Name, deps[i].Name)
	}
}

func TestMemoryRepository_ListDoctorsFiltersByDepartment(t *testing.T) {
	repo := NewMemoryRepository(DefaultDataset())
	ctx := context.Background()

	all, err := repo.ListDoctors(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 8)

	neuro, err := repo.ListDoctors(ctx, "dept2")
	require.NoError(t, err)
	require.Len(t, neuro, 2)
	for _, d := range neuro {
		assert.Equal(t, "dept2", d.DepartmentID)
	}
}

func TestMemoryRepository_GetDepartmentNotFound(t *testing.T) {
	repo := NewMemoryRepository(DefaultDataset())

	_, err := repo.GetDepartment(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrDepartmentNotFound)
}

func TestMemoryRepository_FindDoctorByEmailIgnoresCase(t *testing.T) {
	repo := NewMemoryRepository(DefaultDataset())

	doc, err := repo.FindDoctorByEmail(context.Background(), "ALICE.SMITH@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, "doc1", doc.ID)

	_, err = repo.FindDoctorByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestMemoryRepository_RegisterDoctorDuplicate(t *testing.T) {
	repo := NewMemoryRepository(DefaultDataset())
	ctx := context.Background()

	_, err := repo.RegisterDoctor(ctx, DoctorRegistration{
		Name:         "Dr. Clone",
		Email:        "Bob.Johnson@Example.com",
		DepartmentID: "dept1",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	doc, err := repo.RegisterDoctor(ctx, DoctorRegistration{
		Name:         "Dr. Fresh",
		Email:        "Fresh.Doctor@Example.com",
		DepartmentID: "dept5",
		Specialty:    "General Practitioner",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "fresh.doctor@example.com", doc.Email)
}

func TestMemoryRepository_ListAppointmentsNewestFirst(t *testing.T) {
	now := time.Now()
	ds := Dataset{
		Appointments: []Appointment{
			{ID: "old", DoctorID: "doc1", PatientEmail: "p@example.com", Date: now.AddDate(0, 0, 1)},
			{ID: "new", DoctorID: "doc1", PatientEmail: "p@example.com", Date: now.AddDate(0, 0, 9)},
			{ID: "mid", DoctorID: "doc2", PatientEmail: "p@example.com", Date: now.AddDate(0, 0, 4)},
		},
	}
	repo := NewMemoryRepository(ds)

	appts, err := repo.ListAppointments(context.Background(), AppointmentFilter{PatientEmail: "P@Example.COM"})
	require.NoError(t, err)
	require.Len(t, appts, 3)
	assert.Equal(t, "new", appts[0].ID)
	assert.Equal(t, "mid", appts[1].ID)
	assert.Equal(t, "old", appts[2].ID)

	byDoctor, err := repo.ListAppointments(context.Background(), AppointmentFilter{DoctorID: "doc2"})
	require.NoError(t, err)
	require.Len(t, byDoctor, 1)
	assert.Equal(t, "mid", byDoctor[0].ID)
}

func TestMemoryRepository_AppointmentsForDoctorOnDay(t *testing.T) {
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local)
	ds := Dataset{
		Appointments: []Appointment{
			{ID: "morning", DoctorID: "doc1", Date: day.Add(9 * time.Hour)},
			{ID: "evening", DoctorID: "doc1", Date: day.Add(23 * time.Hour)},
			{ID: "nextday", DoctorID: "doc1", Date: day.AddDate(0, 0, 1)},
			{ID: "other", DoctorID: "doc2", Date: day.Add(9 * time.Hour)},
		},
	}
	repo := NewMemoryRepository(ds)

	appts, err := repo.AppointmentsForDoctorOnDay(context.Background(), "doc1", day.Add(14*time.Hour))
	require.NoError(t, err)
	require.Len(t, appts, 2)

	ids := map[string]bool{}
	for _, a := range appts {
		ids[a.ID] = true
	}
	assert.True(t, ids["morning"])
	assert.True(t, ids["evening"])
}

func TestMemoryRepository_InsertAppointmentIsolatedFromDataset(t *testing.T) {
	ds := Dataset{}
	repo := NewMemoryRepository(ds)

	appt, err := repo.InsertAppointment(context.Background(), NewAppointment{
		DepartmentID: "dept1",
		DoctorID:     "doc1",
		Date:         time.Now(),
		TimeSlot:     SlotTemplate()[0],
		PatientName:  "P",
		PatientEmail: "Upper.Case@Example.com",
		PatientPhone: "1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, "upper.case@example.com", appt.PatientEmail)

	assert.Empty(t, ds.Appointments, "dataset passed by value stays untouched")
}
