package wizard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibook/hospital-booking/internal/hospital"
)

type recordingNotifier struct {
	mu    sync.Mutex
	appts []hospital.Appointment
}

func (n *recordingNotifier) DispatchBookingConfirmation(appt hospital.Appointment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.appts = append(n.appts, appt)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.appts)
}

func newWizardUnderTest(t *testing.T, ds hospital.Dataset) (*Wizard, *recordingNotifier, *hospital.Service) {
	t.Helper()
	svc := hospital.NewService(hospital.NewMemoryRepository(ds), nil, nil)
	notifier := &recordingNotifier{}
	return New(svc, notifier, nil), notifier, svc
}

func testDepartment() hospital.Department {
	return hospital.Department{ID: "dept1", Name: "Cardiology"}
}

func testDoctor() hospital.Doctor {
	return hospital.Doctor{ID: "doc1", Name: "Dr. Alice Smith", Email: "alice.smith@example.com", DepartmentID: "dept1"}
}

// advanceToConfirmation walks the department branch up to the confirmation
// step with a fully populated draft.
func advanceToConfirmation(t *testing.T, w *Wizard, date time.Time, slot hospital.TimeSlot) {
	t.Helper()
	require.NoError(t, w.ChooseMethod(SearchByDepartment))
	require.NoError(t, w.SelectDepartment(testDepartment()))
	require.NoError(t, w.SelectDoctor(context.Background(), testDoctor()))
	require.NoError(t, w.SelectSlot(date, slot))
	require.NoError(t, w.SubmitPatientInfo("John Patient", "john.patient@example.com", "123-456-7890"))
	require.Equal(t, StepConfirmation, w.Step())
}

func TestWizard_DepartmentBranchToCompletion(t *testing.T) {
	w, notifier, svc := newWizardUnderTest(t, hospital.DefaultDataset())
	date := time.Now().AddDate(0, 0, 10)
	slot := hospital.SlotTemplate()[3]

	advanceToConfirmation(t, w, date, slot)

	d := w.Draft()
	require.NotNil(t, d.Department)
	require.NotNil(t, d.Doctor)
	require.NotNil(t, d.Date)
	require.NotNil(t, d.TimeSlot)
	assert.Equal(t, "John Patient", d.PatientName)
	assert.Equal(t, "john.patient@example.com", d.PatientEmail)
	assert.Equal(t, "123-456-7890", d.PatientPhone)

	appt, err := w.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StepCompleted, w.Step())
	assert.Equal(t, "ts4", appt.TimeSlot.ID)
	assert.Equal(t, "Dr. Alice Smith", appt.DoctorName)
	assert.Equal(t, 1, notifier.count())

	// The committed appointment shows up in listings.
	appts, err := svc.Appointments(context.Background(), hospital.AppointmentFilter{PatientEmail: "john.patient@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, appts)
	assert.Equal(t, appt.ID, appts[0].ID)
}

func TestWizard_NearMeBranchSkipsDepartmentAndBackfills(t *testing.T) {
	w, _, _ := newWizardUnderTest(t, hospital.DefaultDataset())

	require.NoError(t, w.ChooseMethod(SearchNearMe))
	assert.Equal(t, StepSelectDoctor, w.Step())
	assert.True(t, w.Proximity())

	require.NoError(t, w.SelectDoctor(context.Background(), testDoctor()))

	d := w.Draft()
	require.NotNil(t, d.Department)
	assert.Equal(t, "dept1", d.Department.ID)
	assert.Equal(t, "Cardiology", d.Department.Name)
}

func TestWizard_NearMeBranchPlaceholderWhenDepartmentUnknown(t *testing.T) {
	// Empty dataset: the doctor's department cannot be resolved.
	w, _, _ := newWizardUnderTest(t, hospital.Dataset{})

	require.NoError(t, w.ChooseMethod(SearchNearMe))
	require.NoError(t, w.SelectDoctor(context.Background(), testDoctor()))

	d := w.Draft()
	require.NotNil(t, d.Department)
	assert.Equal(t, hospital.UnknownDepartment.ID, d.Department.ID)
	assert.Equal(t, "Dept. for Dr. Alice Smith", d.Department.Name)
}

func TestWizard_BackUnwindsEveryStep(t *testing.T) {
	w, _, _ := newWizardUnderTest(t, hospital.DefaultDataset())
	date := time.Now().AddDate(0, 0, 10)

	advanceToConfirmation(t, w, date, hospital.SlotTemplate()[0])

	// Confirmation -> PatientInfo keeps the contact fields.
	w.Back()
	assert.Equal(t, StepPatientInfo, w.Step())
	assert.Equal(t, "John Patient", w.Draft().PatientName)

	// PatientInfo -> SelectDateTime clears contact fields only.
	w.Back()
	assert.Equal(t, StepSelectDateTime, w.Step())
	d := w.Draft()
	assert.Empty(t, d.PatientName)
	assert.Empty(t, d.PatientEmail)
	assert.Empty(t, d.PatientPhone)
	assert.NotNil(t, d.Date)
	assert.NotNil(t, d.TimeSlot)

	// SelectDateTime -> SelectDoctor clears date and slot.
	w.Back()
	assert.Equal(t, StepSelectDoctor, w.Step())
	d = w.Draft()
	assert.Nil(t, d.Date)
	assert.Nil(t, d.TimeSlot)
	assert.NotNil(t, d.Doctor)

	// SelectDoctor -> SelectDepartment clears the doctor.
	w.Back()
	assert.Equal(t, StepSelectDepartment, w.Step())
	d = w.Draft()
	assert.Nil(t, d.Doctor)
	assert.NotNil(t, d.Department)

	// SelectDepartment -> entry clears everything.
	w.Back()
	assert.Equal(t, StepChooseSearchMethod, w.Step())
	assert.Equal(t, Draft{}, w.Draft())

	// Back at the entry step is a no-op.
	w.Back()
	assert.Equal(t, StepChooseSearchMethod, w.Step())
}

func TestWizard_BackFromDoctorInNearMeBranch(t *testing.T) {
	w, _, _ := newWizardUnderTest(t, hospital.DefaultDataset())

	require.NoError(t, w.ChooseMethod(SearchNearMe))
	w.Back()

	assert.Equal(t, StepChooseSearchMethod, w.Step())
	assert.False(t, w.Proximity())
	assert.Equal(t, Draft{}, w.Draft())
}

func TestWizard_SlotUnavailableRoutesBackToScheduling(t *testing.T) {
	w, notifier, svc := newWizardUnderTest(t, hospital.DefaultDataset())
	date := time.Now().AddDate(0, 0, 10)
	slot := hospital.SlotTemplate()[2]

	// Another session grabs the slot first.
	_, err := svc.Book(context.Background(), hospital.BookingRequest{
		Department:   testDepartment(),
		Doctor:       testDoctor(),
		Date:         date,
		Slot:         slot,
		PatientName:  "Rival Patient",
		PatientEmail: "rival@example.com",
		PatientPhone: "555-0000",
	})
	require.NoError(t, err)

	advanceToConfirmation(t, w, date, slot)

	_, err = w.Confirm(context.Background())
	require.ErrorIs(t, err, hospital.ErrSlotUnavailable)

	// Session recovers at scheduling with the stale slot cleared and the
	// rest of the draft intact.
	assert.Equal(t, StepSelectDateTime, w.Step())
	d := w.Draft()
	assert.Nil(t, d.TimeSlot)
	assert.NotNil(t, d.Date)
	assert.NotNil(t, d.Doctor)
	assert.NotNil(t, d.Department)
	assert.Equal(t, "John Patient", d.PatientName)
	assert.Equal(t, 0, notifier.count())

	// Re-pick a free slot and finish.
	require.NoError(t, w.SelectSlot(date, hospital.SlotTemplate()[5]))
	require.NoError(t, w.SubmitPatientInfo("John Patient", "john.patient@example.com", "123-456-7890"))
	appt, err := w.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ts6", appt.TimeSlot.ID)
	assert.Equal(t, StepCompleted, w.Step())
}

func TestWizard_ConfirmWithGutteredDraftRestarts(t *testing.T) {
	w, _, _ := newWizardUnderTest(t, hospital.DefaultDataset())
	date := time.Now().AddDate(0, 0, 10)

	advanceToConfirmation(t, w, date, hospital.SlotTemplate()[0])

	// Simulate a corrupted session: blank out a required field behind the
	// wizard's back.
	w.draft.PatientEmail = ""

	_, err := w.Confirm(context.Background())
	require.ErrorIs(t, err, ErrIncompleteDraft)
	assert.Equal(t, StepChooseSearchMethod, w.Step())
	assert.Equal(t, Draft{}, w.Draft())
}

func TestWizard_InvalidTransitionsRejected(t *testing.T) {
	w, _, _ := newWizardUnderTest(t, hospital.DefaultDataset())
	ctx := context.Background()

	assert.ErrorIs(t, w.SelectDepartment(testDepartment()), ErrInvalidTransition)
	assert.ErrorIs(t, w.SelectDoctor(ctx, testDoctor()), ErrInvalidTransition)
	assert.ErrorIs(t, w.SelectSlot(time.Now(), hospital.SlotTemplate()[0]), ErrInvalidTransition)
	assert.ErrorIs(t, w.SubmitPatientInfo("a", "b", "c"), ErrInvalidTransition)

	_, err := w.Confirm(ctx)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, w.ChooseMethod(SearchByDepartment))
	assert.ErrorIs(t, w.ChooseMethod(SearchNearMe), ErrInvalidTransition)
}

func TestWizard_UnknownSearchMethodRejected(t *testing.T) {
	w, _, _ := newWizardUnderTest(t, hospital.DefaultDataset())

	err := w.ChooseMethod(SearchMethod("astrology"))
	require.Error(t, err)
	assert.Equal(t, StepChooseSearchMethod, w.Step())
}

func TestWizard_SubmitPatientInfoValidation(t *testing.T) {
	w, _, _ := newWizardUnderTest(t, hospital.DefaultDataset())
	date := time.Now().AddDate(0, 0, 10)

	require.NoError(t, w.ChooseMethod(SearchByDepartment))
	require.NoError(t, w.SelectDepartment(testDepartment()))
	require.NoError(t, w.SelectDoctor(context.Background(), testDoctor()))
	require.NoError(t, w.SelectSlot(date, hospital.SlotTemplate()[0]))

	require.Error(t, w.SubmitPatientInfo("  ", "p@example.com", "1"))
	assert.Equal(t, StepPatientInfo, w.Step())

	require.NoError(t, w.SubmitPatientInfo("  John Patient  ", " p@example.com ", " 1 "))
	d := w.Draft()
	assert.Equal(t, "John Patient", d.PatientName)
	assert.Equal(t, "p@example.com", d.PatientEmail)
	assert.Equal(t, "1", d.PatientPhone)
}

func TestWizard_RestartAfterCompletion(t *testing.T) {
	w, _, _ := newWizardUnderTest(t, hospital.DefaultDataset())
	date := time.Now().AddDate(0, 0, 10)

	advanceToConfirmation(t, w, date, hospital.SlotTemplate()[0])
	_, err := w.Confirm(context.Background())
	require.NoError(t, err)

	// Terminal step: back is a no-op, restart begins a fresh session.
	w.Back()
	assert.Equal(t, StepCompleted, w.Step())

	w.Restart()
	assert.Equal(t, StepChooseSearchMethod, w.Step())
	assert.Equal(t, Draft{}, w.Draft())
	assert.False(t, w.Proximity())
}
