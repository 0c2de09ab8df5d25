// Package wizard drives the ordered step sequence of one patient booking
// session. Transitions are table-driven so every (step, event) pair and the
// draft fields it clears can be enumerated.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/medibook/hospital-booking/internal/hospital"
	"github.com/medibook/hospital-booking/pkg/logging"
)

// Step is one wizard state, ordered, terminal last.
type Step int

const (
	StepChooseSearchMethod Step = iota
	StepSelectDepartment
	StepSelectDoctor
	StepSelectDateTime
	StepPatientInfo
	StepConfirmation
	StepCompleted
)

func (s Step) String() string {
	switch s {
	case StepChooseSearchMethod:
		return "choose_search_method"
	case StepSelectDepartment:
		return "select_department"
	case StepSelectDoctor:
		return "select_doctor"
	case StepSelectDateTime:
		return "select_date_time"
	case StepPatientInfo:
		return "patient_info"
	case StepConfirmation:
		return "confirmation"
	case StepCompleted:
		return "completed"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// SearchMethod selects the wizard entry branch.
type SearchMethod string

const (
	SearchByDepartment SearchMethod = "department"
	SearchNearMe       SearchMethod = "nearMe"
)

var (
	ErrInvalidTransition = errors.New("event not valid in current step")
	ErrIncompleteDraft   = errors.New("booking draft is incomplete")
)

// Draft accumulates the selections of one session. It is never persisted;
// it lives exactly as long as the wizard instance.
type Draft struct {
	Department   *hospital.Department
	Doctor       *hospital.Doctor
	Date         *time.Time
	TimeSlot     *hospital.TimeSlot
	PatientName  string
	PatientEmail string
	PatientPhone string
}

// field names one clearable draft slot for the back-transition table.
type field int

const (
	fieldDepartment field = iota
	fieldDoctor
	fieldDate
	fieldTimeSlot
	fieldPatientInfo
)

func (d *Draft) clear(fields ...field) {
	for _, f := range fields {
		switch f {
		case fieldDepartment:
			d.Department = nil
		case fieldDoctor:
			d.Doctor = nil
		case fieldDate:
			d.Date = nil
		case fieldTimeSlot:
			d.TimeSlot = nil
		case fieldPatientInfo:
			d.PatientName = ""
			d.PatientEmail = ""
			d.PatientPhone = ""
		}
	}
}

type backKey struct {
	from      Step
	proximity bool
}

type backRule struct {
	to     Step
	clears []field
}

// backRules is the full backward-transition table. The proximity flag only
// matters when leaving SelectDoctor, where the two entry branches rejoin.
var backRules = map[backKey]backRule{
	{StepSelectDepartment, false}: {StepChooseSearchMethod, []field{fieldDepartment, fieldDoctor, fieldDate, fieldTimeSlot}},
	{StepSelectDoctor, false}:     {StepSelectDepartment, []field{fieldDoctor, fieldDate, fieldTimeSlot}},
	{StepSelectDoctor, true}:      {StepChooseSearchMethod, []field{fieldDepartment, fieldDoctor, fieldDate, fieldTimeSlot}},
	{StepSelectDateTime, false}:   {StepSelectDoctor, []field{fieldDate, fieldTimeSlot}},
	{StepPatientInfo, false}:      {StepSelectDateTime, []field{fieldPatientInfo}},
	{StepConfirmation, false}:     {StepPatientInfo, nil},
}

// Notifier dispatches post-commit confirmations off the critical path.
type Notifier interface {
	DispatchBookingConfirmation(appt hospital.Appointment)
}

// Wizard is a single booking session. It is driven by one user's
// sequential interactions and is not safe for concurrent use.
type Wizard struct {
	svc      *hospital.Service
	notifier Notifier
	logger   *logging.Logger

	step      Step
	draft     Draft
	proximity bool
}

func New(svc *hospital.Service, notifier Notifier, logger *logging.Logger) *Wizard {
	if logger == nil {
		logger = logging.Default()
	}
	return &Wizard{
		svc:      svc,
		notifier: notifier,
		logger:   logger,
		step:     StepChooseSearchMethod,
	}
}

// Step returns the current state.
func (w *Wizard) Step() Step {
	return w.step
}

// Draft returns a copy of the accumulated selections.
func (w *Wizard) Draft() Draft {
	return w.draft
}

// Proximity reports whether the session entered through the near-me branch.
func (w *Wizard) Proximity() bool {
	return w.proximity
}

// ChooseMethod starts a session down one of the two entry branches. The
// department branch goes through department selection; the near-me branch
// skips straight to picking a doctor.
func (w *Wizard) ChooseMethod(method SearchMethod) error {
	if w.step != StepChooseSearchMethod {
		return fmt.Errorf("%w: choose method in %s", ErrInvalidTransition, w.step)
	}

	w.draft = Draft{}
	switch method {
	case SearchByDepartment:
		w.proximity = false
		w.step = StepSelectDepartment
	case SearchNearMe:
		w.proximity = true
		w.step = StepSelectDoctor
	default:
		return fmt.Errorf("unknown search method %q", method)
	}
	return nil
}

// SelectDepartment records the department and advances to doctor selection.
func (w *Wizard) SelectDepartment(dep hospital.Department) error {
	if w.step != StepSelectDepartment {
		return fmt.Errorf("%w: select department in %s", ErrInvalidTransition, w.step)
	}

	w.draft = Draft{Department: &dep}
	w.step = StepSelectDoctor
	return nil
}

// SelectDoctor records the doctor and advances to scheduling. In the
// near-me branch the department was skipped, so it is back-filled from the
// doctor's own department, or a placeholder when that lookup fails — the
// draft department is never left unset after this step.
func (w *Wizard) SelectDoctor(ctx context.Context, doc hospital.Doctor) error {
	if w.step != StepSelectDoctor {
		return fmt.Errorf("%w: select doctor in %s", ErrInvalidTransition, w.step)
	}

	if w.draft.Department == nil {
		dep, err := w.svc.Department(ctx, doc.DepartmentID)
		if err != nil {
			w.logger.Warn("department lookup failed, using placeholder", "department_id", doc.DepartmentID, "error", err)
			placeholder := hospital.UnknownDepartment
			placeholder.Name = "Dept. for " + doc.Name
			dep = &placeholder
		}
		w.draft.Department = dep
	}

	w.draft.Doctor = &doc
	w.step = StepSelectDateTime
	return nil
}

// SelectSlot records the chosen date and time slot. Callers present only
// future dates; the wizard does not re-validate that here.
func (w *Wizard) SelectSlot(date time.Time, slot hospital.TimeSlot) error {
	if w.step != StepSelectDateTime {
		return fmt.Errorf("%w: select slot in %s", ErrInvalidTransition, w.step)
	}

	w.draft.Date = &date
	w.draft.TimeSlot = &slot
	w.step = StepPatientInfo
	return nil
}

// SubmitPatientInfo records the patient contact fields.
func (w *Wizard) SubmitPatientInfo(name, email, phone string) error {
	if w.step != StepPatientInfo {
		return fmt.Errorf("%w: submit patient info in %s", ErrInvalidTransition, w.step)
	}

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)
	if name == "" || email == "" || phone == "" {
		return errors.New("patient name, email and phone are required")
	}

	w.draft.PatientName = name
	w.draft.PatientEmail = email
	w.draft.PatientPhone = phone
	w.step = StepConfirmation
	return nil
}

// Confirm performs the booking transaction. On success the wizard reaches
// the terminal step with the draft intact for the completion screen and
// confirmations are dispatched fire-and-forget. When the slot was taken in
// the meantime, or the commit fails for any other reason, the session
// routes back to scheduling with the chosen slot cleared so the user
// re-picks.
func (w *Wizard) Confirm(ctx context.Context) (*hospital.Appointment, error) {
	if w.step != StepConfirmation {
		return nil, fmt.Errorf("%w: confirm in %s", ErrInvalidTransition, w.step)
	}

	d := w.draft
	if d.Department == nil || d.Doctor == nil || d.Date == nil || d.TimeSlot == nil ||
		d.PatientName == "" || d.PatientEmail == "" || d.PatientPhone == "" {
		w.Restart()
		return nil, ErrIncompleteDraft
	}

	appt, err := w.svc.Book(ctx, hospital.BookingRequest{
		Department:   *d.Department,
		Doctor:       *d.Doctor,
		Date:         *d.Date,
		Slot:         *d.TimeSlot,
		PatientName:  d.PatientName,
		PatientEmail: d.PatientEmail,
		PatientPhone: d.PatientPhone,
	})
	if err != nil {
		w.step = StepSelectDateTime
		w.draft.clear(fieldTimeSlot)
		if errors.Is(err, hospital.ErrSlotUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("booking failed: %w", err)
	}

	if w.notifier != nil {
		w.notifier.DispatchBookingConfirmation(*appt)
	}

	w.step = StepCompleted
	return appt, nil
}

// Back unwinds one step, clearing exactly the draft fields collected at the
// step being left. It is a no-op at the entry and terminal steps.
func (w *Wizard) Back() {
	key := backKey{from: w.step}
	if w.step == StepSelectDoctor {
		key.proximity = w.proximity
	}

	rule, ok := backRules[key]
	if !ok {
		return
	}

	w.draft.clear(rule.clears...)
	w.step = rule.to
	if w.step == StepChooseSearchMethod {
		w.proximity = false
	}
}

// Restart discards the whole draft and returns to the entry step, for
// "book another appointment".
func (w *Wizard) Restart() {
	w.draft = Draft{}
	w.proximity = false
	w.step = StepChooseSearchMethod
}
