package hospital

import "time"

// Department is static reference data, rarely mutated after seed.
type Department struct {
	ID          string `json:"id" dynamodbav:"id"`
	Name        string `json:"name" dynamodbav:"name"`
	IconName    string `json:"iconName" dynamodbav:"iconName"`
	Description string `json:"description" dynamodbav:"description"`
}

// Doctor is created through registration. Email is the login key and is
// unique across doctors, compared case-insensitively.
type Doctor struct {
	ID           string `json:"id" dynamodbav:"id"`
	Name         string `json:"name" dynamodbav:"name"`
	Email        string `json:"email" dynamodbav:"email"`
	DepartmentID string `json:"departmentId" dynamodbav:"departmentId"`
	Specialty    string `json:"specialty" dynamodbav:"specialty"`
}

// TimeSlot is one interval from the shared daily template. Slots are not
// owned by a doctor; the same slot id recurs across doctors and dates.
type TimeSlot struct {
	ID        string `json:"id" dynamodbav:"id"`
	StartTime string `json:"startTime" dynamodbav:"startTime"`
	EndTime   string `json:"endTime" dynamodbav:"endTime"`
}

// Appointment snapshots the department and doctor names at booking time so
// historical records stay stable if a doctor is later renamed. Appointments
// are never updated in place and cannot be deleted.
type Appointment struct {
	ID             string    `json:"id"`
	DepartmentID   string    `json:"departmentId"`
	DepartmentName string    `json:"departmentName"`
	DoctorID       string    `json:"doctorId"`
	DoctorName     string    `json:"doctorName"`
	Date           time.Time `json:"date"`
	TimeSlot       TimeSlot  `json:"timeSlot"`
	PatientName    string    `json:"patientName"`
	PatientEmail   string    `json:"patientEmail"`
	PatientPhone   string    `json:"patientPhone"`
}

type UserRole string

const (
	RolePatient UserRole = "patient"
	RoleDoctor  UserRole = "doctor"
)

// AuthenticatedUser is handed to the core by the session collaborator.
// The core consumes it, it never performs logins itself.
type AuthenticatedUser struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// SameCalendarDay reports whether t falls on the same calendar date as day,
// evaluated in day's location. Time of day is ignored.
func SameCalendarDay(t, day time.Time) bool {
	y1, m1, d1 := t.In(day.Location()).Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
