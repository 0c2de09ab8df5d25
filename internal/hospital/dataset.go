package hospital

import "time"

// UnknownDepartment stands in when a doctor's department cannot be resolved.
var UnknownDepartment = Department{
	ID:          "unknown",
	Name:        "Unknown Department",
	IconName:    "HelpCircle",
	Description: "Department information not available.",
}

// SlotTemplate returns the fixed daily schedule: ten 30-minute slots,
// 09:00-12:00 and 14:00-16:00. Identical for every doctor on every day.
// Callers get a fresh copy each time.
func SlotTemplate() []TimeSlot {
	return []TimeSlot{
		{ID: "ts1", StartTime: "09:00", EndTime: "09:30"},
		{ID: "ts2", StartTime: "09:30", EndTime: "10:00"},
		{ID: "ts3", StartTime: "10:00", EndTime: "10:30"},
		{ID: "ts4", StartTime: "10:30", EndTime: "11:00"},
		{ID: "ts5", StartTime: "11:00", EndTime: "11:30"},
		{ID: "ts6", StartTime: "11:30", EndTime: "12:00"},
		{ID: "ts7", StartTime: "14:00", EndTime: "14:30"},
		{ID: "ts8", StartTime: "14:30", EndTime: "15:00"},
		{ID: "ts9", StartTime: "15:00", EndTime: "15:30"},
		{ID: "ts10", StartTime: "15:30", EndTime: "16:00"},
	}
}

// Dataset is the static reference data used to back the in-memory repository
// and to seed an empty remote store.
type Dataset struct {
	Departments  []Department
	Doctors      []Doctor
	Appointments []Appointment
}

// DefaultDataset returns the demo reference data. Seed appointments are
// placed a few days in the future relative to now so the demo always shows
// upcoming bookings.
func DefaultDataset() Dataset {
	now := time.Now()

	return Dataset{
		Departments: []Department{
			{ID: "dept1", Name: "Cardiology", IconName: "Heart", Description: "Specializes in heart-related issues."},
			{ID: "dept2", Name: "Neurology", IconName: "Brain", Description: "Deals with nervous system disorders."},
			{ID: "dept3", Name: "Orthopedics", IconName: "Activity", Description: "Focuses on bone and joint problems."},
			{ID: "dept4", Name: "Pediatrics", IconName: "Baby", Description: "Provides care for infants and children."},
			{ID: "dept5", Name: "General Medicine", IconName: "Stethoscope", Description: "General health checkups and treatments."},
		},
		Doctors: []Doctor{
			{ID: "doc1", Name: "Dr. Alice Smith", Email: "alice.smith@example.com", DepartmentID: "dept1", Specialty: "Cardiologist"},
			{ID: "doc2", Name: "Dr. Bob Johnson", Email: "bob.johnson@example.com", DepartmentID: "dept1", Specialty: "Interventional Cardiologist"},
			{ID: "doc3", Name: "Dr. Carol White", Email: "carol.white@example.com", DepartmentID: "dept2", Specialty: "Neurologist"},
			{ID: "doc4", Name: "Dr. David Brown", Email: "david.brown@example.com", DepartmentID: "dept3", Specialty: "Orthopedic Surgeon"},
			{ID: "doc5", Name: "Dr. Eve Davis", Email: "eve.davis@example.com", DepartmentID: "dept4", Specialty: "Pediatrician"},
			{ID: "doc6", Name: "Dr. Frank Green", Email: "frank.green@example.com", DepartmentID: "dept5", Specialty: "General Practitioner"},
			{ID: "doc7", Name: "Dr. Grace Lee", Email: "grace.lee@example.com", DepartmentID: "dept2", Specialty: "Neurosurgeon"},
			{ID: "doctor.test@example.com", Name: "Dr. Test Doctor", Email: "doctor.test@example.com", DepartmentID: "dept1", Specialty: "Cardiologist"},
		},
		Appointments: []Appointment{
			{
				ID:             "appt1",
				DepartmentID:   "dept1",
				DepartmentName: "Cardiology",
				DoctorID:       "doc1",
				DoctorName:     "Dr. Alice Smith",
				Date:           now.AddDate(0, 0, 3),
				TimeSlot:       TimeSlot{ID: "ts1", StartTime: "09:00", EndTime: "09:30"},
				PatientName:    "John Patient",
				PatientEmail:   "john.patient@example.com",
				PatientPhone:   "123-456-7890",
			},
			{
				ID:             "appt2",
				DepartmentID:   "dept2",
				DepartmentName: "Neurology",
				DoctorID:       "doc3",
				DoctorName:     "Dr. Carol White",
				Date:           now.AddDate(0, 0, 5),
				TimeSlot:       TimeSlot{ID: "ts3", StartTime: "10:00", EndTime: "10:30"},
				PatientName:    "Jane Patient",
				PatientEmail:   "jane.patient@example.com",
				PatientPhone:   "987-654-3210",
			},
			{
				ID:             "appt_doctor_test_1",
				DepartmentID:   "dept1",
				DepartmentName: "Cardiology",
				DoctorID:       "doctor.test@example.com",
				DoctorName:     "Dr. Test Doctor",
				Date:           now.AddDate(0, 0, 2),
				TimeSlot:       TimeSlot{ID: "ts2", StartTime: "09:30", EndTime: "10:00"},
				PatientName:    "Test Patient A",
				PatientEmail:   "test.patient.a@example.com",
				PatientPhone:   "111-222-3333",
			},
		},
	}
}
