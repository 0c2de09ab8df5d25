package api

import "github.com/medibook/hospital-booking/internal/hospital"

type RegisterDoctorRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Specialty    string `json:"specialty"`
	DepartmentID string `json:"department_id"`
}

type BookAppointmentRequest struct {
	DepartmentID string `json:"department_id"`
	DoctorID     string `json:"doctor_id"`
	Date         string `json:"date"` // YYYY-MM-DD
	SlotID       string `json:"slot_id"`
	PatientName  string `json:"patient_name"`
	PatientEmail string `json:"patient_email"`
	PatientPhone string `json:"patient_phone"`
}

type AvailabilityResponse struct {
	DoctorID string              `json:"doctor_id"`
	Date     string              `json:"date"`
	Slots    []hospital.TimeSlot `json:"slots"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
