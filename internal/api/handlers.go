package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/medibook/hospital-booking/internal/hospital"
	"github.com/medibook/hospital-booking/internal/notify"
)

func listDepartmentsHandler(svc *hospital.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deps, err := svc.Departments(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, deps)
	}
}

func getDepartmentHandler(svc *hospital.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dep, err := svc.Department(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			if errors.Is(err, hospital.ErrDepartmentNotFound) {
				writeError(w, http.StatusNotFound, "department_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, dep)
	}
}

func listDoctorsHandler(svc *hospital.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := svc.Doctors(r.Context(), r.URL.Query().Get("department_id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, doctors)
	}
}

func lookupDoctorHandler(svc *hospital.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")
		if email == "" {
			writeError(w, http.StatusBadRequest, "missing_email", "email query parameter is required")
			return
		}

		doc, err := svc.DoctorByEmail(r.Context(), email)
		if err != nil {
			if errors.Is(err, hospital.ErrDoctorNotFound) {
				writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, doc)
	}
}

func registerDoctorHandler(svc *hospital.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterDoctorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		doc, err := svc.RegisterDoctor(r.Context(), hospital.DoctorRegistration{
			Name:         req.Name,
			Email:        req.Email,
			Specialty:    req.Specialty,
			DepartmentID: req.DepartmentID,
		})
		if err != nil {
			handleRegisterError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, doc)
	}
}

func availabilityHandler(svc *hospital.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctorID := r.URL.Query().Get("doctor_id")
		if doctorID == "" {
			writeError(w, http.StatusBadRequest, "missing_doctor_id", "doctor_id query parameter is required")
			return
		}

		date, err := time.ParseInLocation("2006-01-02", r.URL.Query().Get("date"), time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		slots, err := svc.AvailableSlots(r.Context(), doctorID, date)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		writeJSON(w, http.StatusOK, AvailabilityResponse{
			DoctorID: doctorID,
			Date:     date.Format("2006-01-02"),
			Slots:    slots,
		})
	}
}

func bookAppointmentHandler(svc *hospital.Service, notifier *notify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		dep, err := svc.Department(r.Context(), req.DepartmentID)
		if err != nil {
			handleBookError(w, err)
			return
		}

		doc, err := svc.Doctor(r.Context(), req.DoctorID)
		if err != nil {
			handleBookError(w, err)
			return
		}

		slot, ok := slotFromTemplate(req.SlotID)
		if !ok {
			writeError(w, http.StatusBadRequest, "invalid_slot_id", "slot_id is not part of the daily template")
			return
		}

		appt, err := svc.Book(r.Context(), hospital.BookingRequest{
			Department:   *dep,
			Doctor:       *doc,
			Date:         date,
			Slot:         slot,
			PatientName:  req.PatientName,
			PatientEmail: req.PatientEmail,
			PatientPhone: req.PatientPhone,
		})
		if err != nil {
			handleBookError(w, err)
			return
		}

		notifier.DispatchBookingConfirmation(*appt)

		writeJSON(w, http.StatusCreated, appt)
	}
}

func listAppointmentsHandler(svc *hospital.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := hospital.AppointmentFilter{
			PatientEmail: r.URL.Query().Get("patient_email"),
			DoctorID:     r.URL.Query().Get("doctor_id"),
		}

		appts, err := svc.Appointments(r.Context(), f)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, appts)
	}
}

func slotTemplateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, hospital.SlotTemplate())
	}
}

func slotFromTemplate(slotID string) (hospital.TimeSlot, bool) {
	for _, slot := range hospital.SlotTemplate() {
		if slot.ID == slotID {
			return slot, true
		}
	}
	return hospital.TimeSlot{}, false
}

func handleRegisterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, hospital.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "duplicate_email", err.Error())
	case errors.Is(err, hospital.ErrBackendUnavailable):
		writeError(w, http.StatusServiceUnavailable, "backend_unavailable", err.Error())
	default:
		writeError(w, http.StatusBadRequest, "invalid_registration", err.Error())
	}
}

func handleBookError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, hospital.ErrDepartmentNotFound):
		writeError(w, http.StatusNotFound, "department_not_found", err.Error())
	case errors.Is(err, hospital.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, hospital.ErrSlotUnavailable):
		writeError(w, http.StatusConflict, "slot_unavailable", err.Error())
	case errors.Is(err, hospital.ErrInvalidBooking):
		writeError(w, http.StatusBadRequest, "invalid_booking", err.Error())
	case errors.Is(err, hospital.ErrBackendUnavailable):
		writeError(w, http.StatusServiceUnavailable, "backend_unavailable", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
