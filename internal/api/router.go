package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/medibook/hospital-booking/internal/hospital"
	"github.com/medibook/hospital-booking/internal/notify"
	"github.com/medibook/hospital-booking/pkg/logging"
)

type RouterConfig struct {
	Service  *hospital.Service
	Notifier *notify.Service
	Redis    *redis.Client // optional
	Backend  string
	Env      string
	Version  string
	Logger   *logging.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	health := NewHealthHandler(cfg.Redis, cfg.Backend, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Get("/departments", listDepartmentsHandler(cfg.Service))
	r.Get("/departments/{id}", getDepartmentHandler(cfg.Service))

	r.Get("/doctors", listDoctorsHandler(cfg.Service))
	r.Get("/doctors/lookup", lookupDoctorHandler(cfg.Service))
	r.Post("/doctors", registerDoctorHandler(cfg.Service))

	r.Get("/slots/template", slotTemplateHandler())
	r.Get("/availability", availabilityHandler(cfg.Service))

	r.Post("/appointments", bookAppointmentHandler(cfg.Service, cfg.Notifier))
	r.Get("/appointments", listAppointmentsHandler(cfg.Service))

	return r
}
