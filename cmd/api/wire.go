package main

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwalitptl/hospital-api/internal/config"
	clinicianHandler "github.com/jwalitptl/hospital-api/internal/handler/clinician"
	departmentHandler "github.com/jwalitptl/hospital-api/internal/handler/department"
	"github.com/jwalitptl/hospital-api/internal/handler/health"
	patientHandler "github.com/jwalitptl/hospital-api/internal/handler/patient"
	promHandler "github.com/jwalitptl/hospital-api/internal/handler/prometheus"
	reportHandler "github.com/jwalitptl/hospital-api/internal/handler/report"
	"github.com/jwalitptl/hospital-api/internal/repository"
	"github.com/jwalitptl/hospital-api/internal/router"
	clinicianService "github.com/jwalitptl/hospital-api/internal/service/clinician"
	departmentService "github.com/jwalitptl/hospital-api/internal/service/department"
	eventService "github.com/jwalitptl/hospital-api/internal/service/event"
	patientService "github.com/jwalitptl/hospital-api/internal/service/patient"
	reportService "github.com/jwalitptl/hospital-api/internal/service/report"
	"github.com/jwalitptl/hospital-api/pkg/messaging"
	"github.com/jwalitptl/hospital-api/pkg/metrics"
)

type dependencies struct {
	store     repository.Store
	publisher messaging.Publisher
	metrics   *metrics.Metrics
	gatherer  prometheus.Gatherer
	checks    map[string]health.Pinger
}

func newEngine(cfg *config.Config, deps dependencies) *gin.Engine {
	events := eventService.NewEventService(deps.publisher, deps.metrics)

	patientSvc := patientService.NewService(deps.store, events, deps.metrics)
	clinicianSvc := clinicianService.NewService(deps.store, events)
	departmentSvc := departmentService.NewService(deps.store, events)
	reportSvc := reportService.NewService(deps.store, deps.metrics)

	r := router.NewRouter(cfg, deps.metrics, router.Handlers{
		Patient:    patientHandler.NewHandler(patientSvc),
		Clinician:  clinicianHandler.NewHandler(clinicianSvc),
		Department: departmentHandler.NewHandler(departmentSvc),
		Report:     reportHandler.NewHandler(reportSvc),
		Health:     health.NewHandler(deps.checks),
		Metrics:    promHandler.New(deps.gatherer),
	})
	r.Setup()
	return r.Engine()
}
