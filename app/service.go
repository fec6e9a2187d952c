package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apivehicles "github.com/nmonzon/carmind/api/vehicles"
	"github.com/nmonzon/carmind/config"
	"github.com/nmonzon/carmind/core/maintenance"
	"github.com/nmonzon/carmind/core/model"
	"github.com/nmonzon/carmind/core/vehicle"
	"github.com/nmonzon/carmind/infra/logger"
	"github.com/nmonzon/carmind/infra/metrics"
	"github.com/nmonzon/carmind/infra/notify"
	"github.com/nmonzon/carmind/infra/storage"
)

// ErrBusy is returned when a mutating intent arrives while another one is
// still in flight. The store processes one mutation at a time; callers retry
// once the previous call settled.
var ErrBusy = errors.New("another operation is in flight")

// Service wires the repositories, the state store and the observability
// sinks for one owner session.
type Service struct {
	cfg      *config.Config
	log      logger.Logger
	Vehicles *vehicle.Repository
	Records  *maintenance.Repository
	Store    *vehicle.Store
	sink     metrics.Sink
	pub      notify.Publisher
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	gw, err := storage.New(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("storage gateway: %w", err)
	}
	sink, err := metrics.NewSink(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	var pub notify.Publisher = notify.NopPublisher{}
	if cfg.Notify.Enabled {
		p, err := notify.NewMQTTPublisher(cfg.Notify)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		pub = p
	}
	policy := cfg.Maintenance.Policy()
	return &Service{
		cfg:      cfg,
		log:      logg,
		Vehicles: vehicle.NewRepository(gw, logger.New("vehicle-repo")),
		Records:  maintenance.NewRepository(gw, policy, logger.New("maintenance-repo")),
		Store:    vehicle.NewStore(),
		sink:     sink,
		pub:      pub,
	}, nil
}

// OwnerID returns the owner this session is scoped to.
func (s *Service) OwnerID() string { return s.cfg.OwnerID }

// LoadVehicles refreshes the store from persistence.
func (s *Service) LoadVehicles(ctx context.Context) error {
	if s.Store.Busy() {
		return ErrBusy
	}
	s.Store.Apply(vehicle.LoadStarted{})
	vehicles, err := s.Vehicles.LoadAll(ctx, s.cfg.OwnerID)
	_ = s.sink.RecordMutation("load", s.cfg.OwnerID, err)
	if err != nil {
		s.Store.Apply(vehicle.ErrorSet{Message: err.Error()})
		return err
	}
	s.Store.Apply(vehicle.VehiclesLoaded{Vehicles: vehicles})
	return nil
}

// CreateVehicle persists a new vehicle and selects it.
func (s *Service) CreateVehicle(ctx context.Context, in vehicle.Input) (model.Vehicle, error) {
	if s.Store.Busy() {
		return model.Vehicle{}, ErrBusy
	}
	s.Store.Apply(vehicle.LoadStarted{})
	v, err := s.Vehicles.Create(ctx, s.cfg.OwnerID, in)
	_ = s.sink.RecordMutation("create", s.cfg.OwnerID, err)
	if err != nil {
		s.Store.Apply(vehicle.ErrorSet{Message: err.Error()})
		return model.Vehicle{}, err
	}
	s.Store.Apply(vehicle.VehicleAdded{Vehicle: v})
	return v, nil
}

// UpdateOdometer stores a new odometer reading.
func (s *Service) UpdateOdometer(ctx context.Context, id string, distance int64) (model.Vehicle, error) {
	if s.Store.Busy() {
		return model.Vehicle{}, ErrBusy
	}
	s.Store.Apply(vehicle.LoadStarted{})
	v, err := s.Vehicles.UpdateOdometer(ctx, id, s.cfg.OwnerID, distance)
	_ = s.sink.RecordMutation("update_odometer", s.cfg.OwnerID, err)
	if err != nil {
		s.Store.Apply(vehicle.ErrorSet{Message: err.Error()})
		return model.Vehicle{}, err
	}
	s.Store.Apply(vehicle.VehicleUpdated{Vehicle: v})
	return v, nil
}

// UpdateVehicle replaces the caller-editable fields of a vehicle.
func (s *Service) UpdateVehicle(ctx context.Context, id string, in vehicle.Input) (model.Vehicle, error) {
	if s.Store.Busy() {
		return model.Vehicle{}, ErrBusy
	}
	s.Store.Apply(vehicle.LoadStarted{})
	v, err := s.Vehicles.Update(ctx, id, s.cfg.OwnerID, in)
	_ = s.sink.RecordMutation("update", s.cfg.OwnerID, err)
	if err != nil {
		s.Store.Apply(vehicle.ErrorSet{Message: err.Error()})
		return model.Vehicle{}, err
	}
	s.Store.Apply(vehicle.VehicleUpdated{Vehicle: v})
	return v, nil
}

// DeleteVehicle removes the vehicle and its maintenance history.
func (s *Service) DeleteVehicle(ctx context.Context, id string) error {
	if s.Store.Busy() {
		return ErrBusy
	}
	s.Store.Apply(vehicle.LoadStarted{})
	err := s.Vehicles.Delete(ctx, id, s.cfg.OwnerID)
	if err == nil {
		err = s.Records.DeleteForVehicle(ctx, s.cfg.OwnerID, id)
	}
	_ = s.sink.RecordMutation("delete", s.cfg.OwnerID, err)
	if err != nil {
		s.Store.Apply(vehicle.ErrorSet{Message: err.Error()})
		return err
	}
	s.Store.Apply(vehicle.VehicleDeleted{ID: id})
	return nil
}

// SelectVehicle moves the selection. Unknown ids are ignored by the store.
func (s *Service) SelectVehicle(id string) {
	s.Store.Apply(vehicle.SelectionSet{ID: id})
}

// ClearError clears the surfaced error.
func (s *Service) ClearError() {
	s.Store.Apply(vehicle.ErrorCleared{})
}

// RecordService stores a performed maintenance service.
func (s *Service) RecordService(ctx context.Context, rec model.MaintenanceRecord) (model.MaintenanceRecord, error) {
	stored, err := s.Records.RecordService(ctx, s.cfg.OwnerID, rec)
	_ = s.sink.RecordMutation("record_service", s.cfg.OwnerID, err)
	return stored, err
}

// Alerts computes the current alerts for every vehicle (or one, when id is
// non-empty), records them in the metric sinks and publishes the urgent and
// high priority ones.
func (s *Service) Alerts(ctx context.Context, vehicleID string) ([]maintenance.Alert, error) {
	vehicles, err := s.Vehicles.LoadAll(ctx, s.cfg.OwnerID)
	if err != nil {
		return nil, err
	}
	var alerts []maintenance.Alert
	for _, v := range vehicles {
		if vehicleID != "" && v.ID != vehicleID {
			continue
		}
		va, err := s.Records.Alerts(ctx, s.cfg.OwnerID, v)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, va...)
	}
	_ = s.sink.RecordAlerts(s.cfg.OwnerID, alerts)
	for _, a := range alerts {
		if a.Priority < maintenance.PriorityHigh {
			continue
		}
		if err := s.pub.PublishAlert(s.cfg.OwnerID, a); err != nil {
			s.log.Errorf("publish alert for %s/%s: %v", a.VehicleID, a.Kind, err)
		}
	}
	return alerts, nil
}

// Run loads the initial state and serves the read API until the context is
// canceled.
func (s *Service) Run(ctx context.Context) error {
	if err := s.LoadVehicles(ctx); err != nil {
		s.log.Errorf("initial load: %v", err)
	}
	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if !s.cfg.API.Enabled {
		<-ctx.Done()
		return nil
	}
	srv := &http.Server{
		Addr:    s.cfg.API.Addr,
		Handler: apivehicles.NewHandler(s.Store, s.Records),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("api listening on %s", s.cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.pub.Close()
	s.Store.Close()
	return nil
}
