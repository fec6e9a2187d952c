package maintenance

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nmonzon/carmind/core/logger"
	"github.com/nmonzon/carmind/core/model"
	"github.com/nmonzon/carmind/core/storage"
)

const recordEntity = "maintenance"

// Repository stores maintenance records per owner through the storage
// gateway. Every mutation rewrites the owner's whole collection; acceptable
// given the record volume of a three-vehicle fleet.
type Repository struct {
	gw     storage.Gateway
	policy Policy
	log    logger.Logger
	now    func() time.Time
	newID  func() string
}

// NewRepository creates a Repository using the given gateway and policy.
func NewRepository(gw storage.Gateway, policy Policy, log logger.Logger) *Repository {
	return &Repository{
		gw:     gw,
		policy: policy,
		log:    log,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// RecordService validates and stores a performed service. The record id and
// next-due projections are assigned here; a newer record of the same kind
// supersedes the previous one for alerting while older records remain as
// history.
func (r *Repository) RecordService(ctx context.Context, ownerID string, rec model.MaintenanceRecord) (model.MaintenanceRecord, error) {
	if ownerID == "" {
		return model.MaintenanceRecord{}, fmt.Errorf("owner id must not be empty")
	}
	if err := rec.Validate(); err != nil {
		return model.MaintenanceRecord{}, err
	}
	records, err := r.loadAll(ctx, ownerID)
	if err != nil {
		return model.MaintenanceRecord{}, err
	}
	rec.ID = r.newID()
	rec.NextDueDistance, rec.NextDueDate = NextDue(r.policy, rec.Kind, rec.ServiceDate, rec.DistanceAtService)
	records = append(records, rec)
	if err := r.save(ctx, ownerID, records); err != nil {
		return model.MaintenanceRecord{}, err
	}
	r.log.Debugw("service recorded", map[string]any{
		"owner_id":   ownerID,
		"vehicle_id": rec.VehicleID,
		"kind":       string(rec.Kind),
	})
	return rec, nil
}

// Latest returns the newest record per kind for one vehicle, selected by
// service date.
func (r *Repository) Latest(ctx context.Context, ownerID, vehicleID string) (map[model.Kind]model.MaintenanceRecord, error) {
	records, err := r.loadAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	latest := make(map[model.Kind]model.MaintenanceRecord)
	for _, rec := range records {
		if rec.VehicleID != vehicleID {
			continue
		}
		cur, ok := latest[rec.Kind]
		if !ok || rec.ServiceDate.After(cur.ServiceDate) {
			latest[rec.Kind] = rec
		}
	}
	return latest, nil
}

// History returns every record for one vehicle, newest first. A zero kind
// returns all kinds.
func (r *Repository) History(ctx context.Context, ownerID, vehicleID string, kind model.Kind) ([]model.MaintenanceRecord, error) {
	records, err := r.loadAll(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	var res []model.MaintenanceRecord
	for _, rec := range records {
		if rec.VehicleID != vehicleID {
			continue
		}
		if kind != "" && rec.Kind != kind {
			continue
		}
		res = append(res, rec)
	}
	for i, j := 0, len(res)-1; i < j; i, j = i+1, j-1 {
		res[i], res[j] = res[j], res[i]
	}
	return res, nil
}

// Alerts computes the current alerts for one vehicle from its latest records.
func (r *Repository) Alerts(ctx context.Context, ownerID string, v model.Vehicle) ([]Alert, error) {
	latest, err := r.Latest(ctx, ownerID, v.ID)
	if err != nil {
		return nil, err
	}
	return ComputeAll(r.policy, v, latest, r.now()), nil
}

// DeleteForVehicle removes every record belonging to the vehicle. Called when
// the vehicle itself is deleted.
func (r *Repository) DeleteForVehicle(ctx context.Context, ownerID, vehicleID string) error {
	records, err := r.loadAll(ctx, ownerID)
	if err != nil {
		return err
	}
	kept := records[:0]
	for _, rec := range records {
		if rec.VehicleID != vehicleID {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	return r.save(ctx, ownerID, kept)
}

func (r *Repository) loadAll(ctx context.Context, ownerID string) ([]model.MaintenanceRecord, error) {
	b, err := r.gw.Load(ctx, recordEntity, ownerID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	var records []model.MaintenanceRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("decode maintenance collection: %w", err)
	}
	return records, nil
}

func (r *Repository) save(ctx context.Context, ownerID string, records []model.MaintenanceRecord) error {
	b, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode maintenance collection: %w", err)
	}
	return r.gw.Save(ctx, recordEntity, ownerID, b)
}
