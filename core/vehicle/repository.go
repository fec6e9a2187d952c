package vehicle

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/nmonzon/carmind/core/logger"
	"github.com/nmonzon/carmind/core/model"
	"github.com/nmonzon/carmind/core/storage"
)

// MaxPerOwner is the hard cap on vehicles per owner, enforced at creation.
const MaxPerOwner = 3

const vehicleEntity = "vehicles"

// Input carries the caller-editable vehicle fields. Id, owner and creation
// time are never taken from input.
type Input struct {
	Brand           string         `json:"brand" validate:"required,max=64"`
	Model           string         `json:"model" validate:"required,max=64"`
	Year            int            `json:"year" validate:"required,gte=1900,lte=2100"`
	CurrentDistance int64          `json:"current_distance" validate:"gte=0"`
	FuelType        model.FuelType `json:"fuel_type" validate:"required,oneof=gasoline diesel"`
	LicensePlate    string         `json:"license_plate" validate:"omitempty,max=16"`
}

// Repository applies the ownership business rules on top of the storage
// gateway. Every mutation rewrites the owner's whole collection; with the
// vehicle cap at three the write amplification is negligible.
type Repository struct {
	gw       storage.Gateway
	log      logger.Logger
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
}

// NewRepository creates a Repository backed by the given gateway.
func NewRepository(gw storage.Gateway, log logger.Logger) *Repository {
	return &Repository{
		gw:       gw,
		log:      log,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Create stores a new vehicle for the owner. It fails with
// ErrCapacityExceeded when the owner already holds MaxPerOwner vehicles and
// with ErrValidation for malformed input; in both cases nothing is persisted.
func (r *Repository) Create(ctx context.Context, ownerID string, in Input) (model.Vehicle, error) {
	if err := r.checkInput(ownerID, in); err != nil {
		return model.Vehicle{}, err
	}
	vehicles, err := r.LoadAll(ctx, ownerID)
	if err != nil {
		return model.Vehicle{}, err
	}
	if len(vehicles) >= MaxPerOwner {
		return model.Vehicle{}, fmt.Errorf("%w: owner %s holds %d vehicles", ErrCapacityExceeded, ownerID, len(vehicles))
	}
	v := model.Vehicle{
		ID:              r.newID(),
		OwnerID:         ownerID,
		Brand:           in.Brand,
		Model:           in.Model,
		Year:            in.Year,
		CurrentDistance: in.CurrentDistance,
		FuelType:        in.FuelType,
		LicensePlate:    in.LicensePlate,
		CreatedAt:       r.now(),
	}
	if err := r.save(ctx, ownerID, append(vehicles, v)); err != nil {
		return model.Vehicle{}, err
	}
	r.log.Infof("vehicle %s created for owner %s", v.ID, ownerID)
	return v, nil
}

// LoadAll returns the owner's vehicles. A never-written owner yields an
// empty slice, not an error.
func (r *Repository) LoadAll(ctx context.Context, ownerID string) ([]model.Vehicle, error) {
	b, err := r.gw.Load(ctx, vehicleEntity, ownerID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	var vehicles []model.Vehicle
	if err := json.Unmarshal(b, &vehicles); err != nil {
		return nil, fmt.Errorf("decode vehicle collection: %w", err)
	}
	return vehicles, nil
}

// LoadOne returns the vehicle with the given id, reporting absence through
// the second return value.
func (r *Repository) LoadOne(ctx context.Context, id, ownerID string) (model.Vehicle, bool, error) {
	vehicles, err := r.LoadAll(ctx, ownerID)
	if err != nil {
		return model.Vehicle{}, false, err
	}
	for _, v := range vehicles {
		if v.ID == id {
			return v, true, nil
		}
	}
	return model.Vehicle{}, false, nil
}

// UpdateOdometer replaces the stored odometer reading. A decreasing value is
// accepted: corrections after a mistyped reading are a real use case, and the
// scheduler degrades gracefully to earlier due projections.
func (r *Repository) UpdateOdometer(ctx context.Context, id, ownerID string, newDistance int64) (model.Vehicle, error) {
	if ownerID == "" {
		return model.Vehicle{}, fmt.Errorf("%w: owner id must not be empty", ErrValidation)
	}
	if newDistance < 0 {
		return model.Vehicle{}, fmt.Errorf("%w: distance must not be negative", ErrValidation)
	}
	return r.replace(ctx, id, ownerID, func(v model.Vehicle) model.Vehicle {
		if newDistance < v.CurrentDistance {
			r.log.Warnf("odometer for %s decreased from %d to %d", id, v.CurrentDistance, newDistance)
		}
		v.CurrentDistance = newDistance
		return v
	})
}

// Update replaces every caller-editable field. Id, owner and creation time
// survive unchanged.
func (r *Repository) Update(ctx context.Context, id, ownerID string, in Input) (model.Vehicle, error) {
	if err := r.checkInput(ownerID, in); err != nil {
		return model.Vehicle{}, err
	}
	return r.replace(ctx, id, ownerID, func(v model.Vehicle) model.Vehicle {
		v.Brand = in.Brand
		v.Model = in.Model
		v.Year = in.Year
		v.CurrentDistance = in.CurrentDistance
		v.FuelType = in.FuelType
		v.LicensePlate = in.LicensePlate
		return v
	})
}

// Delete removes the vehicle. Deleting an absent id is a no-op.
func (r *Repository) Delete(ctx context.Context, id, ownerID string) error {
	vehicles, err := r.LoadAll(ctx, ownerID)
	if err != nil {
		return err
	}
	kept := make([]model.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(vehicles) {
		return nil
	}
	if err := r.save(ctx, ownerID, kept); err != nil {
		return err
	}
	r.log.Infof("vehicle %s deleted for owner %s", id, ownerID)
	return nil
}

// CanAddMore reports whether the owner is below the vehicle cap.
func (r *Repository) CanAddMore(ctx context.Context, ownerID string) (bool, error) {
	vehicles, err := r.LoadAll(ctx, ownerID)
	if err != nil {
		return false, err
	}
	return len(vehicles) < MaxPerOwner, nil
}

func (r *Repository) checkInput(ownerID string, in Input) error {
	if ownerID == "" {
		return fmt.Errorf("%w: owner id must not be empty", ErrValidation)
	}
	if err := r.validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

func (r *Repository) replace(ctx context.Context, id, ownerID string, mut func(model.Vehicle) model.Vehicle) (model.Vehicle, error) {
	vehicles, err := r.LoadAll(ctx, ownerID)
	if err != nil {
		return model.Vehicle{}, err
	}
	for i, v := range vehicles {
		if v.ID == id {
			updated := mut(v)
			vehicles[i] = updated
			if err := r.save(ctx, ownerID, vehicles); err != nil {
				return model.Vehicle{}, err
			}
			return updated, nil
		}
	}
	return model.Vehicle{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

func (r *Repository) save(ctx context.Context, ownerID string, vehicles []model.Vehicle) error {
	b, err := json.Marshal(vehicles)
	if err != nil {
		return fmt.Errorf("encode vehicle collection: %w", err)
	}
	return r.gw.Save(ctx, vehicleEntity, ownerID, b)
}
