package vehicle

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nmonzon/carmind/core/model"
	infralogger "github.com/nmonzon/carmind/infra/logger"
	"github.com/nmonzon/carmind/infra/storage"
)

func newTestRepo() (*Repository, *storage.MemoryGateway) {
	gw := storage.NewMemoryGateway()
	repo := NewRepository(gw, infralogger.NopLogger{})
	n := 0
	repo.newID = func() string {
		n++
		return fmt.Sprintf("veh-%d", n)
	}
	repo.now = func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }
	return repo, gw
}

func validInput() Input {
	return Input{
		Brand:           "Toyota",
		Model:           "Corolla",
		Year:            2019,
		CurrentDistance: 42000,
		FuelType:        model.FuelGasoline,
		LicensePlate:    "AB123CD",
	}
}

func TestLoadAllEmptyOwner(t *testing.T) {
	repo, _ := newTestRepo()
	vehicles, err := repo.LoadAll(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("empty owner must not fail: %v", err)
	}
	if len(vehicles) != 0 {
		t.Fatalf("expected empty collection, got %d", len(vehicles))
	}
}

func TestCreateAssignsIdentity(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()
	v, err := repo.Create(ctx, "owner1", validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.ID != "veh-1" || v.OwnerID != "owner1" {
		t.Fatalf("identity not stamped: %+v", v)
	}
	if v.CreatedAt.IsZero() {
		t.Fatalf("creation time not stamped")
	}

	stored, ok, err := repo.LoadOne(ctx, v.ID, "owner1")
	if err != nil || !ok {
		t.Fatalf("load one: %v %v", ok, err)
	}
	if stored != v {
		t.Fatalf("stored copy differs: %+v != %+v", stored, v)
	}
}

func TestCreateCapacity(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()
	for i := 0; i < MaxPerOwner; i++ {
		if _, err := repo.Create(ctx, "owner1", validInput()); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}
	ok, err := repo.CanAddMore(ctx, "owner1")
	if err != nil || ok {
		t.Fatalf("owner at cap should not be able to add more")
	}

	_, err = repo.Create(ctx, "owner1", validInput())
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
	vehicles, _ := repo.LoadAll(ctx, "owner1")
	if len(vehicles) != MaxPerOwner {
		t.Fatalf("failed create must not grow the collection: %d", len(vehicles))
	}

	// a different owner is unaffected by the first owner's cap
	if _, err := repo.Create(ctx, "owner2", validInput()); err != nil {
		t.Fatalf("other owner: %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	repo, gw := newTestRepo()
	ctx := context.Background()

	cases := []struct {
		name string
		mut  func(*Input)
	}{
		{"missing brand", func(in *Input) { in.Brand = "" }},
		{"missing model", func(in *Input) { in.Model = "" }},
		{"year too old", func(in *Input) { in.Year = 1850 }},
		{"negative distance", func(in *Input) { in.CurrentDistance = -5 }},
		{"bad fuel", func(in *Input) { in.FuelType = "coal" }},
	}
	for _, c := range cases {
		in := validInput()
		c.mut(&in)
		if _, err := repo.Create(ctx, "owner1", in); !errors.Is(err, ErrValidation) {
			t.Errorf("%s: expected ErrValidation, got %v", c.name, err)
		}
	}
	if _, err := repo.Create(ctx, "", validInput()); !errors.Is(err, ErrValidation) {
		t.Errorf("empty owner: expected ErrValidation")
	}
	if b, _ := gw.Load(ctx, "vehicles", "owner1"); b != nil {
		t.Fatalf("validation failures must not persist anything")
	}
}

func TestUpdateOdometer(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()
	v, _ := repo.Create(ctx, "owner1", validInput())

	updated, err := repo.UpdateOdometer(ctx, v.ID, "owner1", 43500)
	if err != nil {
		t.Fatalf("update odometer: %v", err)
	}
	if updated.CurrentDistance != 43500 {
		t.Fatalf("distance not replaced: %d", updated.CurrentDistance)
	}

	// decreasing values are accepted as corrections
	updated, err = repo.UpdateOdometer(ctx, v.ID, "owner1", 43000)
	if err != nil || updated.CurrentDistance != 43000 {
		t.Fatalf("decreasing update should pass: %v %d", err, updated.CurrentDistance)
	}

	if _, err := repo.UpdateOdometer(ctx, v.ID, "owner1", -1); !errors.Is(err, ErrValidation) {
		t.Fatalf("negative distance: expected ErrValidation, got %v", err)
	}

	_, err = repo.UpdateOdometer(ctx, "ghost", "owner1", 50000)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	vehicles, _ := repo.LoadAll(ctx, "owner1")
	if vehicles[0].CurrentDistance != 43000 {
		t.Fatalf("failed update must leave stored state untouched")
	}
}

func TestUpdatePreservesIdentity(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()
	v, _ := repo.Create(ctx, "owner1", validInput())

	in := validInput()
	in.Brand = "Renault"
	in.Model = "Clio"
	in.FuelType = model.FuelDiesel
	updated, err := repo.Update(ctx, v.ID, "owner1", in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Brand != "Renault" || updated.FuelType != model.FuelDiesel {
		t.Fatalf("fields not replaced: %+v", updated)
	}
	if updated.ID != v.ID || updated.OwnerID != v.OwnerID || !updated.CreatedAt.Equal(v.CreatedAt) {
		t.Fatalf("identity fields must survive a full update")
	}

	if _, err := repo.Update(ctx, "ghost", "owner1", in); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()
	v, _ := repo.Create(ctx, "owner1", validInput())

	if err := repo.Delete(ctx, v.ID, "owner1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, v.ID, "owner1"); err != nil {
		t.Fatalf("deleting an absent id must be a no-op: %v", err)
	}
	vehicles, _ := repo.LoadAll(ctx, "owner1")
	if len(vehicles) != 0 {
		t.Fatalf("vehicle not removed")
	}
}

func TestOwnerIsolation(t *testing.T) {
	repo, _ := newTestRepo()
	ctx := context.Background()
	v1, _ := repo.Create(ctx, "owner1", validInput())
	_, _ = repo.Create(ctx, "owner2", validInput())

	_, ok, err := repo.LoadOne(ctx, v1.ID, "owner2")
	if err != nil || ok {
		t.Fatalf("another owner's vehicle must not be visible")
	}
	if _, err := repo.UpdateOdometer(ctx, v1.ID, "owner2", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-owner mutation must fail with ErrNotFound")
	}
}

func TestRoundTripCollectionSizes(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		repo, _ := newTestRepo()
		ctx := context.Background()
		owner := fmt.Sprintf("owner-%d", n)
		want := make([]model.Vehicle, 0, n)
		for i := 0; i < n; i++ {
			v, err := repo.Create(ctx, owner, validInput())
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			want = append(want, v)
		}
		got, err := repo.LoadAll(ctx, owner)
		if err != nil {
			t.Fatalf("load all: %v", err)
		}
		if len(got) != n {
			t.Fatalf("size %d: got %d", n, len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("size %d: field mismatch at %d: %+v != %+v", n, i, got[i], want[i])
			}
		}
	}
}

func TestStorageFailureSurfaced(t *testing.T) {
	repo, gw := newTestRepo()
	ctx := context.Background()
	gw.FailNext = true
	if _, err := repo.Create(ctx, "owner1", validInput()); !errors.Is(err, storage.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
