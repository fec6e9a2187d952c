package maintenance

import (
	"sync"
	"testing"
	"time"

	"github.com/nmonzon/carmind/core/model"
)

func oilRecord(distance int64, date time.Time) *model.MaintenanceRecord {
	return &model.MaintenanceRecord{
		ID:                "r1",
		VehicleID:         "v1",
		Kind:              model.KindOilChange,
		ServiceDate:       date,
		DistanceAtService: distance,
	}
}

func TestComputeAlertDistanceAxis(t *testing.T) {
	policy := Policy{model.KindOilChange: {DistanceKm: 10000}}
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	last := oilRecord(50000, now.AddDate(0, -1, 0))

	cases := []struct {
		name     string
		current  int64
		overdue  bool
		priority Priority
	}{
		{"overdue", 60000, true, PriorityUrgent},
		{"past overdue", 61000, true, PriorityUrgent},
		{"close to due", 58000, false, PriorityHigh},
		{"halfway", 55000, false, PriorityMedium},
		{"far from due", 40000, false, PriorityLow},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v := model.Vehicle{ID: "v1", CurrentDistance: c.current}
			a, ok := ComputeAlert(policy, model.KindOilChange, v, last, now)
			if !ok {
				t.Fatalf("expected an alert")
			}
			if a.DueDistance != 60000 {
				t.Fatalf("due distance: %d", a.DueDistance)
			}
			if a.Overdue != c.overdue {
				t.Fatalf("overdue: got %v want %v", a.Overdue, c.overdue)
			}
			if a.Priority != c.priority {
				t.Fatalf("priority: got %s want %s", a.Priority, c.priority)
			}
			if !a.DueDate.IsZero() {
				t.Fatalf("no calendar axis expected, got %v", a.DueDate)
			}
		})
	}
}

func TestComputeAlertCalendarOnly(t *testing.T) {
	policy := Policy{model.KindTechnicalInspection: {Months: 12}}
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	last := &model.MaintenanceRecord{
		VehicleID:   "v1",
		Kind:        model.KindTechnicalInspection,
		ServiceDate: now.AddDate(0, -13, 0),
	}
	// far odometer reading must not matter on a calendar-only kind
	v := model.Vehicle{ID: "v1", CurrentDistance: 1}
	a, ok := ComputeAlert(policy, model.KindTechnicalInspection, v, last, now)
	if !ok {
		t.Fatalf("expected an alert")
	}
	if !a.Overdue || a.Priority != PriorityUrgent {
		t.Fatalf("13 months past a 12 month interval must be overdue: %+v", a)
	}
	if a.DueDistance != 0 {
		t.Fatalf("no distance axis expected")
	}
}

func TestComputeAlertTwoAxesMoreUrgentWins(t *testing.T) {
	policy := Policy{model.KindOilChange: {DistanceKm: 10000, Months: 12}}
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	// serviced a month ago (calendar nearly untouched) but almost due by distance
	last := oilRecord(50000, now.AddDate(0, -1, 0))
	v := model.Vehicle{ID: "v1", CurrentDistance: 59000}
	a, ok := ComputeAlert(policy, model.KindOilChange, v, last, now)
	if !ok {
		t.Fatalf("expected an alert")
	}
	if a.Overdue {
		t.Fatalf("not overdue yet")
	}
	if a.Priority != PriorityHigh {
		t.Fatalf("distance axis should dominate: %s", a.Priority)
	}

	// overdue on calendar even though distance barely moved
	last = oilRecord(50000, now.AddDate(0, -13, 0))
	v = model.Vehicle{ID: "v1", CurrentDistance: 50100}
	a, _ = ComputeAlert(policy, model.KindOilChange, v, last, now)
	if !a.Overdue || a.Priority != PriorityUrgent {
		t.Fatalf("calendar axis should dominate: %+v", a)
	}
}

func TestComputeAlertNoPolicyOrBaseline(t *testing.T) {
	policy := Policy{model.KindOilChange: {DistanceKm: 10000}}
	now := time.Now()
	v := model.Vehicle{ID: "v1", CurrentDistance: 99999}

	if _, ok := ComputeAlert(policy, model.KindTimingBelt, v, oilRecord(0, now), now); ok {
		t.Fatalf("kind without policy entry must produce no alert")
	}
	if _, ok := ComputeAlert(policy, model.KindOilChange, v, nil, now); ok {
		t.Fatalf("missing baseline record must produce no alert")
	}
}

func TestComputeAll(t *testing.T) {
	policy := DefaultPolicy()
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	v := model.Vehicle{ID: "v1", CurrentDistance: 61000}
	latest := map[model.Kind]model.MaintenanceRecord{
		model.KindOilChange: *oilRecord(50000, now.AddDate(0, -2, 0)),
		model.KindTechnicalInspection: {
			VehicleID:   "v1",
			Kind:        model.KindTechnicalInspection,
			ServiceDate: now.AddDate(0, -3, 0),
		},
	}
	alerts := ComputeAll(policy, v, latest, now)
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	if alerts[0].Kind != model.KindOilChange || alerts[0].Priority != PriorityUrgent {
		t.Fatalf("oil change should be urgent: %+v", alerts[0])
	}
	if alerts[1].Kind != model.KindTechnicalInspection || alerts[1].Overdue {
		t.Fatalf("inspection should not be overdue: %+v", alerts[1])
	}
}

func TestComputeAlertReentrant(t *testing.T) {
	policy := DefaultPolicy()
	now := time.Now()
	last := oilRecord(50000, now.AddDate(0, -6, 0))
	v := model.Vehicle{ID: "v1", CurrentDistance: 58000}
	want, _ := ComputeAlert(policy, model.KindOilChange, v, last, now)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, ok := ComputeAlert(policy, model.KindOilChange, v, last, now)
			if !ok || got != want {
				t.Errorf("concurrent result mismatch: %+v", got)
			}
		}()
	}
	wg.Wait()
}

func TestAddMonthsClampsDay(t *testing.T) {
	cases := []struct {
		in     time.Time
		months int
		want   time.Time
	}{
		{time.Date(2026, 1, 31, 10, 0, 0, 0, time.UTC), 1, time.Date(2026, 2, 28, 10, 0, 0, 0, time.UTC)},
		{time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), 1, time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)},
		{time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), 12, time.Date(2027, 8, 31, 0, 0, 0, 0, time.UTC)},
		{time.Date(2026, 11, 15, 0, 0, 0, 0, time.UTC), 2, time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		if got := AddMonths(c.in, c.months); !got.Equal(c.want) {
			t.Errorf("AddMonths(%v, %d) = %v, want %v", c.in, c.months, got, c.want)
		}
	}
}

func TestNextDue(t *testing.T) {
	policy := DefaultPolicy()
	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	dist, due := NextDue(policy, model.KindOilChange, date, 42000)
	if dist != 52000 {
		t.Fatalf("next due distance: %d", dist)
	}
	if !due.Equal(time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("next due date: %v", due)
	}

	dist, due = NextDue(policy, model.KindTechnicalInspection, date, 42000)
	if dist != 0 || due.IsZero() {
		t.Fatalf("inspection is calendar-only: %d %v", dist, due)
	}

	dist, due = NextDue(policy, model.KindTimingBelt, date, 42000)
	if dist != 92000 || !due.IsZero() {
		t.Fatalf("timing belt is distance-only: %d %v", dist, due)
	}
}
