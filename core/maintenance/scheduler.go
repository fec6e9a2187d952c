package maintenance

import (
	"time"

	"github.com/nmonzon/carmind/core/model"
)

// Priority buckets alert urgency by proximity to the due threshold.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityUrgent
)

// String returns the lowercase name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityUrgent:
		return "urgent"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	}
	return "low"
}

// Alert is the derived due determination for one vehicle and kind. Alerts are
// produced fresh on every computation and never persisted.
type Alert struct {
	VehicleID string     `json:"vehicle_id"`
	Kind      model.Kind `json:"kind"`

	// DueDistance is the odometer value at which the kind becomes due, 0 if
	// the kind has no distance axis. DueDate is the calendar equivalent,
	// zero if the kind has no calendar axis.
	DueDistance int64     `json:"due_distance,omitempty"`
	DueDate     time.Time `json:"due_date,omitempty"`

	Overdue  bool     `json:"overdue"`
	Priority Priority `json:"priority"`
}

// ComputeAlert derives the alert for one kind from the latest record of that
// kind. It returns false when no alert applies: the policy has no entry for
// the kind, or no baseline record exists yet. The function reads only its
// arguments and touches no shared state.
func ComputeAlert(p Policy, kind model.Kind, v model.Vehicle, last *model.MaintenanceRecord, now time.Time) (Alert, bool) {
	iv, ok := p[kind]
	if !ok || (iv.DistanceKm <= 0 && iv.Months <= 0) {
		return Alert{}, false
	}
	if last == nil {
		// The due basis is the last service; tracking starts with an
		// externally supplied baseline record.
		return Alert{}, false
	}

	a := Alert{VehicleID: v.ID, Kind: kind}

	// remaining is the smallest fraction of an interval still left on any
	// applicable axis. 1 means a full interval remains.
	remaining := 2.0
	if iv.DistanceKm > 0 {
		a.DueDistance = last.DistanceAtService + iv.DistanceKm
		if v.CurrentDistance >= a.DueDistance {
			a.Overdue = true
		}
		frac := float64(a.DueDistance-v.CurrentDistance) / float64(iv.DistanceKm)
		if frac < remaining {
			remaining = frac
		}
	}
	if iv.Months > 0 {
		a.DueDate = AddMonths(last.ServiceDate, iv.Months)
		if !now.Before(a.DueDate) {
			a.Overdue = true
		}
		total := a.DueDate.Sub(last.ServiceDate)
		if total > 0 {
			frac := float64(a.DueDate.Sub(now)) / float64(total)
			if frac < remaining {
				remaining = frac
			}
		}
	}

	switch {
	case a.Overdue:
		a.Priority = PriorityUrgent
	case remaining <= 0.25:
		a.Priority = PriorityHigh
	case remaining <= 0.5:
		a.Priority = PriorityMedium
	default:
		a.Priority = PriorityLow
	}
	return a, true
}

// ComputeAll derives alerts for every kind that has both a policy entry and a
// latest record, in the stable kind order.
func ComputeAll(p Policy, v model.Vehicle, latest map[model.Kind]model.MaintenanceRecord, now time.Time) []Alert {
	var alerts []Alert
	for _, kind := range model.Kinds() {
		rec, ok := latest[kind]
		if !ok {
			continue
		}
		if a, ok := ComputeAlert(p, kind, v, &rec, now); ok {
			alerts = append(alerts, a)
		}
	}
	return alerts
}

// AddMonths advances t by the given number of months, clamping the day of
// month to the last valid day of the target month (Jan 31 + 1 month is
// Feb 28 or 29, not Mar 2).
func AddMonths(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := time.Date(firstOfTarget.Year(), firstOfTarget.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	if d > lastDay {
		d = lastDay
	}
	hh, mm, ss := t.Clock()
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, hh, mm, ss, t.Nanosecond(), t.Location())
}

// NextDue returns the due projections for a service of the given kind
// performed at serviceDate with the odometer at distance. Zero values are
// returned for axes the policy does not define.
func NextDue(p Policy, kind model.Kind, serviceDate time.Time, distance int64) (int64, time.Time) {
	iv, ok := p[kind]
	if !ok {
		return 0, time.Time{}
	}
	var dueDist int64
	var dueDate time.Time
	if iv.DistanceKm > 0 {
		dueDist = distance + iv.DistanceKm
	}
	if iv.Months > 0 {
		dueDate = AddMonths(serviceDate, iv.Months)
	}
	return dueDist, dueDate
}
