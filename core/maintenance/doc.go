package maintenance

// Package maintenance turns service records into due projections and alerts.
// The scheduler is pure: it holds no state and can be called for any number
// of vehicles and kinds in any order or in parallel.
