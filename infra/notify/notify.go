package notify

import (
	"fmt"
	"sync"

	"github.com/nmonzon/carmind/core/maintenance"
)

// Publisher delivers maintenance alerts to an external channel.
type Publisher interface {
	PublishAlert(ownerID string, alert maintenance.Alert) error
	Close()
}

// NopPublisher discards all alerts.
type NopPublisher struct{}

func (NopPublisher) PublishAlert(string, maintenance.Alert) error { return nil }
func (NopPublisher) Close()                                       {}

// MockPublisher records published alerts for tests.
type MockPublisher struct {
	mu     sync.Mutex
	Alerts []maintenance.Alert
	Fail   bool
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher { return &MockPublisher{} }

// PublishAlert records the alert or returns an error if configured to fail.
func (m *MockPublisher) PublishAlert(_ string, alert maintenance.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("publish failed")
	}
	m.Alerts = append(m.Alerts, alert)
	return nil
}

// Published returns a copy of all recorded alerts.
func (m *MockPublisher) Published() []maintenance.Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]maintenance.Alert(nil), m.Alerts...)
}

func (m *MockPublisher) Close() {}
