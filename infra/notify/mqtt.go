package notify

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/nmonzon/carmind/core/maintenance"
	"github.com/nmonzon/carmind/infra/logger"
)

// Config defines the connection parameters for the MQTT alert publisher.
type Config struct {
	Enabled     bool   `json:"enabled"`
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	TopicPrefix string `json:"topic_prefix"`
	QoS         byte   `json:"qos"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "carmind"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "carmind"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("broker is required when notify is enabled")
	}
	return nil
}

// MQTTPublisher publishes alerts as JSON to
// <prefix>/<owner>/vehicle/<id>/alert using Eclipse Paho.
type MQTTPublisher struct {
	cli    paho.Client
	prefix string
	qos    byte
	log    logger.Logger
}

// NewMQTTPublisher connects to the broker and returns the publisher.
func NewMQTTPublisher(cfg Config) (*MQTTPublisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetConnectTimeout(5 * time.Second).
		SetAutoReconnect(true)
	cli := paho.NewClient(opts)
	tok := cli.Connect()
	if !tok.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("mqtt connect timeout to %s", cfg.Broker)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return &MQTTPublisher{
		cli:    cli,
		prefix: cfg.TopicPrefix,
		qos:    cfg.QoS,
		log:    logger.New("mqtt-notify"),
	}, nil
}

// PublishAlert publishes the alert and waits for the broker handoff.
func (p *MQTTPublisher) PublishAlert(ownerID string, alert maintenance.Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	topic := fmt.Sprintf("%s/%s/vehicle/%s/alert", p.prefix, ownerID, alert.VehicleID)
	tok := p.cli.Publish(topic, p.qos, false, payload)
	if !tok.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout on %s", topic)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("publish on %s: %w", topic, err)
	}
	p.log.Debugw("alert published", map[string]any{
		"topic":    topic,
		"kind":     string(alert.Kind),
		"priority": alert.Priority.String(),
	})
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.cli.Disconnect(250)
}
