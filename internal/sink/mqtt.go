package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// Defaults for the MQTT sink.
const (
	DefaultTopic       = "shopfind/selection"
	DefaultMQTTTimeout = 5 * time.Second
)

// ErrPublishTimeout is returned when the broker does not acknowledge a
// publish within the configured timeout.
var ErrPublishTimeout = errors.New("mqtt publish timed out")

// MQTTConfig configures an MQTTSink.
type MQTTConfig struct {
	Broker   string
	Topic    string
	ClientID string
	Timeout  time.Duration
}

// publisher is the subset of mqtt.Client the sink uses.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTTSink publishes each selection to a topic. The payload is the raw
// product id; an empty payload clears the selection. Messages are retained so
// late subscribers see the current selection.
type MQTTSink struct {
	client  publisher
	topic   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewMQTTSink connects to the broker and returns a ready sink.
func NewMQTTSink(cfg MQTTConfig, logger *zap.Logger) (*MQTTSink, error) {
	if cfg.Broker == "" {
		return nil, errors.New("mqtt broker address is required")
	}
	cfg = cfg.withDefaults()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(cfg.Timeout)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(cfg.Timeout) {
		return nil, fmt.Errorf("connect to %s: timed out", cfg.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Broker, err)
	}

	return newMQTTSink(client, cfg, logger), nil
}

func newMQTTSink(client publisher, cfg MQTTConfig, logger *zap.Logger) *MQTTSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()
	return &MQTTSink{
		client:  client,
		topic:   cfg.Topic,
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

func (c MQTTConfig) withDefaults() MQTTConfig {
	if c.Topic == "" {
		c.Topic = DefaultTopic
	}
	if c.ClientID == "" {
		c.ClientID = "shopfind"
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultMQTTTimeout
	}
	return c
}

// Selected implements Sink.
func (s *MQTTSink) Selected(ctx context.Context, id string) error {
	token := s.client.Publish(s.topic, 1, true, []byte(id))

	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if d := time.Until(deadline); d < timeout {
			timeout = d
		}
	}
	if !token.WaitTimeout(timeout) {
		return ErrPublishTimeout
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish selection: %w", err)
	}
	s.logger.Debug("selection published", zap.String("topic", s.topic), zap.String("product_id", id))
	return nil
}

// Close disconnects from the broker.
func (s *MQTTSink) Close() {
	s.client.Disconnect(250)
}
