package observer

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/saaga0h/lux-platform/pkg/mqtt"
)

// CapturedMessage is a single MQTT message captured during observation
type CapturedMessage struct {
	Timestamp time.Time   `json:"timestamp"`
	Topic     string      `json:"topic"`
	Payload   interface{} `json:"payload"`
}

// Observer captures MQTT traffic for later analysis
type Observer struct {
	client    mqtt.Client
	filter    string
	messages  []CapturedMessage
	startTime time.Time
	mutex     sync.RWMutex
	logger    *slog.Logger
}

// NewObserver creates an observer capturing every topic matching filter on
// an already connected client
func NewObserver(client mqtt.Client, filter string, logger *slog.Logger) *Observer {
	return &Observer{
		client: client,
		filter: filter,
		logger: logger,
	}
}

// Start subscribes and begins capturing
func (o *Observer) Start() error {
	o.mutex.Lock()
	o.startTime = time.Now()
	o.mutex.Unlock()

	if err := o.client.Subscribe(o.filter, 0, o.messageHandler); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", o.filter, err)
	}
	o.logger.Info("Observing MQTT traffic", "filter", o.filter)
	return nil
}

// messageHandler stores a message, decoding JSON payloads
func (o *Observer) messageHandler(msg mqtt.Message) {
	var payload interface{}
	if err := json.Unmarshal(msg.Payload(), &payload); err != nil {
		payload = string(msg.Payload())
	}

	o.mutex.Lock()
	elapsed := time.Since(o.startTime).Seconds()
	o.messages = append(o.messages, CapturedMessage{
		Timestamp: time.Now(),
		Topic:     msg.Topic(),
		Payload:   payload,
	})
	o.mutex.Unlock()

	room, _ := mqtt.RoomFromTopic(msg.Topic())
	o.logger.Debug("Captured message",
		"elapsed_sec", fmt.Sprintf("%.2f", elapsed),
		"topic", msg.Topic(),
		"room", room)
}

// GetMessagesByTopic returns all messages for a specific topic
func (o *Observer) GetMessagesByTopic(topic string) []CapturedMessage {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	var matches []CapturedMessage
	for _, msg := range o.messages {
		if msg.Topic == topic {
			matches = append(matches, msg)
		}
	}
	return matches
}

// GetAllMessages returns a copy of every captured message
func (o *Observer) GetAllMessages() []CapturedMessage {
	o.mutex.RLock()
	defer o.mutex.RUnlock()

	messages := make([]CapturedMessage, len(o.messages))
	copy(messages, o.messages)
	return messages
}

// SaveCapture writes all captured messages to a JSON file
func (o *Observer) SaveCapture(filename string) error {
	data, err := json.MarshalIndent(o.GetAllMessages(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to save capture: %w", err)
	}

	o.logger.Info("Saved MQTT capture", "path", filename)
	return nil
}
