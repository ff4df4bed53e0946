// Package mqtttest provides an in-memory mqtt.Client for tests.
package mqtttest

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/saaga0h/lux-platform/pkg/mqtt"
)

// Published is a message recorded by Fake
type Published struct {
	Topic    string
	QoS      byte
	Retained bool
	Payload  []byte
}

// Fake records publishes and loops them, like Deliver'd messages, back to matching subscribers
type Fake struct {
	mu        sync.Mutex
	connected bool
	published []Published
	handlers  map[string]mqtt.MessageHandler

	ConnectErr error
	PublishErr error
}

// NewFake returns a disconnected fake client
func NewFake() *Fake {
	return &Fake{handlers: make(map[string]mqtt.MessageHandler)}
}

func (f *Fake) Connect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ConnectErr != nil {
		return f.ConnectErr
	}
	f.connected = true
	return nil
}

func (f *Fake) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
}

func (f *Fake) Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[topic] = handler
	return nil
}

// Publish records the message and hands it to matching subscribers, as a
// broker would
func (f *Fake) Publish(topic string, qos byte, retained bool, payload []byte) error {
	f.mu.Lock()
	if f.PublishErr != nil {
		f.mu.Unlock()
		return f.PublishErr
	}
	f.published = append(f.published, Published{Topic: topic, QoS: qos, Retained: retained, Payload: payload})
	matched := f.matching(topic)
	f.mu.Unlock()

	deliver(matched, topic, payload)
	return nil
}

func (f *Fake) PublishJSON(topic string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return f.Publish(topic, 0, false, payload)
}

func (f *Fake) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

// Deliver hands payload to every subscriber whose filter matches topic
func (f *Fake) Deliver(topic string, payload []byte) {
	f.mu.Lock()
	matched := f.matching(topic)
	f.mu.Unlock()

	deliver(matched, topic, payload)
}

// matching returns the handlers subscribed to topic. Caller holds mu.
func (f *Fake) matching(topic string) []mqtt.MessageHandler {
	var matched []mqtt.MessageHandler
	for filter, h := range f.handlers {
		if Match(filter, topic) {
			matched = append(matched, h)
		}
	}
	return matched
}

func deliver(handlers []mqtt.MessageHandler, topic string, payload []byte) {
	for _, h := range handlers {
		h(&message{topic: topic, payload: payload})
	}
}

// Published returns a copy of every recorded publish
func (f *Fake) Published() []Published {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Published, len(f.published))
	copy(out, f.published)
	return out
}

// PublishedTo returns recorded publishes whose topic starts with prefix
func (f *Fake) PublishedTo(prefix string) []Published {
	var out []Published
	for _, p := range f.Published() {
		if strings.HasPrefix(p.Topic, prefix) {
			out = append(out, p)
		}
	}
	return out
}

// Match reports whether an MQTT topic filter with + and # wildcards matches topic
func Match(filter, topic string) bool {
	fp := strings.Split(filter, "/")
	tp := strings.Split(topic, "/")
	for i, part := range fp {
		if part == "#" {
			return true
		}
		if i >= len(tp) {
			return false
		}
		if part != "+" && part != tp[i] {
			return false
		}
	}
	return len(fp) == len(tp)
}

type message struct {
	topic   string
	payload []byte
}

func (m *message) Topic() string   { return m.topic }
func (m *message) Payload() []byte { return m.payload }
func (m *message) Ack()            {}
