package sink

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// ClientOptions configures the MQTT-backed sink.
// Broker: tcp://host:port
// TopicPrefix: leading topic segment, e.g. "panel"
type ClientOptions struct {
	Broker         string
	ClientID       string
	Username       string
	Password       string
	TopicPrefix    string
	KeepAlive      time.Duration
	ConnectTimeout time.Duration
	Qos            byte
}

// envelope is the JSON wrapper carried on every sink topic.
type envelope struct {
	ApiVersion    string      `json:"apiVersion"`
	CorrelationID string      `json:"correlationID"`
	Value         interface{} `json:"value"`
}

const apiVersion = "v1"

// MQTTSink implements Sink over an MQTT broker. Element events arrive on
// <prefix>/<selector>/event/<event>; display updates are published retained
// on <prefix>/<selector>/display so late dashboards see the current value.
type MQTTSink struct {
	inner  paho.Client
	opts   ClientOptions
	mu     sync.Mutex
	values map[string]interface{} // last value seen per selector
}

// NewMQTTSink connects to the broker and returns a ready sink.
func NewMQTTSink(opts ClientOptions) (*MQTTSink, error) {
	if opts.TopicPrefix == "" {
		opts.TopicPrefix = "panel"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 10 * time.Second
	}
	p := paho.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetKeepAlive(opts.KeepAlive).
		SetCleanSession(true)
	if opts.Username != "" {
		p.SetUsername(opts.Username)
	}
	if opts.Password != "" {
		p.SetPassword(opts.Password)
	}
	s := &MQTTSink{opts: opts, values: make(map[string]interface{})}
	s.inner = paho.NewClient(p)
	tok := s.inner.Connect()
	if !tok.WaitTimeout(opts.ConnectTimeout) {
		return nil, fmt.Errorf("mqtt connect timeout after %s", opts.ConnectTimeout)
	}
	if err := tok.Error(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MQTTSink) eventTopic(selector, event string) string {
	return fmt.Sprintf("%s/%s/event/%s", s.opts.TopicPrefix, selector, event)
}

func (s *MQTTSink) displayTopic(selector string) string {
	return fmt.Sprintf("%s/%s/display", s.opts.TopicPrefix, selector)
}

// On subscribes to the selector's event topic. The decoded value is cached
// so Value can serve it synchronously.
func (s *MQTTSink) On(selector, event string, handler EventHandler) error {
	topic := s.eventTopic(selector, event)
	tok := s.inner.Subscribe(topic, s.opts.Qos, func(_ paho.Client, m paho.Message) {
		var env envelope
		if err := json.Unmarshal(m.Payload(), &env); err != nil {
			return
		}
		s.mu.Lock()
		s.values[selector] = env.Value
		s.mu.Unlock()
		handler(env.Value)
	})
	tok.Wait()
	return tok.Error()
}

func (s *MQTTSink) Off(selector, event string) error {
	tok := s.inner.Unsubscribe(s.eventTopic(selector, event))
	tok.Wait()
	return tok.Error()
}

// SetHTML publishes the element's new display content, retained.
func (s *MQTTSink) SetHTML(selector string, value interface{}) error {
	body, err := json.Marshal(envelope{
		ApiVersion:    apiVersion,
		CorrelationID: uuid.NewString(),
		Value:         value,
	})
	if err != nil {
		return fmt.Errorf("marshal display update: %w", err)
	}
	tok := s.inner.Publish(s.displayTopic(selector), s.opts.Qos, true, body)
	tok.Wait()
	return tok.Error()
}

// Value returns the last value the selector reported on any event topic.
func (s *MQTTSink) Value(selector string) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[selector]
	if !ok {
		return nil, fmt.Errorf("no value seen for selector %q", selector)
	}
	return v, nil
}

// Disconnect drops the broker connection.
func (s *MQTTSink) Disconnect(quiesce uint) {
	s.inner.Disconnect(quiesce)
}
