package main

import (
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const busConnectTimeout = 5 * time.Second

// Bus wraps the MQTT client behind the small contract the tasks need:
// publish, idempotent subscribe and a non-blocking per-topic pop. Received
// messages are queued per topic by the message callback so any task can
// poll any subscribed topic.
//
// When the broker address is empty or "mock", or the initial connect fails,
// the bus runs disconnected: publish and subscribe become inert no-ops and
// TryPopMessage always reports no message. Connection failure is never
// fatal.
type Bus struct {
	log       *LeveledLogger
	client    mqtt.Client
	connected bool

	mu         sync.Mutex
	queues     map[string][]string
	subscribed map[string]bool
}

// NewBus connects to the broker and returns the bus. The returned bus is
// usable even when the connection failed.
func NewBus(logger *LeveledLogger, broker string, port int, clientID string) *Bus {
	b := &Bus{
		log:        logger,
		queues:     make(map[string][]string),
		subscribed: make(map[string]bool),
	}

	if broker == "" || broker == "mock" {
		b.log.Info("MQTT running in disconnected mode (no broker)")
		return b
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", broker, port))
	opts.SetClientID(clientID)
	opts.SetDefaultPublishHandler(b.onMessage)
	opts.SetAutoReconnect(true)
	opts.OnConnect = func(mqtt.Client) {
		b.log.Info("Connected to MQTT broker")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		b.log.Warn("MQTT connection lost: %v", err)
	}

	b.client = mqtt.NewClient(opts)
	token := b.client.Connect()
	if !token.WaitTimeout(busConnectTimeout) || token.Error() != nil {
		b.log.Error("Failed to connect to MQTT broker %s:%d: %v (continuing disconnected)",
			broker, port, token.Error())
		return b
	}
	b.connected = true
	return b
}

// Connected reports whether the initial broker connection succeeded.
func (b *Bus) Connected() bool { return b.connected }

func (b *Bus) onMessage(_ mqtt.Client, msg mqtt.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queues[msg.Topic()] = append(b.queues[msg.Topic()], string(msg.Payload()))
}

// Publish sends the payload and reports success. Inert when disconnected.
func (b *Bus) Publish(topic, payload string) bool {
	if !b.connected {
		return false
	}
	token := b.client.Publish(topic, 1, false, payload)
	if !token.WaitTimeout(busConnectTimeout) || token.Error() != nil {
		b.log.Warn("MQTT publish to %s failed: %v", topic, token.Error())
		return false
	}
	return true
}

// SubscribeTopic subscribes to a topic; repeated calls are no-ops.
func (b *Bus) SubscribeTopic(topic string) {
	if !b.connected {
		return
	}
	b.mu.Lock()
	already := b.subscribed[topic]
	b.subscribed[topic] = true
	b.mu.Unlock()
	if already {
		return
	}
	token := b.client.Subscribe(topic, 1, nil)
	if !token.WaitTimeout(busConnectTimeout) || token.Error() != nil {
		b.log.Warn("MQTT subscribe to %s failed: %v", topic, token.Error())
		return
	}
	b.log.Debug("Subscribed to %s", topic)
}

// TryPopMessage removes and returns the oldest queued message for the
// topic, if any. It never blocks.
func (b *Bus) TryPopMessage(topic string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	q := b.queues[topic]
	if len(q) == 0 {
		return "", false
	}
	msg := q[0]
	b.queues[topic] = q[1:]
	return msg, true
}

// Disconnect closes the broker connection.
func (b *Bus) Disconnect() {
	if b.connected {
		b.client.Disconnect(250)
		b.connected = false
	}
}
