package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"truck-service/truck"
)

// Mirror maintains a live copy of the truck state in a Redis hash so that
// fleet-side tooling can read it without parsing the MQTT stream. The
// mirror is strictly best-effort: when Redis is unreachable at startup the
// mirror stays disabled and SendSnapshot becomes a no-op.
type Mirror struct {
	log     *LeveledLogger
	redis   *redis.Client
	key     string
	enabled bool
	mu      sync.Mutex
	ctx     context.Context
}

func NewMirror(ctx context.Context, logger *LeveledLogger, opts *Options) *Mirror {
	m := &Mirror{
		log: logger,
		key: fmt.Sprintf("truck:%d", opts.TruckID),
		ctx: ctx,
	}

	if opts.RedisServerAddr == "" {
		logger.Info("Redis mirror disabled (no server address)")
		return m
	}

	m.redis = redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%d", opts.RedisServerAddr, opts.RedisServerPort),
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := m.redis.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis mirror unavailable at %s:%d: %v",
			opts.RedisServerAddr, opts.RedisServerPort, err)
		m.redis.Close()
		m.redis = nil
		return m
	}

	m.enabled = true
	logger.Info("Redis mirror connected to %s:%d", opts.RedisServerAddr, opts.RedisServerPort)
	return m
}

// Enabled reports whether the mirror holds a live Redis connection.
func (m *Mirror) Enabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// SendSnapshot writes the current state into the truck hash and publishes a
// change notification on the hash key channel.
func (m *Mirror) SendSnapshot(s truck.Sample, state *truck.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.enabled {
		return nil
	}

	pipe := m.redis.Pipeline()

	pipe.HSet(m.ctx, m.key, map[string]interface{}{
		"pos-x":       s.PosX,
		"pos-y":       s.PosY,
		"heading":     s.Heading,
		"temperature": s.Temp,
		"throttle":    state.Actuator.Throttle(),
		"steering":    state.Actuator.Steering(),
		"automatic":   onOff(state.Status.Automatic.Load()),
		"faulted":     onOff(state.Status.Faulted.Load()),
		"temp-alert":  onOff(state.Status.TemperatureAlert.Load()),
		"fault-elec":  onOff(s.ElectricalFault),
		"fault-hyd":   onOff(s.HydraulicFault),
		"ts":          s.TimestampMs,
	})

	pipe.Publish(m.ctx, m.key, "state")

	_, err := pipe.Exec(m.ctx)
	if err != nil {
		return fmt.Errorf("failed to mirror state: %v", err)
	}

	return nil
}

func (m *Mirror) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.redis != nil {
		m.redis.Close()
		m.redis = nil
	}
	m.enabled = false
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
