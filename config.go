package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"truck-service/truck"
)

// Config holds the tuning parameters of the service. Everything has a
// sensible default so the YAML file is optional; the file overrides only
// the fields it names.
type Config struct {
	SensorPeriodMs  int `yaml:"sensor_period_ms"`
	CommandPeriodMs int `yaml:"command_period_ms"`
	ControlPeriodMs int `yaml:"control_period_ms"`
	MonitorPauseMs  int `yaml:"monitor_pause_ms"`

	FilterOrder     int `yaml:"filter_order"`
	ChannelCapacity int `yaml:"channel_capacity"`

	NoisePosStdDev  float64 `yaml:"noise_pos_stddev"`
	NoiseAngStdDev  float64 `yaml:"noise_ang_stddev"`
	NoiseTempStdDev float64 `yaml:"noise_temp_stddev"`

	BaseTemp        float64 `yaml:"base_temp"`
	TempVelFactor   float64 `yaml:"temp_vel_factor"`
	TempAccelFactor float64 `yaml:"temp_accel_factor"`

	StartX float64 `yaml:"start_x"`
	StartY float64 `yaml:"start_y"`

	RouteIntervalMs int     `yaml:"route_interval_ms"`
	RouteReachDist  float64 `yaml:"route_reach_dist"`

	Kinematics truck.KinematicsConfig `yaml:"kinematics"`
	Control    truck.ControlConfig    `yaml:"control"`
}

// DefaultConfig returns the built-in tuning.
func DefaultConfig() *Config {
	return &Config{
		SensorPeriodMs:  50,
		CommandPeriodMs: 30,
		ControlPeriodMs: 100,
		MonitorPauseMs:  40,
		FilterOrder:     5,
		ChannelCapacity: 200,
		NoisePosStdDev:  0.9,
		NoiseAngStdDev:  1.2,
		NoiseTempStdDev: 1.2,
		BaseTemp:        70.0,
		TempVelFactor:   0.04,
		TempAccelFactor: 0.02,
		StartX:          100.0,
		StartY:          100.0,
		RouteIntervalMs: 500,
		RouteReachDist:  12.0,
		Kinematics:      truck.DefaultKinematicsConfig(),
		Control:         truck.DefaultControlConfig(),
	}
}

// LoadConfig returns the defaults overlaid with the YAML file at path.
// An empty path selects the pure defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.ChannelCapacity <= 0 {
		return nil, fmt.Errorf("config: channel_capacity must be > 0, got %d", cfg.ChannelCapacity)
	}
	if cfg.SensorPeriodMs <= 0 || cfg.ControlPeriodMs <= 0 {
		return nil, fmt.Errorf("config: task periods must be > 0")
	}
	return cfg, nil
}
