package config

import "time"

// Application constants
const (
	AppName   = "Student Pulse"
	EnvPrefix = "STUDENTPULSE"

	// ConfigFileEnv names the variable that points at an explicit YAML file.
	ConfigFileEnv = EnvPrefix + "_CONFIG"

	DefaultPort           = 8080
	DefaultMaxUploadBytes = 10 << 20
	DefaultRateLimit      = 20 // requests per second
	DefaultBurstSize      = 40

	WebSocketPingPeriod = 30 * time.Second
	WebSocketPongWait   = 60 * time.Second
)

// Log output targets
const (
	OutputConsole = "console"
	OutputFile    = "file"
	OutputBoth    = "both"
)

// Trace exporters
const (
	TraceExporterNone   = "none"
	TraceExporterStdout = "stdout"
)
