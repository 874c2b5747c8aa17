package constants

import "time"

var CatalogConfig = struct {
	MetadataFile       string
	QualityPlaceholder string
	DefaultBaseURL     string
	DefaultQuality     string
}{
	MetadataFile:       "metadata.json",
	QualityPlaceholder: "{quality}",
	DefaultBaseURL:     "http://localhost:8000/",
	DefaultQuality:     "medium",
}

var HTTPConfig = struct {
	Timeout          time.Duration
	MaxMetadataBytes int64
	UserAgent        string
}{
	Timeout:          10 * time.Second,
	MaxMetadataBytes: 32 << 20, // 32 MiB
	UserAgent:        "playclips/1.0",
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}{
	FailureThreshold: 3,                // consecutive failures before the circuit opens
	ResetTimeout:     30 * time.Second, // how long the circuit stays open
}

var VerifyConfig = struct {
	Concurrency int
}{
	Concurrency: 8,
}

var StringLimits = struct {
	TagList int
}{
	TagList: 48,
}
