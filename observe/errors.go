package observe

import "errors"

// Sentinels returned by Config.Validate.
var (
	// ErrMissingServiceName: Config.ServiceName was left empty.
	ErrMissingServiceName = errors.New("observe: service name is required")

	// ErrInvalidSamplePct: Tracing.SamplePct fell outside [0.0, 1.0].
	ErrInvalidSamplePct = errors.New("observe: sample percentage must be between 0.0 and 1.0")

	// ErrInvalidTracingExporter: the tracing exporter name is not recognized.
	ErrInvalidTracingExporter = errors.New("observe: invalid tracing exporter")

	// ErrInvalidMetricsExporter: the metrics exporter name is not recognized.
	ErrInvalidMetricsExporter = errors.New("observe: invalid metrics exporter")

	// ErrInvalidLogLevel: the log level name is not recognized.
	ErrInvalidLogLevel = errors.New("observe: invalid log level")
)

// ErrNilObserver is returned when a nil Observer is handed to
// InstrumentsFromObserver.
var ErrNilObserver = errors.New("observe: observer is nil")

// Sampling percentage bounds accepted by Config.Validate.
const (
	MinSamplePct = 0.0
	MaxSamplePct = 1.0
)

// ValidTracingExporters lists the accepted tracing exporter names. Empty
// means disabled.
var ValidTracingExporters = []string{"otlp", "stdout", "none", ""}

// ValidMetricsExporters lists the accepted metrics exporter names.
var ValidMetricsExporters = []string{"otlp", "prometheus", "stdout", "none", ""}

// ValidLogLevels lists the accepted log level names.
var ValidLogLevels = []string{"debug", "info", "warn", "error", ""}

// RedactedFields are log field keys whose values are masked before
// serialization. OAuth grants and tokens travel under several of these.
var RedactedFields = []string{
	"password",
	"secret",
	"token",
	"credential",
	"api_key",
	"apiKey",
	"authorization",
	"access_token",
	"refresh_token",
	"id_token",
	"client_secret",
	"code",
	"state",
}
