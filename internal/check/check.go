// Package check defines the monitoring-plugin status codes.
package check

// Status is a monitoring-plugin exit code.
type Status int

const (
	OK       Status = 0
	Warning  Status = 1
	Critical Status = 2
	Unknown  Status = 3
)

// String returns the conventional status word.
func (s Status) String() string {
	switch s {
	case OK:
		return "OK"
	case Warning:
		return "WARNING"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// FromExitCode maps a subprocess exit code to a Status. Codes outside the
// plugin range map to Unknown so that our own exit code is always one of
// the four values the monitoring system understands.
func FromExitCode(code int) Status {
	if code < 0 || code > 3 {
		return Unknown
	}
	return Status(code)
}
