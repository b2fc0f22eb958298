package diag

// Severity ranks a diagnostic. Only SevError marks a resolution as
// broken; the bag and the CLI treat anything below it as advisory.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// String returns the upper-case label rendered next to the code.
func (s Severity) String() string {
	switch s {
	case SevError:
		return "ERROR"
	case SevWarning:
		return "WARNING"
	case SevInfo:
		return "INFO"
	default:
		return "UNKNOWN"
	}
}
