package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics.
	SevInfo Severity = iota
	// SevWarning is for warning diagnostics.
	SevWarning
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Code identifies a diagnostic category.
type Code uint16

const (
	UnknownCode Code = 0

	// Classification
	ClsAmbiguousLine     Code = 1000
	ClsUnbalancedEndif   Code = 1001
	ClsDanglingContinue  Code = 1002
	ClsUnknownTag        Code = 1003
	ClsDuplicateValueTag Code = 1004

	// Normalization
	NormDroppedDuplicate Code = 2000
	NormUnsortableValue  Code = 2001

	// Header
	HdrReplacedYear Code = 3000
	HdrInserted     Code = 3001
)

func (c Code) ID() string {
	switch {
	case c >= 1000 && c < 2000:
		return "CLS"
	case c >= 2000 && c < 3000:
		return "NORM"
	case c >= 3000 && c < 4000:
		return "HDR"
	}
	return "UNK"
}

// Diagnostic records one non-fatal observation made while cleaning. Line is
// 1-based in the input file, 0 when the observation has no position.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Line     int
	Message  string
}

// New constructs a diagnostic.
func New(sev Severity, code Code, line int, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Line: line, Message: msg}
}
