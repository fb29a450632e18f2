package constants

// Status is the outcome recorded for one processed input.
type Status string

// Stable values (exported in batch output and metrics labels).
const (
	StatusOK          Status = "OK"          // result set produced
	StatusEmpty       Status = "EMPTY"       // result set produced, every field null
	StatusUnsupported Status = "UNSUPPORTED" // extension not handled by any pipeline
	StatusFailed      Status = "FAILED"      // read or validation failure
)
