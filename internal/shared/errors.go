package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Sync errors
	ErrResolver                 = fmt.Errorf("failed to resolve reference label")
	ErrJunctionSync             = fmt.Errorf("failed to sync focus areas")
	ErrContentWrite             = fmt.Errorf("failed to write content")
	ErrPersistenceInconsistency = fmt.Errorf("insert returned no row")
	ErrSaveFailed               = fmt.Errorf("save failed")

	// Read errors
	ErrContentNotFound = fmt.Errorf("content not found")
	ErrContentRead     = fmt.Errorf("failed to read content")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
