package tasks

import (
	"errors"

	"github.com/desertthunder/acms/internal/services"
	"github.com/desertthunder/acms/internal/shared"
)

// SaveError is the single error returned by a failed [ContentSyncer.Save].
type SaveError struct {
	Stage Stage
	Err   error
}

func (e *SaveError) Error() string {
	return shared.ErrSaveFailed.Error() + ": " + describe(e.Err)
}

// Unwrap exposes both [shared.ErrSaveFailed] and the stage error to [errors.Is].
func (e *SaveError) Unwrap() []error {
	return []error{shared.ErrSaveFailed, e.Err}
}

// taxonomy is checked in order; the first sentinel in the chain names the failure.
var taxonomy = []error{
	shared.ErrInvalidInput,
	shared.ErrResolver,
	shared.ErrPersistenceInconsistency,
	shared.ErrContentWrite,
	shared.ErrJunctionSync,
}

// describe renders err for an operator. Backend errors contribute their details
// field, then their message; anything else falls back to the full error text.
func describe(err error) string {
	if err == nil {
		return "unknown error"
	}

	var apiErr *services.APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}

	for _, sentinel := range taxonomy {
		if errors.Is(err, sentinel) {
			return sentinel.Error() + ": " + apiErr.Detail()
		}
	}
	return apiErr.Detail()
}
