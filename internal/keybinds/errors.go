package keybinds

import (
	"errors"
	"fmt"
)

var (
	// ErrLoadFailed marks failures of the keyboard-actions fetch
	ErrLoadFailed = errors.New("keyboard actions failed to load")

	// ErrUnknownAction marks a bind request for a name the catalog does not know
	ErrUnknownAction = errors.New("unknown keyboard action")

	// ErrAlreadyLoaded is returned by a second Catalog.Load call
	ErrAlreadyLoaded = errors.New("keyboard actions already loaded")

	// ErrInvalidBinding is returned synchronously by Bind for bad input
	ErrInvalidBinding = errors.New("invalid action binding")
)

// BindError describes a bind request that could not be applied
type BindError struct {
	Action string
	Err    error
}

func (e *BindError) Error() string {
	if errors.Is(e.Err, ErrUnknownAction) {
		return fmt.Sprintf("cannot find keyboard action '%s'", e.Action)
	}
	return fmt.Sprintf("cannot bind keyboard action '%s': %v", e.Action, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}
