package window

import (
	"errors"
	"fmt"
)

// ErrUnknownType is returned when a window name cannot be resolved.
var ErrUnknownType = errors.New("window: unknown type")

func unknownName(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownType, name)
}
