package entity

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks client errors caused by an empty required
// field. Transport maps it to a 400 response.
var ErrInvalidArgument = errors.New("invalid argument")

func InvalidArgumentError(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, msg)
}
