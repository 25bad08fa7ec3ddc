package composite

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrAlreadyDisposed   = errors.New("already disposed")
	ErrInvalidDependency = errors.New("invalid dependency")
)

// InvalidPolicyError is the panic value used when a cancel policy outside the known set reaches a handle.
// This can only happen when a CancelPolicy is converted from an arbitrary integer.
type InvalidPolicyError struct {
	Policy CancelPolicy
}

var _ error = &InvalidPolicyError{}

func (e *InvalidPolicyError) Error() string {
	return fmt.Sprintf("invalid cancel policy %d", int(e.Policy))
}
