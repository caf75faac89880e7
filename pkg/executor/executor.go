package executor

import (
	"context"
	"fmt"

	"github.com/arthur-debert/modorg/pkg/conflicts"
	"github.com/arthur-debert/modorg/pkg/errors"
	"github.com/arthur-debert/modorg/pkg/installed"
	"github.com/arthur-debert/modorg/pkg/operations"
	"github.com/arthur-debert/modorg/pkg/registry"
)

// Executor applies install and uninstall operations to an installed state.
type Executor interface {
	// ModMap returns the current installed state. Callers must not modify it.
	ModMap() installed.State
	// Apply runs ops in order and stops at the first error.
	Apply(ctx context.Context, ops []operations.Operation) error
}

// CheckForConflicts runs the conflict checker over e's current state.
func CheckForConflicts(e Executor, snap *registry.Snapshot) []conflicts.ModConflict {
	return conflicts.Check(e.ModMap(), snap)
}

// applyEach runs step for every operation, checking ctx in between.
func applyEach(ctx context.Context, ops []operations.Operation, step func(operations.Operation) error) error {
	for i, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step(op); err != nil {
			if modErr, ok := err.(*errors.ModError); ok {
				modErr.WithDetail("operation", op.String()).WithDetail("index", i)
			}
			return err
		}
	}
	return nil
}

func notInRegistry(guid string, v fmt.Stringer) error {
	return errors.Newf(errors.ErrFileNotFound, "%s@%s is not in the registry", guid, v).
		WithDetail("guid", guid)
}

func notInstalled(guid string, v fmt.Stringer) error {
	return errors.Newf(errors.ErrFileNotFound, "%s@%s is not installed", guid, v).
		WithDetail("guid", guid)
}

func unknownOperation(op operations.Operation) error {
	return errors.Newf(errors.ErrInternal, "unknown operation %T", op)
}
