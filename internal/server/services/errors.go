package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/jobboard/internal/common"
)

// mapContextErr reports an expired deadline as common.ErrTimeout and returns
// any other error unchanged.
func mapContextErr(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return common.ErrTimeout
	}
	return err
}
