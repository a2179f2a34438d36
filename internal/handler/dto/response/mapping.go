package response

import (
	"marketplace-booking/internal/pkg/errs"

	"github.com/jinzhu/copier"
)

// copyInto maps a read model onto a response DTO by field name.
func copyInto[T any](src any) (*T, error) {
	var dst T
	if err := copier.Copy(&dst, src); err != nil {
		return nil, errs.Wrap(err, "failed to map response")
	}
	return &dst, nil
}
