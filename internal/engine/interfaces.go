package engine

import (
	"context"

	"github.com/orderflow/orderflow/internal/model"
)

// Suggester defines the contract for product categorization.
type Suggester interface {
	Suggest(ctx context.Context, productDescription string) (model.Suggestion, error)
}
