package ports

import (
	"context"

	"genml/domain/core"
	"genml/domain/genml"
)

// ResultRepository persists terminal estimation results. Persistence is an
// optional outer surface: the estimation core never requires it, and a nil
// repository simply means results live only in the response.
type ResultRepository interface {
	Save(ctx context.Context, result *genml.EstimationResult) error
	GetByID(ctx context.Context, id core.RunID) (*genml.EstimationResult, error)
	ListRecent(ctx context.Context, limit int) ([]*genml.EstimationResult, error)
}
