package source

import (
	"context"

	"github.com/nao1215/postfilter/internal/model"
)

// Source provides the datasets a content filter reads.
// Implementations must preserve dataset order: the order of groups and of
// posts within them is the order the filter renders.
type Source interface {
	// Groups returns the grouped dataset for the given kind.
	Groups(ctx context.Context, kind model.GroupKind) (model.GroupedDataset, error)

	// Posts returns the flat dataset of all posts.
	Posts(ctx context.Context) (model.FlatDataset, error)
}
