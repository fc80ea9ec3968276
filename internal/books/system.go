package books

import (
	"context"

	"github.com/shelfdex/shelfdex/pkg/pagination"
)

// System defines the public contract for catalog search operations.
type System interface {
	Handler() *Handler

	// Execute runs a query's count+fetch pair and renders each row
	// through its crosswalk. The query's page is clamped into the
	// counted range before fetching.
	Execute(ctx context.Context, q *Query) (*pagination.PageResult[any], error)

	// Count runs only the count statement for a query.
	Count(ctx context.Context, q *Query) (int, error)

	// TopSubjects samples a query's best-ranked matches and returns
	// the most frequent subjects among them.
	TopSubjects(ctx context.Context, q *Query, limit, maxBooks int) ([]SubjectCount, error)

	ListSubjects(ctx context.Context) ([]TermCount, error)
	ListBookshelves(ctx context.Context) ([]TermCount, error)
	SubjectName(ctx context.Context, id int64) (string, error)
	LoCCChildren(ctx context.Context, parent string) ([]LoCCChild, error)

	// RegisterCustomTransformer installs the renderer behind the
	// custom crosswalk.
	RegisterCustomTransformer(fn Transformer)
}
