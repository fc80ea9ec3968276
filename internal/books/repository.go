package books

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shelfdex/shelfdex/pkg/pagination"
	"github.com/shelfdex/shelfdex/pkg/repository"
)

type repo struct {
	pool       *pgxpool.Pool
	logger     *slog.Logger
	pagination pagination.Config

	mu         sync.RWMutex
	crosswalks map[Crosswalk]Transformer
	custom     Transformer
}

// New creates a catalog repository implementing the System interface.
// baseURL resolves relative file paths in OPDS output; empty selects
// the default.
func New(
	pool *pgxpool.Pool,
	logger *slog.Logger,
	pagination pagination.Config,
	baseURL string,
) System {
	return &repo{
		pool:       pool,
		logger:     logger.With("system", "books"),
		pagination: pagination,
		crosswalks: Crosswalks(baseURL),
	}
}

func (s *repo) Handler() *Handler {
	return NewHandler(s, s.logger, s.pagination)
}

func (s *repo) RegisterCustomTransformer(fn Transformer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.custom = fn
}

func (s *repo) transformer(cw Crosswalk) (Transformer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if cw == CrosswalkCustom && s.custom != nil {
		return s.custom, nil
	}
	if t, ok := s.crosswalks[cw]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCrosswalk, cw)
}

func scanInt(s repository.Scanner) (int, error) {
	var n int
	if err := s.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Execute runs the count+fetch pair for a query: count first, clamp
// the requested page into range, fetch that page, and render each row
// through the query's crosswalk.
func (s *repo) Execute(ctx context.Context, q *Query) (*pagination.PageResult[any], error) {
	transform, err := s.transformer(q.crosswalk)
	if err != nil {
		return nil, err
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	countSQL, countParams := q.BuildCount()
	total, err := repository.QueryOne(ctx, conn, countSQL, []any{pgx.NamedArgs(countParams)}, scanInt)
	if err != nil {
		return nil, repository.MapError(err, err, ErrSchema)
	}

	totalPages := pagination.TotalPages(total, q.pageSize)
	q.page = pagination.ClampPage(q.page, totalPages)

	sql, params := q.Build()
	rows, err := repository.QueryMany(ctx, conn, sql, []any{pgx.NamedArgs(params)}, scanRow)
	if err != nil {
		return nil, repository.MapError(err, err, ErrSchema)
	}

	results := make([]any, len(rows))
	for i, r := range rows {
		results[i] = transform(r)
	}

	s.logger.Debug("query executed",
		"crosswalk", q.crosswalk,
		"total", total,
		"page", q.page,
		"page_size", q.pageSize)

	return &pagination.PageResult[any]{
		Results:    results,
		Page:       q.page,
		PageSize:   q.pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// Count runs only the count statement for a query.
func (s *repo) Count(ctx context.Context, q *Query) (int, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	sql, params := q.BuildCount()
	total, err := repository.QueryOne(ctx, conn, sql, []any{pgx.NamedArgs(params)}, scanInt)
	if err != nil {
		return 0, repository.MapError(err, err, ErrSchema)
	}
	return total, nil
}

// TopSubjects samples the query's best-ranked matches and returns the
// most frequent subjects among them, for building dynamic facets.
// maxBooks clamps to [1, 5000] and limit to [1, 100].
func (s *repo) TopSubjects(ctx context.Context, q *Query, limit, maxBooks int) ([]SubjectCount, error) {
	sql, params := q.BuildTopSubjects(limit, maxBooks)

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	subjects, err := repository.QueryMany(ctx, conn, sql, []any{pgx.NamedArgs(params)}, scanSubjectCount)
	if err != nil {
		return nil, repository.MapError(err, err, ErrSchema)
	}
	return subjects, nil
}

const listSubjectsSQL = `
	SELECT s.pk AS id, s.subject AS name, COUNT(mbs.fk_books) AS book_count
	FROM subjects s
	LEFT JOIN mn_books_subjects mbs ON s.pk = mbs.fk_subjects
	GROUP BY s.pk, s.subject
	ORDER BY book_count DESC, s.subject`

// ListSubjects lists every subject with its book count, most used
// first.
func (s *repo) ListSubjects(ctx context.Context) ([]TermCount, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	subjects, err := repository.QueryMany(ctx, conn, listSubjectsSQL, nil, scanTermCount)
	if err != nil {
		return nil, repository.MapError(err, err, ErrSchema)
	}
	return subjects, nil
}

const listBookshelvesSQL = `
	SELECT bs.pk AS id, bs.bookshelf AS name, COUNT(mbbs.fk_books) AS book_count
	FROM bookshelves bs
	LEFT JOIN mn_books_bookshelves mbbs ON bs.pk = mbbs.fk_bookshelves
	GROUP BY bs.pk, bs.bookshelf
	ORDER BY bs.bookshelf`

// ListBookshelves lists every bookshelf with its book count,
// alphabetically.
func (s *repo) ListBookshelves(ctx context.Context) ([]TermCount, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	shelves, err := repository.QueryMany(ctx, conn, listBookshelvesSQL, nil, scanTermCount)
	if err != nil {
		return nil, repository.MapError(err, err, ErrSchema)
	}
	return shelves, nil
}

func scanSubjectName(s repository.Scanner) (string, error) {
	var name string
	if err := s.Scan(&name); err != nil {
		return "", err
	}
	return name, nil
}

// SubjectName looks up one subject's display name.
func (s *repo) SubjectName(ctx context.Context, id int64) (string, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return "", fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	name, err := repository.QueryOne(ctx, conn,
		"SELECT subject FROM subjects WHERE pk = @id",
		[]any{pgx.NamedArgs{"id": id}}, scanSubjectName)
	if err != nil {
		return "", repository.MapError(err, ErrSubjectNotFound, ErrSchema)
	}
	return name, nil
}

const loccChildrenSQL = `
	SELECT l.pk AS code, l.locc AS label,
		EXISTS (
			SELECT 1 FROM loccs c
			WHERE length(c.pk) = length(l.pk) + 1 AND c.pk LIKE l.pk || '%'
		) AS has_children
	FROM loccs l
	WHERE length(l.pk) = length(@parent) + 1 AND l.pk LIKE @parent || '%'
	ORDER BY l.pk`

// LoCCChildren lists the direct subclasses of a classification code:
// codes one character longer that share the parent prefix, each
// flagged when it has subclasses of its own.
func (s *repo) LoCCChildren(ctx context.Context, parent string) ([]LoCCChild, error) {
	parent = strings.ToUpper(strings.TrimSpace(parent))

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	children, err := repository.QueryMany(ctx, conn, loccChildrenSQL,
		[]any{pgx.NamedArgs{"parent": parent}}, scanLoCCChild)
	if err != nil {
		return nil, repository.MapError(err, err, ErrSchema)
	}
	return children, nil
}
