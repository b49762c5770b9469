// Package catalog owns the storefront catalog state: the product and
// category lists fetched from the remote API, the active category filter,
// and the lifecycle of the two fetch workflows.
//
// All mutation goes through the Store's methods. Reads return snapshots, so
// a caller never observes a half-applied update. Each fetch workflow tracks
// its own lifecycle (Idle → Pending → Succeeded/Failed) and carries a
// generation counter so that a stale resolution cannot overwrite the result
// of a newer dispatch (last-dispatched-wins).
package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Phase is the lifecycle stage of one fetch workflow.
type Phase int

const (
	Idle Phase = iota
	Pending
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Fetch is the observable state of one fetch workflow. Err is set only when
// Phase is Failed, and is overwritten (never appended) on each new failure.
type Fetch struct {
	Phase Phase
	Err   string
}

// fallbackFetchError is stored when a failed fetch carries no message.
const fallbackFetchError = "request failed"

// Client is the remote catalog API the Store fetches from. ProductByID is
// part of the collaborator surface even though the store itself never calls
// it; one-shot CLI commands do.
type Client interface {
	Products(ctx context.Context) ([]Product, error)
	ProductByID(ctx context.Context, id int) (Product, error)
	Categories(ctx context.Context) ([]string, error)
	ProductsByCategory(ctx context.Context, category string) ([]Product, error)
}

// Store holds the catalog aggregate. Construct one per application via
// NewStore and pass it to whatever composes the presentation layer; there is
// no package-level instance.
type Store struct {
	client Client
	logger *zap.Logger

	mu         sync.RWMutex
	products   []Product
	categories []string
	selected   string // "" means no filter

	productsFetch   Fetch
	categoriesFetch Fetch

	// Dispatch generations. A resolution only applies if its generation is
	// still current for its workflow.
	productsGen   uint64
	categoriesGen uint64
}

// NewStore creates a catalog store backed by the given API client. A nil
// logger is replaced with a no-op logger.
func NewStore(client Client, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: client, logger: logger}
}

// FetchProducts performs one attempt against the remote API and reconciles
// the result into the store. When category is non-empty the category-scoped
// endpoint is used, otherwise the full product list is requested. The
// products workflow is marked Pending (and its error cleared) before the
// network call starts. On success the product list is replaced wholesale;
// on failure the list is left untouched and the failure message recorded.
//
// FetchProducts blocks until the attempt resolves; run it on its own
// goroutine (the TUI wraps it in a tea.Cmd). No retries are performed.
func (s *Store) FetchProducts(ctx context.Context, category string) error {
	gen := s.beginProducts()

	var (
		fetched []Product
		err     error
	)
	if category != "" {
		fetched, err = s.client.ProductsByCategory(ctx, category)
	} else {
		fetched, err = s.client.Products(ctx)
	}
	if err != nil {
		s.failProducts(gen, err)
		return err
	}
	s.resolveProducts(gen, fetched)
	return nil
}

// FetchCategories performs one attempt to fetch the flat category list,
// with the same lifecycle rules as FetchProducts.
func (s *Store) FetchCategories(ctx context.Context) error {
	gen := s.beginCategories()

	fetched, err := s.client.Categories(ctx)
	if err != nil {
		s.failCategories(gen, err)
		return err
	}
	s.resolveCategories(gen, fetched)
	return nil
}

// Refresh fetches products (scoped to the selected category, if any) and
// categories concurrently. It returns the first error encountered; each
// workflow still reconciles its own lifecycle independently.
func (s *Store) Refresh(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.FetchProducts(ctx, s.SelectedCategory())
	})
	g.Go(func() error {
		return s.FetchCategories(ctx)
	})
	return g.Wait()
}

// SetSelectedCategory records the active category filter; the empty string
// clears it. It does not trigger a fetch: re-fetching on a filter change is
// the presentation layer's job.
func (s *Store) SetSelectedCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = category
}

// SelectedCategory returns the active category filter, "" if none.
func (s *Store) SelectedCategory() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Products returns a copy of the last successfully fetched product list.
func (s *Store) Products() []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// Categories returns a copy of the last successfully fetched category list.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}

// ProductsFetch returns the lifecycle state of the products workflow.
func (s *Store) ProductsFetch() Fetch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.productsFetch
}

// CategoriesFetch returns the lifecycle state of the categories workflow.
func (s *Store) CategoriesFetch() Fetch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categoriesFetch
}

// Loading reports whether either fetch workflow is in flight. It is the
// combined view of the two per-workflow lifecycles, for callers that do not
// care which one is pending.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.productsFetch.Phase == Pending || s.categoriesFetch.Phase == Pending
}

// Err returns the current failure message, "" when neither workflow has
// failed. When both have failed the products message wins, since that is
// the failure the storefront surfaces first.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.productsFetch.Phase == Failed {
		return s.productsFetch.Err
	}
	if s.categoriesFetch.Phase == Failed {
		return s.categoriesFetch.Err
	}
	return ""
}

// ClearError resets any Failed workflow back to Idle. Workflows in other
// phases are untouched.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.productsFetch.Phase == Failed {
		s.productsFetch = Fetch{Phase: Idle}
	}
	if s.categoriesFetch.Phase == Failed {
		s.categoriesFetch = Fetch{Phase: Idle}
	}
}

func (s *Store) beginProducts() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.productsGen++
	s.productsFetch = Fetch{Phase: Pending}
	return s.productsGen
}

func (s *Store) resolveProducts(gen uint64, products []Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.productsGen {
		s.logger.Debug("dropping stale products result",
			zap.Uint64("generation", gen),
			zap.Uint64("current", s.productsGen))
		return
	}
	s.products = products
	s.productsFetch = Fetch{Phase: Succeeded}
	s.logger.Debug("products replaced", zap.Int("count", len(products)))
}

func (s *Store) failProducts(gen uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.productsGen {
		s.logger.Debug("dropping stale products failure", zap.Error(err))
		return
	}
	s.productsFetch = Fetch{Phase: Failed, Err: errMessage(err)}
	s.logger.Warn("products fetch failed", zap.Error(err))
}

func (s *Store) beginCategories() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categoriesGen++
	s.categoriesFetch = Fetch{Phase: Pending}
	return s.categoriesGen
}

func (s *Store) resolveCategories(gen uint64, categories []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.categoriesGen {
		s.logger.Debug("dropping stale categories result",
			zap.Uint64("generation", gen),
			zap.Uint64("current", s.categoriesGen))
		return
	}
	s.categories = categories
	s.categoriesFetch = Fetch{Phase: Succeeded}
}

func (s *Store) failCategories(gen uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.categoriesGen {
		s.logger.Debug("dropping stale categories failure", zap.Error(err))
		return
	}
	s.categoriesFetch = Fetch{Phase: Failed, Err: errMessage(err)}
	s.logger.Warn("categories fetch failed", zap.Error(err))
}

func errMessage(err error) string {
	if err == nil || err.Error() == "" {
		return fallbackFetchError
	}
	return err.Error()
}
