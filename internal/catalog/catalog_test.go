package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeClient lets each test script the collaborator's behavior and observe
// which endpoint the store asked for.
type fakeClient struct {
	productsFn           func(ctx context.Context) ([]Product, error)
	productByIDFn        func(ctx context.Context, id int) (Product, error)
	categoriesFn         func(ctx context.Context) ([]string, error)
	productsByCategoryFn func(ctx context.Context, category string) ([]Product, error)
}

func (f *fakeClient) Products(ctx context.Context) ([]Product, error) {
	return f.productsFn(ctx)
}

func (f *fakeClient) ProductByID(ctx context.Context, id int) (Product, error) {
	return f.productByIDFn(ctx, id)
}

func (f *fakeClient) Categories(ctx context.Context) ([]string, error) {
	return f.categoriesFn(ctx)
}

func (f *fakeClient) ProductsByCategory(ctx context.Context, category string) ([]Product, error) {
	return f.productsByCategoryFn(ctx, category)
}

var sampleProducts = []Product{
	{ID: 1, Title: "Red Shoe", Price: 19.99, Category: "footwear"},
	{ID: 2, Title: "Blue Hat", Price: 9.99, Category: "red accessories"},
}

func TestFetchProductsLifecycle(t *testing.T) {
	t.Run("pending before resolution, succeeded after", func(t *testing.T) {
		var store *Store
		client := &fakeClient{
			productsFn: func(ctx context.Context) ([]Product, error) {
				// Observed from inside the collaborator call: the dispatch
				// must already be visible as pending with no error.
				f := store.ProductsFetch()
				assert.Equal(t, Pending, f.Phase)
				assert.Empty(t, f.Err)
				assert.True(t, store.Loading())
				return sampleProducts, nil
			},
		}
		store = NewStore(client, nil)

		require.NoError(t, store.FetchProducts(context.Background(), ""))
		assert.Equal(t, Succeeded, store.ProductsFetch().Phase)
		assert.False(t, store.Loading())
		assert.Equal(t, sampleProducts, store.Products())
	})

	t.Run("failure leaves products untouched", func(t *testing.T) {
		calls := 0
		client := &fakeClient{
			productsFn: func(ctx context.Context) ([]Product, error) {
				calls++
				if calls == 1 {
					return sampleProducts, nil
				}
				return nil, errors.New("boom")
			},
		}
		store := NewStore(client, nil)
		require.NoError(t, store.FetchProducts(context.Background(), ""))

		err := store.FetchProducts(context.Background(), "")
		require.Error(t, err)
		f := store.ProductsFetch()
		assert.Equal(t, Failed, f.Phase)
		assert.Equal(t, "boom", f.Err)
		assert.Equal(t, sampleProducts, store.Products(), "failed fetch must not clobber the list")
	})

	t.Run("new dispatch clears prior error", func(t *testing.T) {
		calls := 0
		client := &fakeClient{
			productsFn: func(ctx context.Context) ([]Product, error) {
				calls++
				if calls == 1 {
					return nil, errors.New("boom")
				}
				return sampleProducts, nil
			},
		}
		store := NewStore(client, nil)
		require.Error(t, store.FetchProducts(context.Background(), ""))
		require.NotEmpty(t, store.Err())

		require.NoError(t, store.FetchProducts(context.Background(), ""))
		assert.Empty(t, store.Err())
	})

	t.Run("empty error message falls back to default", func(t *testing.T) {
		client := &fakeClient{
			productsFn: func(ctx context.Context) ([]Product, error) {
				return nil, errors.New("")
			},
		}
		store := NewStore(client, nil)
		require.Error(t, store.FetchProducts(context.Background(), ""))
		assert.Equal(t, fallbackFetchError, store.ProductsFetch().Err)
	})
}

func TestFetchProductsCategoryScoped(t *testing.T) {
	var gotCategory string
	allCalled := false
	client := &fakeClient{
		productsFn: func(ctx context.Context) ([]Product, error) {
			allCalled = true
			return sampleProducts, nil
		},
		productsByCategoryFn: func(ctx context.Context, category string) ([]Product, error) {
			gotCategory = category
			return sampleProducts[:1], nil
		},
	}
	store := NewStore(client, nil)

	require.NoError(t, store.FetchProducts(context.Background(), "electronics"))
	assert.Equal(t, "electronics", gotCategory)
	assert.False(t, allCalled, "scoped fetch must not hit the full-list endpoint")
	assert.Len(t, store.Products(), 1)
}

func TestFetchCategories(t *testing.T) {
	want := []string{"electronics", "jewelery"}
	client := &fakeClient{
		categoriesFn: func(ctx context.Context) ([]string, error) {
			return want, nil
		},
	}
	store := NewStore(client, nil)
	require.NoError(t, store.FetchCategories(context.Background()))
	assert.Equal(t, want, store.Categories())
	assert.Equal(t, Succeeded, store.CategoriesFetch().Phase)
}

func TestStaleResolutionDropped(t *testing.T) {
	// Two overlapping dispatches: the first resolves after the second has
	// already been dispatched and resolved. Its result must be dropped.
	firstStarted := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	client := &fakeClient{
		productsFn: func(ctx context.Context) ([]Product, error) {
			calls++
			if calls == 1 {
				close(firstStarted)
				<-release
				return []Product{{ID: 99, Title: "stale"}}, nil
			}
			return sampleProducts, nil
		},
	}
	store := NewStore(client, nil)

	done := make(chan error, 1)
	go func() {
		done <- store.FetchProducts(context.Background(), "")
	}()
	<-firstStarted

	// Newer dispatch wins even though it resolves first.
	require.NoError(t, store.FetchProducts(context.Background(), ""))
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, sampleProducts, store.Products(), "stale resolution overwrote a newer result")
	assert.Equal(t, Succeeded, store.ProductsFetch().Phase)
}

func TestStaleFailureDropped(t *testing.T) {
	firstStarted := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	client := &fakeClient{
		productsFn: func(ctx context.Context) ([]Product, error) {
			calls++
			if calls == 1 {
				close(firstStarted)
				<-release
				return nil, errors.New("stale failure")
			}
			return sampleProducts, nil
		},
	}
	store := NewStore(client, nil)

	done := make(chan error, 1)
	go func() {
		done <- store.FetchProducts(context.Background(), "")
	}()
	<-firstStarted

	require.NoError(t, store.FetchProducts(context.Background(), ""))
	close(release)
	require.Error(t, <-done)

	assert.Equal(t, Succeeded, store.ProductsFetch().Phase, "stale failure must not mark the workflow failed")
	assert.Empty(t, store.Err())
}

func TestRefreshFetchesBoth(t *testing.T) {
	client := &fakeClient{
		productsFn: func(ctx context.Context) ([]Product, error) {
			return sampleProducts, nil
		},
		categoriesFn: func(ctx context.Context) ([]string, error) {
			return []string{"footwear"}, nil
		},
	}
	store := NewStore(client, nil)
	require.NoError(t, store.Refresh(context.Background()))
	assert.Equal(t, sampleProducts, store.Products())
	assert.Equal(t, []string{"footwear"}, store.Categories())
}

func TestRefreshScopesToSelectedCategory(t *testing.T) {
	var gotCategory string
	client := &fakeClient{
		productsByCategoryFn: func(ctx context.Context, category string) ([]Product, error) {
			gotCategory = category
			return sampleProducts[:1], nil
		},
		categoriesFn: func(ctx context.Context) ([]string, error) {
			return []string{"footwear"}, nil
		},
	}
	store := NewStore(client, nil)
	store.SetSelectedCategory("footwear")
	require.NoError(t, store.Refresh(context.Background()))
	assert.Equal(t, "footwear", gotCategory)
}

func TestSetSelectedCategory(t *testing.T) {
	store := NewStore(&fakeClient{}, nil)
	store.SetSelectedCategory("electronics")
	assert.Equal(t, "electronics", store.SelectedCategory())
	store.SetSelectedCategory("")
	assert.Empty(t, store.SelectedCategory())
}

func TestClearError(t *testing.T) {
	client := &fakeClient{
		productsFn: func(ctx context.Context) ([]Product, error) {
			return nil, errors.New("boom")
		},
	}
	store := NewStore(client, nil)
	require.Error(t, store.FetchProducts(context.Background(), ""))
	require.NotEmpty(t, store.Err())

	store.ClearError()
	assert.Empty(t, store.Err())
	assert.Equal(t, Idle, store.ProductsFetch().Phase)
}

func TestErrPrefersProductsFailure(t *testing.T) {
	client := &fakeClient{
		productsFn: func(ctx context.Context) ([]Product, error) {
			return nil, errors.New("products down")
		},
		categoriesFn: func(ctx context.Context) ([]string, error) {
			return nil, errors.New("categories down")
		},
	}
	store := NewStore(client, nil)
	require.Error(t, store.FetchCategories(context.Background()))
	assert.Equal(t, "categories down", store.Err())

	require.Error(t, store.FetchProducts(context.Background(), ""))
	assert.Equal(t, "products down", store.Err())
}

func TestProductsReturnsCopy(t *testing.T) {
	client := &fakeClient{
		productsFn: func(ctx context.Context) ([]Product, error) {
			return sampleProducts, nil
		},
	}
	store := NewStore(client, nil)
	require.NoError(t, store.FetchProducts(context.Background(), ""))

	snap := store.Products()
	snap[0].Title = "mutated"
	assert.Equal(t, "Red Shoe", store.Products()[0].Title)
}
