package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Saeid202/buyers/internal/auth"
	"github.com/Saeid202/buyers/internal/cart"
	"github.com/Saeid202/buyers/internal/cart/storage"
	"github.com/Saeid202/buyers/internal/catalog/cache"
	catalogdomain "github.com/Saeid202/buyers/internal/catalog/domain"
	"github.com/Saeid202/buyers/internal/catalog/repository"
	catalog "github.com/Saeid202/buyers/internal/catalog/service"
	orderdomain "github.com/Saeid202/buyers/internal/order/domain"
	orderrepo "github.com/Saeid202/buyers/internal/order/repository"
	orders "github.com/Saeid202/buyers/internal/order/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type stubProductRepo struct {
	m        sync.RWMutex
	products map[string]*catalogdomain.Product
}

func (s *stubProductRepo) GetProductBySlug(_ context.Context, slug string) (*catalogdomain.Product, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	if p, ok := s.products[slug]; ok {
		return p, nil
	}
	return nil, repository.ErrProductNotFound
}

func (s *stubProductRepo) ListProducts(_ context.Context, filter catalogdomain.ListFilter) ([]*catalogdomain.Product, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	var out []*catalogdomain.Product
	for _, p := range s.products {
		out = append(out, p)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (s *stubProductRepo) GetLatestProducts(ctx context.Context, limit int) ([]*catalogdomain.Product, error) {
	return s.ListProducts(ctx, catalogdomain.ListFilter{Limit: limit})
}

func (s *stubProductRepo) CategoryCounts(context.Context) ([]catalogdomain.CategoryCount, error) {
	return []catalogdomain.CategoryCount{{Category: "phones", Total: 2}}, nil
}

func (s *stubProductRepo) Close() error { return nil }

type noopCache struct{}

func (noopCache) Get(context.Context, string) (*catalogdomain.Product, error) {
	return nil, cache.ErrCacheMiss
}
func (noopCache) Set(context.Context, string, *catalogdomain.Product) error { return nil }
func (noopCache) Delete(context.Context, string) error                      { return nil }

type stubOrderRepo struct {
	m       sync.RWMutex
	created []*orderdomain.Order
	err     error
}

func (s *stubOrderRepo) CreateOrder(_ context.Context, order *orderdomain.Order) error {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, order)
	return nil
}

func (s *stubOrderRepo) GetOrderByID(_ context.Context, id uuid.UUID) (*orderdomain.Order, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	for _, o := range s.created {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, orderrepo.ErrOrderNotFound
}

func (s *stubOrderRepo) ListOrdersByUserID(_ context.Context, userID string) ([]*orderdomain.Order, error) {
	s.m.RLock()
	defer s.m.RUnlock()
	var out []*orderdomain.Order
	for _, o := range s.created {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *stubOrderRepo) RunMigrations(*orderrepo.Credentials) error { return nil }

func (s *stubOrderRepo) Close() error { return nil }

func (s *stubOrderRepo) orders() []*orderdomain.Order {
	s.m.RLock()
	defer s.m.RUnlock()
	return append([]*orderdomain.Order(nil), s.created...)
}

// stubSessions is an in-memory SessionProvider for handler tests.
type stubSessions struct {
	m      sync.Mutex
	tokens map[string]auth.Identity
}

func newStubSessions() *stubSessions {
	return &stubSessions{tokens: make(map[string]auth.Identity)}
}

func (s *stubSessions) GetCurrentUser(_ context.Context, token string) (*auth.Identity, error) {
	s.m.Lock()
	defer s.m.Unlock()
	if identity, ok := s.tokens[token]; ok {
		return &identity, nil
	}
	return nil, auth.ErrNoSession
}

func (s *stubSessions) SignIn(_ context.Context, identity auth.Identity) (string, error) {
	s.m.Lock()
	defer s.m.Unlock()
	token := uuid.NewString()
	s.tokens[token] = identity
	return token, nil
}

func (s *stubSessions) SignOut(_ context.Context, token string) error {
	s.m.Lock()
	defer s.m.Unlock()
	delete(s.tokens, token)
	return nil
}

func (s *stubSessions) Subscribe() <-chan auth.Event {
	return make(chan auth.Event)
}

func catalogProduct(slug string) *catalogdomain.Product {
	return &catalogdomain.Product{
		ID:       slug,
		Slug:     slug,
		Name:     "Aria 12 phone",
		Price:    28_900_000,
		Currency: "IRR",
		Images:   []catalogdomain.ProductImage{{URL: "/images/" + slug + ".jpg", Alt: "Aria 12 phone"}},
	}
}

type testEnv struct {
	server    *httptest.Server
	client    *http.Client
	orderRepo *stubOrderRepo
	sessions  *stubSessions
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := &stubProductRepo{products: map[string]*catalogdomain.Product{
		"aria-12-phone": catalogProduct("aria-12-phone"),
	}}
	orderRepo := &stubOrderRepo{}
	sessions := newStubSessions()

	carts := cart.NewManager(func(string) storage.Slot { return storage.NewMemorySlot() })

	router := NewRouter(RouterDeps{
		Carts:    carts,
		Catalog:  catalog.NewCatalogService(repo, noopCache{}),
		Orders:   orders.NewOrderService(orderRepo),
		Sessions: sessions,
		Timeout:  5 * time.Second,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	return &testEnv{server: server, client: client, orderRepo: orderRepo, sessions: sessions}
}

// resetClient swaps in a fresh cookie jar, simulating a new browser.
func (e *testEnv) resetClient(t *testing.T) {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	e.client = &http.Client{Jar: jar}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decodeCart(t *testing.T, data []byte) CartResponseDTO {
	t.Helper()
	var resp CartResponseDTO
	require.NoError(t, json.Unmarshal(data, &resp))
	return resp
}
