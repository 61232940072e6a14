package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/Saeid202/buyers/internal/catalog/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "GET", "/api/v1/products/aria-12-phone", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var product domain.Product
	require.NoError(t, json.Unmarshal(body, &product))
	assert.Equal(t, "Aria 12 phone", product.Name)
	assert.Equal(t, 28_900_000.0, product.Price)
}

func TestGetProduct_NotFound(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "GET", "/api/v1/products/missing", nil, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, "not_found", errResp.Code)
}

func TestListProducts(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "GET", "/api/v1/products", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []domain.Product
	require.NoError(t, json.Unmarshal(body, &products))
	assert.Len(t, products, 1)
}

func TestListProducts_Collections(t *testing.T) {
	env := newTestEnv(t)

	for _, collection := range []string{"latest", "featured", "discounted", "best-selling"} {
		resp, body := env.do(t, "GET", "/api/v1/products?collection="+collection, nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode, collection)

		var products []domain.Product
		require.NoError(t, json.Unmarshal(body, &products))
		assert.NotEmpty(t, products, collection)
	}
}

func TestListProducts_UnknownCollection(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, "GET", "/api/v1/products?collection=bogus", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListProducts_InvalidLimit(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, "GET", "/api/v1/products?limit=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = env.do(t, "GET", "/api/v1/products?limit=-1", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListCategories(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "GET", "/api/v1/categories", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var counts []domain.CategoryCount
	require.NoError(t, json.Unmarshal(body, &counts))
	require.Len(t, counts, 1)
	assert.Equal(t, "phones", counts[0].Category)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, "GET", "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
