package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCart_EmptyCart(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "GET", "/api/v1/cart", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cartResp := decodeCart(t, body)
	assert.Empty(t, cartResp.Items)
	assert.Equal(t, 0, cartResp.TotalItems)
	assert.Equal(t, 0.0, cartResp.Subtotal)
	assert.Equal(t, "IRR", cartResp.Currency)
}

func TestAddItem_CapturesCatalogFields(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{Slug: "aria-12-phone", Quantity: 2}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	cartResp := decodeCart(t, body)
	require.Len(t, cartResp.Items, 1)
	assert.Equal(t, "aria-12-phone", cartResp.Items[0].ID)
	assert.Equal(t, "Aria 12 phone", cartResp.Items[0].Name)
	assert.Equal(t, 28_900_000.0, cartResp.Items[0].Price)
	assert.Equal(t, "IRR", cartResp.Items[0].Currency)
	assert.Equal(t, "/images/aria-12-phone.jpg", cartResp.Items[0].Image)
	assert.Equal(t, 2, cartResp.TotalItems)
	assert.Equal(t, 57_800_000.0, cartResp.Subtotal)
}

func TestAddItem_MergesQuantityAcrossRequests(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{Slug: "aria-12-phone", Quantity: 2}, "")
	resp, body := env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{Slug: "aria-12-phone", Quantity: 3}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	cartResp := decodeCart(t, body)
	require.Len(t, cartResp.Items, 1)
	assert.Equal(t, 5, cartResp.Items[0].Quantity)
}

func TestAddItem_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{Slug: "missing", Quantity: 1}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAddItem_InvalidQuantity(t *testing.T) {
	env := newTestEnv(t)

	for _, quantity := range []int{0, -1, 100} {
		resp, _ := env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{Slug: "aria-12-phone", Quantity: quantity}, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "quantity %d", quantity)
	}
}

func TestUpdateQuantity_ReplacesQuantity(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{Slug: "aria-12-phone", Quantity: 2}, "")
	resp, body := env.do(t, "PUT", "/api/v1/cart/items/aria-12-phone", UpdateQuantityRequestDTO{Quantity: 7}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cartResp := decodeCart(t, body)
	require.Len(t, cartResp.Items, 1)
	assert.Equal(t, 7, cartResp.Items[0].Quantity)
}

func TestUpdateQuantity_ZeroRemovesLine(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{Slug: "aria-12-phone", Quantity: 2}, "")
	resp, body := env.do(t, "PUT", "/api/v1/cart/items/aria-12-phone", UpdateQuantityRequestDTO{Quantity: 0}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cartResp := decodeCart(t, body)
	assert.Empty(t, cartResp.Items)
}

func TestRemoveItem(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{Slug: "aria-12-phone", Quantity: 2}, "")
	resp, body := env.do(t, "DELETE", "/api/v1/cart/items/aria-12-phone", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cartResp := decodeCart(t, body)
	assert.Empty(t, cartResp.Items)
}

func TestClearCart(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{Slug: "aria-12-phone", Quantity: 2}, "")
	resp, body := env.do(t, "DELETE", "/api/v1/cart", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cartResp := decodeCart(t, body)
	assert.Empty(t, cartResp.Items)
	assert.Equal(t, 0, cartResp.TotalItems)
}

func TestCart_IsolatedPerSession(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{Slug: "aria-12-phone", Quantity: 2}, "")

	// A second browser against the same server gets its own cookie and an
	// empty cart.
	env.resetClient(t)
	resp, body := env.do(t, "GET", "/api/v1/cart", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeCart(t, body).Items)
}

func TestCart_SurvivesSignInAndSignOut(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, "POST", "/api/v1/cart/items", AddItemRequestDTO{Slug: "aria-12-phone", Quantity: 2}, "")

	resp, body := env.do(t, "POST", "/api/v1/auth/signin", SignInRequestDTO{UserID: "user-42"}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var signIn SignInResponseDTO
	require.NoError(t, json.Unmarshal(body, &signIn))

	_, cartBody := env.do(t, "GET", "/api/v1/cart", nil, signIn.Token)
	assert.Len(t, decodeCart(t, cartBody).Items, 1)

	env.do(t, "POST", "/api/v1/auth/signout", nil, signIn.Token)
	_, cartBody = env.do(t, "GET", "/api/v1/cart", nil, "")
	assert.Len(t, decodeCart(t, cartBody).Items, 1)
}
