package shop

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Michael-Zapivahin/fish-market-bot/internal/config"
)

// recordedRequest captures what the client actually sent.
type recordedRequest struct {
	method string
	path   string
	query  map[string]string
	body   map[string]any
}

type cmsRecorder struct {
	mu       sync.Mutex
	requests []recordedRequest
}

func (r *cmsRecorder) record(req *http.Request) recordedRequest {
	rec := recordedRequest{
		method: req.Method,
		path:   req.URL.Path,
		query:  map[string]string{},
	}
	for k, v := range req.URL.Query() {
		if len(v) > 0 {
			rec.query[k] = v[0]
		}
	}
	if req.Body != nil {
		var body map[string]any
		if err := json.NewDecoder(req.Body).Decode(&body); err == nil {
			rec.body = body
		}
	}
	r.mu.Lock()
	r.requests = append(r.requests, rec)
	r.mu.Unlock()
	return rec
}

func (r *cmsRecorder) byMethod(method string) []recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []recordedRequest
	for _, req := range r.requests {
		if req.method == method {
			out = append(out, req)
		}
	}
	return out
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.ShopConfig{BaseURL: srv.URL, TimeoutSeconds: 5}), srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	_, err := w.Write([]byte(body))
	require.NoError(t, err)
}

func TestProducts(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/products", r.URL.Path)
		writeJSON(t, w, `{"data":[
			{"id":1,"attributes":{"title":"Salmon","description":"Fresh salmon","price":10}},
			{"id":2,"attributes":{"title":"Trout","description":"River trout","price":5.5}}
		]}`)
	}))

	products, err := client.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, Product{ID: 1, Title: "Salmon", Description: "Fresh salmon", Price: 10}, products[0])
	assert.Equal(t, 5.5, products[1].Price)
}

func TestProductImage(t *testing.T) {
	image := []byte{0x89, 0x50, 0x4e, 0x47}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products/2":
			require.Equal(t, "*", r.URL.Query().Get("populate"))
			writeJSON(t, w, `{"data":{"id":2,"attributes":{
				"title":"Trout","description":"River trout","price":5.5,
				"picture":{"data":{"id":9,"attributes":{"url":"/uploads/trout.png"}}}
			}}}`)
		case "/uploads/trout.png":
			_, _ = w.Write(image)
		default:
			http.NotFound(w, r)
		}
	}))

	got, err := client.ProductImage(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, image, got)
}

func TestProductImageMissingPicture(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, `{"data":{"id":2,"attributes":{"title":"Trout","price":5.5}}}`)
	}))

	_, err := client.ProductImage(context.Background(), 2)
	require.Error(t, err)
}

func TestGetOrCreateCartExisting(t *testing.T) {
	rec := &cmsRecorder{}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := rec.record(r)
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "33", req.query["filters[tg_id][$eq]"])
		writeJSON(t, w, `{"data":[{"id":70,"attributes":{"tg_id":"33"}}]}`)
	}))

	id, err := client.GetOrCreateCart(context.Background(), 33)
	require.NoError(t, err)
	assert.Equal(t, int64(70), id)
	assert.Empty(t, rec.byMethod(http.MethodPost))
}

func TestGetOrCreateCartCreates(t *testing.T) {
	rec := &cmsRecorder{}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := rec.record(r)
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, `{"data":[]}`)
		case http.MethodPost:
			require.Equal(t, "/api/carts", req.path)
			writeJSON(t, w, `{"data":{"id":71,"attributes":{"tg_id":"33"}}}`)
		}
	}))

	id, err := client.GetOrCreateCart(context.Background(), 33)
	require.NoError(t, err)
	assert.Equal(t, int64(71), id)

	posts := rec.byMethod(http.MethodPost)
	require.Len(t, posts, 1)
	data, ok := posts[0].body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "33", data["tg_id"])
}

func TestAddLineItem(t *testing.T) {
	rec := &cmsRecorder{}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := rec.record(r)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/cart-products", req.path)
		writeJSON(t, w, `{"data":{"id":5,"attributes":{"quantity":2}}}`)
	}))

	item, err := client.AddLineItem(context.Background(), 70, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.ID)
	assert.Equal(t, 2.0, item.Quantity)

	posts := rec.byMethod(http.MethodPost)
	require.Len(t, posts, 1)
	data, ok := posts[0].body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 2.0, data["quantity"])
	product, _ := data["product"].(map[string]any)
	assert.Equal(t, []any{float64(3)}, product["connect"])
	cart, _ := data["cart"].(map[string]any)
	assert.Equal(t, []any{float64(70)}, cart["connect"])
}

func cartItemsHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/carts":
			writeJSON(t, w, `{"data":[{"id":70,"attributes":{"tg_id":"33","products":{"data":[
				{"id":5,"attributes":{"quantity":2}},
				{"id":6,"attributes":{"quantity":1}}
			]}}}]}`)
		case "/api/cart-products/5":
			require.Equal(t, "*", r.URL.Query().Get("populate"))
			writeJSON(t, w, `{"data":{"id":5,"attributes":{"quantity":2,
				"product":{"data":{"id":1,"attributes":{"title":"Salmon","description":"Fresh salmon","price":10}}}}}}`)
		case "/api/cart-products/6":
			writeJSON(t, w, `{"data":{"id":6,"attributes":{"quantity":1,
				"product":{"data":{"id":2,"attributes":{"title":"Trout","description":"River trout","price":5}}}}}}`)
		default:
			http.NotFound(w, r)
		}
	}
}

func TestCartItems(t *testing.T) {
	client, _ := newTestClient(t, cartItemsHandler(t))

	items, err := client.CartItems(context.Background(), 33)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Salmon", items[0].Product.Title)
	assert.Equal(t, 20.0, items[0].Cost())
	assert.Equal(t, 5.0, items[1].Cost())
}

func TestCartItemsNoCart(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, `{"data":[]}`)
	}))

	items, err := client.CartItems(context.Background(), 33)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDeleteAllLineItems(t *testing.T) {
	rec := &cmsRecorder{}
	inner := cartItemsHandler(t)
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		if r.Method == http.MethodDelete {
			writeJSON(t, w, `{"data":null}`)
			return
		}
		inner(w, r)
	}))

	require.NoError(t, client.DeleteAllLineItems(context.Background(), 33))

	deletes := rec.byMethod(http.MethodDelete)
	require.Len(t, deletes, 2)
	assert.Equal(t, "/api/cart-products/5", deletes[0].path)
	assert.Equal(t, "/api/cart-products/6", deletes[1].path)
}

func TestGetOrCreateCustomerExisting(t *testing.T) {
	rec := &cmsRecorder{}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := rec.record(r)
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "user@example.com", req.query["filters[email][$eq]"])
		writeJSON(t, w, `{"data":[{"id":12,"attributes":{"username":"Ivan Petrov","email":"user@example.com"}}]}`)
	}))

	id, err := client.GetOrCreateCustomer(context.Background(), "Ivan Petrov", "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
	assert.Empty(t, rec.byMethod(http.MethodPost))
}

func TestGetOrCreateCustomerCreates(t *testing.T) {
	rec := &cmsRecorder{}
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := rec.record(r)
		switch r.Method {
		case http.MethodGet:
			writeJSON(t, w, `{"data":[]}`)
		case http.MethodPost:
			require.Equal(t, "/api/users", req.path)
			writeJSON(t, w, `{"data":{"id":13,"attributes":{"username":"Ivan Petrov","email":"user@example.com"}}}`)
		}
	}))

	id, err := client.GetOrCreateCustomer(context.Background(), "Ivan Petrov", "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(13), id)

	posts := rec.byMethod(http.MethodPost)
	require.Len(t, posts, 1)
	data, ok := posts[0].body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ivan Petrov", data["username"])
	assert.Equal(t, "user@example.com", data["email"])
}

func TestStatusError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	_, err := client.Products(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.MethodGet, statusErr.Method)
	assert.Equal(t, "/api/products", statusErr.Path)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Status)
}
