// Package shop talks to the headless CMS that owns products, carts,
// line items and customers. Every call is one synchronous round trip;
// failures surface as a StatusError or a transport error and are never
// retried here.
package shop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Michael-Zapivahin/fish-market-bot/internal/config"
	"github.com/Michael-Zapivahin/fish-market-bot/internal/logger"
)

const (
	defaultDialTimeout     = 5 * time.Second
	defaultTLSHandshake    = 5 * time.Second
	defaultIdleConnTimeout = 30 * time.Second
)

// StatusError reports a non-2xx response from the CMS.
type StatusError struct {
	Method string
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("shop: %s %s: status %d", e.Method, e.Path, e.Status)
}

// Client issues REST requests against the CMS. It holds no state besides
// the base URL and the HTTP client; construct it once at startup.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a Client from configuration with a tuned transport.
func NewClient(cfg config.ShopConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: defaultDialTimeout, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     defaultIdleConnTimeout,
		TLSHandshakeTimeout: defaultTLSHandshake,
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout, Transport: transport},
	}
}

// Products lists the whole catalog.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var resp envelope[[]productDoc]
	if err := c.getJSON(ctx, "/api/products", nil, &resp); err != nil {
		return nil, err
	}
	products := make([]Product, 0, len(resp.Data))
	for _, doc := range resp.Data {
		products = append(products, doc.toProduct())
	}
	return products, nil
}

// Product fetches a single catalog entry.
func (c *Client) Product(ctx context.Context, id int64) (Product, error) {
	var resp envelope[productDoc]
	path := "/api/products/" + strconv.FormatInt(id, 10)
	if err := c.getJSON(ctx, path, nil, &resp); err != nil {
		return Product{}, err
	}
	return resp.Data.toProduct(), nil
}

// ProductImage resolves the product's picture reference and downloads the binary.
func (c *Client) ProductImage(ctx context.Context, id int64) ([]byte, error) {
	var resp envelope[productDoc]
	path := "/api/products/" + strconv.FormatInt(id, 10)
	if err := c.getJSON(ctx, path, url.Values{"populate": {"*"}}, &resp); err != nil {
		return nil, err
	}
	pic := resp.Data.Attributes.Picture
	if pic == nil || pic.Data == nil || pic.Data.Attributes.URL == "" {
		return nil, fmt.Errorf("shop: product %d has no picture", id)
	}
	link := pic.Data.Attributes.URL
	if !strings.HasPrefix(link, "http://") && !strings.HasPrefix(link, "https://") {
		link = c.baseURL + link
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("shop: build image request: %w", err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shop: fetch image: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &StatusError{Method: http.MethodGet, Path: link, Status: res.StatusCode}
	}
	return io.ReadAll(res.Body)
}

// GetOrCreateCart returns the cart id for a chat, creating the cart on first use.
// Carts are keyed purely by chat identifier; customers are linked only at checkout.
func (c *Client) GetOrCreateCart(ctx context.Context, chatID int64) (int64, error) {
	tgID := strconv.FormatInt(chatID, 10)
	var found envelope[[]cartDoc]
	query := url.Values{"filters[tg_id][$eq]": {tgID}}
	if err := c.getJSON(ctx, "/api/carts", query, &found); err != nil {
		return 0, err
	}
	if len(found.Data) > 0 {
		return found.Data[0].ID, nil
	}

	var created envelope[cartDoc]
	body := envelope[createCartBody]{Data: createCartBody{TgID: tgID}}
	if err := c.postJSON(ctx, "/api/carts", body, &created); err != nil {
		return 0, err
	}
	logger.Debug(ctx, "shop", "cart.created",
		slog.Int64("chat_id", chatID),
		slog.Int64("cart_id", created.Data.ID),
	)
	return created.Data.ID, nil
}

// AddLineItem attaches a product to a cart with the given quantity in kilograms.
func (c *Client) AddLineItem(ctx context.Context, cartID, productID int64, quantityKg float64) (LineItem, error) {
	body := envelope[addLineItemBody]{Data: addLineItemBody{
		Quantity: quantityKg,
		Product:  connectRel{Connect: []int64{productID}},
		Cart:     connectRel{Connect: []int64{cartID}},
	}}
	var created envelope[lineItemDoc]
	if err := c.postJSON(ctx, "/api/cart-products", body, &created); err != nil {
		return LineItem{}, err
	}
	return created.Data.toLineItem(), nil
}

// LineItem fetches one line item with its product populated.
func (c *Client) LineItem(ctx context.Context, id int64) (LineItem, error) {
	var resp envelope[lineItemDoc]
	path := "/api/cart-products/" + strconv.FormatInt(id, 10)
	if err := c.getJSON(ctx, path, url.Values{"populate": {"*"}}, &resp); err != nil {
		return LineItem{}, err
	}
	return resp.Data.toLineItem(), nil
}

// CartItems returns all line items of the chat's cart with products populated.
// A chat without a cart yields an empty slice.
func (c *Client) CartItems(ctx context.Context, chatID int64) ([]LineItem, error) {
	tgID := strconv.FormatInt(chatID, 10)
	var found envelope[[]cartDoc]
	query := url.Values{
		"filters[tg_id][$eq]": {tgID},
		"populate":            {"*"},
	}
	if err := c.getJSON(ctx, "/api/carts", query, &found); err != nil {
		return nil, err
	}
	if len(found.Data) == 0 {
		return nil, nil
	}

	cart := found.Data[0]
	if cart.Attributes.Products == nil {
		return nil, nil
	}
	items := make([]LineItem, 0, len(cart.Attributes.Products.Data))
	for _, ref := range cart.Attributes.Products.Data {
		// The cart relation carries bare ids; each item is re-fetched
		// populated so the product title and price are available.
		item, err := c.LineItem(ctx, ref.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// DeleteLineItem removes one line item from its cart.
func (c *Client) DeleteLineItem(ctx context.Context, id int64) error {
	path := "/api/cart-products/" + strconv.FormatInt(id, 10)
	return c.delete(ctx, path)
}

// DeleteAllLineItems clears the chat's cart item by item.
// A missing or empty cart is not an error.
func (c *Client) DeleteAllLineItems(ctx context.Context, chatID int64) error {
	items, err := c.CartItems(ctx, chatID)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := c.DeleteLineItem(ctx, item.ID); err != nil {
			return err
		}
	}
	logger.Debug(ctx, "shop", "cart.cleared",
		slog.Int64("chat_id", chatID),
		slog.Int("count", len(items)),
	)
	return nil
}

// GetOrCreateCustomer returns the customer id for an email, creating the
// record when no customer with that email exists yet.
func (c *Client) GetOrCreateCustomer(ctx context.Context, name, email string) (int64, error) {
	var found envelope[[]userDoc]
	query := url.Values{"filters[email][$eq]": {email}}
	if err := c.getJSON(ctx, "/api/users", query, &found); err != nil {
		return 0, err
	}
	if len(found.Data) > 0 {
		return found.Data[0].ID, nil
	}

	var created envelope[userDoc]
	body := envelope[createUserBody]{Data: createUserBody{Username: name, Email: email}}
	if err := c.postJSON(ctx, "/api/users", body, &created); err != nil {
		return 0, err
	}
	logger.Debug(ctx, "shop", "customer.created",
		slog.Int64("item_id", created.Data.ID),
	)
	return created.Data.ID, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("shop: build request: %w", err)
	}
	return c.do(req, path, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("shop: encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("shop: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("shop: build request: %w", err)
	}
	return c.do(req, path, nil)
}

func (c *Client) do(req *http.Request, path string, out any) error {
	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("shop: %s %s: %w", req.Method, path, err)
	}
	defer res.Body.Close()

	logger.Debug(req.Context(), "shop", "cms.request",
		slog.String("method", req.Method),
		slog.String("path", path),
		slog.Int("http_code", res.StatusCode),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		io.Copy(io.Discard, res.Body) //nolint:errcheck
		return &StatusError{Method: req.Method, Path: path, Status: res.StatusCode}
	}
	if out == nil {
		io.Copy(io.Discard, res.Body) //nolint:errcheck
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("shop: decode %s %s: %w", req.Method, path, err)
	}
	return nil
}
