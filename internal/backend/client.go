// internal/backend/client.go
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"

	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-gateway/internal/config"
)

// ErrUnauthorized is returned when the backend rejects the request with
// a 401. Credential strategies use it to fall through to the next mode.
var ErrUnauthorized = errors.New("backend rejected credentials")

// User is the backend's current-user shape
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// LoginResponse is the login endpoint's shape. The backend has emitted
// the access token under both names across versions, so both are read.
type LoginResponse struct {
	Access      string `json:"access"`
	AccessToken string `json:"access_token"`
}

// Token returns whichever access-token field the backend populated
func (r *LoginResponse) Token() string {
	if r.Access != "" {
		return r.Access
	}
	return r.AccessToken
}

// Product is the backend's catalog product shape
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Price       string          `json:"price"`
	Image       string          `json:"image"`
	Category    ProductCategory `json:"category"`
}

// ProductCategory is the nested category of a catalog product
type ProductCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ServiceIssue is one repairable issue within a service category
type ServiceIssue struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

// ServiceCategory groups the repair services offered for one device type
type ServiceCategory struct {
	ID     int64          `json:"id"`
	Name   string         `json:"name"`
	Issues []ServiceIssue `json:"issues"`
}

// Order is the backend's order-history shape
type Order struct {
	ID         int64  `json:"id"`
	Status     string `json:"status"`
	TotalPrice string `json:"total_price"`
	CreatedAt  string `json:"created_at"`
}

// CreateOrderRequest is the order submission payload
type CreateOrderRequest struct {
	AddressID int64             `json:"address_id"`
	Items     []CreateOrderItem `json:"items"`
}

// CreateOrderItem is one line of an order submission
type CreateOrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Client talks to the remote storefront backend. It keeps a cookie jar
// so a server-side session established at login keeps working even
// without a bearer token, mirroring the dual-credential design of the
// storefront it fronts.
type Client struct {
	httpClient *http.Client
	log        *logrus.Entry

	authBase     string
	storeBase    string
	servicesBase string
}

// NewClient creates a backend client with a fresh cookie jar
func NewClient(cfg *config.Config, log *logrus.Entry) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	return &Client{
		httpClient: &http.Client{
			Jar:     jar,
			Timeout: cfg.Backend.RequestTimeout,
		},
		log:          log,
		authBase:     cfg.Backend.AuthBaseURL,
		storeBase:    cfg.Backend.StoreBaseURL,
		servicesBase: cfg.Backend.ServicesBaseURL,
	}, nil
}

// CurrentUser probes the current-user endpoint. With a non-empty bearer
// the Authorization header is sent; otherwise only the cookie jar
// authenticates the call. A 401 maps to ErrUnauthorized.
func (c *Client) CurrentUser(ctx context.Context, bearer string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, c.authBase+"/api/auth/user/", nil, bearer, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login exchanges credentials for an access token. The cookie jar also
// picks up any session cookie the backend sets alongside.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	var response LoginResponse
	if err := c.do(ctx, http.MethodPost, c.authBase+"/api/auth/login/", payload, "", &response); err != nil {
		return nil, err
	}
	return &response, nil
}

// Logout asks the backend to invalidate the cookie session
func (c *Client) Logout(ctx context.Context, bearer string) error {
	return c.do(ctx, http.MethodPost, c.authBase+"/api/auth/logout/", nil, bearer, nil)
}

// Products fetches the public product catalog
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, c.storeBase+"/api/products/", nil, "", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ProductBySlug fetches a single product
func (c *Client) ProductBySlug(ctx context.Context, slug string) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, c.storeBase+"/api/products/"+slug+"/", nil, "", &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ServiceCategories fetches the repair-service categories
func (c *Client) ServiceCategories(ctx context.Context) ([]ServiceCategory, error) {
	var categories []ServiceCategory
	if err := c.do(ctx, http.MethodGet, c.servicesBase+"/services/api/categories/", nil, "", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Orders fetches the order history of the authenticated user
func (c *Client) Orders(ctx context.Context, bearer string) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, c.storeBase+"/api/orders/", nil, bearer, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateOrder submits an order for the authenticated user
func (c *Client) CreateOrder(ctx context.Context, bearer string, req *CreateOrderRequest) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, c.storeBase+"/api/orders/create/", req, bearer, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// do performs one JSON request/response round-trip
func (c *Client) do(ctx context.Context, method, url string, payload interface{}, bearer string, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s %s: %w", method, url, ErrUnauthorized)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: unexpected status %d", method, url, resp.StatusCode)
	}

	if out == nil {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
