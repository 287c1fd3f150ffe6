// Package ledger is the REST client for the supply-chain ledger gateway. The
// dashboard owns no data; every read and every mutation below goes through
// this client and the gateway forwards it to the chaincode.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/mbaye/chainboard/internal/config"
	"github.com/mbaye/chainboard/internal/domain/models"
)

// API exposes the ledger gateway operations used by the dashboard.
type API interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetProductHistory(ctx context.Context, id string) ([]string, error)
	CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
	InitLedger(ctx context.Context) error
	ApproveFinancing(ctx context.Context, id string, amount float64) (*models.Product, error)
	ConfirmSupply(ctx context.Context, id string) (*models.Product, error)
	RequestManufacturing(ctx context.Context, id, manufacturerMSP string) (*models.Product, error)
	AcceptManufacturing(ctx context.Context, id string) (*models.Product, error)
	CompleteManufacturing(ctx context.Context, id string) (*models.Product, error)
	Health(ctx context.Context) error
}

// BackendError is returned for any non-2xx gateway response. The message is
// taken from the response envelope when one can be decoded.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("ledger api error: status=%d, message=%s", e.StatusCode, e.Message)
}

// Client is a resty-backed implementation of API.
type Client struct {
	httpClient *resty.Client
	healthURL  string
}

// NewClient builds a ledger gateway client using the provided configuration
// values.
func NewClient(cfg config.LedgerConfig) *Client {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &Client{
		httpClient: restyClient,
		healthURL:  healthURL(base),
	}
}

// healthURL derives the liveness endpoint from the API base by swapping the
// /api suffix for /health, mirroring the gateway's URL layout.
func healthURL(base string) string {
	if strings.HasSuffix(base, "/api") {
		return strings.TrimSuffix(base, "/api") + "/health"
	}
	return base + "/health"
}

// ListProducts fetches the full product snapshot.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	env, err := c.do(ctx, http.MethodGet, "/products", nil)
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := json.Unmarshal(env.Data, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

// GetProduct fetches a single product by ID.
func (c *Client) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return c.product(ctx, http.MethodGet, fmt.Sprintf("/products/%s", id), nil)
}

// GetProductHistory fetches the product's audit trail in ledger order.
func (c *Client) GetProductHistory(ctx context.Context, id string) ([]string, error) {
	env, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%s/history", id), nil)
	if err != nil {
		return nil, err
	}

	var history []string
	if err := json.Unmarshal(env.Data, &history); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return history, nil
}

// CreateProduct submits a new product request to the ledger.
func (c *Client) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	return c.product(ctx, http.MethodPost, "/products", req)
}

// InitLedger seeds the demonstration data set.
func (c *Client) InitLedger(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/products/init", nil)
	return err
}

// ApproveFinancing records the bank's financing approval.
func (c *Client) ApproveFinancing(ctx context.Context, id string, amount float64) (*models.Product, error) {
	body := models.ApproveFinancingRequest{FinancingAmount: amount}
	return c.product(ctx, http.MethodPut, fmt.Sprintf("/products/%s/approve-financing", id), body)
}

// ConfirmSupply records the supplier's confirmation.
func (c *Client) ConfirmSupply(ctx context.Context, id string) (*models.Product, error) {
	return c.product(ctx, http.MethodPut, fmt.Sprintf("/products/%s/confirm-supply", id), nil)
}

// RequestManufacturing asks the named manufacturer to take the order.
func (c *Client) RequestManufacturing(ctx context.Context, id, manufacturerMSP string) (*models.Product, error) {
	body := models.RequestManufacturingRequest{ManufacturerMSP: manufacturerMSP}
	return c.product(ctx, http.MethodPut, fmt.Sprintf("/products/%s/request-manufacturing", id), body)
}

// AcceptManufacturing records the manufacturer accepting the request.
func (c *Client) AcceptManufacturing(ctx context.Context, id string) (*models.Product, error) {
	return c.product(ctx, http.MethodPut, fmt.Sprintf("/products/%s/accept-manufacturing", id), nil)
}

// CompleteManufacturing marks production finished.
func (c *Client) CompleteManufacturing(ctx context.Context, id string) (*models.Product, error) {
	return c.product(ctx, http.MethodPut, fmt.Sprintf("/products/%s/complete-manufacturing", id), nil)
}

// Health pings the gateway liveness endpoint.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.httpClient.R().SetContext(ctx).Get(c.healthURL)
	if err != nil {
		return fmt.Errorf("ledger health check: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return &BackendError{StatusCode: resp.StatusCode(), Message: "health check failed"}
	}
	return nil
}

// product runs a request whose envelope data is a single product.
func (c *Client) product(ctx context.Context, method, path string, body any) (*models.Product, error) {
	env, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}

	product := new(models.Product)
	if err := json.Unmarshal(env.Data, product); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}
	return product, nil
}

// do executes one gateway request. Exactly one network call per invocation,
// no retries. A non-2xx status is a hard failure regardless of envelope
// contents.
func (c *Client) do(ctx context.Context, method, path string, body any) (*models.Envelope, error) {
	result := new(models.Envelope)
	apiErr := new(models.Envelope)

	req := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("ledger request %s %s: %w", method, path, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, &BackendError{StatusCode: resp.StatusCode(), Message: apiErr.Message}
	}

	return result, nil
}
