package ledger_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbaye/chainboard/internal/config"
	"github.com/mbaye/chainboard/internal/domain/models"
	"github.com/mbaye/chainboard/pkg/clients/ledger"
)

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

// newGateway fakes the ledger REST gateway: every request is recorded and
// answered with the configured status and envelope data.
func newGateway(t *testing.T, status int, message string, data any) (*httptest.Server, *[]recordedRequest) {
	t.Helper()

	var seen []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		seen = append(seen, recordedRequest{Method: r.Method, Path: r.URL.Path, Body: string(body)})

		raw, err := json.Marshal(data)
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(models.Envelope{
			Success:   status < 400,
			Message:   message,
			Data:      raw,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}))
	t.Cleanup(srv.Close)

	return srv, &seen
}

func newClient(srv *httptest.Server) *ledger.Client {
	return ledger.NewClient(config.LedgerConfig{
		BaseURL: srv.URL + "/api",
		Timeout: 5 * time.Second,
	})
}

func TestListProducts(t *testing.T) {
	want := []models.Product{
		{ID: "P1", Name: "Widget", Status: models.StatusRequested},
		{ID: "P2", Name: "Gear", Status: models.StatusFinanced},
	}
	srv, seen := newGateway(t, http.StatusOK, "ok", want)

	got, err := newClient(srv).ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.Len(t, *seen, 1)
	assert.Equal(t, http.MethodGet, (*seen)[0].Method)
	assert.Equal(t, "/api/products", (*seen)[0].Path)
}

func TestGetProduct(t *testing.T) {
	want := models.Product{ID: "P1", Name: "Widget", Status: models.StatusRequested}
	srv, seen := newGateway(t, http.StatusOK, "ok", want)

	got, err := newClient(srv).GetProduct(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, &want, got)
	assert.Equal(t, "/api/products/P1", (*seen)[0].Path)
}

func TestGetProductHistory(t *testing.T) {
	want := []string{"Product requested by SupplierMSP", "Financing approved: 500"}
	srv, seen := newGateway(t, http.StatusOK, "ok", want)

	got, err := newClient(srv).GetProductHistory(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "/api/products/P1/history", (*seen)[0].Path)
}

func TestCreateProduct(t *testing.T) {
	created := models.Product{ID: "P1", Name: "Widget", Status: models.StatusRequested}
	srv, seen := newGateway(t, http.StatusOK, "created", created)

	req := models.CreateProductRequest{
		ID: "P1", Name: "Widget", Type: "Component",
		Quantity: 100, Price: 50, SupplierMSP: "SupplierMSP",
	}
	got, err := newClient(srv).CreateProduct(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRequested, got.Status)

	require.Len(t, *seen, 1)
	assert.Equal(t, http.MethodPost, (*seen)[0].Method)
	assert.Equal(t, "/api/products", (*seen)[0].Path)

	var sent models.CreateProductRequest
	require.NoError(t, json.Unmarshal([]byte((*seen)[0].Body), &sent))
	assert.Equal(t, req, sent)
}

func TestInitLedger(t *testing.T) {
	srv, seen := newGateway(t, http.StatusOK, "seeded", "ok")

	require.NoError(t, newClient(srv).InitLedger(context.Background()))
	assert.Equal(t, http.MethodPost, (*seen)[0].Method)
	assert.Equal(t, "/api/products/init", (*seen)[0].Path)
}

func TestLifecycleEndpoints(t *testing.T) {
	tests := []struct {
		name     string
		call     func(c *ledger.Client) (*models.Product, error)
		wantPath string
		wantBody string
	}{
		{
			name: "approve financing",
			call: func(c *ledger.Client) (*models.Product, error) {
				return c.ApproveFinancing(context.Background(), "P1", 500)
			},
			wantPath: "/api/products/P1/approve-financing",
			wantBody: `{"financingAmount":500}`,
		},
		{
			name: "confirm supply",
			call: func(c *ledger.Client) (*models.Product, error) {
				return c.ConfirmSupply(context.Background(), "P1")
			},
			wantPath: "/api/products/P1/confirm-supply",
		},
		{
			name: "request manufacturing",
			call: func(c *ledger.Client) (*models.Product, error) {
				return c.RequestManufacturing(context.Background(), "P1", "ManufacturerMSP")
			},
			wantPath: "/api/products/P1/request-manufacturing",
			wantBody: `{"manufacturerMSP":"ManufacturerMSP"}`,
		},
		{
			name: "accept manufacturing",
			call: func(c *ledger.Client) (*models.Product, error) {
				return c.AcceptManufacturing(context.Background(), "P1")
			},
			wantPath: "/api/products/P1/accept-manufacturing",
		},
		{
			name: "complete manufacturing",
			call: func(c *ledger.Client) (*models.Product, error) {
				return c.CompleteManufacturing(context.Background(), "P1")
			},
			wantPath: "/api/products/P1/complete-manufacturing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, seen := newGateway(t, http.StatusOK, "ok", models.Product{ID: "P1"})

			got, err := tt.call(newClient(srv))
			require.NoError(t, err)
			assert.Equal(t, "P1", got.ID)

			require.Len(t, *seen, 1)
			assert.Equal(t, http.MethodPut, (*seen)[0].Method)
			assert.Equal(t, tt.wantPath, (*seen)[0].Path)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, (*seen)[0].Body)
			}
		})
	}
}

func TestBackendErrorCarriesStatusAndMessage(t *testing.T) {
	srv, _ := newGateway(t, http.StatusInternalServerError, "chaincode unavailable", nil)

	_, err := newClient(srv).ListProducts(context.Background())
	require.Error(t, err)

	var backendErr *ledger.BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, http.StatusInternalServerError, backendErr.StatusCode)
	assert.Equal(t, "chaincode unavailable", backendErr.Message)
}

func TestNetworkFailureWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // force a connection error

	_, err := newClient(srv).ListProducts(context.Background())
	require.Error(t, err)

	var backendErr *ledger.BackendError
	assert.False(t, errors.As(err, &backendErr))
}

func TestHealthSwapsAPIPathForHealth(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	t.Cleanup(srv.Close)

	require.NoError(t, newClient(srv).Health(context.Background()))
	assert.Equal(t, "/health", gotPath)
}

func TestHealthReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	err := newClient(srv).Health(context.Background())
	var backendErr *ledger.BackendError
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, http.StatusServiceUnavailable, backendErr.StatusCode)
}
