// Package commands is the dashboard's command client. Every mutation the UI
// can trigger funnels through here: the action is checked against the
// lifecycle policy and its parameters validated before exactly one gateway
// call goes out, and a successful mutation is followed by a wholesale reload
// of the product list rather than a merge of the returned record.
package commands

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mbaye/chainboard/internal/domain/models"
	"github.com/mbaye/chainboard/internal/lifecycle"
	"github.com/mbaye/chainboard/internal/store"
	"github.com/mbaye/chainboard/pkg/clients/ledger"
)

// ErrUnknownProduct indicates the product is absent from the current snapshot.
var ErrUnknownProduct = errors.New("unknown product")

// ErrMissingParameter indicates a required action input was not provided.
var ErrMissingParameter = errors.New("missing required parameter")

// ErrInvalidParameter indicates an action input failed validation.
var ErrInvalidParameter = errors.New("invalid parameter")

// Params carries the raw user-supplied inputs for a lifecycle action. Values
// arrive as form strings; parsing and validation happen here, not in the
// handlers.
type Params struct {
	FinancingAmount string
	ManufacturerMSP string
}

// Dispatcher executes lifecycle commands and keeps the store in sync.
type Dispatcher interface {
	Refresh(ctx context.Context) error
	Create(ctx context.Context, req models.CreateProductRequest) error
	InitLedger(ctx context.Context) error
	Execute(ctx context.Context, productID string, kind lifecycle.ActionKind, params Params) error
}

// Service implements the Dispatcher interface.
type Service struct {
	ledger ledger.API
	store  *store.Store
	logger *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(api ledger.API, st *store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{ledger: api, store: st, logger: logger}
}

// Refresh reloads the full product list from the gateway and replaces the
// snapshot. On failure the snapshot is left untouched.
func (s *Service) Refresh(ctx context.Context) error {
	s.store.SetLoading(true)
	defer s.store.SetLoading(false)

	products, err := s.ledger.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}

	s.store.ReplaceAll(products)
	s.logger.Debug("snapshot replaced", zap.Int("count", len(products)))
	return nil
}

// Create submits a new product and reloads the snapshot on success.
func (s *Service) Create(ctx context.Context, req models.CreateProductRequest) error {
	if _, err := s.ledger.CreateProduct(ctx, req); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return s.Refresh(ctx)
}

// InitLedger seeds the demonstration data and reloads the snapshot.
func (s *Service) InitLedger(ctx context.Context) error {
	if err := s.ledger.InitLedger(ctx); err != nil {
		return fmt.Errorf("initialize ledger: %w", err)
	}
	return s.Refresh(ctx)
}

// Execute applies one lifecycle action to one product. The action is rejected
// before any network call when it is unknown, not permitted for the product's
// current status, carries bad parameters, or when another command for the
// same product is still outstanding.
func (s *Service) Execute(ctx context.Context, productID string, kind lifecycle.ActionKind, params Params) error {
	product, ok := s.store.Get(productID)
	if !ok {
		return ErrUnknownProduct
	}

	if err := lifecycle.Allows(product, kind); err != nil {
		return err
	}

	action, _ := lifecycle.Lookup(kind)

	var amount float64
	var manufacturer string
	switch action.Input {
	case lifecycle.InputFinancingAmount:
		parsed, err := parseFinancingAmount(params.FinancingAmount)
		if err != nil {
			return err
		}
		amount = parsed
	case lifecycle.InputManufacturerMSP:
		manufacturer = strings.TrimSpace(params.ManufacturerMSP)
		if manufacturer == "" {
			return fmt.Errorf("%w: manufacturerMSP", ErrMissingParameter)
		}
	}

	if err := s.store.BeginCommand(productID); err != nil {
		return err
	}
	defer s.store.EndCommand(productID)

	s.logger.Info("executing lifecycle action",
		zap.String("product_id", productID),
		zap.String("action", string(kind)),
		zap.String("from_status", string(product.Status)))

	var err error
	switch kind {
	case lifecycle.ActionApproveFinancing:
		_, err = s.ledger.ApproveFinancing(ctx, productID, amount)
	case lifecycle.ActionConfirmSupply:
		_, err = s.ledger.ConfirmSupply(ctx, productID)
	case lifecycle.ActionRequestManufacturing:
		_, err = s.ledger.RequestManufacturing(ctx, productID, manufacturer)
	case lifecycle.ActionAcceptManufacturing:
		_, err = s.ledger.AcceptManufacturing(ctx, productID)
	case lifecycle.ActionCompleteManufacturing:
		_, err = s.ledger.CompleteManufacturing(ctx, productID)
	default:
		return lifecycle.ErrInvalidAction
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", kind, productID, err)
	}

	return s.Refresh(ctx)
}

// parseFinancingAmount accepts only finite, strictly positive numbers.
func parseFinancingAmount(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: financingAmount", ErrMissingParameter)
	}

	amount, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: financingAmount must be a number", ErrInvalidParameter)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, fmt.Errorf("%w: financingAmount must be a positive number", ErrInvalidParameter)
	}
	return amount, nil
}
