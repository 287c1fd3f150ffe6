package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mbaye/chainboard/internal/domain/models"
	"github.com/mbaye/chainboard/internal/lifecycle"
	"github.com/mbaye/chainboard/internal/service/commands"
	"github.com/mbaye/chainboard/internal/store"
	"github.com/mbaye/chainboard/pkg/clients/ledger"
)

// DashboardHandler renders the product dashboard and forwards every user
// action to the command dispatcher. All errors stop here: they become the
// single banner message, never a response error page.
type DashboardHandler struct {
	dispatcher commands.Dispatcher
	store      *store.Store
	ledger     ledger.API
	logger     *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(dispatcher commands.Dispatcher, st *store.Store, api ledger.API, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{dispatcher: dispatcher, store: st, ledger: api, logger: logger}
}

// actionView is an Action flattened for template consumption.
type actionView struct {
	Kind              string
	Label             string
	Color             string
	NeedsAmount       bool
	NeedsManufacturer bool
}

type cardView struct {
	Product models.Product
	Badge   string
	Actions []actionView
	Busy    bool
}

type dashboardView struct {
	Products            []cardView
	Error               string
	Loading             bool
	BackendUp           bool
	ProductTypes        []string
	MSPs                []string
	DefaultManufacturer string
}

type detailView struct {
	Product models.Product
	Badge   string
	History []string
	Error   string
}

// Index reloads the snapshot from the gateway and renders the dashboard.
// When the reload fails the previous snapshot is shown with an error banner.
func (h *DashboardHandler) Index(c *gin.Context) {
	if err := h.dispatcher.Refresh(c.Request.Context()); err != nil {
		h.logger.Error("failed loading products", zap.Error(err))
		h.store.SetError("Failed to load products")
	}

	records := h.store.Snapshot()
	cards := make([]cardView, 0, len(records))
	for _, p := range records {
		busy := h.store.CommandInFlight(p.ID)

		permitted := lifecycle.PermittedActions(p)
		actions := make([]actionView, 0, len(permitted))
		for _, a := range permitted {
			actions = append(actions, actionView{
				Kind:              string(a.Kind),
				Label:             a.Label,
				Color:             a.Color,
				NeedsAmount:       a.Input == lifecycle.InputFinancingAmount,
				NeedsManufacturer: a.Input == lifecycle.InputManufacturerMSP,
			})
		}

		cards = append(cards, cardView{
			Product: p,
			Badge:   lifecycle.BadgeClass(p.Status),
			Actions: actions,
			Busy:    busy,
		})
	}

	c.HTML(http.StatusOK, "dashboard.tmpl", dashboardView{
		Products:            cards,
		Error:               h.store.LastError(),
		Loading:             h.store.Loading(),
		BackendUp:           h.store.BackendUp(),
		ProductTypes:        models.ProductTypes,
		MSPs:                models.MSPs,
		DefaultManufacturer: models.DefaultManufacturerMSP,
	})
}

// ShowProduct renders the read-only detail view with the full history.
func (h *DashboardHandler) ShowProduct(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	product, err := h.ledger.GetProduct(ctx, id)
	if err != nil {
		h.logger.Error("failed loading product", zap.String("product_id", id), zap.Error(err))
		h.store.SetError("Failed to load product")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	history, err := h.ledger.GetProductHistory(ctx, id)
	if err != nil {
		// The record itself loaded; show it and fall back to its embedded trail.
		h.logger.Warn("failed loading history", zap.String("product_id", id), zap.Error(err))
		history = product.History
	}

	c.HTML(http.StatusOK, "detail.tmpl", detailView{
		Product: *product,
		Badge:   lifecycle.BadgeClass(product.Status),
		History: history,
		Error:   h.store.LastError(),
	})
}

// CreateProduct handles the creation form submission.
func (h *DashboardHandler) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("invalid create form", zap.Error(err))
		h.store.SetError("Failed to create product")
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	if err := h.dispatcher.Create(c.Request.Context(), req); err != nil {
		h.logger.Error("failed creating product", zap.String("product_id", req.ID), zap.Error(err))
		h.store.SetError("Failed to create product")
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// InitLedger seeds the demonstration data set.
func (h *DashboardHandler) InitLedger(c *gin.Context) {
	if err := h.dispatcher.InitLedger(c.Request.Context()); err != nil {
		h.logger.Error("failed initializing ledger", zap.Error(err))
		h.store.SetError("Failed to initialize ledger")
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// TakeAction dispatches one lifecycle action for one product.
func (h *DashboardHandler) TakeAction(c *gin.Context) {
	id := c.Param("id")
	kind := lifecycle.ActionKind(c.Param("action"))

	params := commands.Params{
		FinancingAmount: c.PostForm("financingAmount"),
		ManufacturerMSP: c.PostForm("manufacturerMSP"),
	}

	if err := h.dispatcher.Execute(c.Request.Context(), id, kind, params); err != nil {
		h.logger.Error("lifecycle action failed",
			zap.String("product_id", id),
			zap.String("action", string(kind)),
			zap.Error(err))
		h.store.SetError(failureMessage(kind))
	}

	c.Redirect(http.StatusSeeOther, "/")
}

// DismissError clears the banner.
func (h *DashboardHandler) DismissError(c *gin.Context) {
	h.store.ClearError()
	c.Redirect(http.StatusSeeOther, "/")
}

// Healthz reports the dashboard's own liveness and the last known backend
// probe result.
func (h *DashboardHandler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"backend": h.store.BackendUp(),
	})
}

// failureMessage builds the generic user-facing message for a failed action,
// e.g. "Failed to approve financing". Detail stays in the log.
func failureMessage(kind lifecycle.ActionKind) string {
	return "Failed to " + strings.ReplaceAll(string(kind), "-", " ")
}
