// Package lifecycle encodes the product workflow state machine: which single
// action, if any, a product in a given status may take next. The machine is
// linear with no branching; the chaincode is the final authority but the
// dashboard must never offer an action the chaincode would reject.
package lifecycle

import (
	"errors"

	"github.com/mbaye/chainboard/internal/domain/models"
)

// ErrInvalidAction indicates the action kind is not part of the workflow.
var ErrInvalidAction = errors.New("unrecognized lifecycle action")

// ErrIllegalTransition indicates the action exists but is not permitted for
// the product's current status.
var ErrIllegalTransition = errors.New("action not permitted for current status")

// ActionKind identifies a workflow action. Values double as the API path
// segment for the corresponding mutation endpoint.
type ActionKind string

const (
	ActionApproveFinancing      ActionKind = "approve-financing"
	ActionConfirmSupply         ActionKind = "confirm-supply"
	ActionRequestManufacturing  ActionKind = "request-manufacturing"
	ActionAcceptManufacturing   ActionKind = "accept-manufacturing"
	ActionCompleteManufacturing ActionKind = "complete-manufacturing"
)

// Input enumerates the extra user input an action requires.
type Input int

const (
	InputNone Input = iota
	InputFinancingAmount
	InputManufacturerMSP
)

// Action describes one permitted transition: what to call it, how to render
// it, what input it needs and where it leads.
type Action struct {
	Kind  ActionKind
	Label string
	Color string
	Input Input
	To    models.Status
}

// transitions is the whole state machine as data: exactly one row per
// non-terminal status. Completed has no row.
var transitions = map[models.Status]Action{
	models.StatusRequested: {
		Kind:  ActionApproveFinancing,
		Label: "Approve Financing",
		Color: "blue",
		Input: InputFinancingAmount,
		To:    models.StatusFinanced,
	},
	models.StatusFinanced: {
		Kind:  ActionConfirmSupply,
		Label: "Confirm Supply",
		Color: "green",
		Input: InputNone,
		To:    models.StatusSupplierConfirmed,
	},
	models.StatusSupplierConfirmed: {
		Kind:  ActionRequestManufacturing,
		Label: "Request Manufacturing",
		Color: "purple",
		Input: InputManufacturerMSP,
		To:    models.StatusManufacturingRequested,
	},
	models.StatusManufacturingRequested: {
		Kind:  ActionAcceptManufacturing,
		Label: "Accept Manufacturing",
		Color: "orange",
		Input: InputNone,
		To:    models.StatusInManufacturing,
	},
	models.StatusInManufacturing: {
		Kind:  ActionCompleteManufacturing,
		Label: "Complete Manufacturing",
		Color: "green",
		Input: InputNone,
		To:    models.StatusCompleted,
	},
}

// Statuses lists every known status in workflow order.
var Statuses = []models.Status{
	models.StatusRequested,
	models.StatusFinanced,
	models.StatusSupplierConfirmed,
	models.StatusManufacturingRequested,
	models.StatusInManufacturing,
	models.StatusCompleted,
}

var badgeClasses = map[models.Status]string{
	models.StatusRequested:              "status-requested",
	models.StatusFinanced:               "status-financed",
	models.StatusSupplierConfirmed:      "status-supplierconfirmed",
	models.StatusManufacturingRequested: "status-manufacturingrequested",
	models.StatusInManufacturing:        "status-inmanufacturing",
	models.StatusCompleted:              "status-completed",
}

// PermittedActions returns the set of actions the product may take next. The
// result is empty for Completed products and for Requested products whose
// financing was already approved; otherwise it holds exactly one action.
// Total over all inputs, never errors.
func PermittedActions(p models.Product) []Action {
	if p.Status == models.StatusRequested && p.BankApproval {
		return nil
	}
	action, ok := transitions[p.Status]
	if !ok {
		return nil
	}
	return []Action{action}
}

// Allows reports whether kind may be applied to the product right now. It
// returns ErrInvalidAction for kinds outside the workflow and
// ErrIllegalTransition when the kind exists but the status forbids it.
func Allows(p models.Product, kind ActionKind) error {
	if _, ok := Lookup(kind); !ok {
		return ErrInvalidAction
	}
	for _, action := range PermittedActions(p) {
		if action.Kind == kind {
			return nil
		}
	}
	return ErrIllegalTransition
}

// Lookup finds the descriptor for an action kind.
func Lookup(kind ActionKind) (Action, bool) {
	for _, action := range transitions {
		if action.Kind == kind {
			return action, true
		}
	}
	return Action{}, false
}

// Next returns the status an action leads to from the given status, and
// whether any transition exists there.
func Next(status models.Status) (models.Status, bool) {
	action, ok := transitions[status]
	if !ok {
		return "", false
	}
	return action.To, true
}

// BadgeClass maps a status to its display style class. Unknown statuses get a
// neutral class so rendering stays total.
func BadgeClass(status models.Status) string {
	if class, ok := badgeClasses[status]; ok {
		return class
	}
	return "status-unknown"
}
