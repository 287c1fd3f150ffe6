package models

import "encoding/json"

// Envelope is the wrapper the ledger API puts around every response body.
// Data stays raw so each call site can decode its own payload type.
type Envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
}

// CreateProductRequest is the creation payload. All fields are required; the
// form provides no defaults.
type CreateProductRequest struct {
	ID          string  `json:"id" form:"id" binding:"required"`
	Name        string  `json:"name" form:"name" binding:"required"`
	Type        string  `json:"type" form:"type" binding:"required"`
	Quantity    int     `json:"quantity" form:"quantity" binding:"required"`
	Price       float64 `json:"price" form:"price" binding:"required"`
	SupplierMSP string  `json:"supplierMSP" form:"supplierMSP" binding:"required"`
}

// ApproveFinancingRequest carries the financing amount for approval.
type ApproveFinancingRequest struct {
	FinancingAmount float64 `json:"financingAmount"`
}

// RequestManufacturingRequest names the manufacturer asked to take the order.
type RequestManufacturingRequest struct {
	ManufacturerMSP string `json:"manufacturerMSP"`
}
