package models

// Status is the lifecycle state of a product on the ledger.
type Status string

// Lifecycle states, in workflow order.
const (
	StatusRequested              Status = "Requested"
	StatusFinanced               Status = "Financed"
	StatusSupplierConfirmed      Status = "SupplierConfirmed"
	StatusManufacturingRequested Status = "ManufacturingRequested"
	StatusInManufacturing        Status = "InManufacturing"
	StatusCompleted              Status = "Completed"
)

// Product mirrors the chaincode's product record. Field casing matches the
// ledger JSON exactly and must not be changed.
type Product struct {
	ID              string   `json:"ID"`
	Name            string   `json:"Name"`
	Type            string   `json:"Type"`
	Status          Status   `json:"Status"`
	Quantity        int      `json:"Quantity"`
	Price           float64  `json:"Price"`
	Supplier        string   `json:"Supplier"`
	Manufacturer    string   `json:"Manufacturer"`
	BankApproval    bool     `json:"BankApproval"`
	FinancingAmount float64  `json:"FinancingAmount"`
	CreatedAt       string   `json:"CreatedAt"`
	History         []string `json:"History"`
	DocType         string   `json:"docType"`
}

// ProductTypes is the fixed vocabulary offered by the creation form.
var ProductTypes = []string{"RawMaterial", "Component", "FinishedGood"}

// MSPs lists the organizational identities known to the network.
var MSPs = []string{"BankMSP", "SupplierMSP", "ManufacturerMSP"}

// DefaultManufacturerMSP pre-fills the request-manufacturing form.
const DefaultManufacturerMSP = "ManufacturerMSP"
