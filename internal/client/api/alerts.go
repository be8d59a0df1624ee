package api

import (
	"context"
	"net/http"
)

// DrugAlert is one batch flagged by the backend's alert scan.
type DrugAlert struct {
	ID              int     `json:"id"`
	BrandName       string  `json:"brand_name"`
	BatchNumber     string  `json:"batch_number"`
	ExpiryDate      string  `json:"expiry_date"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	IsControlled    bool    `json:"is_controlled"`
	ReorderLevel    int     `json:"reorder_level"`
	ExpiryAlertDays int     `json:"expiry_alert_days"`
}

// AlertsResponse groups the batches needing attention.
type AlertsResponse struct {
	NearExpiry          []DrugAlert `json:"near_expiry"`
	LowStock            []DrugAlert `json:"low_stock"`
	ControlledAttention []DrugAlert `json:"controlled_attention"`
	Note                string      `json:"note"`
}

// Alerts fetches the current pharmacy alert scan.
func (c *Client) Alerts(ctx context.Context) (*AlertsResponse, error) {
	var resp AlertsResponse
	if err := c.do(ctx, http.MethodGet, "/alerts/", nil, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ChecklistItem is one row of the full dispensary audit checklist.
type ChecklistItem struct {
	ID              int    `json:"id"`
	BrandName       string `json:"brand_name"`
	BatchNumber     string `json:"batch_number"`
	ExpiryDate      string `json:"expiry_date"`
	QuantityDigital int    `json:"quantity_digital"`
	AlertType       string `json:"alert_type"`
}

// Checklist returns every batch in stock for a physical audit.
func (c *Client) Checklist(ctx context.Context) ([]ChecklistItem, error) {
	var items []ChecklistItem
	if err := c.do(ctx, http.MethodGet, "/alerts/checklist", nil, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

type reconcileRequest struct {
	DrugID           int `json:"drug_id"`
	PhysicalQuantity int `json:"physical_quantity"`
}

// ReconcileResult reports the outcome of a stock reconciliation.
type ReconcileResult struct {
	Status      string `json:"status"`
	NewQuantity int    `json:"new_quantity,omitempty"`
}

// Reconcile updates a batch to the physically counted quantity.
func (c *Client) Reconcile(ctx context.Context, drugID, physicalQuantity int) (*ReconcileResult, error) {
	req := reconcileRequest{DrugID: drugID, PhysicalQuantity: physicalQuantity}
	var result ReconcileResult
	if err := c.do(ctx, http.MethodPost, "/alerts/reconcile", req, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ChecklistPDF downloads the inventory checklist as a generated PDF.
func (c *Client) ChecklistPDF(ctx context.Context) (*Download, error) {
	return c.download(ctx, "/alerts/checklist/pdf", nil)
}
