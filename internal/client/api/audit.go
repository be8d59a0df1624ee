package api

import (
	"context"
	"net/http"
	"net/url"
)

// StockMovement is one entry of the stock audit trail.
type StockMovement struct {
	DrugName        string `json:"drug_name"`
	BatchNumber     string `json:"batch_number"`
	MovementType    string `json:"movement_type"`
	QuantityChanged int    `json:"quantity_changed"`
	Reason          string `json:"reason"`
	Date            string `json:"date"`
	Username        string `json:"username,omitempty"`
}

// StockAudit returns the movement ledger, optionally filtered to one batch.
func (c *Client) StockAudit(ctx context.Context, batchNumber string) ([]StockMovement, error) {
	var q url.Values
	if batchNumber != "" {
		q = url.Values{"batch_number": {batchNumber}}
	}
	var movements []StockMovement
	if err := c.do(ctx, http.MethodGet, "/audit/", nil, q, &movements); err != nil {
		return nil, err
	}
	return movements, nil
}
