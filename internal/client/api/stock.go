package api

import (
	"context"
	"net/http"
)

// Drug is one stock batch. ExpiryDate travels as "YYYY-MM-DD".
type Drug struct {
	Name         string  `json:"name"`
	BatchNumber  string  `json:"batch_number"`
	ExpiryDate   string  `json:"expiry_date"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unit_price"`
	IsControlled bool    `json:"is_controlled"`
}

// AddStock records a received batch.
func (c *Client) AddStock(ctx context.Context, d Drug) (*Drug, error) {
	var created Drug
	if err := c.do(ctx, http.MethodPost, "/stock/", d, nil, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ListStock returns every batch currently on record.
func (c *Client) ListStock(ctx context.Context) ([]Drug, error) {
	var drugs []Drug
	if err := c.do(ctx, http.MethodGet, "/stock/", nil, nil, &drugs); err != nil {
		return nil, err
	}
	return drugs, nil
}

type sellStockRequest struct {
	BatchNumber string `json:"batch_number"`
	Quantity    int    `json:"quantity"`
}

// SellStockResult is the dispense confirmation. Warning is non-empty when
// the batch is a controlled substance and a register entry is required.
type SellStockResult struct {
	Message string `json:"message"`
	Drug    Drug   `json:"drug"`
	Warning string `json:"warning,omitempty"`
}

// SellStock dispenses quantity units from the given batch.
func (c *Client) SellStock(ctx context.Context, batchNumber string, quantity int) (*SellStockResult, error) {
	req := sellStockRequest{BatchNumber: batchNumber, Quantity: quantity}
	var result SellStockResult
	if err := c.do(ctx, http.MethodPost, "/stock/sell", req, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
