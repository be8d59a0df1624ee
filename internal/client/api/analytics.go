package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ChartPoint is one (date, sales) sample of a revenue trend.
type ChartPoint struct {
	Date  string  `json:"date"`
	Sales float64 `json:"sales"`
}

// PiePoint is one slice of the profit-by-brand breakdown.
type PiePoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// SalesSummary is the personal sales report for the logged-in user.
type SalesSummary struct {
	Revenue          float64      `json:"revenue"`
	TransactionCount int          `json:"transaction_count"`
	ChartData        []ChartPoint `json:"chart_data"`
}

// MySales fetches the caller's own sales between the optional from/to dates
// ("YYYY-MM-DD"; empty means unbounded).
func (c *Client) MySales(ctx context.Context, from, to string) (*SalesSummary, error) {
	q := dateRangeQuery(from, to)
	var resp SalesSummary
	if err := c.do(ctx, http.MethodGet, "/analytics/my-sales", nil, q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AdminOverview is the pharmacy-wide financial report (admin only).
type AdminOverview struct {
	Revenue          float64      `json:"revenue"`
	Profit           float64      `json:"profit"`
	TransactionCount int          `json:"transaction_count"`
	ChartData        []ChartPoint `json:"chart_data"`
	PieData          []PiePoint   `json:"pie_data"`
}

// Overview fetches the admin sales overview, optionally filtered by staff
// user ID (0 means all users) and date range.
func (c *Client) Overview(ctx context.Context, userID int, from, to string) (*AdminOverview, error) {
	q := dateRangeQuery(from, to)
	if userID > 0 {
		q.Set("user_id", strconv.Itoa(userID))
	}
	var resp AdminOverview
	if err := c.do(ctx, http.MethodGet, "/analytics/admin/overview", nil, q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExportReport downloads a generated sales report. format is "pdf" or
// "excel".
func (c *Client) ExportReport(ctx context.Context, format, from, to string) (*Download, error) {
	q := dateRangeQuery(from, to)
	q.Set("format", format)
	return c.download(ctx, "/analytics/export-report", q)
}

func dateRangeQuery(from, to string) url.Values {
	q := url.Values{}
	if from != "" {
		q.Set("start_date", from)
	}
	if to != "" {
		q.Set("end_date", to)
	}
	return q
}
