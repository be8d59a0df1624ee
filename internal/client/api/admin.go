package api

import (
	"context"
	"net/http"
)

// BackupResult confirms a manually triggered database backup.
type BackupResult struct {
	Status string `json:"status"`
	File   string `json:"file,omitempty"`
}

// TriggerBackup asks the backend to take a manual database backup (admin
// only).
func (c *Client) TriggerBackup(ctx context.Context) (*BackupResult, error) {
	var result BackupResult
	if err := c.do(ctx, http.MethodPost, "/admin/backup", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
