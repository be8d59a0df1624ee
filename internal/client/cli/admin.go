package cli

import (
	"context"
	"fmt"
	"log"
)

// Backup asks the backend to take a manual database backup (admin only).
func (a *App) Backup(ctx context.Context) error {
	result, err := a.api.TriggerBackup(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Println("Backup:", result.Status)
	if result.File != "" {
		fmt.Println("File:", result.File)
	}
	return nil
}
