package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/pharmtrack/pharmtrack/internal/client/api"
	"github.com/pharmtrack/pharmtrack/internal/filex"
)

// Alerts prints the backend's alert scan grouped by category.
func (a *App) Alerts(ctx context.Context) error {
	alerts, err := a.api.Alerts(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	printAlertSection("Near expiry", alerts.NearExpiry)
	printAlertSection("Low stock", alerts.LowStock)
	printAlertSection("Controlled substances needing attention", alerts.ControlledAttention)
	if alerts.Note != "" {
		fmt.Println(alerts.Note)
	}
	return nil
}

func printAlertSection(title string, items []api.DrugAlert) {
	if len(items) == 0 {
		return
	}
	fmt.Printf("%s:\n", title)
	for _, d := range items {
		fmt.Printf("  #%-4d %-24s batch %-14s exp %s  qty %d\n",
			d.ID, d.BrandName, d.BatchNumber, d.ExpiryDate, d.Quantity)
	}
}

// Checklist prints every batch in stock for a physical audit walk-through.
func (a *App) Checklist(ctx context.Context) error {
	items, err := a.api.Checklist(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	for _, item := range items {
		fmt.Printf("#%-4d %-24s batch %-14s exp %s  recorded %5d  %s\n",
			item.ID, item.BrandName, item.BatchNumber, item.ExpiryDate,
			item.QuantityDigital, item.AlertType)
	}
	return nil
}

// Reconcile adjusts one batch to the physically counted quantity.
func (a *App) Reconcile(ctx context.Context) error {
	drugID, err := getIntField(a, "Drug ID")
	if err != nil {
		return err
	}
	counted, err := getIntField(a, "Counted quantity")
	if err != nil {
		return err
	}

	result, err := a.api.Reconcile(ctx, drugID, counted)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Printf("%s, new quantity %d\n", result.Status, result.NewQuantity)
	return nil
}

// ChecklistPDF downloads the audit checklist as a generated PDF.
func (a *App) ChecklistPDF(ctx context.Context) error {
	download, err := a.api.ChecklistPDF(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	fileName := download.Filename
	if fileName == "" {
		fileName = "inventory_checklist.pdf"
	}
	path, err := filex.SaveDownload(downloadsDir, fileName, download.Data)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Printf("Saved %s (%d bytes)\n", path, download.Size)
	return nil
}
