package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// Audit prints the stock movement ledger, optionally filtered to one batch.
func (a *App) Audit(ctx context.Context) error {
	batch, err := getSimpleText(a.reader, "Batch number (empty for all)", os.Stdout)
	if err != nil {
		return err
	}

	movements, err := a.api.StockAudit(ctx, batch)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	for _, m := range movements {
		who := m.Username
		if who == "" {
			who = "-"
		}
		fmt.Printf("%s  %-24s batch %-14s %-10s %+5d  %-20s by %s\n",
			m.Date, m.DrugName, m.BatchNumber, m.MovementType,
			m.QuantityChanged, m.Reason, who)
	}
	return nil
}
