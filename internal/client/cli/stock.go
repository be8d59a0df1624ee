package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/pharmtrack/pharmtrack/internal/client/api"
)

// Stock lists every batch on record.
func (a *App) Stock(ctx context.Context) error {
	drugs, err := a.api.ListStock(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	for _, d := range drugs {
		tag := ""
		if d.IsControlled {
			tag = "  [controlled]"
		}
		fmt.Printf("%-24s batch %-14s exp %s  qty %5d  price %8.2f%s\n",
			d.Name, d.BatchNumber, d.ExpiryDate, d.Quantity, d.UnitPrice, tag)
	}
	return nil
}

// AddStock prompts for the batch details and records a stock intake.
func (a *App) AddStock(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Drug name", os.Stdout)
	if err != nil {
		return err
	}
	batch, err := getSimpleText(a.reader, "Batch number", os.Stdout)
	if err != nil {
		return err
	}
	expiry, err := getSimpleText(a.reader, "Expiry date (YYYY-MM-DD)", os.Stdout)
	if err != nil {
		return err
	}
	quantity, err := getIntField(a, "Quantity")
	if err != nil {
		return err
	}
	price, err := getFloatField(a, "Unit price")
	if err != nil {
		return err
	}
	controlled, err := getSimpleText(a.reader, "Controlled substance? (y/n)", os.Stdout)
	if err != nil {
		return err
	}

	created, err := a.api.AddStock(ctx, api.Drug{
		Name:         name,
		BatchNumber:  batch,
		ExpiryDate:   expiry,
		Quantity:     quantity,
		UnitPrice:    price,
		IsControlled: strings.EqualFold(controlled, "y"),
	})
	if err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Printf("Recorded %s batch %s (%d units)\n", created.Name, created.BatchNumber, created.Quantity)
	return nil
}

// Sell dispenses units from a batch and surfaces the controlled-substance
// warning when the backend raises one.
func (a *App) Sell(ctx context.Context) error {
	batch, err := getSimpleText(a.reader, "Batch number", os.Stdout)
	if err != nil {
		return err
	}
	quantity, err := getIntField(a, "Quantity")
	if err != nil {
		return err
	}

	result, err := a.api.SellStock(ctx, batch, quantity)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Println(result.Message)
	if result.Warning != "" {
		fmt.Println("WARNING:", result.Warning)
	}
	fmt.Printf("%s batch %s now at %d units\n",
		result.Drug.Name, result.Drug.BatchNumber, result.Drug.Quantity)
	return nil
}

func getIntField(a *App, prompt string) (int, error) {
	s, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number: %w", prompt, err)
	}
	return v, nil
}

func getFloatField(a *App, prompt string) (float64, error) {
	s, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %w", prompt, err)
	}
	return v, nil
}
