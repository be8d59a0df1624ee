package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/pharmtrack/pharmtrack/internal/filex"
)

const downloadsDir = "downloads"

// Sales prints the personal sales report for the logged-in user.
func (a *App) Sales(ctx context.Context) error {
	from, to, err := a.getDateRange()
	if err != nil {
		return err
	}

	summary, err := a.api.MySales(ctx, from, to)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Printf("Revenue: %.2f over %d transactions\n", summary.Revenue, summary.TransactionCount)
	for _, p := range summary.ChartData {
		fmt.Printf("  %s  %10.2f\n", p.Date, p.Sales)
	}
	return nil
}

// Overview prints the pharmacy-wide financial report (admin only), optionally
// filtered to one staff member.
func (a *App) Overview(ctx context.Context) error {
	userID, err := a.getOptionalInt("Staff user ID (empty for all)")
	if err != nil {
		return err
	}
	from, to, err := a.getDateRange()
	if err != nil {
		return err
	}

	overview, err := a.api.Overview(ctx, userID, from, to)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Printf("Revenue: %.2f  Profit: %.2f  Transactions: %d\n",
		overview.Revenue, overview.Profit, overview.TransactionCount)
	if len(overview.PieData) > 0 {
		fmt.Println("Profit by brand:")
		for _, p := range overview.PieData {
			fmt.Printf("  %-24s %10.2f\n", p.Name, p.Value)
		}
	}
	return nil
}

// Report downloads a generated sales report (pdf or excel) into the
// downloads directory.
func (a *App) Report(ctx context.Context) error {
	format, err := getSimpleText(a.reader, "Format (pdf/excel)", os.Stdout)
	if err != nil {
		return err
	}
	from, to, err := a.getDateRange()
	if err != nil {
		return err
	}

	download, err := a.api.ExportReport(ctx, format, from, to)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	fileName := download.Filename
	if fileName == "" {
		fileName = "sales_report." + extensionFor(format)
	}
	path, err := filex.SaveDownload(downloadsDir, fileName, download.Data)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	fmt.Printf("Saved %s (%d bytes)\n", path, download.Size)
	return nil
}

func extensionFor(format string) string {
	if format == "excel" {
		return "xlsx"
	}
	return "pdf"
}

func (a *App) getDateRange() (from, to string, err error) {
	from, err = getSimpleText(a.reader, "Start date YYYY-MM-DD (empty for all)", os.Stdout)
	if err != nil {
		return "", "", err
	}
	to, err = getSimpleText(a.reader, "End date YYYY-MM-DD (empty for all)", os.Stdout)
	if err != nil {
		return "", "", err
	}
	return from, to, nil
}

func (a *App) getOptionalInt(prompt string) (int, error) {
	s, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return 0, err
	}
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number: %w", prompt, err)
	}
	return v, nil
}
