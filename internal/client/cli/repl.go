package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Signup(ctx context.Context) error
	Recover(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Stock(ctx context.Context) error
	AddStock(ctx context.Context) error
	Sell(ctx context.Context) error
	Sales(ctx context.Context) error
	Overview(ctx context.Context) error
	Audit(ctx context.Context) error
	Alerts(ctx context.Context) error
	Checklist(ctx context.Context) error
	Reconcile(ctx context.Context) error
	ChecklistPDF(ctx context.Context) error
	Report(ctx context.Context) error
	Backup(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the PharmTrack CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - login          — authenticate
//	  - recover        — reset a forgotten password by recovery PIN
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - stock          — list batches on record
//	  - addstock       — record a received batch
//	  - sell           — dispense from a batch
//	  - sales          — personal sales report
//	  - overview       — pharmacy-wide report (admin)
//	  - audit          — stock movement ledger
//	  - alerts         — expiry/low-stock/controlled alert scan
//	  - checklist      — full dispensary audit checklist
//	  - reconcile      — adjust a batch to the counted quantity
//	  - checklistpdf   — download the checklist as PDF
//	  - report         — download a sales report (pdf/excel)
//	  - backup         — trigger a server database backup (admin)
//	  - signup         — create a staff account (admin)
//	  - whoami         — show the current session
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("pt> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: stock, addstock, sell, sales, overview, audit, alerts, checklist, reconcile, checklistpdf, report, backup, signup, whoami, logout, exit")
			} else {
				printlnFn("Available commands: login, recover, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "signup":
			_ = a.Signup(ctx)

		case "recover":
			_ = a.Recover(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "stock":
			_ = a.Stock(ctx)

		case "addstock":
			_ = a.AddStock(ctx)

		case "sell":
			_ = a.Sell(ctx)

		case "sales":
			_ = a.Sales(ctx)

		case "overview":
			_ = a.Overview(ctx)

		case "audit":
			_ = a.Audit(ctx)

		case "alerts":
			_ = a.Alerts(ctx)

		case "checklist":
			_ = a.Checklist(ctx)

		case "reconcile":
			_ = a.Reconcile(ctx)

		case "checklistpdf":
			_ = a.ChecklistPDF(ctx)

		case "report":
			_ = a.Report(ctx)

		case "backup":
			_ = a.Backup(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
