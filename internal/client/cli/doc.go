// Package cli provides the interactive PharmTrack command-line client.
//
// It wires configuration, the local sqlite store, the REST API client, and an
// interactive REPL that tolerates backend outages. Typical flow: prompt for
// credentials, start a background connectivity watcher, and execute user
// commands.
//
// Key features:
//   - Login / Logout / Signup, plus offline password recovery by PIN
//   - Stock intake, dispensing, and listing
//   - Sales reports, admin overview, exported documents
//   - Alerts, audit checklist, reconciliation, stock movement ledger
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
