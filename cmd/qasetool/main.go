// qasetool runs bulk maintenance over Qase test management projects via
// the TestOps API.
//
// Usage:
//
//	qasetool fix-csv-refs       [--dry-run]
//	qasetool fix-html           [--dry-run]
//	qasetool strip-attachments  [--dry-run]
//	qasetool migrate-field      --source-field <name> --destination-field <name>
//	qasetool link-jira          [--type jira-cloud|jira-server] [--batch-size N]
//	qasetool import-field       --csv <path> --column <name> --field <name>
//	qasetool purge-attachments  --size <bytes> [--workers N] [--yes]
//	qasetool purge-fields       [--yes]
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
