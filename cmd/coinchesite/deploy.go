package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nebuludik/coinchesite/internal/domain/model"
)

var errDeployFailed = errors.New("deployment finished with errors")

// deployCmd runs one deployment without starting a server.
var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Run one deployment and print its report",
	Long: `Create or update every page, bind the home page and bootstrap the menu,
then print the report. Exits non-zero when any step failed.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		logger := slog.Default()

		d, err := wire(cmd.Context(), logger)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := d.close(); closeErr != nil {
				logger.Error("error closing store", "error", closeErr)
			}
		}()

		report := d.service.Deploy(cmd.Context())
		printReport(cmd.OutOrStdout(), report)

		if report.Failed() {
			return errDeployFailed
		}
		return nil
	},
}

// printReport writes the report as plain text lines.
func printReport(w io.Writer, r *model.DeployReport) {
	fmt.Fprintf(w, "run %s\n", r.RunID)
	if r.Fatal != nil {
		fmt.Fprintf(w, "✗ %v\n", r.Fatal)
		return
	}

	for _, p := range r.Pages {
		if p.Err != nil {
			fmt.Fprintf(w, "✗ %s: %v\n", p.Title, p.Err)
			continue
		}
		fmt.Fprintf(w, "✓ %s %s (ID: %d) %s\n", p.Title, p.Action, p.ID, p.Permalink)
	}

	switch {
	case !r.FrontPage.Attempted:
		fmt.Fprintln(w, "→ front page not set")
	case r.FrontPage.Err != nil:
		fmt.Fprintf(w, "✗ front page: %v\n", r.FrontPage.Err)
	default:
		fmt.Fprintln(w, "✓ front page set")
	}

	if r.Menu.Err != nil {
		fmt.Fprintf(w, "✗ menu %s: %v\n", r.Menu.Outcome, r.Menu.Err)
	} else {
		fmt.Fprintf(w, "→ menu %s (%d item(s) added)\n", r.Menu.Outcome, r.Menu.ItemsAdded)
	}

	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "→ %s\n", warn)
	}
}
