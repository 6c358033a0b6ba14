package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"designshop/internal/modules/audit"
	"designshop/internal/repository"

	"github.com/spf13/cobra"
)

var logsLimit int

// shopctl logs
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print the most recent audit log entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		db, _, err := bootDB()
		if err != nil {
			return err
		}

		entries, err := audit.NewLedger(repository.NewAuditRepository(db)).Recent(ctx, logsLimit)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tACTOR\tENTITY\tACTION\tTARGET\tOLD\tNEW")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				e.CreatedAt.Format("2006-01-02 15:04:05"),
				e.ActorUsername,
				e.EntityType,
				e.Action,
				e.TargetUsername,
				deref(e.OldValue),
				deref(e.NewValue),
			)
		}
		return w.Flush()
	},
}

func init() {
	logsCmd.Flags().IntVarP(&logsLimit, "limit", "n", audit.DefaultLimit, "Number of entries (max 100)")
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
