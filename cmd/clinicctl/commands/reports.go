package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/clinicpulse/internal/models"
	"github.com/AngelCh415/clinicpulse/internal/report"
	"github.com/AngelCh415/clinicpulse/internal/window"
)

func summaryCmd() *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Sales, expenses, rates and payment-method breakdown for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := window.Parse(from, to)
			if err != nil {
				return err
			}
			snap, err := loadSnapshot()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report.Summary(snap, w))
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day, YYYY-MM-DD (empty: open)")
	cmd.Flags().StringVar(&to, "to", "", "last day, YYYY-MM-DD (empty: open)")
	return cmd
}

func goalsCmd() *cobra.Command {
	var activeOnly bool
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Achieved value and completion of every goal",
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := referenceTime()
			if err != nil {
				return err
			}
			snap, err := loadSnapshot()
			if err != nil {
				return err
			}
			rows := report.Goals(snap, now)
			if activeOnly {
				out := rows[:0]
				for _, r := range rows {
					if r.Active {
						out = append(out, r)
					}
				}
				rows = out
			}
			return printJSON(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only goals whose window contains --now")
	return cmd
}

func notificationsCmd() *cobra.Command {
	var types []string
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Alerts due relative to --now",
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := referenceTime()
			if err != nil {
				return err
			}
			snap, err := loadSnapshot()
			if err != nil {
				return err
			}
			events := report.Notifications(snap, now)
			if len(types) > 0 {
				keep := make(map[models.NotificationType]bool, len(types))
				for _, t := range types {
					keep[models.NotificationType(strings.TrimSpace(t))] = true
				}
				out := events[:0]
				for _, e := range events {
					if keep[e.Type] {
						out = append(out, e)
					}
				}
				events = out
			}
			return printJSON(cmd.OutOrStdout(), events)
		},
	}
	cmd.Flags().StringSliceVar(&types, "type", nil, "only these event types (repeatable or comma separated)")
	return cmd
}
