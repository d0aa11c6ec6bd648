package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/s4ngmin-9/Fast-API/internal/calendar"
)

const dateLayout = "2006-01-02"

var now = time.Now

func newRootCmd() *cobra.Command {
	var (
		start    string
		days     int
		rule     string
		holidays []string
	)

	root := &cobra.Command{
		Use:          "eta",
		Short:        "Compute the date a duration of working days ends on",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from := now().UTC().Truncate(24 * time.Hour)
			if start != "" {
				d, err := time.Parse(dateLayout, start)
				if err != nil {
					return fmt.Errorf("--start: expected YYYY-MM-DD: %w", err)
				}
				from = d
			}

			set, err := calendar.ParseHolidaySet(holidays)
			if err != nil {
				return err
			}
			isExcluded, err := calendar.RuleByName(rule, set)
			if err != nil {
				return err
			}
			eta, err := calendar.ComputeETA(from, days, isExcluded)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), eta.Format(dateLayout))
			return err
		},
	}

	root.Flags().StringVar(&start, "start", "", "start date as YYYY-MM-DD (default today, UTC)")
	root.Flags().IntVar(&days, "days", 2, "number of working days required")
	root.Flags().StringVar(&rule, "rule", calendar.RuleDelivery, "exclusion rule, rules may be joined with +")
	root.Flags().StringSliceVar(&holidays, "holiday", nil, "holiday date used by the holidays rule (repeatable)")

	root.AddCommand(rulesCmd())
	return root
}

func rulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the exclusion rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range calendar.RuleNames() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
