package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/goodtune/tollfee/internal/holiday"
	"github.com/spf13/cobra"
)

var holidaysCmd = &cobra.Command{
	Use:   "holidays [YEAR]",
	Short: "List toll-free holiday dates",
	Long:  `List the dates of a year on which no vehicle pays, with the reason for each. Weekends are always toll free and are not listed.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHolidays,
}

func init() {
	rootCmd.AddCommand(holidaysCmd)
}

func runHolidays(cmd *cobra.Command, args []string) error {
	year := time.Now().Year()
	if len(args) == 1 {
		y, err := strconv.Atoi(args[0])
		if err != nil || y < 1 || y > 9999 {
			return fmt.Errorf("invalid year %q", args[0])
		}
		year = y
	}

	cyan := color.New(color.FgCyan, color.Bold)
	dim := color.New(color.Faint)
	w := cmd.OutOrStdout()

	dates := holiday.Dates(year).Sorted()
	_, _ = cyan.Fprintf(w, "Toll-free dates in %d (%d)\n", year, len(dates))
	for _, d := range dates {
		line := fmt.Sprintf("%s  %-9s  %s\n", d, d.Weekday(), holiday.Reason(d))
		if holiday.IsWeekend(d) {
			_, _ = dim.Fprint(w, line)
			continue
		}
		_, _ = fmt.Fprint(w, line)
	}

	return nil
}
