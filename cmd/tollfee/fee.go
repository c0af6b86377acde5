package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/goodtune/tollfee/internal/config"
	"github.com/goodtune/tollfee/internal/holiday"
	"github.com/goodtune/tollfee/internal/ledger"
	"github.com/goodtune/tollfee/internal/toll"
	"github.com/goodtune/tollfee/internal/vehicle"
	"github.com/spf13/cobra"
)

var (
	feeCategory string
	feeDate     string
	feeTimezone string
)

var feeCmd = &cobra.Command{
	Use:   "fee [flags] TIME...",
	Short: "Calculate the fee for a set of passages",
	Long: `Calculate the congestion tax for passages without contacting the server.

Each TIME is either an RFC 3339 timestamp or a clock time (HH:MM or HH:MM:SS)
on the day given by --date. Passages on different days are charged
independently and a statement is printed for each day.`,
	Example: `  tollfee fee --date 2024-03-12 06:20 07:10 15:45
  tollfee fee --category motorbike 2024-03-12T07:00:00+01:00`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFee,
}

func init() {
	feeCmd.Flags().StringVar(&feeCategory, "category", string(vehicle.Car), "Vehicle category")
	feeCmd.Flags().StringVar(&feeDate, "date", "", "Date (YYYY-MM-DD) for clock-time arguments")
	feeCmd.Flags().StringVar(&feeTimezone, "tz", "", "Timezone (defaults to tolls.timezone from the configuration)")
	rootCmd.AddCommand(feeCmd)
}

func runFee(cmd *cobra.Command, args []string) error {
	category, err := vehicle.ParseCategory(feeCategory)
	if err != nil {
		return err
	}

	loc, err := resolveLocation(feeTimezone)
	if err != nil {
		return err
	}

	times, err := parsePassageTimes(args, feeDate, loc)
	if err != nil {
		return err
	}

	quote, err := ledger.Quote(toll.New(nil), loc, category, times)
	if err != nil {
		return err
	}

	total := 0
	for _, d := range ledger.SortedDays(quote) {
		printStatement(cmd.OutOrStdout(), quote[d])
		total += quote[d].Total
	}
	if len(quote) > 1 {
		color.New(color.Bold).Fprintf(cmd.OutOrStdout(), "\nTotal over %d days: %d\n", len(quote), total)
	}

	return nil
}

// resolveLocation returns the named timezone, or the configured one when name
// is empty.
func resolveLocation(name string) (*time.Location, error) {
	if name != "" {
		loc, err := config.TollsConfig{Timezone: name}.Location()
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
		}
		return loc, nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg.Tolls.Location()
}

// parsePassageTimes parses RFC 3339 timestamps and clock times on date.
func parsePassageTimes(args []string, date string, loc *time.Location) ([]time.Time, error) {
	var day holiday.Date
	if date != "" {
		d, err := holiday.ParseDate(date)
		if err != nil {
			return nil, err
		}
		day = d
	}

	times := make([]time.Time, 0, len(args))
	for _, arg := range args {
		if t, err := time.Parse(time.RFC3339, arg); err == nil {
			times = append(times, t)
			continue
		}

		clock, err := parseClock(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid time %q: expected RFC 3339 or HH:MM", arg)
		}
		if day.IsZero() {
			return nil, fmt.Errorf("time %q needs --date", arg)
		}
		// Wall-clock seconds so DST days keep the typed time of day
		times = append(times, time.Date(day.Year, day.Month, day.Day, 0, 0, int(clock/time.Second), 0, loc))
	}

	return times, nil
}

func parseClock(s string) (time.Duration, error) {
	layout := "15:04"
	if strings.Count(s, ":") == 2 {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, nil
}

// printStatement writes a human-readable breakdown of one day.
func printStatement(w io.Writer, st *toll.Statement) {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow, color.Bold)

	_, _ = cyan.Fprintf(w, "\n%s %s (%s)\n", st.Date, st.Date.Weekday(), st.Category)

	if reason := holiday.Reason(st.Date); reason != "" {
		_, _ = green.Fprintf(w, "  toll free date: %s\n", reason)
	} else if st.Category.IsTollFree() {
		_, _ = green.Fprintf(w, "  toll free vehicle\n")
	}

	for _, iv := range st.Intervals {
		parts := make([]string, 0, len(iv.Passages))
		for _, p := range iv.Passages {
			parts = append(parts, fmt.Sprintf("%s=%d", p.Time.Format("15:04:05"), p.Fee))
		}
		_, _ = fmt.Fprintf(w, "  %s  %3d  [%s]\n", iv.Start.Format("15:04"), iv.Fee, strings.Join(parts, " "))
	}

	if st.Capped {
		_, _ = yellow.Fprintf(w, "  total %d (capped from %d)\n", st.Total, st.Uncapped)
		return
	}
	_, _ = fmt.Fprintf(w, "  total %d\n", st.Total)
}
