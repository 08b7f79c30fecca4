package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/warp/pto-tracker/generic"
	"github.com/warp/pto-tracker/timeoff"
)

var (
	usageAsOf      string
	usagePeriod    string
	usageAllowance string
)

var usageCmd = &cobra.Command{
	Use:   "usage PERSON",
	Short: "Show days off taken in the current year",
	Args:  cobra.ExactArgs(1),
	RunE:  runUsage,
}

func init() {
	usageCmd.Flags().StringVar(&usageAsOf, "as-of", "", "date inside the period (default today)")
	usageCmd.Flags().StringVar(&usagePeriod, "period", "calendar", "calendar | fiscal:<month>")
	usageCmd.Flags().StringVar(&usageAllowance, "allowance", "0", "yearly allowance in days (0 = untracked)")
}

func runUsage(cmd *cobra.Command, args []string) error {
	asOf := generic.Today()
	if usageAsOf != "" {
		d, err := generic.ParseDate(usageAsOf)
		if err != nil {
			return err
		}
		asOf = d
	}
	periods, err := generic.ParsePeriodConfig(usagePeriod)
	if err != nil {
		return err
	}
	allowance, err := decimal.NewFromString(usageAllowance)
	if err != nil {
		return fmt.Errorf("invalid allowance: %w", err)
	}

	svc, err := openServices()
	if err != nil {
		return err
	}
	defer svc.close()

	calc := &timeoff.UsageCalculator{Store: svc.store, Periods: periods, Allowance: allowance}
	u, err := calc.Calculate(cmd.Context(), generic.NormalizePerson(args[0]), asOf)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", u.Person, u.Period)
	fmt.Fprintf(out, "  full days: %d\n  half days: %d\n  days off:  %s\n", u.FullDays, u.HalfDays, u.DaysOff())
	if u.Tracked() {
		fmt.Fprintf(out, "  remaining: %s of %s\n", u.Remaining(), u.Allowance)
	}
	return nil
}
