package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newTripsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trips",
		Short: "List the trips available to the current user",
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

			trips, err := env.client.ListTrips(ctx, userID)
			if err != nil {
				return err
			}

			if len(trips) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No trips yet")
				return nil
			}
			for _, trip := range trips {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", trip.ID, trip.Name)
			}
			return nil
		},
	}
}

// currentUserID returns the cached user id, resolving it by email when
// the cached profile lacks one.
func currentUserID(ctx context.Context, env *appEnv) (string, error) {
	profile, err := env.store.Profile()
	if err != nil {
		return "", err
	}
	if profile == nil {
		return "", fmt.Errorf("not logged in — run `expensync login` first")
	}
	if profile.ID != "" {
		return profile.ID, nil
	}
	return env.client.ResolveUserID(ctx, profile.Email)
}
