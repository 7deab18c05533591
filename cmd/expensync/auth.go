package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnkitDash-code/Expensync/internal/session"
)

func newLoginCmd() *cobra.Command {
	var (
		email    string
		password string
		walletID string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session",
		Long:  "Logs in against the Expensync backend and persists the session locally, so later commands run without re-authenticating.",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newAppEnv()
			if err != nil {
				return err
			}

			profile, err := env.client.Login(context.Background(), email, password, walletID)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", profile.Email, profile.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().StringVarP(&walletID, "wallet", "w", "", "wallet id")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var (
		email    string
		password string
		walletID string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newAppEnv()
			if err != nil {
				return err
			}

			profile, err := env.client.Register(context.Background(), email, password, walletID, role)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s\n", profile.Email)
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().StringVarP(&walletID, "wallet", "w", "", "wallet id")
	cmd.Flags().StringVar(&role, "role", "", "account role (optional)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newAppEnv()
			if err != nil {
				return err
			}
			if err := env.client.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newAppEnv()
			if err != nil {
				return err
			}

			token, err := env.store.Token()
			if err != nil || token == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}

			profile, err := env.store.Profile()
			if err != nil || profile == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", profile.Email, profile.Role)
			if exp, ok := session.TokenExpiry(token); ok {
				if exp.Before(time.Now()) {
					fmt.Fprintf(cmd.OutOrStdout(), "Session expired %s — log in again\n", exp.Format(time.RFC3339))
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Session valid until %s\n", exp.Format(time.RFC3339))
				}
			}
			return nil
		},
	}
}
