package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/AnkitDash-code/Expensync/internal/backend"
	"github.com/AnkitDash-code/Expensync/internal/config"
	"github.com/AnkitDash-code/Expensync/internal/session"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "expensync",
		Short:         "Expensync — receipt submission from the command line",
		Long:          "Expensync submits receipt images to the expense backend: it signs you in, uploads the image and hands it to the extraction service, returning the recorded expense id.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(newLoginCmd())
	cmd.AddCommand(newRegisterCmd())
	cmd.AddCommand(newLogoutCmd())
	cmd.AddCommand(newWhoamiCmd())
	cmd.AddCommand(newTripsCmd())
	cmd.AddCommand(newSubmitCmd())
	cmd.AddCommand(newExpensesCmd())
	cmd.AddCommand(newStatusCmd())
	return cmd
}

// appEnv bundles the wired collaborators every command needs.
type appEnv struct {
	cfg    *config.Config
	store  session.Store
	client *backend.Client
}

func newAppEnv() (*appEnv, error) {
	cfg := config.LoadConfig()
	store, err := session.Open(cfg.SessionDBPath)
	if err != nil {
		return nil, err
	}
	return &appEnv{
		cfg:    cfg,
		store:  store,
		client: backend.New(cfg, store),
	}, nil
}

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func main() {
	os.Exit(execute(newRootCmd()))
}
