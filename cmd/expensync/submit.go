package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnkitDash-code/Expensync/internal/pipeline"
	"github.com/AnkitDash-code/Expensync/internal/storage"
)

func newSubmitCmd() *cobra.Command {
	var (
		tripID string
		direct bool
	)

	cmd := &cobra.Command{
		Use:   "submit <image>",
		Short: "Submit a receipt image and record the expense",
		Long:  "Runs one receipt through the pipeline: validates it locally, uploads it to storage and hands the stored reference to the extraction service. Prints the recorded expense id on success.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newAppEnv()
			if err != nil {
				return err
			}
			ctx := context.Background()

			var uploader pipeline.Uploader = env.client
			if direct {
				s3, err := storage.NewS3Uploader(ctx, env.cfg)
				if err != nil {
					return err
				}
				uploader = s3
			}

			artifact, err := pipeline.ArtifactFromFile(args[0])
			if err != nil {
				return err
			}

			orch := pipeline.New(env.store, env.client, uploader, env.client)
			run, err := orch.Submit(ctx, artifact, tripID)
			if err != nil {
				if run != nil {
					return fmt.Errorf("%s: %w", run.State, err)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Expense recorded: %s\n", run.ExpenseID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&tripID, "trip", "t", "", "trip to file the receipt under")
	cmd.Flags().BoolVar(&direct, "direct", false, "upload straight to the storage bucket instead of the backend")
	_ = cmd.MarkFlagRequired("trip")
	return cmd
}
