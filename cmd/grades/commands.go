package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mind-engage/mindengage-grades/internal/config"
	"github.com/mind-engage/mindengage-grades/internal/course"
	"github.com/mind-engage/mindengage-grades/internal/db"
	"github.com/mind-engage/mindengage-grades/internal/gradebook"
	"github.com/mind-engage/mindengage-grades/internal/storage"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "grades",
		Short:        "Compute per-learner course grades",
		SilenceUsage: true,
	}
	root.AddCommand(newComputeCmd(), newExampleCmd(), newMigrateCmd())
	return root
}

func newComputeCmd() *cobra.Command {
	var (
		blobKey string
		pretty  bool
	)
	cmd := &cobra.Command{
		Use:   "compute [file|-]",
		Short: "Grade a dataset read from a file, stdin or the blob store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			var (
				rc  io.ReadCloser
				err error
			)
			switch {
			case blobKey != "" && len(args) > 0:
				return errors.New("pass either a file or --blob, not both")
			case blobKey != "":
				bs, err := storage.Open(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				rc, err = bs.Get(cmd.Context(), blobKey)
				if err != nil {
					return err
				}
			case len(args) == 0 || args[0] == "-":
				rc = io.NopCloser(cmd.InOrStdin())
			default:
				rc, err = os.Open(args[0])
				if err != nil {
					return err
				}
			}
			defer rc.Close()

			d, err := course.DecodeDataset(rc)
			if err != nil {
				return err
			}
			return printResults(cmd.OutOrStdout(), d.Grades(cfg.NewLogger()), pretty)
		},
	}
	cmd.Flags().StringVar(&blobKey, "blob", "", "read the dataset from the configured blob store")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	return cmd
}

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Grade the bundled sample course",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := course.Sample()
			return printResults(cmd.OutOrStdout(), d.Grades(config.FromEnv().NewLogger()), true)
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations for DB_DRIVER/DB_DSN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromEnv()
			driver, err := db.ParseDriver(cfg.DBDriver)
			if err != nil {
				return err
			}
			if err := db.Migrate(driver, cfg.DBDSN); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (%s)\n", driver)
			return nil
		},
	}
}

func printResults(w io.Writer, results []gradebook.LearnerResult, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(results)
}
