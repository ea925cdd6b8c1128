package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Victor-armando18/vehicle-admin/internal/app"
	"github.com/Victor-armando18/vehicle-admin/internal/domain"
	"github.com/Victor-armando18/vehicle-admin/internal/domain/model"
	"github.com/Victor-armando18/vehicle-admin/internal/infrastructure/yaml"
	"github.com/Victor-armando18/vehicle-admin/internal/platform/config"
	"github.com/Victor-armando18/vehicle-admin/internal/platform/logging"
)

type rootOptions struct {
	configPath string
	logLevel   string
	newApp     func(*config.Config) (*app.App, error)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{
		newApp: func(cfg *config.Config) (*app.App, error) { return app.New(cfg) },
	}
	return buildRootCmd(opts)
}

func buildRootCmd(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:           "vehiclectl",
		Short:         "Inspect and send vehicle record updates",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", os.Getenv("VEHICLE_ADMIN_CONFIG"), "path to the YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(newDiffCmd(opts), newSanitizeCmd(opts), newPatchCmd(opts))
	return root
}

func (o *rootOptions) app(cmd *cobra.Command) (*app.App, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	level := cfg.Logging.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	logging.SetupLoggerTo(cmd.ErrOrStderr(), logging.Config{Level: level, Pretty: true})
	return o.newApp(cfg)
}

func newDiffCmd(opts *rootOptions) *cobra.Command {
	var text bool
	cmd := &cobra.Command{
		Use:   "diff <original> <updated>",
		Short: "Show the PATCH body that turns original into updated",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			original, err := readRecord(args[0])
			if err != nil {
				return err
			}
			updated, err := readRecord(args[1])
			if err != nil {
				return err
			}
			a, err := opts.app(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Preview.Run(cmd.Context(), original, updated)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printStatus(out, res.ServerDelta, res.GuardsHit)
			if text {
				return printTextDiff(out, original, res.Projected)
			}
			return printJSON(out, res.Body)
		},
	}
	cmd.Flags().BoolVar(&text, "text", false, "render a line diff of the record before and after the patch")
	return cmd
}

func newSanitizeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sanitize <file>",
		Short: "Print a record without nulls, empty containers and denied keys",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := readRecord(args[0])
			if err != nil {
				return err
			}
			a, err := opts.app(cmd)
			if err != nil {
				return err
			}
			defer a.Close()
			return printJSON(cmd.OutOrStdout(), a.Sanitizer.Sanitize(rec))
		},
	}
}

func newPatchCmd(opts *rootOptions) *cobra.Command {
	var (
		originalPath string
		dryRun       bool
		form         bool
	)
	cmd := &cobra.Command{
		Use:   "patch <id> <updated>",
		Short: "Send the changed fields of a vehicle to the API",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			updated, err := readRecord(args[1])
			if err != nil {
				return err
			}
			if form {
				if updated, err = model.FormRecord(updated); err != nil {
					return fmt.Errorf("%w: %s: %v", domain.ErrInvalidRecord, args[1], err)
				}
			}
			var original domain.Record
			if originalPath != "" {
				if original, err = readRecord(originalPath); err != nil {
					return err
				}
			}
			a, err := opts.app(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if dryRun {
				if original == nil {
					if original, err = a.API.GetVehicle(cmd.Context(), id); err != nil {
						return fmt.Errorf("load vehicle %s: %w", id, err)
					}
				}
				res, err := a.Preview.Run(cmd.Context(), original, updated)
				if err != nil {
					return err
				}
				printStatus(out, res.ServerDelta, res.GuardsHit)
				return printJSON(out, res.Body)
			}

			res, err := a.Updates.UpdateVehicle(cmd.Context(), domain.UpdateRequest{ID: id, Original: original, Updated: updated})
			if res != nil {
				printResult(out, res)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&originalPath, "original", "", "original record file; fetched from the API when omitted")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the PATCH body without sending it")
	cmd.Flags().BoolVar(&form, "form", false, "treat <updated> as edit form data and map it to the vehicle record shape")
	return cmd
}

// readRecord reads a JSON or YAML record; "-" reads stdin.
func readRecord(path string) (domain.Record, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	rec, err := yaml.LoadRecord(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return normalize(rec)
}

// normalize routes a YAML-decoded record through JSON so nested maps and
// numbers have the same shapes as records received over HTTP.
func normalize(rec domain.Record) (domain.Record, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRecord, err)
	}
	var out domain.Record
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRecord, err)
	}
	if out == nil {
		out = domain.Record{}
	}
	return out, nil
}
