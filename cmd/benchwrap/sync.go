package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/benchwrap/benchwrap/internal/auth"
	"github.com/benchwrap/benchwrap/internal/benchsdk"
	"github.com/benchwrap/benchwrap/internal/config"
	"github.com/benchwrap/benchwrap/internal/credstore"
	"github.com/benchwrap/benchwrap/internal/enumerate"
	"github.com/benchwrap/benchwrap/internal/uploader"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newSyncCmd())
}

func newSyncCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Upload every file in the jobs directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runSync(cmd, appConfig, yes)
		},
	}

	cmd.Flags().SortFlags = false
	cmd.Flags().IntP("jobs", "j", config.DefaultWorkers, "number of concurrent uploads")
	cmd.Flags().StringSlice("exclude", nil, "skip paths matching a glob, relative to the jobs dir (repeatable)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

func runSync(cmd *cobra.Command, cfg *config.Config, yes bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	console := newConsole(cmd.InOrStdin(), out)

	sdk := benchsdk.New(cfg.ServerURL)
	defer sdk.Close()

	store := credstore.New(cfg.DataDir)
	accessToken, err := auth.NewClient(sdk, store, console).AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	items, err := enumerateJobs(cfg)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(out, "No files to sync.")
		return nil
	}

	fmt.Fprintf(out, "%s Synchronizing %d files (%s) with %d jobs\n",
		cyan.Render("::"), len(items), humanize.IBytes(uint64(uploader.TotalBytes(items))), cfg.Workers)

	if !yes {
		ok, err := console.Confirm(cyan.Render("::") + " Proceed?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	up := uploader.New(sdk, newRenderer(out), nil)
	results := up.SyncAll(ctx, accessToken, items, cfg.Workers)
	summary := uploader.Summarize(items, results)
	printSummary(out, summary)

	if !summary.OK() {
		return fmt.Errorf("%d of %d uploads failed", len(summary.Failed), summary.Total)
	}
	return nil
}

// enumerateJobs lists the jobs dir without the credential store's files.
func enumerateJobs(cfg *config.Config) ([]enumerate.Item, error) {
	e, err := enumerate.New(cfg.JobsDir, credstore.ReservedNames()...).Exclude(cfg.Exclude...)
	if err != nil {
		return nil, err
	}
	return e.Enumerate()
}

func printSummary(out io.Writer, summary uploader.Summary) {
	for _, r := range summary.Failed {
		fmt.Fprintf(out, "%s %s: %v\n", red.Render("✗"), r.ObjectName, r.Err)
		slog.Debug("sync failure", "object", r.ObjectName, "stage", r.Stage, "status", r.StatusCode)
	}

	fmt.Fprintf(out, "%s Summary: %s\n", cyan.Render("::"), summary)
	if summary.OK() {
		fmt.Fprintln(out, green.Render("✔ Sync complete."))
	}
}
