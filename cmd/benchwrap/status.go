package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/benchwrap/benchwrap/internal/auth"
	"github.com/benchwrap/benchwrap/internal/config"
	"github.com/benchwrap/benchwrap/internal/credstore"
	"github.com/benchwrap/benchwrap/internal/uploader"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newStatusCmd())
}

func newStatusCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration, credential state and pending files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			out := cmd.OutOrStdout()

			store := credstore.New(appConfig.DataDir)
			if err := printStatus(out, appConfig, store); err != nil {
				return err
			}

			if !check {
				return nil
			}
			if !store.IsRegistered() {
				return auth.ErrNotAuthenticated
			}
			return withAuthClient(cmd, func(ctx context.Context, c *auth.Client) error {
				token, err := c.Refresh(ctx)
				if err != nil {
					return err
				}
				printTokenInfo(out, token, time.Now())
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "exchange the stored credential to verify it")
	return cmd
}

func printStatus(out io.Writer, cfg *config.Config, store *credstore.Store) error {
	items, err := enumerateJobs(cfg)
	if err != nil {
		return err
	}

	credential := red.Render("none")
	if store.IsRegistered() {
		credential = green.Render("stored")
	}

	fmt.Fprintln(out, bold.Render("BENCHWRAP STATUS"))
	fmt.Fprintf(out, "%-12s %s\n", "server", cyan.Render(cfg.ServerURL))
	fmt.Fprintf(out, "%-12s %s\n", "data dir", cfg.DataDir)
	fmt.Fprintf(out, "%-12s %s\n", "jobs dir", cfg.JobsDir)
	fmt.Fprintf(out, "%-12s %s %s\n", "credential", credential, gray.Render(store.Path()))
	fmt.Fprintf(out, "%-12s %d (%s)\n", "pending", len(items), humanize.IBytes(uint64(uploader.TotalBytes(items))))
	return nil
}

func printTokenInfo(out io.Writer, token string, now time.Time) {
	info, err := auth.Inspect(token)
	if err != nil {
		fmt.Fprintf(out, "%-12s %s\n", "access", green.Render("ok")+" "+gray.Render("(opaque token)"))
		return
	}

	state := green.Render("ok")
	if info.Expired(now) {
		state = red.Render("expired")
	}
	fmt.Fprintf(out, "%-12s %s\n", "access", state)
	if info.Subject != "" {
		fmt.Fprintf(out, "%-12s %s\n", "subject", info.Subject)
	}
	if !info.ExpiresAt.IsZero() {
		fmt.Fprintf(out, "%-12s %s\n", "expires", humanize.RelTime(info.ExpiresAt, now, "ago", "from now"))
	}
}
