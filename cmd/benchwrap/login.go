package main

import (
	"context"
	"fmt"

	"github.com/benchwrap/benchwrap/internal/auth"
	"github.com/benchwrap/benchwrap/internal/benchsdk"
	"github.com/benchwrap/benchwrap/internal/credstore"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newRegisterCmd())
	rootCmd.AddCommand(newLogoutCmd())
}

// withAuthClient builds an auth client bound to the command's input and
// output and closes the SDK when fn returns.
func withAuthClient(cmd *cobra.Command, fn func(ctx context.Context, c *auth.Client) error) error {
	sdk := benchsdk.New(appConfig.ServerURL)
	defer sdk.Close()

	c := auth.NewClient(sdk, credstore.New(appConfig.DataDir), newConsole(cmd.InOrStdin(), cmd.OutOrStdout()))
	return fn(cmd.Context(), c)
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Log in with username and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return withAuthClient(cmd, func(ctx context.Context, c *auth.Client) error {
				if _, err := c.Login(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), green.Render("Logged in"))
				return nil
			})
		},
	}
}

func newRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create a new account and store its credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return withAuthClient(cmd, func(ctx context.Context, c *auth.Client) error {
				if _, err := c.Register(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), green.Render("Registered"))
				return nil
			})
		},
	}
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			store := credstore.New(appConfig.DataDir)
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}
