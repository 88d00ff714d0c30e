package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/xtrack-backend-go/internal/client/credstore"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(cmd.InOrStdin())
			var err error
			if username == "" {
				if username, err = prompt(cmd, in, "Username: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = prompt(cmd, in, "Password: "); err != nil {
					return err
				}
			}

			resp, err := a.client.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}

			if err := a.store.Save(resp.Token, resp.ExpiresAt, credstore.User{
				ID:       resp.User.ID,
				Username: resp.User.Username,
				Name:     resp.User.Name,
				Role:     resp.User.Role,
			}); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Logged in as %s (%s)\n", resp.User.Username, resp.User.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when empty)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the token and forget it locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.store.Token() != "" {
				if err := a.client.Logout(cmd.Context()); err != nil {
					slog.Warn("server logout failed", "error", err)
				}
			}
			if err := a.store.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}

func prompt(cmd *cobra.Command, in *bufio.Reader, label string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), label)
	line, err := in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && line == "" {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(label, ": "), err)
	}
	if line == "" {
		return "", errors.New(strings.TrimSuffix(label, ": ") + " is required")
	}
	return line, nil
}
