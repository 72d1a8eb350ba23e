package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"mammy-coker-hub/internal/app"
	"mammy-coker-hub/internal/usecase/auth"
	"mammy-coker-hub/internal/usecase/notification"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// passwordEnv keeps the password out of shell history when set.
const passwordEnv = "HUBCTL_PASSWORD"

func loginCmd(opts *rootOptions) *cobra.Command {
	var email, password string
	var showToken bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in against the configured identity provider and print the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv(passwordEnv)
			}
			if strings.TrimSpace(email) == "" || password == "" {
				return errors.New("--email and a password (--password or " + passwordEnv + ") are required")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			return withContainer(ctx, opts, func(ctx context.Context, c *app.Container) error {
				client, cleanup, err := c.NewAuthClient(ctx)
				if err != nil {
					return err
				}
				defer cleanup()

				out := cmd.OutOrStdout()
				unsubscribe := client.OnAuthStateChange(func(ev auth.Event, st auth.State) {
					fmt.Fprintf(out, "event: %s\n", ev)
				})
				defer unsubscribe()

				if err := client.SignIn(ctx, email, password); err != nil {
					return err
				}
				return printSession(out, client.State(), showToken)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (or set "+passwordEnv+")")
	cmd.Flags().BoolVar(&showToken, "show-token", false, "include the access token in the output")
	return cmd
}

type sessionView struct {
	User      *auth.ViewUser `json:"user"`
	ExpiresAt time.Time      `json:"expires_at,omitempty"`
	Token     string         `json:"access_token,omitempty"`
}

func printSession(w io.Writer, st auth.State, showToken bool) error {
	v := sessionView{User: st.User}
	if st.Session != nil {
		v.ExpiresAt = st.Session.ExpiresAt
		if showToken {
			v.Token = st.Session.AccessToken
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func notifyCmd(opts *rootOptions) *cobra.Command {
	var userID, kind, title, message string

	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send an in-app notification to a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := uuid.Parse(strings.TrimSpace(userID))
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			in := notification.SendInput{UserID: id, Type: kind, Title: title, Message: message}
			if err := in.Validate(); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			return withContainer(ctx, opts, func(ctx context.Context, c *app.Container) error {
				svc, cleanup := c.NewNotifier()
				defer cleanup()

				n, err := svc.Send(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "sent %s to %s\n", n.ID, n.UserID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "recipient user id")
	cmd.Flags().StringVar(&kind, "type", "system", "notification type")
	cmd.Flags().StringVar(&title, "title", "", "notification title")
	cmd.Flags().StringVar(&message, "message", "", "notification body")
	return cmd
}
