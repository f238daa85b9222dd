package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tickops/ticktick-mcp/internal/auth"
	"github.com/tickops/ticktick-mcp/internal/config"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage TickTick authentication",
		Long: `Log in to TickTick with the OAuth authorization-code flow, inspect the
current authentication state, or log out.

Client credentials (from the TickTick developer center) are read from
~/.ticktick/config.json or the TICKTICK_CLIENT_ID / TICKTICK_CLIENT_SECRET
environment variables. They can also be saved with 'auth login' flags.`,
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthFinishCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var (
		clientID     string
		clientSecret string
		accountType  string
		redirectURI  string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to TickTick via OAuth",
		Long: `Start the OAuth authorization-code flow: print the authorization URL,
listen for the redirect on localhost, and exchange the code for a token.

If the browser redirect cannot reach this machine, paste the authorization
code at the prompt instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clientID != "" || clientSecret != "" {
				creds := config.Load()
				if clientID != "" {
					creds.ClientID = clientID
				}
				if clientSecret != "" {
					creds.ClientSecret = clientSecret
				}
				if accountType != "" {
					creds.AccountType = config.AccountType(strings.ToLower(accountType))
				}
				if redirectURI != "" {
					creds.RedirectURI = redirectURI
				}
				if err := config.Save(creds); err != nil {
					return fmt.Errorf("failed to save credentials: %w", err)
				}
				fmt.Printf("Credentials saved to %s\n", config.File())
			}

			a := auth.New(config.Load())
			if !a.IsConfigured() {
				return auth.ErrNotConfigured
			}

			a.StartCallbackListener()
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = a.ShutdownListener(ctx)
			}()

			url, err := a.AuthURL()
			if err != nil {
				return err
			}

			fmt.Println("Open this URL in your browser and authorize the application:")
			fmt.Println()
			fmt.Println("  " + url)
			fmt.Println()
			fmt.Println("After authorizing you will be redirected back automatically.")
			fmt.Println("If the redirect does not complete, paste the authorization code here.")
			fmt.Print("Code (or press Enter once the browser shows success): ")

			scanner := bufio.NewScanner(os.Stdin)
			scanner.Scan()
			code := strings.TrimSpace(scanner.Text())

			if code != "" {
				if !a.ExchangeCode(cmd.Context(), code) {
					return fmt.Errorf("authentication failed: the code might be invalid or expired")
				}
			}

			if !a.IsAuthenticated() {
				return fmt.Errorf("not authenticated: no token was obtained")
			}

			fmt.Println("✅ Authentication successful. Token saved.")
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "TickTick OAuth client ID (saved to the config file)")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "TickTick OAuth client secret (saved to the config file)")
	cmd.Flags().StringVar(&accountType, "account-type", "", "Account type: global (ticktick.com) or china (dida365.com)")
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "", "OAuth redirect URI (default http://localhost:8000/callback)")

	return cmd
}

func newAuthFinishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finish <code>",
		Short: "Complete a pending login with an authorization code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := auth.New(config.Load())
			if !a.IsConfigured() {
				return auth.ErrNotConfigured
			}

			if !a.ExchangeCode(cmd.Context(), args[0]) {
				return fmt.Errorf("authentication failed: the code might be invalid or expired")
			}

			fmt.Println("✅ Authentication successful. Token saved.")
			return nil
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current authentication state",
		RunE: func(cmd *cobra.Command, args []string) error {
			creds := config.Load()
			a := auth.New(creds)

			switch {
			case !a.IsConfigured():
				fmt.Println("Not configured: missing client ID or client secret.")
				fmt.Println("Run 'ticktick-mcp auth login --client-id ... --client-secret ...'")
			case a.IsAuthenticated():
				fmt.Printf("✅ Authenticated (%s account).\n", creds.AccountType)
			default:
				fmt.Println("❌ Not authenticated. Run 'ticktick-mcp auth login'.")
			}
			return nil
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Delete the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := auth.New(config.Load())
			if err := a.Logout(); err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}
			fmt.Println("Logged out. Token removed.")
			return nil
		},
	}
}
