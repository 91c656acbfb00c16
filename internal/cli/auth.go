package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/statsmith/statsmith/pkg/github"
	"github.com/statsmith/statsmith/pkg/session"
	"github.com/statsmith/statsmith/pkg/stats"
)

// loginTimeout bounds the whole device flow: code request, user
// authorization in the browser, and token polling combined.
const loginTimeout = 5 * time.Minute

// loginCommand creates the login command.
func (c *CLI) loginCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate with GitHub using device flow",
		Long: `Start the GitHub device authorization flow.

You'll be given a code to enter at https://github.com/login/device.
Once authorized, your session is saved locally and used by future runs.

ACCESS_TOKEN always wins over a stored session: the session is only
consulted when the environment variable is unset.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := sessionStore()
			if err != nil {
				return err
			}
			if existing, err := store.Load(ctx); err == nil {
				printInfo("Already logged in as @%s", existing.Login)
				printDetail("Run 'statsmith logout' first to re-authenticate")
				return nil
			}
			return c.runLogin(ctx)
		},
	}
}

// logoutCommand creates the logout command.
func (c *CLI) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored GitHub session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := sessionStore()
			if err != nil {
				return err
			}
			if _, err := store.Load(ctx); errors.Is(err, session.ErrNotFound) {
				printInfo("No active session")
				return nil
			}
			if err := store.Delete(ctx); err != nil {
				return fmt.Errorf("delete session: %w", err)
			}
			printSuccess("Logged out")
			return nil
		},
	}
}

// whoamiCommand creates the whoami command.
func (c *CLI) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently authenticated GitHub account",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := loadSession(cmd.Context())
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			spinner := newSpinner(ctx, "Verifying session...")
			spinner.Start()

			account, err := verifyToken(ctx, sess.Token)
			if err != nil {
				spinner.StopWithError("Session invalid")
				printDetail("Run 'statsmith login' to authenticate again")
				return fmt.Errorf("verify session: %w", err)
			}
			spinner.Stop()

			printSuccess("GitHub Session")
			printKeyValue("Username", "@"+account.Login)
			if account.Name != "" {
				printKeyValue("Name", account.Name)
			}
			printKeyValue("Logged in", sess.CreatedAt.Format("Jan 2, 2006"))
			printKeyValue("Status", StyleSuccess.Render("valid"))

			return nil
		},
	}
}

// =============================================================================
// Session Management
// =============================================================================

func sessionStore() (*session.FileStore, error) {
	return session.NewFileStore("")
}

// loadSession reads the stored session, turning the not-found case into
// a hint the user can act on.
func loadSession(ctx context.Context) (*session.Session, error) {
	store, err := sessionStore()
	if err != nil {
		return nil, err
	}
	sess, err := store.Load(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, fmt.Errorf("not logged in (run 'statsmith login' first)")
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

// verifyToken confirms a token works by querying the account behind it.
func verifyToken(ctx context.Context, token string) (stats.Account, error) {
	client, err := github.NewClient(github.Options{Token: token})
	if err != nil {
		return stats.Account{}, err
	}
	return client.Viewer(ctx)
}

// =============================================================================
// Device Flow Login
// =============================================================================

func (c *CLI) runLogin(ctx context.Context) error {
	clientID := os.Getenv("GITHUB_CLIENT_ID")
	if clientID == "" {
		clientID = github.DefaultClientID
	}

	oauthClient := github.NewOAuthClient(clientID)

	loginCtx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	deviceResp, err := oauthClient.RequestDeviceCode(loginCtx)
	if err != nil {
		return fmt.Errorf("request device code: %w", err)
	}

	printNewline()
	fmt.Println(StyleTitle.Render("GitHub Device Authorization"))
	printNewline()
	printKeyValue("Code", StyleNumber.Render(deviceResp.UserCode))
	printKeyValue("URL", StyleLink.Render(deviceResp.VerificationURI))
	printNewline()

	if err := openBrowser(deviceResp.VerificationURI); err != nil {
		printDetail("Copy the URL above and paste it in your browser")
	} else {
		printDetail("Opening browser...")
	}
	printInline("Waiting for authorization...")

	token, err := oauthClient.PollForToken(loginCtx, deviceResp.DeviceCode, deviceResp.Interval)
	if err != nil {
		fmt.Println()
		return fmt.Errorf("authorization failed: %w", err)
	}

	account, err := verifyToken(loginCtx, token.AccessToken)
	if err != nil {
		fmt.Println()
		return fmt.Errorf("verify token: %w", err)
	}

	store, err := sessionStore()
	if err != nil {
		fmt.Println()
		return err
	}
	if err := store.Save(loginCtx, session.New(account.Login, token.AccessToken)); err != nil {
		fmt.Println()
		return fmt.Errorf("save session: %w", err)
	}

	fmt.Println()
	printSuccess("Logged in as @%s", account.Login)
	printDetail("Session stored in %s", store.Path())

	return nil
}

func openBrowser(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return fmt.Errorf("URL scheme must be http or https, got %q", parsed.Scheme)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "linux":
		cmd = exec.Command("xdg-open", rawURL)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", rawURL)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
	return cmd.Start()
}
