// Command estoque is the terminal client of the inventory API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"dtiestoque.org/internal/client"
)

const defaultAPI = "http://localhost:3000"

var (
	// Global flags
	apiURL      string
	sessionPath string
	timeout     time.Duration
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "estoque",
	Short: "DTI equipment inventory client",
	Long: `estoque manages the DTI equipment inventory through its HTTP API.

Log in once with "estoque login"; the session is kept for eight hours.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", defaultAPI, "API base URL")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "", "Session file (default: user config dir)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	registerSessionCommands()
	registerEquipmentCommands()
	registerDashboardCommand()
	registerBrowseCommand()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, client.ErrCanceled) {
			fmt.Fprintln(os.Stderr, "operação cancelada")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "estoque: %v\n", err)
		os.Exit(1)
	}
}

func resolveSessionPath() (string, error) {
	if sessionPath != "" {
		return sessionPath, nil
	}
	return client.DefaultSessionPath()
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

// newAnonymousClient talks to --api without a token.
func newAnonymousClient() *client.Client {
	return client.New(apiURL, &http.Client{Timeout: timeout})
}

// newSessionClient restores the saved session. An explicit --api wins over
// the URL stored with the session.
func newSessionClient(cmd *cobra.Command) (*client.Client, error) {
	path, err := resolveSessionPath()
	if err != nil {
		return nil, err
	}
	sess, err := client.LoadSession(path)
	if err != nil {
		if errors.Is(err, client.ErrNoSession) {
			return nil, errors.New(`not logged in; run "estoque login"`)
		}
		return nil, err
	}
	if sess.Expired(time.Now()) {
		return nil, errors.New(`session expired; run "estoque login"`)
	}
	base := apiURL
	if !cmd.Flags().Changed("api") && sess.API != "" {
		base = sess.API
	}
	c := client.New(base, &http.Client{Timeout: timeout})
	c.SetToken(sess.Token)
	return c, nil
}

func newController(c *client.Client, in io.Reader, out io.Writer, assumeYes bool) *client.Controller {
	return client.NewController(c,
		client.WithNotifier(writerNotifier(os.Stderr)),
		client.WithConfirm(promptConfirm(in, out, assumeYes)),
	)
}

// loadController builds a controller over the saved session and fills its cache.
func loadController(cmd *cobra.Command, assumeYes bool) (*client.Controller, error) {
	c, err := newSessionClient(cmd)
	if err != nil {
		return nil, err
	}
	ctrl := newController(c, cmd.InOrStdin(), cmd.OutOrStdout(), assumeYes)
	ctx, cancel := commandContext(cmd)
	defer cancel()
	if err := ctrl.Load(ctx); err != nil {
		ctrl.Close()
		return nil, err
	}
	return ctrl, nil
}

func writerNotifier(w io.Writer) client.NotifierFunc {
	return func(n client.Notification) {
		switch n.Level {
		case client.LevelError:
			fmt.Fprintf(w, "erro: %s\n", n.Message)
		default:
			fmt.Fprintln(w, n.Message)
		}
	}
}

// promptConfirm asks on out and reads one answer line from in.
func promptConfirm(in io.Reader, out io.Writer, assumeYes bool) client.ConfirmFunc {
	return func(prompt string) bool {
		if assumeYes {
			return true
		}
		fmt.Fprintf(out, "%s [s/N] ", prompt)
		answer, err := readLine(in)
		if err != nil {
			return false
		}
		switch strings.ToLower(answer) {
		case "s", "sim", "y", "yes":
			return true
		}
		return false
	}
}

// readLine reads up to a newline one byte at a time so that in can be
// shared by later prompts without buffering ahead.
func readLine(in io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				return strings.TrimSpace(sb.String()), nil
			}
			sb.WriteByte(buf[0])
		}
		if err != nil {
			if errors.Is(err, io.EOF) && sb.Len() > 0 {
				return strings.TrimSpace(sb.String()), nil
			}
			return "", err
		}
	}
}
