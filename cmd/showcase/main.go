// Command showcase runs the content showcase: the terminal front-end, the
// content API server and the maintenance commands around the stored document.
package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/showcase/internal/api"
	"github.com/jask/showcase/internal/config"
	"github.com/jask/showcase/internal/content"
	"github.com/jask/showcase/internal/database"
	"github.com/jask/showcase/internal/database/repository"
	"github.com/jask/showcase/internal/logging"
	"github.com/jask/showcase/internal/secrets"
	"github.com/jask/showcase/internal/service"
)

// cli carries the state shared by every command.
type cli struct {
	configPath string
	verbose    bool
	apiURL     string

	cfg config.Config
	log *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "showcase",
		Short: "Content showcase with a swipeable card carousel",
		Long: `showcase serves and edits a single content document: a home screen,
a detail screen with a swipeable card carousel, and a QR block.

Run without arguments to start the terminal front-end.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			// The full-screen front-end owns the terminal, so it logs to a file.
			if cmd.Annotations["logs"] == "file" {
				c.log, err = logging.NewFile(cfg.Log.File, cfg.Log.Level, c.verbose)
			} else {
				c.log, err = logging.New(cfg.Log.Level, c.verbose)
			}
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.log != nil {
				_ = c.log.Sync()
			}
		},
		Annotations: map[string]string{"logs": "file"},
		RunE:        c.runTUI,
	}
	root.SetOut(os.Stdout)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $SHOWCASE_CONFIG or ~/.config/showcase/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&c.apiURL, "api", "", "use a remote content API instead of the local store")

	root.AddCommand(
		c.tuiCmd(),
		c.serveCmd(),
		c.contentCmd(),
		c.replayCmd(),
		c.tokenCmd(),
		c.configCmd(),
	)
	return root
}

// openLocal opens the sqlite store, applying migrations first.
func (c *cli) openLocal() (*service.ContentService, *sql.DB, error) {
	db, err := database.OpenMigrated(c.cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	kv := repository.NewKVRepo(db).KeepHistory(c.cfg.Database.History)
	return service.NewContentService(kv, content.Default(), c.cfg.Server.CacheTTL, c.log), db, nil
}

// source returns the remote API when --api or ui.api_url is set, the local
// store otherwise. The returned close func is never nil.
func (c *cli) source() (content.Source, func(), error) {
	if u := c.remoteURL(); u != "" {
		return api.NewClient(u, c.token(u), content.Default()), func() {}, nil
	}
	svc, db, err := c.openLocal()
	if err != nil {
		return nil, nil, err
	}
	return svc, func() { _ = db.Close() }, nil
}

func (c *cli) remoteURL() string {
	if c.apiURL != "" {
		return c.apiURL
	}
	return c.cfg.UI.APIURL
}

// token prefers the configured admin token, then the one saved for the host.
func (c *cli) token(apiURL string) string {
	if c.cfg.Server.AdminToken != "" {
		return c.cfg.Server.AdminToken
	}
	tok, err := secrets.FetchToken(apiURL)
	if err != nil && !errors.Is(err, secrets.ErrNoToken) {
		c.log.Warn("read saved token", zap.Error(err))
	}
	return tok
}
