package main

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jask/showcase/internal/api"
	"github.com/jask/showcase/internal/database"
	"github.com/jask/showcase/internal/secrets"
	"github.com/jask/showcase/internal/service"
	"github.com/jask/showcase/internal/tui"
)

func (c *cli) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "tui",
		Short:       "Start the terminal front-end",
		Annotations: map[string]string{"logs": "file"},
		Args:        cobra.NoArgs,
		RunE:        c.runTUI,
	}
}

func (c *cli) runTUI(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, closeSrc, err := c.source()
	if err != nil {
		return err
	}
	defer closeSrc()

	app := tui.New(ctx, tui.Options{
		Source:     src,
		Geometry:   c.cfg.Carousel.Geometry(),
		Transition: c.cfg.Carousel.Transition,
		UI:         c.cfg.UI,
		Log:        c.log,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

func (c *cli) serveCmd() *cobra.Command {
	var (
		addr  string
		seed  bool
		watch string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the content API",
		Long: `Serves GET and POST /api/content backed by the local store.

With --watch, a JSON, JSONC or YAML file is re-imported whenever it changes,
so the document can be edited in a text editor while the server runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, db, err := c.openLocal()
			if err != nil {
				return err
			}
			defer db.Close()
			if v, dirty, err := database.MigrationVersion(c.cfg.Database.Path); err == nil {
				c.log.Info("store ready", zap.String("path", c.cfg.Database.Path), zap.Uint("schema", v), zap.Bool("dirty", dirty))
			}

			if seed {
				seeded, err := svc.Seed(ctx)
				if err != nil {
					return err
				}
				c.log.Info("seed", zap.Bool("stored", seeded))
			}
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			handler := api.NewHandler(svc, c.log, api.Options{
				AdminToken: c.cfg.Server.AdminToken,
				WriteRate:  c.cfg.Server.WriteRate,
				WriteBurst: c.cfg.Server.WriteBurst,
			})
			srv := api.NewServer(addr, handler, c.log)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return srv.Serve(gctx) })
			if watch != "" {
				ingest := &service.IngestService{Content: svc}
				g.Go(func() error { return ingest.Watch(gctx, watch, 0, c.log, nil) })
			}
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	cmd.Flags().BoolVar(&seed, "seed", false, "store the built-in document when nothing is stored yet")
	cmd.Flags().StringVar(&watch, "watch", "", "re-import this file whenever it changes")
	return cmd
}

func (c *cli) tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage saved admin tokens for remote APIs",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <api-url> <token>",
			Short: "Save the admin token used when posting to api-url",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := secrets.StoreToken(args[0], args[1]); err != nil {
					return err
				}
				cmd.Printf("token saved for %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear <api-url>",
			Short: "Forget the saved token for api-url",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := secrets.DeleteToken(args[0]); err != nil {
					return err
				}
				cmd.Printf("token cleared for %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}
