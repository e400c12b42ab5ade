package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jask/showcase/internal/content"
	"github.com/jask/showcase/internal/service"
)

func (c *cli) contentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Read and edit the stored content document",
		Long: `Read and edit the content document.

get, set, import, export and watch work against the local store, or against a
remote API when --api is given. history, restore, seed and reset always use
the local store.

Fields: ` + strings.Join(content.Fields(), ", "),
	}
	cmd.AddCommand(
		c.contentGetCmd(),
		c.contentSetCmd(),
		c.contentImportCmd(),
		c.contentExportCmd(),
		c.contentWatchCmd(),
		c.contentHistoryCmd(),
		c.contentRestoreCmd(),
		c.contentSeedCmd(),
		c.contentResetCmd(),
	)
	return cmd
}

// withSource runs fn against the configured source.
func (c *cli) withSource(fn func(content.Source) error) error {
	src, closeSrc, err := c.source()
	if err != nil {
		return err
	}
	defer closeSrc()
	return fn(src)
}

func (c *cli) contentGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [field]",
		Short: "Print the document, or one field of it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSource(func(src content.Source) error {
				doc, err := src.Load(cmd.Context())
				if err != nil {
					return err
				}
				if len(args) == 0 {
					out, err := content.Encode(doc, content.FormatJSON)
					if err != nil {
						return err
					}
					cmd.Print(string(out))
					return nil
				}
				v, err := doc.Field(args[0])
				if err != nil {
					return err
				}
				cmd.Println(v)
				return nil
			})
		},
	}
}

func (c *cli) contentSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <field> <value...>",
		Short: "Change one field and save the document",
		Long: `Change one field and save the whole document.

For detail.cards pass every card URL as its own argument, in display order.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSource(func(src content.Source) error {
				doc, err := src.Load(cmd.Context())
				if err != nil {
					return err
				}
				if err := doc.SetField(args[0], strings.Join(args[1:], " ")); err != nil {
					return err
				}
				if err := doc.Validate(); err != nil {
					return err
				}
				if err := src.Save(cmd.Context(), doc); err != nil {
					return err
				}
				cmd.Printf("%s updated\n", args[0])
				return nil
			})
		},
	}
}

func (c *cli) contentImportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the document with a JSON, JSONC or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSource(func(src content.Source) error {
				ingest := &service.IngestService{Content: src}
				var (
					res service.IngestResult
					err error
				)
				switch {
				case args[0] == "-":
					f := content.FormatJSON
					if format != "" {
						if f, err = content.ParseFormat(format); err != nil {
							return err
						}
					}
					res, err = ingest.Import(cmd.Context(), cmd.InOrStdin(), f)
				case format != "":
					f, perr := content.ParseFormat(format)
					if perr != nil {
						return perr
					}
					file, oerr := os.Open(args[0])
					if oerr != nil {
						return oerr
					}
					defer file.Close()
					res, err = ingest.Import(cmd.Context(), file, f)
				default:
					res, err = ingest.ImportFile(cmd.Context(), args[0])
				}
				if err != nil {
					return err
				}
				printImport(cmd, res)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "input format: json, jsonc or yaml (default from extension)")
	return cmd
}

func printImport(cmd *cobra.Command, res service.IngestResult) {
	if res.Skipped {
		cmd.Printf("unchanged (%d cards)\n", res.Cards)
		return
	}
	cmd.Printf("imported %d cards, changed: %s\n", res.Cards, strings.Join(res.Changed, ", "))
}

func (c *cli) contentExportCmd() *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the document as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := content.FormatJSON
			switch {
			case format != "":
				var err error
				if f, err = content.ParseFormat(format); err != nil {
					return err
				}
			case output != "":
				f = content.FormatFor(output)
			}
			return c.withSource(func(src content.Source) error {
				doc, err := src.Load(cmd.Context())
				if err != nil {
					return err
				}
				out, err := content.Encode(doc, f)
				if err != nil {
					return err
				}
				if output == "" {
					cmd.Print(string(out))
					return nil
				}
				return os.WriteFile(output, out, 0o644)
			})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json or yaml (default from -o extension, else json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}

func (c *cli) contentWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-import a file every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.withSource(func(src content.Source) error {
				ingest := &service.IngestService{Content: src}
				if res, err := ingest.ImportFile(ctx, args[0]); err != nil {
					cmd.PrintErrf("initial import: %v\n", err)
				} else {
					printImport(cmd, res)
				}
				return ingest.Watch(ctx, args[0], 0, c.log, func(res service.IngestResult, err error) {
					if err != nil {
						cmd.PrintErrf("import: %v\n", err)
						return
					}
					printImport(cmd, res)
				})
			})
		},
	}
}

func (c *cli) contentHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored revisions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, db, err := c.openLocal()
			if err != nil {
				return err
			}
			defer db.Close()
			revs, err := svc.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(revs) == 0 {
				cmd.Println("no revisions stored")
				return nil
			}
			for _, r := range revs {
				cmd.Printf("%s  %s  %d bytes\n", r.Revision, r.CreatedAt.Local().Format("2006-01-02 15:04:05"), len(r.Value))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most this many revisions")
	return cmd
}

func (c *cli) contentRestoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <revision>",
		Short: "Make an earlier revision current again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, db, err := c.openLocal()
			if err != nil {
				return err
			}
			defer db.Close()
			e, err := svc.Restore(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			cmd.Printf("restored %s as %s\n", args[0], e.Revision)
			return nil
		},
	}
}

func (c *cli) contentSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Store the built-in document when nothing is stored yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, db, err := c.openLocal()
			if err != nil {
				return err
			}
			defer db.Close()
			seeded, err := svc.Seed(cmd.Context())
			if err != nil {
				return err
			}
			if seeded {
				cmd.Println("built-in document stored")
			} else {
				cmd.Println("a document is already stored")
			}
			return nil
		},
	}
}

func (c *cli) contentResetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the stored document and its history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("reset deletes every stored revision; pass --yes to confirm")
			}
			_, db, err := c.openLocal()
			if err != nil {
				return err
			}
			defer db.Close()
			m := &service.MaintenanceService{DB: db, Log: c.log}
			res, err := m.Reset(cmd.Context())
			if err != nil {
				return err
			}
			cmd.Printf("removed %d revisions, readers now see the built-in document\n", res.Revisions)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
