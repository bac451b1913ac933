package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/Revicx/russian-anki/internal/config"
	"github.com/Revicx/russian-anki/internal/deck"
	"github.com/Revicx/russian-anki/internal/errors"
	"github.com/Revicx/russian-anki/internal/mcp"
	"github.com/Revicx/russian-anki/internal/pipeline"
	"github.com/Revicx/russian-anki/internal/store"
	"github.com/Revicx/russian-anki/internal/translate"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(cfg *config.Config, log zerolog.Logger) *cli.App {
	app := &cli.App{
		Name:    "ruvoc",
		Usage:   "Russian vocabulary extraction and flashcard pipeline",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "storage", Usage: "Storage backend: sqlite|csv"},
			&cli.StringFlag{Name: "storage-path", Usage: "Path to the vocabulary store file"},
		},
		Commands: []*cli.Command{
			processCmd(cfg, log),
			wordsCmd(cfg),
			statsCmd(cfg),
			translateCmd(cfg, log),
			deckCmd(cfg),
			exportCmd(cfg),
			importCmd(cfg),
			mcpCmd(cfg, log),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// openStore opens the configured store, honoring the global overrides.
func openStore(c *cli.Context, cfg *config.Config) (store.Store, error) {
	backend := cfg.StorageBackend
	path := cfg.StoragePath
	if v := c.String("storage"); v != "" {
		backend = v
		// A backend switch without an explicit path must not reuse the other
		// backend's file.
		if c.String("storage-path") == "" {
			path = ""
		}
	}
	if v := c.String("storage-path"); v != "" {
		path = v
	}
	if path == "" {
		return nil, errors.NewInvalidRequest("--storage-path is required when overriding the backend")
	}
	return store.Open(backend, path)
}

// processCmd creates the process command.
func processCmd(cfg *config.Config, log zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:      "process",
		Usage:     "Extract vocabulary from files or directories and merge new words into the store",
		ArgsUsage: "<path> [path...]",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "timeout", Usage: "Per-file timeout in seconds (overrides config)"},
			&cli.BoolFlag{Name: "translate", Usage: "Translate new words after the batch"},
			&cli.BoolFlag{Name: "deck", Usage: "Write the flashcard deck after the batch"},
			&cli.StringFlag{Name: "deck-path", Usage: "Deck output path (overrides config)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("at least one input path is required"))
			}

			runCfg := *cfg
			if t := c.Int("timeout"); t > 0 {
				runCfg.FileTimeoutSecs = t
			}

			st, err := openStore(c, cfg)
			if err != nil {
				return outputError(err)
			}
			defer st.Close()

			p := pipeline.FromConfig(&runCfg, st, log)
			result, err := p.Run(c.Context, c.Args().Slice())
			if err != nil {
				return outputError(err)
			}

			if c.Bool("translate") && len(result.NewWords) > 0 {
				if err := translateWords(c, &runCfg, st, result.NewWords, log); err != nil {
					return outputError(err)
				}
			}

			if c.Bool("deck") {
				path := c.String("deck-path")
				if path == "" {
					path = runCfg.DeckPath
				}
				if err := writeDeck(st, path, true); err != nil {
					return outputError(err)
				}
			}

			return outputJSON(result)
		},
	}
}

// wordsCmd creates the words command.
func wordsCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "words",
		Usage: "List stored vocabulary words",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "untranslated", Usage: "Only words without a translation"},
			&cli.IntFlag{Name: "limit", Usage: "Maximum number of words to print (0 = all)"},
		},
		Action: func(c *cli.Context) error {
			st, err := openStore(c, cfg)
			if err != nil {
				return outputError(err)
			}
			defer st.Close()

			records, err := st.All()
			if err != nil {
				return outputError(err)
			}

			if c.Bool("untranslated") {
				filtered := records[:0]
				for _, rec := range records {
					if rec.Translation == "" {
						filtered = append(filtered, rec)
					}
				}
				records = filtered
			}
			if limit := c.Int("limit"); limit > 0 && limit < len(records) {
				records = records[:limit]
			}

			return outputJSON(records)
		},
	}
}

// statsCmd creates the stats command.
func statsCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show vocabulary store statistics",
		Action: func(c *cli.Context) error {
			st, err := openStore(c, cfg)
			if err != nil {
				return outputError(err)
			}
			defer st.Close()

			records, err := st.All()
			if err != nil {
				return outputError(err)
			}

			translated := 0
			for _, rec := range records {
				if rec.Translation != "" {
					translated++
				}
			}

			return outputJSON(map[string]any{
				"words":        len(records),
				"translated":   translated,
				"untranslated": len(records) - translated,
				"backend":      cfg.StorageBackend,
				"storage_path": cfg.StoragePath,
			})
		},
	}
}

// translateCmd creates the translate command.
func translateCmd(cfg *config.Config, log zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "translate",
		Usage: "Translate every untranslated stored word",
		Action: func(c *cli.Context) error {
			st, err := openStore(c, cfg)
			if err != nil {
				return outputError(err)
			}
			defer st.Close()

			records, err := st.All()
			if err != nil {
				return outputError(err)
			}
			var words []string
			for _, rec := range records {
				if rec.Translation == "" {
					words = append(words, rec.Word)
				}
			}
			if len(words) == 0 {
				return outputJSON(map[string]any{"translated": 0})
			}

			if err := translateWords(c, cfg, st, words, log); err != nil {
				return outputError(err)
			}
			return nil
		},
	}
}

// translateWords runs the translation client over words and stores the
// results. Outputs a summary.
func translateWords(c *cli.Context, cfg *config.Config, st store.Store, words []string, log zerolog.Logger) error {
	client := translate.NewClient(cfg.OpenRouterAPIKey, cfg.TranslateModel, cfg.TranslateWorkers, log)

	start := time.Now()
	results, err := client.TranslateAll(c.Context, words)
	if err != nil {
		return err
	}

	stored := 0
	for word, res := range results {
		if res.Translation == "" {
			continue
		}
		if err := st.SetTranslation(word, res.Translation, res.ExampleRU); err != nil {
			return err
		}
		stored++
	}

	return outputJSON(map[string]any{
		"requested":  len(words),
		"translated": stored,
		"failed":     len(words) - stored,
		"elapsed":    time.Since(start).Round(time.Millisecond).String(),
	})
}

// deckCmd creates the deck command.
func deckCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "deck",
		Usage: "Export the vocabulary as an Anki text-import deck",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Deck output path (overrides config)"},
			&cli.BoolFlag{Name: "all", Usage: "Include untranslated words"},
		},
		Action: func(c *cli.Context) error {
			st, err := openStore(c, cfg)
			if err != nil {
				return outputError(err)
			}
			defer st.Close()

			path := c.String("output")
			if path == "" {
				path = cfg.DeckPath
			}

			if err := writeDeck(st, path, !c.Bool("all")); err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"deck": path})
		},
	}
}

func writeDeck(st store.Store, path string, translatedOnly bool) error {
	records, err := st.All()
	if err != nil {
		return err
	}
	_, err = deck.Write(records, path, deck.Options{TranslatedOnly: translatedOnly})
	return err
}

// exportCmd creates the export command.
func exportCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export the vocabulary store to a CSV file",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("export requires exactly one path argument"))
			}

			st, err := openStore(c, cfg)
			if err != nil {
				return outputError(err)
			}
			defer st.Close()

			n, err := store.ExportCSV(st, c.Args().First())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"exported": n, "path": c.Args().First()})
		},
	}
}

// importCmd creates the import command.
func importCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Merge words from a CSV file into the vocabulary store",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return outputError(errors.NewInvalidRequest("import requires exactly one path argument"))
			}

			st, err := openStore(c, cfg)
			if err != nil {
				return outputError(err)
			}
			defer st.Close()

			imported, skipped, err := store.ImportCSV(st, c.Args().First())
			if err != nil {
				return outputError(err)
			}
			return outputJSON(map[string]any{"imported": imported, "skipped": skipped})
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(cfg *config.Config, log zerolog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run as an MCP server over stdio",
		Action: func(c *cli.Context) error {
			st, err := openStore(c, cfg)
			if err != nil {
				return outputError(err)
			}
			defer st.Close()

			return mcp.Run(st, cfg, Version, log)
		},
	}
}

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if e, ok := err.(*errors.Error); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", e.Code, e.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}
