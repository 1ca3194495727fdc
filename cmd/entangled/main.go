// Command entangled is the thin CLI front end over the core engine:
// every flag here resolves to a config.EngineConfig and a []*engine.Document,
// then hands off to internal/engine's Tangle/Stitch/Sync/Status/Locate.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/entangled-go/internal/config"
	"github.com/standardbeagle/entangled-go/internal/discover"
	"github.com/standardbeagle/entangled-go/internal/display"
	"github.com/standardbeagle/entangled-go/internal/engine"
	entangledErrors "github.com/standardbeagle/entangled-go/internal/errors"
	"github.com/standardbeagle/entangled-go/internal/txn"
	"github.com/standardbeagle/entangled-go/internal/version"
	"github.com/standardbeagle/entangled-go/internal/watchdriver"
)

func main() {
	app := &cli.App{
		Name:                   "entangled",
		Usage:                  "Literate-programming tangle/stitch engine",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory",
				Value:   ".",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Include source files matching glob patterns (default **/*.md)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude source files matching glob patterns",
			},
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Skip conflict checks and overwrite unconditionally",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Show planned changes without writing them",
			},
		},
		Commands: []*cli.Command{
			{Name: "tangle", Usage: "Expand named code blocks into output files", Action: tangleCommand},
			{Name: "stitch", Usage: "Propagate tangled output edits back into source documents", Action: stitchCommand},
			{Name: "sync", Usage: "Stitch, then tangle", Action: syncCommand},
			{Name: "status", Usage: "Report what tangle would change without writing", Action: statusCommand},
			{
				Name:      "locate",
				Usage:     "Resolve a tangled output line back to its source document",
				ArgsUsage: "<output-path> <line>",
				Action:    locateCommand,
			},
			{
				Name:  "reset",
				Usage: "Clear the file database",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "delete-files", Usage: "Also delete every tracked output file"},
				},
				Action: resetCommand,
			},
			{Name: "init", Usage: "Write a default .entangled.kdl and .entangled/ directory", Action: initCommand},
			{
				Name:   "watch",
				Usage:  "Watch source documents and re-run sync on change",
				Action: watchCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, display.FormatError(err))
		os.Exit(entangledErrors.ExitCode(err))
	}
}

// loadWorkspace discovers every markdown-family source document under root,
// parses it, and loads the engine config and file database needed to run an
// operation.
func loadWorkspace(c *cli.Context) (root string, docs []*engine.Document, cfg config.EngineConfig, db *txn.DB, err error) {
	root = c.String("root")
	cfg, err = config.LoadKDL(root)
	if err != nil {
		return "", nil, config.EngineConfig{}, nil, err
	}

	includes := c.StringSlice("include")
	if len(includes) == 0 {
		includes = []string{"**/*.md"}
	}
	excludes := c.StringSlice("exclude")

	files, err := discover.Discover(context.Background(), root, includes, excludes)
	if err != nil {
		return "", nil, config.EngineConfig{}, nil, err
	}

	for _, f := range files {
		doc, err := engine.ParseDocument(f.Path, f.Content, cfg)
		if err != nil {
			return "", nil, config.EngineConfig{}, nil, err
		}
		docs = append(docs, doc)
	}

	dbPath := cfg.FileDBPath
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(root, dbPath)
	}
	db, err = txn.LoadDB(dbPath)
	if err != nil {
		return "", nil, config.EngineConfig{}, nil, err
	}
	return root, docs, cfg, db, nil
}

func commit(c *cli.Context, t *txn.Transaction, db *txn.DB, dbPath string) error {
	if t.IsEmpty() {
		fmt.Println("nothing to do")
		return nil
	}
	if c.Bool("dry-run") {
		fmt.Print(display.FormatTransaction(t, display.Options{ShowDiff: true}))
		return nil
	}

	var errs []error
	if c.Bool("force") {
		errs = t.ExecuteForce(db)
	} else {
		errs = t.Execute(db)
	}
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, display.FormatError(e))
	}
	if len(errs) > 0 {
		return cli.Exit("", entangledErrors.ExitCode(errs[0]))
	}
	if err := db.Save(dbPath); err != nil {
		return err
	}
	fmt.Print(display.FormatTransaction(t, display.Options{}))
	return nil
}

func resolvedDBPath(root string, cfg config.EngineConfig) string {
	if filepath.IsAbs(cfg.FileDBPath) {
		return cfg.FileDBPath
	}
	return filepath.Join(root, cfg.FileDBPath)
}

func tangleCommand(c *cli.Context) error {
	root, docs, cfg, db, err := loadWorkspace(c)
	if err != nil {
		return err
	}
	t, err := engine.Tangle(docs, cfg)
	if err != nil {
		return err
	}
	return commit(c, t, db, resolvedDBPath(root, cfg))
}

func stitchCommand(c *cli.Context) error {
	root, docs, cfg, db, err := loadWorkspace(c)
	if err != nil {
		return err
	}
	t, err := engine.Stitch(docs, cfg, os.ReadFile)
	if err != nil {
		return err
	}
	return commit(c, t, db, resolvedDBPath(root, cfg))
}

func syncCommand(c *cli.Context) error {
	root, docs, cfg, db, err := loadWorkspace(c)
	if err != nil {
		return err
	}
	t, err := engine.Sync(docs, cfg, os.ReadFile)
	if err != nil {
		return err
	}
	return commit(c, t, db, resolvedDBPath(root, cfg))
}

func statusCommand(c *cli.Context) error {
	_, docs, cfg, db, err := loadWorkspace(c)
	if err != nil {
		return err
	}
	entries, err := engine.Status(docs, cfg, db, os.ReadFile)
	if err != nil {
		return err
	}
	fmt.Print(display.FormatStatus(entries, display.Options{}))
	return nil
}

func locateCommand(c *cli.Context) error {
	if c.NArg() < 2 {
		return cli.Exit("usage: entangled locate <output-path> <line>", entangledErrors.ExitCode(entangledErrors.NewInternalError("missing arguments")))
	}
	target := c.Args().Get(0)
	var line int
	if _, err := fmt.Sscanf(c.Args().Get(1), "%d", &line); err != nil {
		return fmt.Errorf("invalid line number %q: %w", c.Args().Get(1), err)
	}

	_, docs, _, _, err := loadWorkspace(c)
	if err != nil {
		return err
	}

	result, ok, err := engine.Locate(docs, target, line, os.ReadFile)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("no source location found")
		return nil
	}
	fmt.Printf("%s:%d\n", result.DocPath, result.Line)
	return nil
}

// resetCommand clears the file database, optionally deleting every tracked
// output file first, grounded on original_source/entangled-cli/src/commands/reset.rs.
func resetCommand(c *cli.Context) error {
	root := c.String("root")
	cfg, err := config.LoadKDL(root)
	if err != nil {
		return err
	}
	dbPath := resolvedDBPath(root, cfg)

	db, err := txn.LoadDB(dbPath)
	if err != nil {
		return err
	}

	if c.Bool("delete-files") {
		if len(db.Files) == 0 {
			fmt.Println("no tracked files to delete")
		} else {
			count := 0
			for path := range db.Files {
				if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
					return err
				}
				count++
			}
			fmt.Printf("deleted %d tracked files\n", count)
		}
	}

	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	_ = os.Remove(filepath.Dir(dbPath)) // best-effort, ignored if not empty

	fmt.Println("reset complete: file database cleared")
	return nil
}

const defaultKDLConfig = `// entangled-go configuration
style "native"
namespace_default "file"
strip_quarto_options true

annotation {
    mode "standard"
}

filedb ".entangled/filedb.json"
`

// initCommand writes a default .entangled.kdl sidecar and creates the
// .entangled/ tracking directory, grounded on
// original_source/entangled-cli/src/commands/init.rs.
func initCommand(c *cli.Context) error {
	root := c.String("root")
	configPath := filepath.Join(root, ".entangled.kdl")

	if _, err := os.Stat(configPath); err == nil {
		return entangledErrors.NewConfigError(configPath+" already exists", nil)
	}

	if err := os.WriteFile(configPath, []byte(defaultKDLConfig), 0o644); err != nil {
		return err
	}
	fmt.Println("created", configPath)

	dbDir := filepath.Join(root, ".entangled")
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return err
	}
	fmt.Println("created", dbDir+"/")

	return nil
}

func watchCommand(c *cli.Context) error {
	root := c.String("root")
	driver, err := watchdriver.New([]string{root}, 150*time.Millisecond)
	if err != nil {
		return err
	}
	defer driver.Close()

	fmt.Println("watching", root, "for changes (Ctrl-C to stop)")
	return driver.Run(context.Background(), func() error {
		return syncCommand(c)
	})
}
