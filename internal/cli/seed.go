package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mrlokans/shloka/internal/config"
	"github.com/mrlokans/shloka/internal/database"
	"github.com/mrlokans/shloka/internal/database/catalog"
	"github.com/mrlokans/shloka/internal/scripture"
)

// SeedCommand loads verses from a JSON file into the database
type SeedCommand struct {
	FilePath     string
	DatabasePath string
	DryRun       bool
	Verbose      bool

	out io.Writer
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{out: os.Stdout}
}

func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to a JSON array of verses (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Validate the file without writing to the database")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print every rejected verse")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Load verses into the catalog. Existing references are skipped.\n\n")
		fmt.Fprintf(os.Stderr, "Each verse needs a translation for every enabled language:\n")
		fmt.Fprintf(os.Stderr, "  [{\"chapter\": 2, \"verse\": 47, \"sanskrit\": \"...\", \"translations\": {\"en\": \"...\"}}]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	return nil
}

func (cmd *SeedCommand) Run() error {
	cmds, err := scripture.ReadVerseFile(cmd.FilePath)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.out, "Read %d verses from %s\n", len(cmds), cmd.FilePath)

	if cmd.DryRun {
		invalid := 0
		for _, c := range cmds {
			if err := c.Validate(); err != nil {
				invalid++
				if cmd.Verbose {
					fmt.Fprintf(cmd.out, "  %d.%d: %v\n", c.Chapter, c.Verse, err)
				}
			}
		}
		fmt.Fprintf(cmd.out, "DRY RUN: %d valid, %d invalid\n", len(cmds)-invalid, invalid)
		return nil
	}

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()
	library, err := scripture.LoadLibrary(ctx, catalog.NewRepository(db.DB))
	if err != nil {
		return fmt.Errorf("failed to load verse library: %w", err)
	}

	result, err := library.Import(ctx, cmds)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.out, "Added %d, skipped %d existing, rejected %d\n", result.Added, result.Skipped, len(result.Errors))
	if cmd.Verbose && len(result.Errors) > 0 {
		refs := make([]string, 0, len(result.Errors))
		for ref := range result.Errors {
			refs = append(refs, ref)
		}
		sort.Strings(refs)
		for _, ref := range refs {
			fmt.Fprintf(cmd.out, "  %s: %s\n", ref, result.Errors[ref])
		}
	}
	return nil
}
