package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"blogd/app"
	"blogd/app/config"
	"blogd/app/di"
	"blogd/app/metrics"
	"blogd/app/repositories"
	"blogd/pkg/log"

	"github.com/spf13/pflag"
)

const defaultConfigPath = "config.yaml"

var (
	output io.Writer = os.Stdout
	input  io.Reader = os.Stdin
)

var errUsage = errors.New("usage")

// HandleCommand runs a blogd subcommand and returns the process exit code.
func HandleCommand(args []string) int {
	if len(args) < 1 {
		printHelp()
		return 1
	}

	cmd := strings.ToLower(args[0])
	var err error
	switch cmd {
	case "serve":
		err = serve(args[1:])
	case "init":
		err = initDb(args[1:])
	case "clean":
		err = clean(args[1:])
	case "backup":
		err = backup(args[1:])
	case "restore":
		err = restore(args[1:])
	case "reindex":
		err = reindex(args[1:])
	case "version":
		fmt.Fprintf(output, "%s version %s (%s)\n", config.AppName, config.Version, config.BuildDate)
	case "help":
		printHelp()
	default:
		fmt.Fprintf(output, "Unknown command: %s\n\n", args[0])
		printHelp()
		return 1
	}

	if err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(output, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func printHelp() {
	helpText := `Usage: blogd <command> [--config <file>] [--debug]

Commands:
  serve                 Run the blog server
  init                  Initialize a new empty database and blog directories
  clean                 Remove the database
  backup [file]         Create a backup of the database
  restore <file>        Restore the database from a backup
  reindex <blog>        Rebuild the search index of a blog
  version               Show version information
  help                  Display this help message
`
	fmt.Fprintln(output, helpText)
}

func newFlagSet(name string) (*pflag.FlagSet, *config.CliFlags) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(output)
	flags := &config.CliFlags{}
	fs.StringVarP(&flags.ConfigPath, "config", "c", defaultConfigPath, "path to the configuration file")
	fs.BoolVarP(&flags.DebugMode, "debug", "d", false, "enable debug mode")
	return fs, flags
}

// parseFlags reads the shared flags and returns the loaded configuration
// together with the remaining positional arguments.
func parseFlags(name string, args []string) (*config.Config, []string, error) {
	fs, flags := newFlagSet(name)
	if err := fs.Parse(args); err != nil {
		return nil, nil, errUsage
	}

	conf, err := config.NewConfigProvider(flags)
	if err != nil {
		return nil, nil, fmt.Errorf("load config %s: %w", flags.ConfigPath, err)
	}
	return conf, fs.Args(), nil
}

func confirm(prompt string) bool {
	fmt.Fprintf(output, "%s [y/N] ", prompt)
	var response string
	fmt.Fscanln(input, &response)
	return response == "y" || response == "Y"
}

func serve(args []string) error {
	fs, flags := newFlagSet("serve")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	a, cleanup, err := di.InitApp(flags)
	if err != nil {
		return err
	}
	defer cleanup()
	return a.Run(context.Background())
}

// initDb creates the database and the directories of every configured blog.
func initDb(args []string) error {
	conf, _, err := parseFlags("init", args)
	if err != nil {
		return err
	}
	dbPath := app.DatabaseDirectory(conf)
	if _, err := os.Stat(dbPath); err == nil {
		fmt.Fprintln(output, "Database already exists. Use 'clean' first if you want to reinitialize.")
		return nil
	}

	repo, err := repositories.NewRepository(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer repo.Close()

	for _, bc := range conf.Blogs {
		if err := os.MkdirAll(app.BlogDirectory(conf, bc.ID), 0o755); err != nil {
			return fmt.Errorf("failed to create blog directory: %w", err)
		}
	}

	fmt.Fprintln(output, "Database initialized successfully")
	return nil
}

func clean(args []string) error {
	conf, _, err := parseFlags("clean", args)
	if err != nil {
		return err
	}
	dbPath := app.DatabaseDirectory(conf)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(output, "Database is already clean (does not exist)")
		return nil
	}

	if !confirm("Are you sure you want to clean the database? This cannot be undone.") {
		fmt.Fprintln(output, "Operation cancelled")
		return nil
	}
	if err := os.RemoveAll(dbPath); err != nil {
		return fmt.Errorf("failed to clean database: %w", err)
	}
	fmt.Fprintln(output, "Database cleaned successfully")
	return nil
}

func backup(args []string) error {
	conf, rest, err := parseFlags("backup", args)
	if err != nil {
		return err
	}
	dbPath := app.DatabaseDirectory(conf)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Fprintln(output, "No database exists to backup")
		return nil
	}

	backupFile := filepath.Join(conf.DataDirectory, "backups", fmt.Sprintf("backup_%d.db", time.Now().Unix()))
	if len(rest) > 0 {
		backupFile = rest[0]
	}
	if err := os.MkdirAll(filepath.Dir(backupFile), 0o755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	repo, err := repositories.NewRepository(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()

	f, err := os.Create(backupFile)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	defer f.Close()

	if _, err := repo.Backup(f); err != nil {
		return fmt.Errorf("failed to backup database: %w", err)
	}
	fmt.Fprintf(output, "Database backed up successfully to %s\n", backupFile)
	return nil
}

func restore(args []string) error {
	conf, rest, err := parseFlags("restore", args)
	if err != nil {
		return err
	}
	if len(rest) < 1 {
		fmt.Fprintln(output, "Error: backup file path required for restore")
		return errUsage
	}
	backupFile := rest[0]

	fi, err := os.Stat(backupFile)
	if os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", backupFile)
	}
	if err != nil {
		return err
	}
	if fi.Size() == 0 {
		return fmt.Errorf("backup file is empty: %s", backupFile)
	}

	dbPath := app.DatabaseDirectory(conf)
	if _, err := os.Stat(dbPath); err == nil {
		if !confirm("Existing database found. Do you want to replace it?") {
			fmt.Fprintln(output, "Operation cancelled")
			return nil
		}
		if err := os.RemoveAll(dbPath); err != nil {
			return fmt.Errorf("failed to remove existing database: %w", err)
		}
	}

	repo, err := repositories.NewRepository(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer repo.Close()

	f, err := os.Open(backupFile)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()

	if err := repo.Restore(f); err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}
	fmt.Fprintln(output, "Database restored successfully")
	return nil
}

// reindex rebuilds one blog's search index from the entries in the database.
func reindex(args []string) error {
	conf, rest, err := parseFlags("reindex", args)
	if err != nil {
		return err
	}
	if len(rest) < 1 {
		fmt.Fprintln(output, "Error: blog id required for reindex")
		return errUsage
	}

	logger, err := log.NewLogger(conf)
	if err != nil {
		return err
	}
	repo, closeRepo, err := app.NewRepositoryProvider(conf)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeRepo()
	themes, closeThemes, err := app.NewThemeManagerProvider()
	if err != nil {
		return err
	}
	defer closeThemes()
	manager, closeBlogs, err := app.NewManagerProvider(conf, repo, logger, metrics.NewNoopMetrics(), themes)
	if err != nil {
		return err
	}
	defer closeBlogs()

	b, err := manager.Blog(rest[0])
	if err != nil {
		return err
	}
	if err := b.Reindex(); err != nil {
		return fmt.Errorf("failed to reindex blog %s: %w", b.ID(), err)
	}
	fmt.Fprintf(output, "Reindexed %d blog entries of %s\n", len(b.BlogEntries()), b.ID())
	return nil
}
