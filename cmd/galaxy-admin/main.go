// Package main is the entry point for the Galaxy admin CLI.
// This tool provides offline administrative commands: user inspection
// and moderation, frame creation, and collection snapshots.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/galaxy-hub/galaxy/internal/config"
	"github.com/galaxy-hub/galaxy/internal/domain"
	"github.com/galaxy-hub/galaxy/internal/repository"
	"github.com/galaxy-hub/galaxy/internal/repository/postgres"
	"github.com/galaxy-hub/galaxy/internal/repository/sqlite"
	"github.com/galaxy-hub/galaxy/internal/snapshot"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "version":
		fmt.Printf("Galaxy Admin CLI\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "user":
		err = runUser(args)

	case "frame":
		err = runFrame(args)

	case "snapshot":
		err = runSnapshot(args)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Galaxy Admin CLI

Usage:
  galaxy-admin <command> [arguments]

Commands:
  user        Manage users (list, ban, unban, verify, set-balance)
  frame       Manage frames (create)
  snapshot    Export or import collection snapshots
  version     Print version information
  help        Show this help message

Examples:
  galaxy-admin user list --search alice
  galaxy-admin user set-balance --id <uuid> --balance 5000
  galaxy-admin user ban --id <uuid>
  galaxy-admin frame create --name "Crimson Edge" --price 420 --style crimson
  galaxy-admin snapshot export
  galaxy-admin snapshot import

All commands read the same configuration as the server (config file
plus GALAXY_ environment variables).`)
}

// openRepos loads configuration and opens the configured database.
func openRepos(ctx context.Context, configPath string) (*repository.Repositories, repository.DatabaseHealth, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	logger := zerolog.New(os.Stderr).Level(zerolog.WarnLevel)

	if cfg.Database.Driver == "postgres" {
		db, err := postgres.NewDB(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		return &repository.Repositories{
			User:       postgres.NewUserRepository(db),
			Frame:      postgres.NewFrameRepository(db),
			Submission: postgres.NewSubmissionRepository(db),
		}, db, cfg, nil
	}

	sqliteCfg := sqlite.DefaultConfig(cfg.Database.Path)
	sqliteCfg.JournalMode = cfg.Database.JournalMode
	sqliteCfg.BusyTimeout = cfg.Database.BusyTimeout
	sqliteCfg.SynchronousMode = cfg.Database.SynchronousMode

	db, err := sqlite.NewDB(ctx, sqliteCfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}
	return &repository.Repositories{
		User:       sqlite.NewUserRepository(db),
		Frame:      sqlite.NewFrameRepository(db),
		Submission: sqlite.NewSubmissionRepository(db),
	}, db, cfg, nil
}

func runUser(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: galaxy-admin user <list|ban|unban|verify|set-balance> [flags]")
	}

	sub := args[0]
	fs := flag.NewFlagSet("user "+sub, flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	id := fs.String("id", "", "user id")
	search := fs.String("search", "", "filter by username or email substring")
	limit := fs.Int("limit", 50, "maximum results")
	balance := fs.Int64("balance", 0, "new balance")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	ctx := context.Background()
	repos, db, _, err := openRepos(ctx, *configPath)
	if err != nil {
		return err
	}
	defer db.Close()

	switch sub {
	case "list":
		result, err := repos.User.List(ctx, repository.ListOptions{Search: *search, Limit: *limit})
		if err != nil {
			return err
		}
		fmt.Printf("%-36s  %-20s  %-30s  %8s  %5s  %s\n", "ID", "USERNAME", "EMAIL", "BALANCE", "LEVEL", "FLAGS")
		for _, u := range result.Items {
			fmt.Printf("%-36s  %-20s  %-30s  %8d  %5d  %s\n",
				u.ID, u.Username, u.Email, u.Balance, u.Level, userFlags(u))
		}
		fmt.Printf("\n%d of %d users\n", len(result.Items), result.Total)
		return nil

	case "ban", "unban", "verify":
		if *id == "" {
			return fmt.Errorf("--id is required")
		}
		user, err := repos.User.GetByID(ctx, *id)
		if err != nil {
			return err
		}
		switch sub {
		case "ban":
			user.IsBanned = true
		case "unban":
			user.IsBanned = false
		case "verify":
			user.IsVerified = true
		}
		if err := repos.User.Update(ctx, user); err != nil {
			return err
		}
		fmt.Printf("user %s updated: %s\n", user.Username, userFlags(user))
		return nil

	case "set-balance":
		if *id == "" {
			return fmt.Errorf("--id is required")
		}
		user, err := repos.User.GetByID(ctx, *id)
		if err != nil {
			return err
		}
		user.Balance = *balance
		if err := repos.User.Update(ctx, user); err != nil {
			return err
		}
		fmt.Printf("user %s balance set to %d\n", user.Username, user.Balance)
		return nil

	default:
		return fmt.Errorf("unknown user subcommand: %s", sub)
	}
}

func userFlags(u *domain.User) string {
	flags := ""
	if u.IsAdmin {
		flags += "A"
	}
	if u.IsVerified {
		flags += "V"
	}
	if u.IsBanned {
		flags += "B"
	}
	if flags == "" {
		flags = "-"
	}
	return flags
}

func runFrame(args []string) error {
	if len(args) < 1 || args[0] != "create" {
		return fmt.Errorf("usage: galaxy-admin frame create --name <name> --price <price> [--style <style>]")
	}

	fs := flag.NewFlagSet("frame create", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	name := fs.String("name", "", "frame display name")
	price := fs.Int64("price", 0, "price in store currency")
	style := fs.String("style", "", "border style token")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	if *name == "" {
		return fmt.Errorf("--name is required")
	}
	if *price < 0 {
		return fmt.Errorf("--price must not be negative")
	}

	ctx := context.Background()
	repos, db, _, err := openRepos(ctx, *configPath)
	if err != nil {
		return err
	}
	defer db.Close()

	frame := domain.NewFrame(uuid.New().String(), *name, *price, *style)
	if err := repos.Frame.Create(ctx, frame); err != nil {
		return err
	}

	fmt.Printf("frame created: %s (%s, %d)\n", frame.ID, frame.Name, frame.Price)
	return nil
}

func runSnapshot(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: galaxy-admin snapshot <export|import> [flags]")
	}

	sub := args[0]
	fs := flag.NewFlagSet("snapshot "+sub, flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	ctx := context.Background()
	repos, db, cfg, err := openRepos(ctx, *configPath)
	if err != nil {
		return err
	}
	defer db.Close()

	var store snapshot.Store
	if cfg.Snapshot.Backend == "s3" {
		store, err = snapshot.NewS3Store(ctx, cfg.Snapshot.S3)
	} else {
		store, err = snapshot.NewFSStore(cfg.Snapshot.Dir)
	}
	if err != nil {
		return err
	}

	snapshotter := snapshot.NewSnapshotter(repos, store, zerolog.New(os.Stderr).Level(zerolog.InfoLevel))

	switch sub {
	case "export":
		if err := snapshotter.Export(ctx); err != nil {
			return err
		}
		fmt.Println("snapshot exported")
		return nil

	case "import":
		if err := snapshotter.Import(ctx); err != nil {
			return err
		}
		fmt.Println("snapshot imported")
		return nil

	default:
		return fmt.Errorf("unknown snapshot subcommand: %s", sub)
	}
}
