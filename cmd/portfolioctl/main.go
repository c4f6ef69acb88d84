// Command portfolioctl runs maintenance tasks against the portfolio database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/portfolio-api/internal/auth"
	"github.com/portfolio-api/internal/config"
	"github.com/portfolio-api/internal/database"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/repository"
	"github.com/portfolio-api/internal/service"
	"github.com/portfolio-api/internal/storage"
	"github.com/portfolio-api/pkg/logger"
	"github.com/rs/zerolog"
)

const usage = `Usage: portfolioctl <command> [flags]

Commands:
  backup [-dir DIR]          dump the database with pg_dump
  sitemap [-out FILE]        write the sitemap file
  verify-indexes             list indexes and time the hot queries
  migrate up|down|to N       apply schema migrations
  hash-password PASSWORD     print a bcrypt hash for ADMIN_PASSWORD_HASH
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	log := logger.New()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "backup":
		err = runBackup(args, log)
	case "sitemap":
		err = runSitemap(args, log)
	case "verify-indexes":
		err = runVerifyIndexes(log)
	case "migrate":
		err = runMigrate(args, log)
	case "hash-password":
		err = runHashPassword(args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

func openDB(cfg *config.Config, log zerolog.Logger) (*database.DB, error) {
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}

func migrationsPath() string {
	if p := os.Getenv("MIGRATIONS_PATH"); p != "" {
		return p
	}
	return "./migrations"
}

// backupFileName is backup_YYYY-MM-DD_HHMMSS.sql under dir
func backupFileName(dir string, now time.Time) string {
	return filepath.Join(dir, "backup_"+now.Format("2006-01-02_150405")+".sql")
}

func pgDumpArgs(db config.DatabaseConfig, out string) []string {
	return []string{
		"--host=" + db.Host,
		"--port=" + db.Port,
		"--username=" + db.User,
		"--dbname=" + db.Name,
		"--no-owner",
		"--file=" + out,
	}
}

func runBackup(args []string, log zerolog.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	dir := fs.String("dir", cfg.Storage.BackupDir, "directory for the dump file")
	fs.Parse(args)

	if err := os.MkdirAll(*dir, 0755); err != nil {
		return fmt.Errorf("create backup dir: %w", err)
	}
	out := backupFileName(*dir, time.Now())

	cmd := exec.Command("pg_dump", pgDumpArgs(cfg.Database, out)...)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+cfg.Database.Password)
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pg_dump: %w", err)
	}

	info, err := os.Stat(out)
	if err != nil {
		return err
	}
	log.Info().Str("file", out).Str("size", models.HumanSize(info.Size())).Msg("Backup created")
	fmt.Printf("%s (%s)\n", out, models.HumanSize(info.Size()))
	return nil
}

func runSitemap(args []string, log zerolog.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("sitemap", flag.ExitOnError)
	out := fs.String("out", cfg.Storage.SitemapOutput, "output file")
	fs.Parse(args)

	db, err := openDB(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	services := service.NewServices(repository.New(db), service.Dependencies{
		Files: storage.NewLocal(cfg.Storage.UploadDir, cfg.Storage.PublicURL),
	}, cfg, log)

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(*out)
	if err != nil {
		return fmt.Errorf("create sitemap: %w", err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := services.Feed.WriteSitemap(ctx, f); err != nil {
		return err
	}
	log.Info().Str("file", *out).Msg("Sitemap generated")
	return nil
}

var indexedTables = []string{
	"articles", "projects", "article_comments", "comment_reactions",
	"newsletter_subscribers", "notification_jobs",
}

// hotQueries are representative reads whose plans depend on the expected indexes
var hotQueries = []struct {
	name  string
	query string
	args  []interface{}
}{
	{
		"search articles",
		`SELECT id FROM articles WHERE published_at <= NOW() AND (title ILIKE $1 OR excerpt ILIKE $1 OR tags @> ARRAY[$2]::text[]) LIMIT 10`,
		[]interface{}{"%go%", "go"},
	},
	{
		"published articles",
		`SELECT id FROM articles WHERE published_at <= NOW() ORDER BY published_at DESC LIMIT 12`,
		nil,
	},
	{
		"approved comments",
		`SELECT id FROM article_comments WHERE article_id = (SELECT id FROM articles LIMIT 1) AND status = 'approved'`,
		nil,
	},
}

func runVerifyIndexes(log zerolog.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	indexes, err := db.ListIndexes(ctx, indexedTables)
	if err != nil {
		return err
	}
	fmt.Println("Indexes:")
	for _, idx := range indexes {
		marker := ""
		if idx.IsGIN() {
			marker = " [GIN]"
		}
		fmt.Printf("  %-24s %s%s\n", idx.Table, idx.Name, marker)
	}

	fmt.Println("\nQuery timings:")
	for _, q := range hotQueries {
		timing := db.TimeQuery(ctx, q.name, q.query, q.args...)
		if timing.Err != nil {
			fmt.Printf("  %-20s error: %v\n", timing.Name, timing.Err)
			continue
		}
		fmt.Printf("  %-20s %s\n", timing.Name, timing.Duration.Round(time.Microsecond))
	}

	missing := database.MissingIndexes(indexes)
	if len(missing) > 0 {
		fmt.Println("\nMissing indexes:")
		for _, name := range missing {
			fmt.Printf("  %s\n", name)
		}
		return fmt.Errorf("%d expected index(es) missing", len(missing))
	}
	fmt.Println("\nAll expected indexes present.")
	return nil
}

func runMigrate(args []string, log zerolog.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("migrate needs up, down or to <version>")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := openDB(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	path := migrationsPath()
	switch args[0] {
	case "up":
		return db.RunMigrations(path)
	case "down":
		return db.MigrateDown(path)
	case "to":
		if len(args) < 2 {
			return fmt.Errorf("migrate to needs a version")
		}
		version, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		return db.MigrateToVersion(path, uint(version))
	default:
		return fmt.Errorf("unknown migrate direction %q", args[0])
	}
}

func runHashPassword(args []string) error {
	if len(args) != 1 || args[0] == "" {
		return fmt.Errorf("hash-password needs exactly one password argument")
	}
	hash, err := auth.HashPassword(args[0])
	if err != nil {
		return err
	}
	fmt.Println(hash)
	return nil
}
