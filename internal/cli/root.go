package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/2beens/academy/internal/account"
	"github.com/2beens/academy/internal/config"
	"github.com/2beens/academy/internal/db"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	outputText = "text"
	outputJSON = "json"
)

type accountFinder interface {
	FindByEmail(ctx context.Context, role account.Role, email string) (*account.Account, error)
}

type rootOptions struct {
	env        string
	configPath string
	envFile    string
	dbURL      string
	output     string
	verbose    bool

	// openAccounts returns the account store and a func releasing it
	openAccounts func(ctx context.Context, dbURL string) (accountFinder, func(), error)
	migrateUp    func(dbURL string) error
	migrateDown  func(dbURL string, steps int) error
}

func defaultOptions() *rootOptions {
	return &rootOptions{
		env:          "development",
		configPath:   "./config.toml",
		envFile:      ".env",
		dbURL:        os.Getenv("ACADEMY_DB_URL"),
		output:       outputText,
		openAccounts: openPostgresAccounts,
		migrateUp:    db.MigrateUp,
		migrateDown:  db.MigrateDown,
	}
}

func openPostgresAccounts(ctx context.Context, dbURL string) (accountFinder, func(), error) {
	pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{ConnString: dbURL})
	if err != nil {
		return nil, nil, err
	}
	return account.NewRepo(pool), pool.Close, nil
}

// resolveDBURL prefers --db-url (or ACADEMY_DB_URL) and falls back to the service config.
func (o *rootOptions) resolveDBURL() (string, error) {
	if o.dbURL != "" {
		return o.dbURL, nil
	}

	cfg, err := config.Load(o.env, o.configPath)
	if err != nil {
		return "", fmt.Errorf("no --db-url given and config unusable: %w", err)
	}
	return cfg.PostgresURL(os.Getenv("ACADEMY_POSTGRES_PASS")), nil
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultOptions())
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "academyctl",
		Short: "Operator tool for the academy login service",
		Long: `academyctl manages the academy account store.

It hashes passwords for seeding accounts, applies or reverts database migrations,
and checks a player or admin login against the live store without touching sessions.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.envFile != "" {
				if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
					return fmt.Errorf("load env file %s: %w", opts.envFile, err)
				}
				if opts.dbURL == "" {
					opts.dbURL = os.Getenv("ACADEMY_DB_URL")
				}
			}

			log.SetOutput(cmd.ErrOrStderr())
			if opts.verbose {
				log.SetLevel(log.DebugLevel)
			} else {
				log.SetLevel(log.WarnLevel)
			}

			switch opts.output {
			case outputText, outputJSON:
				return nil
			default:
				return fmt.Errorf("unknown output format: %s", opts.output)
			}
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&opts.env, "env", opts.env, "Config environment: dev, development, prod, production")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", opts.configPath, "Path to the service TOML config")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "envfile", opts.envFile, "Optional dotenv file with secrets")
	rootCmd.PersistentFlags().StringVar(&opts.dbURL, "db-url", opts.dbURL, "Postgres URL (env: ACADEMY_DB_URL), overrides the config")
	rootCmd.PersistentFlags().StringVarP(&opts.output, "output", "o", opts.output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", opts.verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newHashPasswordCmd(opts))
	rootCmd.AddCommand(newMigrateCmd(opts))
	rootCmd.AddCommand(newCheckLoginCmd(opts))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
