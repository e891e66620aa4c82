// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/provizor/provizor/internal/archive"
	"github.com/provizor/provizor/internal/controlplane"
	"github.com/provizor/provizor/internal/preflight"
	"github.com/provizor/provizor/internal/store"
	"github.com/provizor/provizor/internal/tui"
	"github.com/provizor/provizor/internal/wizard"
	"github.com/provizor/provizor/internal/workflow"
	"github.com/provizor/provizor/internal/workflow/metrics"
)

// Environment variables read by the CLI.
const (
	envAPIURL        = "PROVIZOR_API_URL"
	envAPIToken      = "PROVIZOR_API_TOKEN"
	envProject       = "PROVIZOR_PROJECT"
	envDB            = "PROVIZOR_DB"
	envAdminEmail    = "PROVIZOR_ADMIN_EMAIL"
	envArchiveBucket = "PROVIZOR_ARCHIVE_BUCKET"
	envArchiveRegion = "PROVIZOR_ARCHIVE_REGION"
	envArchiveAccess = "PROVIZOR_ARCHIVE_ACCESS_KEY"
	envArchiveSecret = "PROVIZOR_ARCHIVE_SECRET_KEY"
)

// Config holds the CLI configuration resolved from the environment.
type Config struct {
	APIURL     string
	APIToken   string
	ProjectID  string
	DBURL      string
	AdminEmail string
}

// loadEnvConfig resolves the required environment configuration.
func loadEnvConfig() (*Config, error) {
	cfg := &Config{
		APIURL:     os.Getenv(envAPIURL),
		APIToken:   os.Getenv(envAPIToken),
		ProjectID:  os.Getenv(envProject),
		DBURL:      os.Getenv(envDB),
		AdminEmail: os.Getenv(envAdminEmail),
	}
	if cfg.APIURL == "" {
		return nil, fmt.Errorf("%s environment variable is required", envAPIURL)
	}
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("%s environment variable is required", envAPIToken)
	}
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("%s environment variable is required", envProject)
	}
	if cfg.DBURL == "" {
		cfg.DBURL = "sqlite:./provizor.db"
	}
	return cfg, nil
}

// stores bundles the repositories backed by one local database.
type stores struct {
	revisions   *store.RevisionRepository
	credentials *store.CredentialRepository
}

// Factory function variables - can be replaced in tests for dependency
// injection.
var (
	// newAPIClient creates the control-plane client.
	newAPIClient = func(endpoint, token string) controlplane.Client {
		return controlplane.NewRealClient(endpoint, token)
	}

	// openStores opens the local database and its repositories.
	openStores = func(dbURL string) (*stores, error) {
		db, err := store.OpenFromURL(dbURL)
		if err != nil {
			return nil, err
		}
		if err := store.AutoMigrate(db); err != nil {
			return nil, err
		}
		return &stores{
			revisions:   store.NewRevisionRepository(db),
			credentials: store.NewCredentialRepository(db),
		}, nil
	}

	// runWizard runs the interactive setup flow.
	runWizard = wizard.Run

	// runDashboard wraps a session drive with the TUI.
	runDashboard = func(ctx context.Context, clusterName, provider, region string, driveFn func(workflow.Observer, func(*preflight.Report)) error) error {
		return tui.Run(ctx, clusterName, provider, region, driveFn)
	}

	// newArchiveExporter creates the S3 exporter from the environment.
	newArchiveExporter = func() (*archive.Exporter, error) {
		bucket := os.Getenv(envArchiveBucket)
		if bucket == "" {
			return nil, fmt.Errorf("%s environment variable is required for export", envArchiveBucket)
		}
		client, err := archive.NewClient(
			"",
			os.Getenv(envArchiveRegion),
			os.Getenv(envArchiveAccess),
			os.Getenv(envArchiveSecret),
		)
		if err != nil {
			return nil, err
		}
		return archive.NewExporter(client, bucket), nil
	}
)

// workflowMetrics registers the workflow collectors on the default registry
// exactly once; every session in the process shares them.
var workflowMetrics = sync.OnceValue(func() *metrics.Observer {
	return metrics.NewObserver(prometheus.DefaultRegisterer)
})

// isTTY reports whether stdout is attached to a terminal.
func isTTY() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
