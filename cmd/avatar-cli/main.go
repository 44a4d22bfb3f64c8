package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/handiism/avatar-customizer/internal/config"
	httpclient "github.com/handiism/avatar-customizer/internal/http"
	"github.com/handiism/avatar-customizer/internal/manifest"
	"github.com/handiism/avatar-customizer/internal/render"
	"github.com/handiism/avatar-customizer/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	configPath string
	verbose    bool
	sourceKind string
	user       string
	repo       string
	ref        string
	dir        string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "avatar-cli",
	Short: "Resolve avatar part catalogs and render composites",
	Long: `avatar-cli lists an asset repository, classifies its files into avatar
parts and shapes, and composites a selection of shapes into a PNG.

Settings come from --config (JSON or YAML), then AVATAR_* environment
variables, then the flags below.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		} else {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to config file (.json, .yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")
	flags.StringVar(&sourceKind, "source", "", "Listing source: github, jsdelivr or dir")
	flags.StringVar(&user, "user", "", "Repository owner")
	flags.StringVar(&repo, "repo", "", "Repository name")
	flags.StringVar(&ref, "ref", "", "Branch, tag or commit")
	flags.StringVar(&dir, "dir", "", "Local asset directory (implies --source dir)")

	rootCmd.AddCommand(catalogCmd, viewsCmd, renderCmd)
}

// loadSettings merges the config file, environment and flags.
func loadSettings() (*config.Settings, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if sourceKind != "" {
		settings.Source = sourceKind
	}
	if user != "" {
		settings.User = user
	}
	if repo != "" {
		settings.Repo = repo
	}
	if ref != "" {
		settings.Ref = ref
	}
	if dir != "" {
		settings.Dir = dir
		if sourceKind == "" {
			settings.Source = manifest.SourceDir
		}
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

// openSession builds a session from settings and loads the catalog.
func openSession(ctx context.Context, cmd *cobra.Command, settings *config.Settings) (*session.Session, error) {
	client := httpclient.NewClient(settings.UserAgent, settings.RequestTimeout())
	source, err := manifest.NewSource(settings.ToSourceConfig(), client)
	if err != nil {
		return nil, err
	}
	policy, _ := settings.DefaultPolicy()

	errOut := cmd.ErrOrStderr()
	sess := session.New(session.Options{
		Source:                source,
		Parts:                 settings.ToPartConfig(),
		Loader:                render.NewLoader(client),
		Render:                settings.ToCompositorConfig(),
		Policy:                policy,
		MaxConcurrentPrefetch: settings.MaxConcurrentPrefetch,
		Logger:                logger,
		OnEvent: func(e session.Event) {
			if e.Level == session.LevelVerbose && !verbose {
				return
			}
			fmt.Fprintln(errOut, prefix(e.Level)+e.Message)
		},
	})

	if err := sess.Refresh(ctx); err != nil {
		sess.Close()
		return nil, err
	}
	return sess, nil
}

func prefix(level session.Level) string {
	switch level {
	case session.LevelError:
		return "error: "
	case session.LevelWarning:
		return "warning: "
	case session.LevelSuccess:
		return "ok: "
	default:
		return ""
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
