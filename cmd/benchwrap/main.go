package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/benchwrap/benchwrap/internal/config"
	"github.com/benchwrap/benchwrap/internal/utils"
	"github.com/benchwrap/benchwrap/internal/version"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix      = "BENCHWRAP"
	configFileName = "config"
)

var (
	// set by the root command before any subcommand runs
	appConfig *config.Config
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:           "benchwrap",
	Short:         "Sync benchmark job outputs to remote storage",
	Version:       version.Detailed(),
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		appConfig = cfg

		verbose, _ := cmd.Flags().GetBool("verbose")
		logCloser = setupLogging(cfg.LogFilePath(), verbose)
		slog.Debug("benchwrap", "version", version.Short(), "server", cfg.ServerURL, "data", cfg.DataDir, "jobs", cfg.JobsDir)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			logCloser.Close()
		}
	},
}

func init() {
	addGlobalFlags(rootCmd.PersistentFlags())
}

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.SortFlags = false
	fs.StringP("config", "c", config.DefaultConfigPath, "benchwrap config file")
	fs.StringP("server", "s", config.DefaultServerURL, "benchwrap server url")
	fs.StringP("datadir", "d", config.DefaultDataDir, "directory holding credentials, logs and jobs")
	fs.BoolP("verbose", "v", false, "print debug logs to stderr")
}

func main() {
	// until the config is known only stderr is available
	slog.SetDefault(slog.New(stderrHandler(slog.LevelWarn)))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", red.Render("ERROR"), err)
		os.Exit(1)
	}
}

func stderrHandler(level slog.Level) slog.Handler {
	return tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})
}

// setupLogging sends warnings (or everything, when verbose) to stderr and
// every record to the log file. A log file that cannot be opened only costs
// the file output.
func setupLogging(logFile string, verbose bool) io.Closer {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	console := stderrHandler(level)

	if err := utils.EnsureParent(logFile, 0o755); err != nil {
		slog.SetDefault(slog.New(console))
		slog.Warn("log file disabled", "error", err)
		return nil
	}

	// one log file per invocation
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		slog.SetDefault(slog.New(console))
		slog.Warn("log file disabled", "error", err)
		return nil
	}

	interceptor := utils.NewLogInterceptor(file)
	fileHandler := slog.NewTextHandler(interceptor, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		// the interceptor stamps the time
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	})

	slog.SetDefault(slog.New(utils.NewMultiLogHandler(console, fileHandler)))
	return closerFunc(func() error {
		return errors.Join(interceptor.Close(), file.Close())
	})
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// loadConfig merges, from lowest to highest priority, flag defaults, the
// config file, BENCHWRAP_* environment variables and explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := viper.New()

	configFlag := cmd.Flags().Lookup("config")
	if configFlag != nil && configFlag.Changed {
		v.SetConfigFile(configFlag.Value.String())
	} else {
		v.AddConfigPath(filepath.Dir(config.DefaultConfigPath))
		v.SetConfigName(configFileName)
	}
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config read '%s': %w", v.ConfigFileUsed(), err)
		}
	}

	bindFlag(v, "server_url", cmd.Flags().Lookup("server"))
	bindFlag(v, "data_dir", cmd.Flags().Lookup("datadir"))
	bindFlag(v, "workers", cmd.Flags().Lookup("jobs"))
	bindFlag(v, "exclude", cmd.Flags().Lookup("exclude"))

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	configPath := config.DefaultConfigPath
	if used := v.ConfigFileUsed(); used != "" {
		configPath = used
	}

	cfg := &config.Config{
		ServerURL: v.GetString("server_url"),
		DataDir:   v.GetString("data_dir"),
		JobsDir:   v.GetString("jobs_dir"),
		Workers:   v.GetInt("workers"),
		Exclude:   v.GetStringSlice("exclude"),
		Path:      configPath,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindFlag ignores flags the running command does not define.
func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	_ = v.BindPFlag(key, flag)
}
