package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"smartlib/internal/core/config"
	"smartlib/internal/shared/observability"
)

func Run(args []string) int {
	return run(args, os.Stdout, os.Stderr, coreAppFactory{})
}

func run(args []string, stdout, stderr io.Writer, factory appFactory) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if len(opts.args) > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(opts.args, " "))
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "smartlib v%s\n", versionString)
		return 0
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "failed to detect working directory: %v\n", err)
		return 1
	}

	cfg, cfgPath, err := loadConfig(opts.configPath, cwd)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load config: %v\n", err)
		return 1
	}
	config.ApplyEnvOverrides(cfg)

	cleanupLogs := configureLogging(stderr, opts.ui, opts.verbose, cfg.Logging)
	defer cleanupLogs()

	shutdownTracing := observability.InitTracing(slog.Default())
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Warn("tracer shutdown failed", "error", err)
		}
	}()

	if cfgPath != "" {
		slog.Debug("config loaded", "path", cfgPath)
	} else {
		slog.Debug("using built-in facility")
	}

	app, err := initializeApp(cfg, factory)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		return 1
	}

	if opts.ui {
		if err := runUI(app); err != nil {
			slog.Error("failed to run UI", "error", err)
			return 1
		}
		return 0
	}

	if !opts.oneShot() {
		opts.stats = true
	}
	return runSingleCommand(context.Background(), app, opts, stdout, stderr)
}

// loadConfig returns the built-in facility when no path is given and no
// default file exists in cwd.
func loadConfig(path, cwd string) (*config.Config, string, error) {
	if strings.TrimSpace(path) != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}

	candidates, err := discoverDefaultConfig(cwd)
	if err != nil {
		return nil, "", err
	}
	for _, candidate := range candidates {
		cfg, loadErr := config.Load(candidate)
		if loadErr == nil {
			return cfg, candidate, nil
		}
		if os.IsNotExist(loadErr) {
			continue
		}
		return nil, "", loadErr
	}
	return config.Default(), "", nil
}

func discoverDefaultConfig(cwd string) ([]string, error) {
	if strings.TrimSpace(cwd) == "" {
		return nil, fmt.Errorf("cwd must not be empty")
	}
	return []string{
		filepath.Join(cwd, "smartlib.toml"),
		filepath.Join(cwd, "smartlib.yaml"),
		filepath.Join(cwd, "smartlib.yml"),
	}, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// configureLogging installs the default slog logger. In UI mode logs go to a
// file so they do not tear the alternate screen.
func configureLogging(stderr io.Writer, uiMode, verbose bool, cfg config.Logging) func() {
	logLevel := parseLevel(cfg.Level)
	if verbose {
		logLevel = slog.LevelDebug
	}

	output := stderr
	var closeFn func() = func() {}
	if uiMode || strings.TrimSpace(cfg.File) != "" {
		logPath := strings.TrimSpace(cfg.File)
		if logPath == "" {
			logPath = resolveLogPath()
		}
		if err := os.MkdirAll(filepath.Dir(logPath), 0o700); err != nil {
			fmt.Fprintf(stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
				fmt.Fprintf(stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
			} else {
				f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
				if err == nil {
					output = f
					closeFn = func() { _ = f.Close() }
				} else {
					fmt.Fprintf(stderr, "warning: failed to open log file %s: %v\n", logPath, err)
				}
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
	return closeFn
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "smartlib", "smartlib.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "smartlib", "smartlib.log")
	}

	return "smartlib.log"
}
