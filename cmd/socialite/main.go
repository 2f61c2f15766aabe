// Command socialite scrapes social media profiles, scores presence
// quality, and automates post publishing.
//
// Usage:
//
//	socialite scrape https://instagram.com/natgeo
//	socialite scan                       # targets from config
//	socialite analyze https://x.com/nasa https://tiktok.com/@nasa
//	socialite publish --text "hello" --handle brandaccount --auto
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/socialite"
	"github.com/codeGROOVE-dev/socialite/cache"
	"github.com/codeGROOVE-dev/socialite/config"
	"github.com/codeGROOVE-dev/socialite/profile"
	"github.com/codeGROOVE-dev/socialite/publish"
	"github.com/codeGROOVE-dev/socialite/quality"
)

var version = "dev"

var (
	debug      bool
	configPath string
	noCache    bool

	cfg    *config.Config
	logger *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "socialite",
	Short:   "Social presence extraction and publishing",
	Long:    "Socialite scrapes profile pages across seven platforms, scores presence quality, and drives the X composer for automated publishing.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			// Every command works without a config file; fall back to defaults.
			logger.Debug("no config file, using defaults", "reason", err)
			cfg, err = config.Default()
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Disable profile caching")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(publishCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/socialite/",
	RunE: func(*cobra.Command, []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil { //nolint:gosec // config is not secret
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to configure scan targets and cookies.")
		return nil
	},
}

// --- scrape command ---

var scrapeCmd = &cobra.Command{
	Use:   "scrape <url>",
	Short: "Scrape one profile and print it as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		eng := buildEngine()
		defer eng.Close()

		p := eng.Scrape(context.Background(), args[0], "")
		return outputJSON(p)
	},
}

// --- scan command ---

var scanCmd = &cobra.Command{
	Use:   "scan [url...]",
	Short: "Scrape configured targets sequentially and print profiles plus a summary",
	RunE: func(_ *cobra.Command, args []string) error {
		targets := targetsFromArgs(args)
		if len(targets) == 0 {
			return fmt.Errorf("no targets: pass URLs or list them in the config file")
		}

		eng := buildEngine()
		defer eng.Close()

		profiles := eng.ScrapeMany(context.Background(), targets, func(frac float64, label string) {
			fmt.Fprintf(os.Stderr, "[%3.0f%%] %s\n", frac*100, label)
		})

		return outputJSON(struct {
			Profiles []*profile.Profile
			Summary  quality.Summary
		}{profiles, quality.Summarize(profiles)})
	},
}

// --- analyze command ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze [url...]",
	Short: "Scrape targets and print per-platform quality analyses",
	RunE: func(_ *cobra.Command, args []string) error {
		targets := targetsFromArgs(args)
		if len(targets) == 0 {
			return fmt.Errorf("no targets: pass URLs or list them in the config file")
		}

		eng := buildEngine()
		defer eng.Close()

		profiles := eng.ScrapeMany(context.Background(), targets, nil)

		type scored struct {
			Profile  *profile.Profile
			Analysis quality.Analysis
		}
		results := make([]scored, 0, len(profiles))
		for _, p := range profiles {
			results = append(results, scored{p, quality.Analyze(p)})
		}

		return outputJSON(struct {
			Results []scored
			Summary quality.Summary
		}{results, quality.Summarize(profiles)})
	},
}

// --- publish command ---

var (
	publishText   string
	publishMedia  []string
	publishHandle string
	autoSubmit    bool
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Stage (or submit) a post through the X composer",
	RunE: func(*cobra.Command, []string) error {
		handle := publishHandle
		if handle == "" {
			handle = cfg.Publish.ExpectedHandle
		}
		req := publish.Request{
			Text:           publishText,
			ExpectedHandle: handle,
			AutoSubmit:     autoSubmit || cfg.Publish.AutoSubmit,
		}
		for _, path := range publishMedia {
			data, err := os.ReadFile(path) //nolint:gosec // user-supplied media path
			if err != nil {
				return fmt.Errorf("reading media %s: %w", path, err)
			}
			req.Media = append(req.Media, publish.Attachment{
				Name: filepath.Base(path),
				Data: data,
			})
		}

		opts := engineOptions()
		if !req.AutoSubmit {
			// A human finishes the run; the browser must be visible.
			opts = append(opts, socialite.WithHeadful())
		}
		eng := socialite.New(opts...)
		defer eng.Close()

		out := eng.Publish(context.Background(), req)
		if err := outputJSON(out); err != nil {
			return err
		}
		if !out.Success {
			return fmt.Errorf("publish failed at %s: %s", out.FailedStep, out.Message)
		}
		if out.RequiresManualSubmit {
			// Keep the browser alive until the human submits.
			fmt.Fprintln(os.Stderr, "Post staged. Submit it in the browser window, then press Enter here to close.")
			_, _ = fmt.Fscanln(os.Stdin) //nolint:errcheck // empty line is fine
		}
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVarP(&publishText, "text", "t", "", "Post text")
	publishCmd.Flags().StringArrayVarP(&publishMedia, "media", "m", nil, "Media file to attach (repeatable)")
	publishCmd.Flags().StringVar(&publishHandle, "handle", "", "Expected signed-in handle (guards against posting from the wrong account)")
	publishCmd.Flags().BoolVar(&autoSubmit, "auto", false, "Click the post button instead of stopping for manual review")
}

// targetsFromArgs builds the target list from CLI args, falling back to
// the config file.
func targetsFromArgs(args []string) []socialite.Target {
	if len(args) > 0 {
		targets := make([]socialite.Target, 0, len(args))
		for _, url := range args {
			targets = append(targets, socialite.Target{URL: url})
		}
		return targets
	}
	targets := make([]socialite.Target, 0, len(cfg.Targets))
	for _, t := range cfg.Targets {
		targets = append(targets, socialite.Target{
			URL:      t.URL,
			Platform: profile.Platform(strings.ToLower(t.Platform)),
		})
	}
	return targets
}

func engineOptions() []socialite.Option {
	opts := []socialite.Option{
		socialite.WithLogger(logger),
		socialite.WithSettleDelay(cfg.Scrape.SettleDelay.Std()),
		socialite.WithStepDelay(cfg.Scrape.StepDelay.Std()),
	}
	if cfg.Scrape.BrowserCookies {
		opts = append(opts, socialite.WithBrowserCookies())
	}
	if cfg.Cache.Enabled && !noCache {
		store, err := openCache()
		if err != nil {
			logger.Warn("failed to initialize cache, continuing without cache", "error", err)
		} else {
			opts = append(opts, socialite.WithCache(store))
		}
	}
	return opts
}

func buildEngine() *socialite.Engine {
	return socialite.New(engineOptions()...)
}

func openCache() (*cache.Store, error) {
	if cfg.Cache.Path != "" {
		return cache.NewWithPath(cfg.Cache.TTL.Std(), cfg.Cache.Path)
	}
	return cache.New(cfg.Cache.TTL.Std())
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
