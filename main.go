// Package main provides the entry point for the readaloud CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/dgnsrekt/readaloud/internal/config"
	"github.com/dgnsrekt/readaloud/internal/history"
	"github.com/dgnsrekt/readaloud/internal/l10n"
	"github.com/dgnsrekt/readaloud/narration"
	"github.com/dgnsrekt/readaloud/ui"
)

const appName = "readaloud"

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	width      int

	rootCmd = &cobra.Command{
		Use:   "readaloud FILE",
		Short: "Read documents aloud in the terminal",
		Long: paragraph(
			fmt.Sprintf("\nOpen a text, Markdown, EPUB or PDF file and %s, sentence by sentence.", keyword("listen to it")),
		),
		Example:          paragraph("readaloud book.epub\nreadaloud --mode neural --voice Puck notes.md"),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.ExactArgs(1),
		ValidArgsFunction: func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return nil, cobra.ShellCompDirectiveDefault
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return validateOptions(cmd)
		},
		RunE: func(_ *cobra.Command, args []string) error {
			return runTUI(args[0])
		},
	}
)

// loadConfig decodes the global viper settings.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return cfg, err
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}
	return cfg, nil
}

func validateOptions(cmd *cobra.Command) error {
	// A broken config file must still be editable.
	switch cmd.Name() {
	case "config", "man":
		return nil
	}
	if cmd.Flags().Changed("config") {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("unable to read config file: %w", err)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	width = cfg.Width

	// Detect terminal width
	isTerminal := term.IsTerminal(int(os.Stdout.Fd()))
	if !cmd.Flags().Changed("width") && width == 0 && isTerminal {
		w, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err == nil {
			width = w
		}
		if width > 120 {
			width = 120
		}
	}
	return nil
}

// cacheDir is the default location of the audio cache.
func cacheDir() string {
	dir, err := gap.NewScope(gap.User, appName).CacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(dir, "audio")
}

func newDriver(cfg config.Config) (narration.Driver, error) {
	nc := cfg.NarrationConfig(cacheDir())
	nc.Logger = log.Default()
	driver, err := narration.New(nc)
	if err != nil {
		return nil, fmt.Errorf("unable to start %s narration: %w", cfg.Narration.Mode, err)
	}
	return driver, nil
}

// openHistory returns the history store, or nil when it is disabled.
func openHistory(cfg config.Config) (*history.Store, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	path := cfg.History.Path
	if path == "" {
		var err error
		if path, err = history.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return history.Open(path)
}

func runTUI(path string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("unable to open file: %w", err)
	}

	// Read environment to get debugging stuff
	uiCfg, err := env.ParseAs[ui.Config]()
	if err != nil {
		return fmt.Errorf("error parsing config: %v", err)
	}
	uiCfg.Path = path
	uiCfg.Width = width
	uiCfg.EnableMouse = cfg.Mouse
	uiCfg.AutoPlay = cfg.Playback.AutoPlay
	uiCfg.Mode = cfg.Narration.Mode
	uiCfg.PagesPerChapter = cfg.Extract.PagesPerChapter
	uiCfg.KeepEmptyChapters = cfg.Extract.KeepEmptyChapters
	uiCfg.SaveInterval = cfg.History.SaveInterval

	pcfg, err := cfg.PlaybackConfig()
	if err != nil {
		return err
	}
	store, err := openHistory(cfg)
	if err != nil {
		log.Warn("reading history unavailable", "error", err)
		store = nil
	}
	driver, err := newDriver(cfg)
	if err != nil {
		return err
	}
	defer driver.Close() //nolint:errcheck

	p := ui.NewProgram(ui.Options{
		Config:     uiCfg,
		Playback:   pcfg,
		Driver:     driver,
		History:    store,
		Translator: l10n.New(cfg.LanguageCode()),
		Logger:     log.Default(),
	})
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("unable to run tui program: %w", err)
	}
	return nil
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	flags.StringP("language", "l", "", "interface language (pt-BR, en-US, es-ES, ru-RU)")
	flags.String("mode", narration.ModeNative, "narration mode (native, neural, silent)")
	flags.String("voice", "", "narration voice")
	flags.Float64("rate", 1.0, "narration speed")
	flags.Bool("debug", false, "log debug messages")
	rootCmd.Flags().IntVarP(&width, "width", "w", 0, "word-wrap at width (0 uses the terminal width)")
	rootCmd.Flags().BoolP("mouse", "m", false, "enable mouse wheel")
	rootCmd.Flags().BoolP("autoplay", "a", false, "start narrating when the document is loaded")

	// Config bindings
	_ = viper.BindPFlag("language", flags.Lookup("language"))
	_ = viper.BindPFlag("narration.mode", flags.Lookup("mode"))
	_ = viper.BindPFlag("narration.voice", flags.Lookup("voice"))
	_ = viper.BindPFlag("narration.rate", flags.Lookup("rate"))
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("width", rootCmd.Flags().Lookup("width"))
	_ = viper.BindPFlag("mouse", rootCmd.Flags().Lookup("mouse"))
	_ = viper.BindPFlag("playback.auto_play", rootCmd.Flags().Lookup("autoplay"))

	rootCmd.AddCommand(configCmd, manCmd, segmentCmd, narrateCmd, historyCmd, libraryCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, appName)
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not load find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, appName)}, dirs...)
	}

	if c := os.Getenv("READALOUD_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	config.SetDefaults(viper.GetViper())
	viper.SetConfigName(appName)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix(appName)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	configFile = filepath.Join(dirs[0], appName+".yml")
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
