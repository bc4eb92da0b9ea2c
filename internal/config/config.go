// Package config holds the readaloud settings loaded from the config file,
// flags and environment.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/dgnsrekt/readaloud/internal/audio"
	"github.com/dgnsrekt/readaloud/internal/cache"
	"github.com/dgnsrekt/readaloud/internal/extract"
	"github.com/dgnsrekt/readaloud/internal/history"
	"github.com/dgnsrekt/readaloud/internal/l10n"
	"github.com/dgnsrekt/readaloud/narration"
	"github.com/dgnsrekt/readaloud/playback"
)

// Config contains all readaloud settings.
type Config struct {
	// Language of the interface and voice catalog. Empty detects it from the
	// locale.
	Language string `mapstructure:"language" env:"READALOUD_LANGUAGE"`
	Debug    bool   `mapstructure:"debug"    env:"READALOUD_DEBUG"`
	// Width wraps text at this many columns; 0 uses the terminal width.
	Width int `mapstructure:"width" env:"READALOUD_WIDTH"`
	Mouse bool `mapstructure:"mouse" env:"READALOUD_MOUSE"`

	Playback  PlaybackConfig  `mapstructure:"playback"`
	Narration NarrationConfig `mapstructure:"narration"`
	Cache     CacheConfig     `mapstructure:"cache"`
	History   HistoryConfig   `mapstructure:"history"`
	Extract   ExtractConfig   `mapstructure:"extract"`
}

// PlaybackConfig controls the playback controller.
type PlaybackConfig struct {
	// EndPolicy is "loop" or "stop".
	EndPolicy string `mapstructure:"end_policy" env:"READALOUD_END_POLICY"`
	// Estimator is "sentence" or "words".
	Estimator      string  `mapstructure:"estimator"        env:"READALOUD_ESTIMATOR"`
	WordsPerMinute float64 `mapstructure:"words_per_minute" env:"READALOUD_WPM"`
	AutoPlay       bool    `mapstructure:"auto_play"        env:"READALOUD_AUTO_PLAY"`
}

// NarrationConfig selects and configures the speech driver.
type NarrationConfig struct {
	// Mode is "native", "neural" or "silent".
	Mode  string  `mapstructure:"mode"  env:"READALOUD_MODE"`
	Voice string  `mapstructure:"voice" env:"READALOUD_VOICE"`
	Rate  float64 `mapstructure:"rate"  env:"READALOUD_RATE"`
	// Command is the native synthesizer; empty picks the first one found.
	Command string `mapstructure:"command" env:"READALOUD_SPEECH_COMMAND"`
	// Voices maps catalog voices to native synthesizer voices.
	Voices map[string]string `mapstructure:"voices"`

	Piper PiperConfig `mapstructure:"piper"`
}

// PiperConfig configures neural narration.
type PiperConfig struct {
	Binary     string        `mapstructure:"binary"      env:"READALOUD_PIPER_BINARY"`
	Model      string        `mapstructure:"model"       env:"READALOUD_PIPER_MODEL"`
	SampleRate int           `mapstructure:"sample_rate" env:"READALOUD_PIPER_SAMPLE_RATE"`
	Timeout    time.Duration `mapstructure:"timeout"     env:"READALOUD_PIPER_TIMEOUT"`
}

// CacheConfig configures the neural audio cache.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled" env:"READALOUD_CACHE_ENABLED"`
	Dir     string `mapstructure:"dir"     env:"READALOUD_CACHE_DIR"`
	// MaxSize is the disk budget in megabytes.
	MaxSize     int           `mapstructure:"max_size"    env:"READALOUD_CACHE_MAX_SIZE"`
	MaxAge      time.Duration `mapstructure:"max_age"     env:"READALOUD_CACHE_MAX_AGE"`
	Compression int           `mapstructure:"compression" env:"READALOUD_CACHE_COMPRESSION"`
}

// HistoryConfig configures saved reading positions.
type HistoryConfig struct {
	Enabled      bool          `mapstructure:"enabled"       env:"READALOUD_HISTORY_ENABLED"`
	Path         string        `mapstructure:"path"          env:"READALOUD_HISTORY_PATH"`
	SaveInterval time.Duration `mapstructure:"save_interval" env:"READALOUD_HISTORY_SAVE_INTERVAL"`
}

// ExtractConfig configures document extraction.
type ExtractConfig struct {
	PagesPerChapter   int  `mapstructure:"pages_per_chapter"   env:"READALOUD_PAGES_PER_CHAPTER"`
	KeepEmptyChapters bool `mapstructure:"keep_empty_chapters" env:"READALOUD_KEEP_EMPTY_CHAPTERS"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Playback: PlaybackConfig{
			EndPolicy:      playback.EndLoop.String(),
			Estimator:      "sentence",
			WordsPerMinute: playback.DefaultWordsPerMinute,
		},
		Narration: NarrationConfig{
			Mode: narration.ModeNative,
			Rate: 1.0,
			Piper: PiperConfig{
				Binary:     "piper",
				SampleRate: audio.DefaultFormat().SampleRate,
				Timeout:    narration.DefaultSynthesisTimeout,
			},
		},
		Cache: CacheConfig{
			Enabled:     true,
			MaxSize:     512,
			MaxAge:      30 * 24 * time.Hour,
			Compression: 3,
		},
		History: HistoryConfig{
			Enabled:      true,
			SaveInterval: history.DefaultSaveInterval,
		},
		Extract: ExtractConfig{
			PagesPerChapter: extract.DefaultPagesPerChapter,
		},
	}
}

// SetDefaults registers the defaults with v so that every key is known to
// Unmarshal and AutomaticEnv.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("language", d.Language)
	v.SetDefault("debug", d.Debug)
	v.SetDefault("width", d.Width)
	v.SetDefault("mouse", d.Mouse)
	v.SetDefault("playback.end_policy", d.Playback.EndPolicy)
	v.SetDefault("playback.estimator", d.Playback.Estimator)
	v.SetDefault("playback.words_per_minute", d.Playback.WordsPerMinute)
	v.SetDefault("playback.auto_play", d.Playback.AutoPlay)
	v.SetDefault("narration.mode", d.Narration.Mode)
	v.SetDefault("narration.voice", d.Narration.Voice)
	v.SetDefault("narration.rate", d.Narration.Rate)
	v.SetDefault("narration.command", d.Narration.Command)
	v.SetDefault("narration.piper.binary", d.Narration.Piper.Binary)
	v.SetDefault("narration.piper.model", d.Narration.Piper.Model)
	v.SetDefault("narration.piper.sample_rate", d.Narration.Piper.SampleRate)
	v.SetDefault("narration.piper.timeout", d.Narration.Piper.Timeout)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.max_size", d.Cache.MaxSize)
	v.SetDefault("cache.max_age", d.Cache.MaxAge)
	v.SetDefault("cache.compression", d.Cache.Compression)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("history.save_interval", d.History.SaveInterval)
	v.SetDefault("extract.pages_per_chapter", d.Extract.PagesPerChapter)
	v.SetDefault("extract.keep_empty_chapters", d.Extract.KeepEmptyChapters)
}

// Load decodes the settings held by v over the defaults, applies READALOUD_*
// environment overrides, expands paths and validates the result.
func Load(v *viper.Viper) (Config, error) {
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to parse environment: %w", err)
	}

	for _, p := range []*string{&cfg.Narration.Piper.Model, &cfg.Narration.Piper.Binary, &cfg.Cache.Dir, &cfg.History.Path} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return cfg, fmt.Errorf("unable to expand %q: %w", *p, err)
		}
		*p = expanded
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration and normalizes enumerations to lower
// case.
func (c *Config) Validate() error {
	if c.Language != "" {
		if _, ok := l10n.MatchSupported(c.Language); !ok {
			return fmt.Errorf("unsupported language %q", c.Language)
		}
	}
	if c.Width < 0 {
		return fmt.Errorf("width must not be negative, got %d", c.Width)
	}

	c.Playback.EndPolicy = strings.ToLower(c.Playback.EndPolicy)
	if _, err := playback.ParseEndPolicy(c.Playback.EndPolicy); err != nil {
		return err
	}
	c.Playback.Estimator = strings.ToLower(c.Playback.Estimator)
	if _, err := playback.ParseEstimator(c.Playback.Estimator, c.Playback.WordsPerMinute); err != nil {
		return err
	}
	if c.Playback.WordsPerMinute < 50 || c.Playback.WordsPerMinute > 500 {
		return fmt.Errorf("words_per_minute must be between 50 and 500, got %v", c.Playback.WordsPerMinute)
	}

	c.Narration.Mode = strings.ToLower(c.Narration.Mode)
	if !slices.Contains(narration.Modes(), c.Narration.Mode) {
		return fmt.Errorf("invalid narration mode %q: must be one of %v", c.Narration.Mode, narration.Modes())
	}
	if c.Narration.Rate < 0.25 || c.Narration.Rate > 4.0 {
		return fmt.Errorf("rate must be between 0.25 and 4.0, got %v", c.Narration.Rate)
	}
	if c.Narration.Mode == narration.ModeNeural {
		if err := c.Narration.Piper.Validate(); err != nil {
			return fmt.Errorf("piper config: %w", err)
		}
	}

	if c.Cache.MaxSize < 1 || c.Cache.MaxSize > 10000 {
		return fmt.Errorf("cache max_size must be between 1 and 10000 MB, got %d", c.Cache.MaxSize)
	}
	if c.Cache.Compression < 0 || c.Cache.Compression > 22 {
		return fmt.Errorf("cache compression must be between 0 and 22, got %d", c.Cache.Compression)
	}
	if c.Extract.PagesPerChapter < 1 {
		return fmt.Errorf("pages_per_chapter must be at least 1, got %d", c.Extract.PagesPerChapter)
	}
	return nil
}

// Validate checks the Piper settings.
func (c *PiperConfig) Validate() error {
	if c.Binary == "" {
		return fmt.Errorf("piper binary cannot be empty")
	}
	if c.Model == "" {
		return fmt.Errorf("piper model cannot be empty")
	}
	if err := (audio.Format{SampleRate: c.SampleRate, Channels: 1, BitDepth: 16}).Validate(); err != nil {
		return err
	}
	if c.Timeout < time.Second {
		return fmt.Errorf("timeout must be at least 1 second, got %v", c.Timeout)
	}
	return nil
}

// LanguageCode returns the configured language, or the one detected from the
// locale.
func (c *Config) LanguageCode() string {
	if c.Language == "" {
		return l10n.Detect()
	}
	return l10n.Match(c.Language)
}

// PlaybackConfig returns the controller configuration.
func (c *Config) PlaybackConfig() (playback.Config, error) {
	policy, err := playback.ParseEndPolicy(c.Playback.EndPolicy)
	if err != nil {
		return playback.Config{}, err
	}
	estimator, err := playback.ParseEstimator(c.Playback.Estimator, c.Playback.WordsPerMinute)
	if err != nil {
		return playback.Config{}, err
	}
	return playback.Config{
		EndPolicy: policy,
		Estimator: estimator,
		Voice:     c.Narration.Voice,
		Rate:      c.Narration.Rate,
	}, nil
}

// NarrationConfig returns the driver configuration. cacheDir is used when no
// cache directory is configured.
func (c *Config) NarrationConfig(cacheDir string) narration.Config {
	nc := narration.Config{
		Mode:           c.Narration.Mode,
		WordsPerMinute: c.Playback.WordsPerMinute,
		Command:        c.Narration.Command,
		Voices:         c.Narration.Voices,
		PiperBinary:    c.Narration.Piper.Binary,
		Model:          c.Narration.Piper.Model,
		Timeout:        c.Narration.Piper.Timeout,
		SampleRate:     c.Narration.Piper.SampleRate,
	}
	if c.Cache.Enabled {
		dir := c.Cache.Dir
		if dir == "" {
			dir = cacheDir
		}
		nc.Cache = c.CacheConfig(dir)
	}
	return nc
}

// CacheConfig returns the audio cache configuration rooted at dir.
func (c *Config) CacheConfig(dir string) cache.Config {
	cc := cache.DefaultConfig(dir)
	cc.DiskCapacity = int64(c.Cache.MaxSize) * 1024 * 1024
	cc.MaxAge = c.Cache.MaxAge
	cc.CompressionLevel = c.Cache.Compression
	return cc
}
