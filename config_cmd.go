package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/x/editor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultConfig = `# interface language: pt-BR, en-US, es-ES or ru-RU (empty detects the locale)
language: ""
# word-wrap at width (0 uses the terminal width)
width: 0
# mouse support
mouse: false
# write debug messages to the log file
debug: false

playback:
  # what to do after the last sentence: loop or stop
  end_policy: "loop"
  # timeline estimate: sentence (5s each) or words
  estimator: "sentence"
  words_per_minute: 160
  # start narrating as soon as the document is loaded
  auto_play: false

narration:
  # native (system synthesizer), neural (Piper) or silent
  mode: "native"
  voice: ""
  rate: 1.0
  # native synthesizer, empty picks the first of espeak-ng, espeak, say, spd-say
  command: ""
  # map catalog voices to native voices
  # voices:
  #   kore: "pt-br"
  piper:
    binary: "piper"
    # model: "~/.local/share/piper/pt_BR-faber-medium.onnx"
    sample_rate: 22050
    timeout: "30s"

cache:
  # cache synthesized neural audio
  enabled: true
  # dir: "~/.cache/readaloud/audio"
  # disk budget in MB
  max_size: 512
  max_age: "720h"
  # zstd level, 0 disables compression
  compression: 3

history:
  # remember where each document was left off
  enabled: true
  # path: "~/.local/share/readaloud/history.json"
  save_interval: "2s"

extract:
  # PDF pages per chapter
  pages_per_chapter: 10
  keep_empty_chapters: false
`

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the readaloud config file",
	Long:    paragraph(fmt.Sprintf("\n%s the readaloud config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("readaloud config\nreadaloud config --config path/to/config.yml"),
	Args:    cobra.NoArgs,
	RunE: func(*cobra.Command, []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd("readaloud", configFile)
		if err != nil {
			return fmt.Errorf("unable to set config file: %w", err)
		}
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		if err := c.Run(); err != nil {
			return fmt.Errorf("unable to run command: %w", err)
		}

		fmt.Println("Wrote config file to:", configFile)
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = viper.GetViper().ConfigFileUsed()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil { //nolint:gosec
			return fmt.Errorf("could not write configuration file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("'%s' is not a supported configuration type: use '%s' or '%s'", ext, ".yaml", ".yml")
	}

	if _, err := os.Stat(configFile); errors.Is(err, fs.ErrNotExist) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return fmt.Errorf("unable create directory: %w", err)
		}

		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("unable to create config file: %w", err)
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return fmt.Errorf("unable to write config file: %w", err)
		}
	} else if err != nil { // some other error occurred
		return fmt.Errorf("unable to stat config file: %w", err)
	}
	return nil
}
