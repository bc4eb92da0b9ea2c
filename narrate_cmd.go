package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/readaloud/internal/history"
	"github.com/dgnsrekt/readaloud/internal/l10n"
	"github.com/dgnsrekt/readaloud/playback"
	"github.com/dgnsrekt/readaloud/segment"
)

var (
	narrateFrom int

	narrateCmd = &cobra.Command{
		Use:   "narrate FILE",
		Short: "Narrate a document without the reader interface",
		Long: paragraph(fmt.Sprintf("\nNarrate a document from the terminal, printing %s as it is spoken. Interrupt with ctrl+c to pause; the position is saved.",
			keyword("each sentence"))),
		Example: paragraph("readaloud narrate book.txt --from 120\nreadaloud narrate notes.md --mode silent"),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runNarrate(ctx, args[0], cmd.OutOrStdout())
		},
	}
)

func init() {
	narrateCmd.Flags().IntVar(&narrateFrom, "from", 0, "start at this sentence (1-based); 0 resumes the saved position")
}

func runNarrate(ctx context.Context, path string, w io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if path == "-" {
		return errors.New("narrate reads from a file, not stdin")
	}
	doc, err := loadSource(cfg, path, nil)
	if err != nil {
		return err
	}
	if doc.Len() == 0 {
		_, err := fmt.Fprintln(w, l10n.New(cfg.LanguageCode()).T(l10n.KeyEmptyMessage))
		return err
	}

	store, err := openHistory(cfg)
	if err != nil {
		log.Warn("reading history unavailable", "error", err)
		store = nil
	}
	hash, err := history.ComputeHash(path)
	if err != nil {
		return fmt.Errorf("unable to identify document: %w", err)
	}

	pcfg, err := cfg.PlaybackConfig()
	if err != nil {
		return err
	}
	pcfg.Logger = log.Default()
	driver, err := newDriver(cfg)
	if err != nil {
		return err
	}
	defer driver.Close() //nolint:errcheck

	c := playback.NewController(driver, pcfg)
	c.LoadDocument(doc, playback.LoadOptions{AutoplayReady: true})
	if err := c.Seek(startIndex(store, hash, doc, narrateFrom)); err != nil {
		return err
	}

	loopErr := narrateLoop(ctx, c, driver.Events(), w)
	if store != nil {
		e := history.Entry{
			FileName:              filepath.Base(path),
			ChapterSentenceCounts: doc.ChapterSentenceCounts,
			TotalWords:            doc.WordCount(),
			SentenceIndex:         max(c.Index(), 0),
			Language:              cfg.LanguageCode(),
			Voice:                 c.Voice(),
			Mode:                  cfg.Narration.Mode,
			Rate:                  c.Rate(),
		}
		if err := store.Put(hash, e); err != nil {
			log.Error("failed to save position", "error", err)
		}
	}
	if ctx.Err() != nil && loopErr == nil {
		_, _ = fmt.Fprintln(w, subtle(fmt.Sprintf("paused at sentence %d of %d", c.Index()+1, doc.Len())))
	}
	return loopErr
}

// startIndex picks the first sentence: the --from flag, else the saved
// position when it still matches the document.
func startIndex(store *history.Store, hash string, doc *segment.Document, from int) int {
	if from > 0 {
		return from - 1
	}
	if store == nil {
		return 0
	}
	if e, ok := store.Get(hash); ok && e.Matches(doc) {
		return e.SentenceIndex
	}
	return 0
}

// narrateLoop plays from the controller's current sentence until the end of
// the document or until ctx is done, printing sentences as they start.
func narrateLoop(ctx context.Context, c *playback.Controller, events <-chan playback.Event, w io.Writer) error {
	doc := c.Document()
	last := -1
	printCurrent := func() {
		if i := c.Index(); i != last && i >= 0 {
			last = i
			_, _ = fmt.Fprintf(w, "%s %s\n", subtle(fmt.Sprintf("[%d/%d]", i+1, doc.Len())), doc.Sentence(i))
		}
	}

	printCurrent()
	if err := c.Play(); err != nil {
		return err
	}
	for c.State() == playback.StatePlaying {
		select {
		case <-ctx.Done():
			return c.Pause()
		case ev := <-events:
			if err := c.HandleEvent(ev); err != nil {
				return err
			}
		}
		if c.State() == playback.StatePlaying {
			printCurrent()
		}
	}
	return nil
}
