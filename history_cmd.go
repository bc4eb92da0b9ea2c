package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/readaloud/internal/history"
)

var (
	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "List saved reading positions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := historyStore()
			if err != nil {
				return err
			}
			return printHistory(cmd.OutOrStdout(), store.List(), time.Now())
		},
	}

	historyClearCmd = &cobra.Command{
		Use:   "clear [FILE]",
		Short: "Forget the saved position of FILE, or of every document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := historyStore()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				if err := store.Clear(); err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "Cleared reading history.")
				return err
			}

			hash, err := history.ComputeHash(args[0])
			if err != nil {
				return fmt.Errorf("unable to identify document: %w", err)
			}
			if err := store.Delete(hash); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Forgot", args[0])
			return err
		},
	}
)

func init() {
	historyCmd.AddCommand(historyClearCmd)
}

func historyStore() (*history.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := openHistory(cfg)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("reading history is disabled (history.enabled)")
	}
	return store, nil
}

func printHistory(w io.Writer, records []history.Record, now time.Time) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, subtle("No saved positions."))
		return err
	}
	for _, r := range records {
		total := 0
		for _, n := range r.ChapterSentenceCounts {
			total += n
		}
		progress := ""
		if total > 0 {
			progress = fmt.Sprintf(" %d%%", (r.SentenceIndex+1)*100/total)
		}
		_, err := fmt.Fprintf(w, "%s  %s %s\n",
			keyword(r.FileName),
			fmt.Sprintf("sentence %d/%d%s", r.SentenceIndex+1, total, progress),
			subtle(humanize.RelTime(r.UpdatedAt, now, "ago", "from now")),
		)
		if err != nil {
			return err
		}
	}
	return nil
}
