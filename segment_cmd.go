package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/dgnsrekt/readaloud/internal/config"
	"github.com/dgnsrekt/readaloud/internal/extract"
	"github.com/dgnsrekt/readaloud/internal/textutil"
	"github.com/dgnsrekt/readaloud/playback"
	"github.com/dgnsrekt/readaloud/segment"
)

var (
	segmentJSON  bool
	segmentStats bool

	segmentCmd = &cobra.Command{
		Use:   "segment FILE|-",
		Short: "Print the sentences of a document",
		Long: paragraph(fmt.Sprintf("\nSplit a document into %s, one per line, with a blank line between paragraphs. Use - to read plain text from stdin.",
			keyword("sentences"))),
		Example: paragraph("readaloud segment book.epub\ncat notes.txt | readaloud segment - --stats"),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			doc, err := loadSource(cfg, args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case segmentJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(doc)
			case segmentStats:
				pcfg, err := cfg.PlaybackConfig()
				if err != nil {
					return err
				}
				return printStats(out, doc, pcfg)
			default:
				return printSentences(out, doc)
			}
		},
	}
)

func init() {
	segmentCmd.Flags().BoolVar(&segmentJSON, "json", false, "print the segmented document as JSON")
	segmentCmd.Flags().BoolVar(&segmentStats, "stats", false, "print counts and narration estimates")
	segmentCmd.MarkFlagsMutuallyExclusive("json", "stats")
}

// loadSource reads a document file, or plain text from stdin for "-".
func loadSource(cfg config.Config, arg string, stdin io.Reader) (*segment.Document, error) {
	if arg != "-" {
		return extract.LoadWith(arg, extract.Options{
			PagesPerChapter:   cfg.Extract.PagesPerChapter,
			KeepEmptyChapters: cfg.Extract.KeepEmptyChapters,
		})
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("unable to read from stdin: %w", err)
	}
	return segment.New(norm.NFC.String(string(b))), nil
}

func printSentences(w io.Writer, doc *segment.Document) error {
	for i, p := range doc.Paragraphs() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		for _, s := range p.Sentences {
			if _, err := fmt.Fprintln(w, s); err != nil {
				return err
			}
		}
	}
	return nil
}

func printStats(w io.Writer, doc *segment.Document, pcfg playback.Config) error {
	total := pcfg.Estimator.Duration(doc, doc.Len())
	if pcfg.Rate > 0 {
		total = time.Duration(float64(total) / pcfg.Rate)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sentences:  %d\n", doc.Len())
	fmt.Fprintf(&b, "Paragraphs: %d\n", len(doc.Paragraphs()))
	fmt.Fprintf(&b, "Words:      %s\n", textutil.HumanWords(doc.WordCount()))
	fmt.Fprintf(&b, "Estimate:   %s at %.1fx\n", textutil.FormatClock(total), pcfg.Rate)
	if n := doc.ChapterCount(); n > 0 {
		fmt.Fprintf(&b, "Chapters:   %d\n", n)
		for ordinal := 1; ordinal <= n; ordinal++ {
			title := doc.ChapterTitle(ordinal)
			if title == "" {
				title = subtle("untitled")
			}
			fmt.Fprintf(&b, "  %3d  %5d  %s\n", ordinal, doc.ChapterSentenceCounts[ordinal-1], title)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
