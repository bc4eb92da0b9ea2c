package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/muesli/gitcha"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/readaloud/internal/extract"
)

var (
	libraryAll bool

	libraryCmd = &cobra.Command{
		Use:   "library [DIR]",
		Short: "Find readable documents",
		Long: paragraph(fmt.Sprintf("\nList the documents under DIR that readaloud can open: %s. Files ignored by git are skipped unless --all is given.",
			keyword(strings.Join(extract.SupportedFormats(), ", ")))),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return listLibrary(cmd.OutOrStdout(), dir, libraryAll)
		},
	}
)

func init() {
	libraryCmd.Flags().BoolVarP(&libraryAll, "all", "a", false, "include files ignored by git")
}

func documentPatterns() []string {
	exts := extract.Extensions()
	patterns := make([]string, len(exts))
	for i, e := range exts {
		patterns[i] = "*" + e
	}
	return patterns
}

func listLibrary(w io.Writer, dir string, all bool) error {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	var ch chan gitcha.SearchResult
	if all {
		ch, err = gitcha.FindAllFilesExcept(dir, documentPatterns(), nil)
	} else {
		ch, err = gitcha.FindFilesExcept(dir, documentPatterns(), nil)
	}
	if err != nil {
		return fmt.Errorf("unable to search %s: %w", dir, err)
	}

	found := 0
	for res := range ch {
		found++
		rel, err := filepath.Rel(dir, res.Path)
		if err != nil {
			rel = res.Path
		}
		if _, err := fmt.Fprintf(w, "%s  %s\n", rel,
			subtle(humanize.Bytes(uint64(max(res.Info.Size(), 0)))+" · "+humanize.Time(res.Info.ModTime())), //nolint:gosec
		); err != nil {
			return err
		}
	}
	if found == 0 {
		_, err := fmt.Fprintln(w, subtle("No documents found."))
		return err
	}
	return nil
}
