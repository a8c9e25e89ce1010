package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/equalsraf/pwx/pws3"
)

var listCmd = &cobra.Command{
	Use:   "list [keyword]",
	Short: "List records whose title, group, username, or URL match keyword",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	var keyword string
	if len(args) == 1 {
		keyword = args[0]
	}

	r, err := openDatabase()
	if err != nil {
		return err
	}
	defer r.Close()

	it, err := r.Records()
	if err != nil {
		return err
	}

	out := newStdoutWriter()
	defer out.Flush()

	for {
		rec, err := it.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if !keywordMatches(rec, keyword) {
			continue
		}
		fmt.Fprintf(out, "%s\t%s\t%s\n", renderRecordUUID(rec), fieldValue(rec, pws3.TypeGroup), fieldValue(rec, pws3.TypeTitle))
	}
}
