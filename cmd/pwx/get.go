package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/equalsraf/pwx/pws3"
)

var errNoMatch = errors.New("no record matched the given keyword")

var getCmd = &cobra.Command{
	Use:   "get <keyword>",
	Short: "Print every field of the first record matching keyword",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	keyword := args[0]

	r, err := openDatabase()
	if err != nil {
		return err
	}
	defer r.Close()

	it, err := r.Records()
	if err != nil {
		return err
	}

	for {
		rec, err := it.Next()
		if errors.Is(err, io.EOF) {
			return errNoMatch
		}
		if err != nil {
			return err
		}
		if !keywordMatches(rec, keyword) {
			continue
		}
		out := newStdoutWriter()
		defer out.Flush()
		for _, f := range rec {
			name := f.Name()
			if name == "" {
				name = fmt.Sprintf("type-%d", f.Type)
			}
			fmt.Fprintf(out, "%s: %s\n", name, fieldString(f))
		}
		return nil
	}
}

func fieldString(f pws3.Field) string {
	if f.Type == pws3.TypeUUID {
		if longUUIDFlag {
			return renderRecordUUID(pws3.Record{f})
		}
	}
	return f.String()
}
