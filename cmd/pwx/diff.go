package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/equalsraf/pwx/pws3"
)

var diffCmd = &cobra.Command{
	Use:   "diff <other-database>",
	Short: "Compare this database against another by record UUID",
	Args:  cobra.ExactArgs(1),
	RunE:  runDiff,
}

// openOther opens a second database at path, reusing --database's password
// resolution unless PWX_PASSWORD2 is set, to compare two databases
// protected by different passphrases.
func openOther(path string) (*pws3.Reader, error) {
	password, ok := os.LookupEnv("PWX_PASSWORD2")
	if !ok {
		password, err := resolvePassword()
		if err != nil {
			return nil, err
		}
		defer func() {
			for i := range password {
				password[i] = 0
			}
		}()
		return pws3.Open(path, password)
	}
	return pws3.Open(path, []byte(password))
}

func loadAllRecords(r *pws3.Reader) (map[string]pws3.Record, error) {
	it, err := r.Records()
	if err != nil {
		return nil, err
	}
	out := make(map[string]pws3.Record)
	for {
		rec, err := it.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		uuid := fieldValue(rec, pws3.TypeUUID)
		if _, exists := out[uuid]; !exists {
			out[uuid] = rec
		}
	}
}

func recordsDiffer(a, b pws3.Record) bool {
	fields := func(rec pws3.Record) map[byte][]byte {
		m := make(map[byte][]byte)
		for _, f := range rec {
			if _, exists := m[f.Type]; !exists {
				m[f.Type] = f.Value
			}
		}
		return m
	}
	fa, fb := fields(a), fields(b)
	if len(fa) != len(fb) {
		return true
	}
	for typ, va := range fa {
		vb, ok := fb[typ]
		if !ok || !bytes.Equal(va, vb) {
			return true
		}
	}
	return false
}

func runDiff(cmd *cobra.Command, args []string) error {
	r1, err := openDatabase()
	if err != nil {
		return err
	}
	defer r1.Close()
	if err := r1.Authenticate(); err != nil {
		return err
	}

	r2, err := openOther(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer r2.Close()
	if err := r2.Authenticate(); err != nil {
		return fmt.Errorf("authenticating %s: %w", args[0], err)
	}

	left, err := loadAllRecords(r1)
	if err != nil {
		return err
	}
	right, err := loadAllRecords(r2)
	if err != nil {
		return err
	}

	out := newStdoutWriter()
	defer out.Flush()

	for uuid, rec := range left {
		other, ok := right[uuid]
		switch {
		case !ok:
			fmt.Fprintf(out, "only in this database: %s %q\n", uuid, fieldValue(rec, pws3.TypeTitle))
		case recordsDiffer(rec, other):
			fmt.Fprintf(out, "changed: %s %q\n", uuid, fieldValue(rec, pws3.TypeTitle))
		}
	}
	for uuid, rec := range right {
		if _, ok := left[uuid]; !ok {
			fmt.Fprintf(out, "only in %s: %s %q\n", args[0], uuid, fieldValue(rec, pws3.TypeTitle))
		}
	}
	return nil
}
