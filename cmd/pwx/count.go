package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of records in the database",
	Args:  cobra.NoArgs,
	RunE:  runCount,
}

func runCount(cmd *cobra.Command, args []string) error {
	r, err := openDatabase()
	if err != nil {
		return err
	}
	defer r.Close()

	it, err := r.Records()
	if err != nil {
		return err
	}

	var n int
	for {
		_, err := it.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		n++
	}
	fmt.Println(n)
	return nil
}
