package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the database's header metadata",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	r, err := openDatabase()
	if err != nil {
		return err
	}
	defer r.Close()

	h, err := r.Info()
	if err != nil {
		return err
	}

	fmt.Printf("uuid: %s\n", h.UUID)
	fmt.Printf("name: %s\n", h.Name)
	fmt.Printf("description: %s\n", h.Description)
	fmt.Printf("last saved by: %s@%s\n", h.LastSaveUser, h.Host)
	fmt.Printf("last saved at: %s\n", h.LastSaved.Format("2006-01-02 15:04:05 MST"))
	return nil
}
