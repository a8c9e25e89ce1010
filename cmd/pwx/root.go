// Package main implements pwx, a read-only command-line client for PWS3
// databases built on top of the pws3 package.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/equalsraf/pwx/internal/log"
	"github.com/equalsraf/pwx/pws3"
)

var (
	databaseFlag string
	longUUIDFlag bool
	verboseFlag  int
)

var rootCmd = &cobra.Command{
	Use:   "pwx",
	Short: "Read-only inspector for Password Safe v3 (.psafe3) databases",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&databaseFlag, "database", "f", "", "path to the .psafe3 database (default: $PWX_DATABASE or $HOME/.pwsafe/pwsafe.psafe3)")
	rootCmd.PersistentFlags().BoolVar(&longUUIDFlag, "long", false, "render UUIDs as base58 instead of hyphenated hex")
	rootCmd.PersistentFlags().CountVarP(&verboseFlag, "verbose", "v", "increase log verbosity (repeatable)")

	rootCmd.AddCommand(listCmd, getCmd, countCmd, infoCmd, diffCmd)
}

// Execute runs the command tree. Called once from main.main.
func Execute() {
	cobra.OnInitialize(func() {
		if verboseFlag > 0 {
			level := log.LevelWarning + log.Level(verboseFlag)
			if level > log.LevelTrace {
				level = log.LevelTrace
			}
			log.Log = log.NewConsoleLogger(level)
		}
	})
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveDatabasePath applies the --database flag, then PWX_DATABASE, then
// the default Password Safe install location, in that order.
func resolveDatabasePath() (string, error) {
	if databaseFlag != "" {
		return databaseFlag, nil
	}
	if env := os.Getenv("PWX_DATABASE"); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("no --database given and could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".pwsafe", "pwsafe.psafe3"), nil
}

// resolvePassword reads PWX_PASSWORD if set, otherwise prompts on the
// terminal without echoing input.
func resolvePassword() ([]byte, error) {
	if env, ok := os.LookupEnv("PWX_PASSWORD"); ok {
		return []byte(env), nil
	}
	fmt.Fprint(os.Stderr, "Password: ")
	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	return pass, nil
}

// openDatabase resolves the path and password, opens the database, and
// verifies the trailer HMAC before returning it. Callers own the returned
// Reader and must Close it.
func openDatabase() (*pws3.Reader, error) {
	path, err := resolveDatabasePath()
	if err != nil {
		return nil, err
	}
	password, err := resolvePassword()
	if err != nil {
		return nil, err
	}

	r, err := pws3.Open(path, password)
	for i := range password {
		password[i] = 0
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if err := r.Authenticate(); err != nil {
		r.Close()
		return nil, fmt.Errorf("authenticating %s: %w", path, err)
	}
	return r, nil
}

// newStdoutWriter wraps os.Stdout in a block-buffered writer so CLI output
// from a large database does not make one syscall per record; callers
// must Flush it.
func newStdoutWriter() *bufio.Writer {
	return bufio.NewWriter(os.Stdout)
}
