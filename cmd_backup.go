package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"git.0xdad.com/tblyler/meditrackr/backup"
)

var (
	exportPath string
	importYes  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write everything the user tracks to a JSON backup",
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace everything the user tracks with a JSON backup",
	Long: `Reads a backup written by export and replaces the user's medications,
pharmacies, providers, time periods and daily logs with its contents.
Older backups with numeric ids and string times are accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportPath, "output", "o", "", "File to write (default: stdout)")
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "Do not ask before replacing existing data")
}

func runExport(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	b, err := backup.Export(database, user, now())
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportPath != "" {
		f, err := os.OpenFile(exportPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create backup file %s: %w", exportPath, err)
		}

		defer f.Close()
		w = f
	}

	if err = backup.Write(w, b); err != nil {
		return err
	}

	logger.Info("exported backup",
		zap.String("user", user.Name),
		zap.Int("medications", len(b.Medications)),
		zap.String("path", exportPath),
	)

	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open backup file %s: %w", args[0], err)
	}

	defer f.Close()

	b, err := backup.Read(f)
	if err != nil {
		return err
	}

	if !importYes {
		answer, err := prompt(cmd, fmt.Sprintf("replace all data for %s with %d medications from %s? [y/N]", user.Name, len(b.Medications), args[0]))
		if err != nil {
			return err
		}

		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			return fmt.Errorf("import cancelled")
		}
	}

	if err = backup.Import(database, user, b); err != nil {
		return err
	}

	logger.Info("imported backup",
		zap.String("user", user.Name),
		zap.Int("medications", len(b.Medications)),
		zap.Int("daily_logs", len(b.DailyLogs)),
	)

	return nil
}
