package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"git.0xdad.com/tblyler/meditrackr/medication"
)

var (
	logPain     int
	logEmotions int
	logSymptoms string
	logNotes    string
	logClear    []string
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Record pain, mood and symptoms for a day",
}

var logSetCmd = &cobra.Command{
	Use:   "set [YYYY-MM-DD]",
	Short: "Update the log for a day, today by default",
	Long: fmt.Sprintf(`Updates the daily log. Only the flags that are given change,
the rest of the day's log is kept. Levels run from 0 to %d.

--clear unsets fields (%s) before the other flags are applied.`, medication.MaxLevel, strings.Join(medication.DailyLogFields, ", ")),
	Args: cobra.MaximumNArgs(1),
	RunE: runLogSet,
}

var logGetCmd = &cobra.Command{
	Use:   "get [YYYY-MM-DD]",
	Short: "Show the log for a day, today by default",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogGet,
}

var logListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every logged day",
	RunE:  runLogList,
}

func init() {
	logSetCmd.Flags().IntVar(&logPain, "pain", 0, "Pain level")
	logSetCmd.Flags().IntVar(&logEmotions, "emotions", 0, "Emotional level")
	logSetCmd.Flags().StringVar(&logSymptoms, "symptoms", "", "Symptoms")
	logSetCmd.Flags().StringVar(&logNotes, "notes", "", "Notes")
	logSetCmd.Flags().StringSliceVar(&logClear, "clear", nil, "Fields to unset")

	logCmd.AddCommand(logSetCmd)
	logCmd.AddCommand(logGetCmd)
	logCmd.AddCommand(logListCmd)
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}

	return args[0]
}

func runLogSet(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	date, err := dateArg(optionalArg(args))
	if err != nil {
		return err
	}

	update := medication.DailyLog{Symptoms: logSymptoms, Notes: logNotes}
	if cmd.Flags().Changed("pain") {
		update.Pain = medication.Level(logPain)
	}

	if cmd.Flags().Changed("emotions") {
		update.Emotions = medication.Level(logEmotions)
	}

	log, err := database.UpdateDailyLog(user, date, update, logClear...)
	if err != nil {
		return err
	}

	printDailyLog(cmd, date.String(), log)
	return nil
}

func runLogGet(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	date, err := dateArg(optionalArg(args))
	if err != nil {
		return err
	}

	log, err := database.GetDailyLog(user, date)
	if err != nil {
		return err
	}

	if log.IsEmpty() {
		fmt.Fprintf(cmd.OutOrStdout(), "nothing logged on %s\n", date)
		return nil
	}

	printDailyLog(cmd, date.String(), log)
	return nil
}

func runLogList(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	logs, err := database.ListDailyLogs(user)
	if err != nil {
		return err
	}

	dates := make([]string, 0, len(logs))
	for date := range logs {
		dates = append(dates, date)
	}

	sort.Strings(dates)

	for _, date := range dates {
		printDailyLog(cmd, date, logs[date])
	}

	return nil
}

func level(l *int) string {
	if l == nil {
		return "-"
	}

	return fmt.Sprintf("%d/%d", *l, medication.MaxLevel)
}

func printDailyLog(cmd *cobra.Command, date string, log medication.DailyLog) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s\tpain %s\temotions %s\t%s\t%s\n", date, level(log.Pain), level(log.Emotions), log.Symptoms, log.Notes)
}
