package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"git.0xdad.com/tblyler/meditrackr/medication"
	"git.0xdad.com/tblyler/meditrackr/schedule"
)

var (
	takeDate string

	adherencePreset string
	adherenceStart  string
	adherenceEnd    string
	adherenceMed    string
)

var takeCmd = &cobra.Command{
	Use:   "take [medication] [HH:MM]",
	Short: "Mark a dose taken, or untaken when it already was",
	Long: `Toggles the taken state of one dose. The time may be left out when the
medication has a single time slot, which is how as-needed doses are taken.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runTake,
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule [YYYY-MM-DD]",
	Short: "Show the doses due on a date, today by default",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSchedule,
}

var adherenceCmd = &cobra.Command{
	Use:   "adherence",
	Short: "Show the percentage of scheduled doses taken",
	Long: `Counts every scheduled dose between the start and end dates, both
included, and how many of them were marked taken. As-needed medications
are never counted.

Ranges come from --preset (` + strings.Join(schedule.PresetNames(), ", ") + `)
or from --start and --end.`,
	RunE: runAdherence,
}

func init() {
	takeCmd.Flags().StringVar(&takeDate, "date", "", "Date of the dose, YYYY-MM-DD (default: today)")

	adherenceCmd.Flags().StringVar(&adherencePreset, "preset", schedule.DefaultPreset, "Named range ending today")
	adherenceCmd.Flags().StringVar(&adherenceStart, "start", "", "First day, YYYY-MM-DD")
	adherenceCmd.Flags().StringVar(&adherenceEnd, "end", "", "Last day, YYYY-MM-DD (default: today)")
	adherenceCmd.Flags().StringVar(&adherenceMed, "medication", "", "Show the day by day history of one medication")
}

func runTake(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	date, err := dateArg(takeDate)
	if err != nil {
		return err
	}

	m, err := database.FindMedication(user, args[0])
	if err != nil {
		return err
	}

	clock, err := doseClock(m, args[1:])
	if err != nil {
		return err
	}

	taken, err := database.ToggleTaken(user, m.ID, date, clock)
	if err != nil {
		return err
	}

	logger.Info("toggled dose",
		zap.String("user", user.Name),
		zap.String("medication", m.Name),
		zap.Stringer("date", date),
		zap.String("time", clock),
		zap.Bool("taken", taken),
	)

	state := "taken"
	if !taken {
		state = "not taken"
	}

	when := clock
	if when == "" {
		when = "as needed"
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s on %s: %s\n", m.Name, when, date, state)

	return nil
}

// doseClock picks the slot time named in args, or the only slot when args is empty
func doseClock(m *medication.Medication, args []string) (string, error) {
	if len(args) == 0 {
		if len(m.Times) != 1 {
			return "", fmt.Errorf("%s has %d times, name the one that was taken", m.Name, len(m.Times))
		}

		return m.Times[0].Time, nil
	}

	clock := args[0]
	if normalized, err := medication.NormalizeClock(clock); err == nil {
		clock = normalized
	}

	if _, ok := m.Slot(clock); !ok {
		return "", fmt.Errorf("%s is not taken at %s", m.Name, args[0])
	}

	return clock, nil
}

func runSchedule(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	var value string
	if len(args) > 0 {
		value = args[0]
	}

	date, err := dateArg(value)
	if err != nil {
		return err
	}

	medications, err := database.ListMedicationsForUser(user)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	groups := schedule.GroupByTime(schedule.ForDay(medications, date))
	if len(groups) == 0 {
		fmt.Fprintf(out, "nothing scheduled on %s\n", date)
		return nil
	}

	for _, group := range groups {
		if group.Time == "" {
			fmt.Fprintln(out, "As needed")
		} else {
			fmt.Fprintf(out, "%s %s\n", group.Time, group.Label)
		}

		for _, entry := range group.Entries {
			mark := "[ ]"
			if entry.Taken {
				mark = "[x]"
			}

			if entry.AsNeeded {
				mark = " - "
			}

			fmt.Fprintf(out, "  %s %s %s\n", mark, entry.Medication.Name, entry.Medication.Dosage)
		}
	}

	return nil
}

// adherenceRange from --start/--end when given, the preset otherwise
func adherenceRange(cmd *cobra.Command) (medication.Date, medication.Date, error) {
	if !cmd.Flags().Changed("start") {
		start, end := schedule.Preset(adherencePreset, today())
		return start, end, nil
	}

	start, err := medication.ParseDate(adherenceStart)
	if err != nil {
		return medication.Date{}, medication.Date{}, err
	}

	end, err := dateArg(adherenceEnd)
	if err != nil {
		return medication.Date{}, medication.Date{}, err
	}

	return start, end, nil
}

func runAdherence(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	start, end, err := adherenceRange(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if adherenceMed != "" {
		m, err := database.FindMedication(user, adherenceMed)
		if err != nil {
			return err
		}

		days, stats := schedule.History(m, start, end)
		for _, day := range days {
			var doses []string
			for _, entry := range day.Entries {
				mark := "missed"
				if entry.Taken {
					mark = "taken"
				}

				doses = append(doses, entry.Time+" "+mark)
			}

			fmt.Fprintf(out, "%s\t%s\n", day.Date, strings.Join(doses, ", "))
		}

		fmt.Fprintf(out, "%s: %d%% (%d of %d)\n", m.Name, stats.Percentage, stats.TotalTaken, stats.TotalScheduled)
		return nil
	}

	medications, err := database.ListMedicationsForUser(user)
	if err != nil {
		return err
	}

	for _, m := range medications {
		if m.Frequency == medication.AsNeededFrequency {
			continue
		}

		stats := schedule.MedicationAdherence(m, start, end)
		fmt.Fprintf(out, "%s\t%d%% (%d of %d)\n", m.Name, stats.Percentage, stats.TotalTaken, stats.TotalScheduled)
	}

	stats := schedule.Adherence(medications, start, end)
	fmt.Fprintf(out, "overall %s to %s: %d%% (%d of %d)\n", start, end, stats.Percentage, stats.TotalTaken, stats.TotalScheduled)

	return nil
}
