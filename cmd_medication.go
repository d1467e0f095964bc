package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"git.0xdad.com/tblyler/meditrackr/db"
	"git.0xdad.com/tblyler/meditrackr/medication"
)

// medicationFlags backs add and edit
type medicationFlags struct {
	name        string
	genericName string
	dosage      string
	frequency   string
	weeklyDays  []int
	times       []string
	start       string
	end         string
	notes       string
	indication  string
	medType     string
	pharmacy    string
	provider    string
}

var medFlags medicationFlags

var medicationCmd = &cobra.Command{
	Use:     "medication",
	Aliases: []string{"med"},
	Short:   "Manage medications",
}

var medicationAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a medication",
	Long: `Adds a medication for the user.

Times are given with --time and may be a time period name ("Morning"),
a label and time ("Lunch@12:30") or a bare time ("07:15").

Example:
  meditrackr medication add -u alice --name Metformin --dosage 500mg \
    --time Morning --time Evening --start 2024-06-01`,
	RunE: runMedicationAdd,
}

var medicationEditCmd = &cobra.Command{
	Use:   "edit [medication]",
	Short: "Change a medication, keeping its taken doses",
	Args:  cobra.ExactArgs(1),
	RunE:  runMedicationEdit,
}

var medicationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List medications",
	RunE:  runMedicationList,
}

var medicationRemoveCmd = &cobra.Command{
	Use:   "remove [medication]",
	Short: "Remove a medication and its history",
	Args:  cobra.ExactArgs(1),
	RunE:  runMedicationRemove,
}

func addMedicationFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&medFlags.name, "name", "", "Brand name")
	flags.StringVar(&medFlags.genericName, "generic", "", "Generic name")
	flags.StringVar(&medFlags.dosage, "dosage", "", "Dosage, e.g. 5mg")
	flags.StringVar(&medFlags.frequency, "frequency", string(medication.Daily), "daily, weekly or as-needed")
	flags.IntSliceVar(&medFlags.weeklyDays, "day", nil, "Day of the week for weekly medications, 0 is Sunday")
	flags.StringArrayVar(&medFlags.times, "time", nil, "Time to take, a period name, Label@HH:MM or HH:MM")
	flags.StringVar(&medFlags.start, "start", "", "First day, YYYY-MM-DD (default: today)")
	flags.StringVar(&medFlags.end, "end", "", "Last day, YYYY-MM-DD")
	flags.StringVar(&medFlags.notes, "notes", "", "Notes, required for as-needed medications")
	flags.StringVar(&medFlags.indication, "indication", "", "What it is taken for")
	flags.StringVar(&medFlags.medType, "type", string(medication.Prescription), "rx or otc")
	flags.StringVar(&medFlags.pharmacy, "pharmacy", "", "Pharmacy id")
	flags.StringVar(&medFlags.provider, "provider", "", "Provider id")
}

func init() {
	addMedicationFlags(medicationAddCmd)
	addMedicationFlags(medicationEditCmd)

	medicationCmd.AddCommand(medicationAddCmd)
	medicationCmd.AddCommand(medicationEditCmd)
	medicationCmd.AddCommand(medicationListCmd)
	medicationCmd.AddCommand(medicationRemoveCmd)
}

// parseSlot resolves a --time value against the user's time periods
func parseSlot(value string, periods []medication.TimePeriod) (medication.TimeSlot, error) {
	if period, ok := medication.FindTimePeriod(periods, value); ok {
		return period.Slot(), nil
	}

	if label, clock, ok := strings.Cut(value, "@"); ok {
		clock, err := medication.NormalizeClock(clock)
		if err != nil {
			return medication.TimeSlot{}, err
		}

		return medication.Timed(strings.TrimSpace(label), clock), nil
	}

	clock, err := medication.NormalizeClock(value)
	if err != nil {
		return medication.TimeSlot{}, fmt.Errorf("unknown time period or time %q", value)
	}

	return medication.CustomTimed(clock), nil
}

// apply the flags that were set on cmd to m
func (f *medicationFlags) apply(cmd *cobra.Command, user *db.User, m *medication.Medication) error {
	changed := cmd.Flags().Changed
	creating := m.ID == ""

	if creating || changed("name") {
		m.Name = f.name
	}

	if creating || changed("generic") {
		m.GenericName = f.genericName
	}

	if creating || changed("dosage") {
		m.Dosage = f.dosage
	}

	if creating || changed("frequency") {
		m.Frequency = medication.Frequency(f.frequency)
	}

	if creating || changed("day") {
		m.WeeklyDays = f.weeklyDays
	}

	if creating || changed("notes") {
		m.Notes = f.notes
	}

	if creating || changed("indication") {
		m.Indication = f.indication
	}

	if creating || changed("type") {
		m.Type = medication.Type(f.medType)
	}

	if creating || changed("pharmacy") {
		m.PharmacyID = medication.ID(f.pharmacy)
	}

	if creating || changed("provider") {
		m.ProviderID = medication.ID(f.provider)
	}

	if creating || changed("start") {
		start, err := dateArg(f.start)
		if err != nil {
			return err
		}

		m.StartDate = start
	}

	if changed("end") {
		if f.end == "" {
			m.EndDate = medication.Date{}
		} else {
			end, err := medication.ParseDate(f.end)
			if err != nil {
				return err
			}

			m.EndDate = end
		}
	}

	if creating || changed("time") || changed("frequency") {
		m.Times = nil

		if m.Frequency == medication.AsNeededFrequency {
			if len(f.times) > 0 {
				return fmt.Errorf("as-needed medications take --notes instead of --time")
			}

			m.Times = []medication.TimeSlot{medication.AsNeeded("As needed", m.Notes)}
			return nil
		}

		periods, err := database.ListTimePeriods(user)
		if err != nil {
			return err
		}

		for _, value := range f.times {
			slot, err := parseSlot(value, periods)
			if err != nil {
				return err
			}

			m.Times = append(m.Times, slot)
		}
	}

	return nil
}

func runMedicationAdd(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	m := &medication.Medication{}
	if err = medFlags.apply(cmd, user, m); err != nil {
		return err
	}

	if err = database.AddMedication(user, m); err != nil {
		return fmt.Errorf("failed to add medication %s: %w", m.Name, err)
	}

	logger.Info("added medication", zap.String("user", user.Name), zap.String("medication", m.Name), zap.Stringer("id", m.ID))
	printMedication(cmd, m)

	return nil
}

func runMedicationEdit(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	m, err := database.FindMedication(user, args[0])
	if err != nil {
		return err
	}

	if err = medFlags.apply(cmd, user, m); err != nil {
		return err
	}

	if err = database.UpdateMedication(user, m); err != nil {
		return fmt.Errorf("failed to update medication %s: %w", m.Name, err)
	}

	printMedication(cmd, m)
	return nil
}

func printMedication(cmd *cobra.Command, m *medication.Medication) {
	times := make([]string, 0, len(m.Times))
	for _, slot := range m.Times {
		if slot.IsAsNeeded() || slot.Label == "" {
			times = append(times, slot.Display())
			continue
		}

		times = append(times, fmt.Sprintf("%s (%s)", slot.Label, slot.Time))
	}

	schedule := string(m.Frequency)
	if m.Frequency == medication.Weekly {
		schedule = fmt.Sprintf("%s %v", schedule, m.WeeklyDays)
	}

	active := m.StartDate.String() + " -"
	if !m.EndDate.IsZero() {
		active += " " + m.EndDate.String()
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s %s\t%s\t%s\t%s\n", m.ID, m.Name, m.Dosage, schedule, strings.Join(times, ", "), active)
}

func runMedicationList(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	medications, err := database.ListMedicationsForUser(user)
	if err != nil {
		return err
	}

	for _, m := range medications {
		printMedication(cmd, m)
	}

	return nil
}

func runMedicationRemove(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	m, err := database.FindMedication(user, args[0])
	if err != nil {
		return err
	}

	if err = database.RemoveMedication(user, m.ID); err != nil {
		return err
	}

	logger.Info("removed medication", zap.String("user", user.Name), zap.String("medication", m.Name))
	return nil
}
