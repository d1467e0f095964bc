package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"git.0xdad.com/tblyler/meditrackr/medication"
)

var (
	recordName      string
	recordAddress   string
	recordPhone     string
	recordSpecialty string

	periodName  string
	periodTime  string
	periodColor string
)

var pharmacyCmd = &cobra.Command{
	Use:   "pharmacy",
	Short: "Manage pharmacies",
}

var pharmacyAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a pharmacy",
	RunE:  runPharmacyAdd,
}

var pharmacyEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Change a pharmacy, only the given flags are updated",
	Args:  cobra.ExactArgs(1),
	RunE:  runPharmacyEdit,
}

var pharmacyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pharmacies",
	RunE:  runPharmacyList,
}

var pharmacyRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a pharmacy",
	Args:  cobra.ExactArgs(1),
	RunE:  runPharmacyRemove,
}

var pharmacyDefaultCmd = &cobra.Command{
	Use:   "default [id]",
	Short: "Make a pharmacy the default",
	Args:  cobra.ExactArgs(1),
	RunE:  runPharmacyDefault,
}

var providerCmd = &cobra.Command{
	Use:   "provider",
	Short: "Manage healthcare providers",
}

var providerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a provider",
	RunE:  runProviderAdd,
}

var providerEditCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Change a provider, only the given flags are updated",
	Args:  cobra.ExactArgs(1),
	RunE:  runProviderEdit,
}

var providerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List providers",
	RunE:  runProviderList,
}

var providerRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a provider",
	Args:  cobra.ExactArgs(1),
	RunE:  runProviderRemove,
}

var periodCmd = &cobra.Command{
	Use:   "period",
	Short: "Manage the named times of day used when adding medications",
}

var periodListCmd = &cobra.Command{
	Use:   "list",
	Short: "List time periods",
	RunE:  runPeriodList,
}

var periodAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a custom time period at 09:00",
	RunE:  runPeriodAdd,
}

var periodSetCmd = &cobra.Command{
	Use:   "set [id]",
	Short: "Change a time period",
	Args:  cobra.ExactArgs(1),
	RunE:  runPeriodSet,
}

var periodResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Replace every time period with the defaults",
	RunE:  runPeriodReset,
}

var periodRemoveCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a time period",
	Args:  cobra.ExactArgs(1),
	RunE:  runPeriodRemove,
}

func init() {
	for _, cmd := range []*cobra.Command{pharmacyAddCmd, pharmacyEditCmd, providerAddCmd, providerEditCmd} {
		cmd.Flags().StringVar(&recordName, "name", "", "Name")
		cmd.Flags().StringVar(&recordAddress, "address", "", "Address")
		cmd.Flags().StringVar(&recordPhone, "phone", "", "Phone number")
	}

	providerAddCmd.Flags().StringVar(&recordSpecialty, "specialty", "", "Specialty")
	providerEditCmd.Flags().StringVar(&recordSpecialty, "specialty", "", "Specialty")

	periodSetCmd.Flags().StringVar(&periodName, "name", "", "Name")
	periodSetCmd.Flags().StringVar(&periodTime, "time", "", "Time, HH:MM")
	periodSetCmd.Flags().StringVar(&periodColor, "color", "", "Color")

	pharmacyCmd.AddCommand(pharmacyAddCmd)
	pharmacyCmd.AddCommand(pharmacyEditCmd)
	pharmacyCmd.AddCommand(pharmacyListCmd)
	pharmacyCmd.AddCommand(pharmacyRemoveCmd)
	pharmacyCmd.AddCommand(pharmacyDefaultCmd)

	providerCmd.AddCommand(providerAddCmd)
	providerCmd.AddCommand(providerEditCmd)
	providerCmd.AddCommand(providerListCmd)
	providerCmd.AddCommand(providerRemoveCmd)

	periodCmd.AddCommand(periodListCmd)
	periodCmd.AddCommand(periodAddCmd)
	periodCmd.AddCommand(periodSetCmd)
	periodCmd.AddCommand(periodRemoveCmd)
	periodCmd.AddCommand(periodResetCmd)
}

func runPharmacyAdd(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	p := &medication.Pharmacy{Name: recordName, Address: recordAddress, Phone: recordPhone}
	if err = database.AddPharmacy(user, p); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "created pharmacy id", p.ID)
	return nil
}

// applyRecordFlags copies the name, address and phone flags that were set
func applyRecordFlags(cmd *cobra.Command, name *string, address *string, phone *string) {
	if cmd.Flags().Changed("name") {
		*name = recordName
	}

	if cmd.Flags().Changed("address") {
		*address = recordAddress
	}

	if cmd.Flags().Changed("phone") {
		*phone = recordPhone
	}
}

func runPharmacyEdit(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	pharmacies, err := database.ListPharmacies(user)
	if err != nil {
		return err
	}

	id := medication.ID(args[0])
	for _, p := range pharmacies {
		if p.ID != id {
			continue
		}

		applyRecordFlags(cmd, &p.Name, &p.Address, &p.Phone)

		if err = database.UpdatePharmacy(user, &p); err != nil {
			return fmt.Errorf("failed to update pharmacy %s: %w", id, err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "updated pharmacy id", p.ID)
		return nil
	}

	return fmt.Errorf("pharmacy %s does not exist", id)
}

func runPharmacyList(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	pharmacies, err := database.ListPharmacies(user)
	if err != nil {
		return err
	}

	for _, p := range pharmacies {
		mark := ""
		if p.IsDefault {
			mark = "(default)"
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Address, p.Phone, mark)
	}

	return nil
}

func runPharmacyRemove(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	return database.RemovePharmacy(user, medication.ID(args[0]))
}

func runPharmacyDefault(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	return database.SetDefaultPharmacy(user, medication.ID(args[0]))
}

func runProviderAdd(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	p := &medication.Provider{Name: recordName, Specialty: recordSpecialty, Address: recordAddress, Phone: recordPhone}
	if err = database.AddProvider(user, p); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "created provider id", p.ID)
	return nil
}

func runProviderEdit(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	providers, err := database.ListProviders(user)
	if err != nil {
		return err
	}

	id := medication.ID(args[0])
	for _, p := range providers {
		if p.ID != id {
			continue
		}

		applyRecordFlags(cmd, &p.Name, &p.Address, &p.Phone)
		if cmd.Flags().Changed("specialty") {
			p.Specialty = recordSpecialty
		}

		if err = database.UpdateProvider(user, &p); err != nil {
			return fmt.Errorf("failed to update provider %s: %w", id, err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "updated provider id", p.ID)
		return nil
	}

	return fmt.Errorf("provider %s does not exist", id)
}

func runProviderList(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	providers, err := database.ListProviders(user)
	if err != nil {
		return err
	}

	for _, p := range providers {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Specialty, p.Address, p.Phone)
	}

	return nil
}

func runProviderRemove(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	return database.RemoveProvider(user, medication.ID(args[0]))
}

func printPeriod(cmd *cobra.Command, p medication.TimePeriod) {
	kind := "preset"
	if p.IsCustom {
		kind = "custom"
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Time, p.Color, kind)
}

func runPeriodList(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	periods, err := database.ListTimePeriods(user)
	if err != nil {
		return err
	}

	for _, p := range periods {
		printPeriod(cmd, p)
	}

	return nil
}

func runPeriodAdd(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	period, err := database.AddTimePeriod(user)
	if err != nil {
		return err
	}

	printPeriod(cmd, period)
	return nil
}

func periodID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid time period id %q: %w", arg, err)
	}

	return id, nil
}

func runPeriodSet(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	id, err := periodID(args[0])
	if err != nil {
		return err
	}

	periods, err := database.ListTimePeriods(user)
	if err != nil {
		return err
	}

	for _, period := range periods {
		if period.ID != id {
			continue
		}

		if cmd.Flags().Changed("name") {
			period.Name = periodName
		}

		if cmd.Flags().Changed("time") {
			if period.Time, err = medication.NormalizeClock(periodTime); err != nil {
				return err
			}
		}

		if cmd.Flags().Changed("color") {
			period.Color = periodColor
		}

		if err = database.UpdateTimePeriod(user, period); err != nil {
			return err
		}

		printPeriod(cmd, period)
		return nil
	}

	return fmt.Errorf("time period %d does not exist", id)
}

func runPeriodRemove(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	id, err := periodID(args[0])
	if err != nil {
		return err
	}

	return database.RemoveTimePeriod(user, id)
}

func runPeriodReset(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	periods := medication.DefaultTimePeriods()
	if err = database.SetTimePeriods(user, periods); err != nil {
		return err
	}

	for _, p := range periods {
		printPeriod(cmd, p)
	}

	return nil
}
