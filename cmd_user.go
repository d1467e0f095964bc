package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"git.0xdad.com/tblyler/meditrackr/db"
)

var (
	userEmail       string
	userDeviceName  string
	userDeviceToken string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a user with a Pushover device to remind",
	RunE:  runUserAdd,
}

var userGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show a user",
	RunE:  runUserGet,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every user",
	RunE:  runUserList,
}

var userRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a user and everything they track",
	RunE:  runUserRemove,
}

func init() {
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "Email address")
	userAddCmd.Flags().StringVar(&userDeviceName, "device", "default", "Name of the Pushover device")
	userAddCmd.Flags().StringVar(&userDeviceToken, "device-token", "", "Pushover device token (prompted for when not set)")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userGetCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userRemoveCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	name := username
	if name == "" {
		var err error
		if name, err = prompt(cmd, "username"); err != nil {
			return err
		}
	}

	deviceToken := userDeviceToken
	if deviceToken == "" {
		var err error
		if deviceToken, err = prompt(cmd, "pushover device token"); err != nil {
			return err
		}
	}

	user := &db.User{
		Name:  name,
		Email: userEmail,
		PushoverDeviceTokens: map[string]string{
			userDeviceName: deviceToken,
		},
	}

	if err := database.AddUser(user); err != nil {
		return fmt.Errorf("failed to insert username %s: %w", name, err)
	}

	logger.Info("created user", zap.String("user", name), zap.Stringer("id", user.ID))
	fmt.Fprintln(cmd.OutOrStdout(), "created user id", user.ID)

	return nil
}

func printUser(cmd *cobra.Command, user *db.User) {
	devices := make([]string, 0, len(user.PushoverDeviceTokens))
	for device := range user.PushoverDeviceTokens {
		devices = append(devices, device)
	}

	sort.Strings(devices)

	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\tdevices: %v\n", user.Name, user.ID, user.Email, devices)
}

func runUserGet(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	printUser(cmd, user)
	return nil
}

func runUserList(cmd *cobra.Command, args []string) error {
	users, err := database.ListUsers()
	if err != nil {
		return err
	}

	for _, user := range users {
		printUser(cmd, user)
	}

	return nil
}

func runUserRemove(cmd *cobra.Command, args []string) error {
	user, err := currentUser(cmd)
	if err != nil {
		return err
	}

	if err = database.RemoveUser(user); err != nil {
		return fmt.Errorf("failed to remove user %s: %w", user.Name, err)
	}

	logger.Info("removed user", zap.String("user", user.Name))
	return nil
}
