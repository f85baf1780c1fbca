package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gearboxgarage/gearbox/internal/api"
	"github.com/gearboxgarage/gearbox/internal/models"
	"github.com/gearboxgarage/gearbox/pkg/collection"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage staff accounts (owner only)",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List staff accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")

		view, err := app().Users(cmd.Context(), page, perPage)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE\tACTIVE")
		for _, u := range view.Users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\n", u.ID, u.Name, u.Email, u.Role.Label(), u.Active)
		}
		w.Flush()
		printMeta(view.Meta)
		return nil
	},
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a staff account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		role, _ := cmd.Flags().GetString("role")
		password, _ := cmd.Flags().GetString("password")

		r := models.Role(role)
		if !r.Valid() {
			return fmt.Errorf("unknown role %q (use owner or mechanic)", role)
		}

		return app().CreateUser(cmd.Context(), api.UserInput{
			Name: name, Email: email, Role: r, Password: password,
		})
	},
}

var usersDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Deactivate a staff account, optionally transferring open work",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		transferTo, _ := cmd.Flags().GetString("transfer-to")

		view, err := app().Users(cmd.Context(), 1, 1000)
		if err != nil {
			return err
		}
		u, ok := collection.First(view.Users, func(u models.User) bool { return u.ID == args[0] })
		if !ok {
			return fmt.Errorf("user %s not found", args[0])
		}

		return app().DeactivateUser(cmd.Context(), u, transferTo)
	},
}

func init() {
	usersListCmd.Flags().Int("page", 1, "page to load")
	usersListCmd.Flags().Int("per-page", 20, "items per page")

	usersCreateCmd.Flags().String("name", "", "full name")
	usersCreateCmd.Flags().String("email", "", "email address")
	usersCreateCmd.Flags().String("role", "mechanic", "owner or mechanic")
	usersCreateCmd.Flags().String("password", "", "initial password")

	usersDeactivateCmd.Flags().String("transfer-to", "", "mechanic id to transfer open work to")

	usersCmd.AddCommand(usersListCmd, usersCreateCmd, usersDeactivateCmd)
}
