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

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage the client book",
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")

		view, err := app().Clients(cmd.Context(), page, perPage)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tPHONE\tEMAIL")
		for _, c := range view.Clients {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Phone, c.Email)
		}
		w.Flush()
		printMeta(view.Meta)
		return nil
	},
}

var clientsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a client",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		phone, _ := cmd.Flags().GetString("phone")
		email, _ := cmd.Flags().GetString("email")

		return app().CreateClient(cmd.Context(), api.ClientInput{Name: name, Phone: phone, Email: email})
	},
}

var clientsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Edit a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		name, _ := cmd.Flags().GetString("name")
		phone, _ := cmd.Flags().GetString("phone")
		email, _ := cmd.Flags().GetString("email")

		return app().UpdateClient(cmd.Context(), args[0], api.ClientInput{Name: name, Phone: phone, Email: email})
	},
}

var clientsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		view, err := app().Clients(cmd.Context(), 1, 1000)
		if err != nil {
			return err
		}
		client, ok := collection.First(view.Clients, func(c models.Client) bool { return c.ID == args[0] })
		if !ok {
			return fmt.Errorf("client %s not found", args[0])
		}
		return app().DeleteClient(cmd.Context(), client)
	},
}

func printMeta(m models.Meta) {
	if m.LastPage > 1 {
		fmt.Printf("page %d of %d (%d total)\n", m.CurrentPage, m.LastPage, m.Total)
	}
}

func init() {
	clientsListCmd.Flags().Int("page", 1, "page to load")
	clientsListCmd.Flags().Int("per-page", 20, "items per page")

	for _, c := range []*cobra.Command{clientsCreateCmd, clientsUpdateCmd} {
		c.Flags().String("name", "", "client name")
		c.Flags().String("phone", "", "phone number")
		c.Flags().String("email", "", "email address")
	}

	clientsCmd.AddCommand(clientsListCmd, clientsCreateCmd, clientsUpdateCmd, clientsDeleteCmd)
}
