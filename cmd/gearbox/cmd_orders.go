package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gearboxgarage/gearbox/internal/models"
	"github.com/gearboxgarage/gearbox/pkg/collection"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Manage work orders",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List work orders (mechanics see only their own)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")

		view, err := app().Orders(cmd.Context(), page, perPage)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tCLIENT\tCAR\tSTATUS\tVALUE\tDESCRIPTION")
		for _, s := range view.Services {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%s\n",
				s.ID, view.ClientName(s.ClientID), view.CarPlate(s.CarID),
				s.Status.Label(), s.TotalValue, s.Description)
		}
		w.Flush()
		printMeta(view.Meta)
		return nil
	},
}

var ordersStatusCmd = &cobra.Command{
	Use:   "status <id> <new-status>",
	Short: "Move a work order to a new status (confirmed interactively)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		target := models.ServiceStatus(args[1])
		if !target.Valid() {
			return fmt.Errorf("unknown status %q (use pending, in-progress, completed or cancelled)", args[1])
		}

		view, err := app().Orders(cmd.Context(), 1, 1000)
		if err != nil {
			return err
		}
		svc, ok := collection.First(view.Services, func(s models.Service) bool { return s.ID == args[0] })
		if !ok {
			return fmt.Errorf("work order %s not found", args[0])
		}

		return app().ChangeOrderStatus(cmd.Context(), svc, target)
	},
}

func init() {
	ordersListCmd.Flags().Int("page", 1, "page to load")
	ordersListCmd.Flags().Int("per-page", 20, "items per page")

	ordersCmd.AddCommand(ordersListCmd, ordersStatusCmd)
}
