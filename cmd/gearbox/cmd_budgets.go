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

var budgetsCmd = &cobra.Command{
	Use:   "budgets",
	Short: "Manage repair budgets",
}

var budgetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List budgets (mechanics see only their own)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")

		view, err := app().Budgets(cmd.Context(), page, perPage)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tCLIENT\tCAR\tAMOUNT\tSTATUS\tDESCRIPTION")
		for _, b := range view.Budgets {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\n",
				b.ID, view.ClientName(b.ClientID), view.CarPlate(b.CarID),
				b.Amount, b.Status.Label(), b.Description)
		}
		w.Flush()
		printMeta(view.Meta)
		return nil
	},
}

var budgetsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a budget",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		clientID, _ := cmd.Flags().GetString("client")
		carID, _ := cmd.Flags().GetString("car")
		description, _ := cmd.Flags().GetString("description")
		amount, _ := cmd.Flags().GetFloat64("amount")
		days, _ := cmd.Flags().GetInt("days")

		return app().CreateBudget(cmd.Context(), api.BudgetInput{
			ClientID: clientID, CarID: carID, Description: description,
			Amount: amount, EstimatedDays: days,
		})
	},
}

var budgetsApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve an open budget and open a work order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		mechanicID, _ := cmd.Flags().GetString("mechanic")

		b, err := findBudget(cmd, args[0])
		if err != nil {
			return err
		}
		return app().ApproveBudget(cmd.Context(), b, mechanicID)
	},
}

var budgetsRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject an open budget",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		mechanicID, _ := cmd.Flags().GetString("mechanic")

		b, err := findBudget(cmd, args[0])
		if err != nil {
			return err
		}
		return app().RejectBudget(cmd.Context(), b, mechanicID)
	},
}

var budgetsCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel an open budget",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		b, err := findBudget(cmd, args[0])
		if err != nil {
			return err
		}
		return app().CancelBudget(cmd.Context(), b)
	},
}

func findBudget(cmd *cobra.Command, id string) (models.Budget, error) {
	view, err := app().Budgets(cmd.Context(), 1, 1000)
	if err != nil {
		return models.Budget{}, err
	}
	b, ok := collection.First(view.Budgets, func(b models.Budget) bool { return b.ID == id })
	if !ok {
		return models.Budget{}, fmt.Errorf("budget %s not found", id)
	}
	return b, nil
}

func init() {
	budgetsListCmd.Flags().Int("page", 1, "page to load")
	budgetsListCmd.Flags().Int("per-page", 20, "items per page")

	budgetsCreateCmd.Flags().String("client", "", "client id")
	budgetsCreateCmd.Flags().String("car", "", "car id")
	budgetsCreateCmd.Flags().String("description", "", "work description")
	budgetsCreateCmd.Flags().Float64("amount", 0, "quoted amount")
	budgetsCreateCmd.Flags().Int("days", 0, "estimated days")

	budgetsApproveCmd.Flags().String("mechanic", "", "mechanic to assign the work order to")
	budgetsRejectCmd.Flags().String("mechanic", "", "mechanic recorded on the rejection")

	budgetsCmd.AddCommand(budgetsListCmd, budgetsCreateCmd, budgetsApproveCmd, budgetsRejectCmd, budgetsCancelCmd)
}
