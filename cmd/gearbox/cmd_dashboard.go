package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gearboxgarage/gearbox/internal/models"
)

// gearbox dashboard — the owner analytics view: per-mechanic budget counts,
// acceptance/cancellation rates, and optionally a monthly activity series
// for one mechanic.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Owner analytics: per-mechanic budget statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}

		view, err := app().Dashboard(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "MECHANIC\tTOTAL\tOPEN\tACCEPTED\tREJECTED\tCANCELLED\tACCEPT%\tCANCEL%")
		for _, s := range view.Stats {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d%%\t%d%%\n",
				s.Mechanic.Name, s.Total,
				s.ByStatus[models.BudgetOpen], s.ByStatus[models.BudgetAccepted],
				s.ByStatus[models.BudgetRejected], s.ByStatus[models.BudgetCancelled],
				s.AcceptanceRate, s.CancellationRate)
		}
		w.Flush()

		mechanicID, _ := cmd.Flags().GetString("mechanic")
		if mechanicID == "" {
			return nil
		}

		series, err := app().MechanicSeries(cmd.Context(), mechanicID)
		if err != nil {
			return err
		}

		fmt.Println()
		sw := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(sw, "MONTH\tBUDGETS CREATED\tBUDGETS ACCEPTED\tORDERS COMPLETED")
		for _, p := range series {
			fmt.Fprintf(sw, "%s\t%d\t%d\t%d\n", p.Month, p.BudgetsCreated, p.BudgetsAccepted, p.ServicesCompleted)
		}
		return sw.Flush()
	},
}

func init() {
	dashboardCmd.Flags().String("mechanic", "", "mechanic id for the monthly activity series")
}
