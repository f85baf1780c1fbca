package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gearboxgarage/gearbox/internal/api"
)

var carsCmd = &cobra.Command{
	Use:   "cars",
	Short: "Manage registered vehicles",
}

var carsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List vehicles",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")

		view, err := app().Vehicles(cmd.Context(), page, perPage)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tPLATE\tMAKE\tMODEL\tYEAR\tOWNER")
		for _, c := range view.Cars {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
				c.ID, c.Plate, c.Make, c.Model, c.Year, view.OwnerName(c.ClientID))
		}
		w.Flush()
		printMeta(view.Meta)
		return nil
	},
}

var carsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Register a vehicle for a client",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		clientID, _ := cmd.Flags().GetString("client")
		plate, _ := cmd.Flags().GetString("plate")
		carMake, _ := cmd.Flags().GetString("make")
		model, _ := cmd.Flags().GetString("model")
		year, _ := cmd.Flags().GetInt("year")

		return app().CreateCar(cmd.Context(), api.CarInput{
			ClientID: clientID, Plate: plate, Make: carMake, Model: model, Year: year,
		})
	},
}

// gearbox cars lookup — browse the FIPE reference tables to prefill the
// create flags.
var carsLookupCmd = &cobra.Command{
	Use:   "lookup [brandCode] [modelCode] [yearCode]",
	Short: "Browse vehicle reference data (brands, models, years)",
	Args:  cobra.MaximumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		app()
		ctx := cmd.Context()
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		defer w.Flush()

		switch len(args) {
		case 0:
			brands, err := api.FIPEBrands(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "CODE\tBRAND")
			for _, b := range brands {
				fmt.Fprintf(w, "%s\t%s\n", b.Code, b.Name)
			}
		case 1:
			fipeModels, err := api.FIPEModels(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "CODE\tMODEL")
			for _, m := range fipeModels {
				fmt.Fprintf(w, "%d\t%s\n", m.Code, m.Name)
			}
		case 2:
			modelCode, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("model code must be numeric: %w", err)
			}
			years, err := api.FIPEYears(ctx, args[0], modelCode)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "CODE\tYEAR")
			for _, y := range years {
				fmt.Fprintf(w, "%s\t%s\n", y.Code, y.Name)
			}
		case 3:
			modelCode, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("model code must be numeric: %w", err)
			}
			v, err := api.FIPEVehicle(ctx, args[0], modelCode, args[2])
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Brand:\t%s\nModel:\t%s\nYear:\t%d\nFuel:\t%s\nReference price:\t%s\n",
				v.Brand, v.Model, v.ModelYear, v.Fuel, v.Price)
		}
		return nil
	},
}

func init() {
	carsListCmd.Flags().Int("page", 1, "page to load")
	carsListCmd.Flags().Int("per-page", 20, "items per page")

	carsCreateCmd.Flags().String("client", "", "owning client id")
	carsCreateCmd.Flags().String("plate", "", "license plate")
	carsCreateCmd.Flags().String("make", "", "manufacturer")
	carsCreateCmd.Flags().String("model", "", "model")
	carsCreateCmd.Flags().Int("year", 0, "model year")

	carsCmd.AddCommand(carsListCmd, carsCreateCmd, carsLookupCmd)
}
