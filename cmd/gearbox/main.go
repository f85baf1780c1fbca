package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gearbox",
	Short: "Gear Box — repair shop management console",
	Long:  "Gear Box is the management console for the repair shop: clients, vehicles, budgets, work orders and staff, driven from the terminal.",
}

func init() {
	// Session
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	// Collections
	rootCmd.AddCommand(clientsCmd)
	rootCmd.AddCommand(carsCmd)
	rootCmd.AddCommand(budgetsCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(usersCmd)

	// Analytics
	rootCmd.AddCommand(dashboardCmd)
}
