package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// gearbox login — authenticate and persist the session.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the Gear Box API",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app()

		fmt.Print("Email: ")
		reader := bufio.NewReader(os.Stdin)
		email, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		email = strings.TrimSpace(email)

		fmt.Print("Password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return err
		}

		if err := a.Session.Login(cmd.Context(), email, string(raw)); err != nil {
			return err
		}

		user := a.Session.User()
		fmt.Printf("Logged in as %s (%s)\n", user.Name, user.Role.Label())
		return nil
	},
}

// gearbox logout — clear the session everywhere.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and clear stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app()
		if err := a.Session.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

// gearbox whoami — show the restored session.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a := app()
		if !a.Session.IsAuthenticated() {
			fmt.Println("Not logged in.")
			return nil
		}

		user := a.Session.User()
		fmt.Printf("%s <%s> — %s\n", user.Name, user.Email, user.Role.Label())
		if exp, ok := a.Session.TokenExpiry(); ok {
			fmt.Printf("Session valid until %s\n", exp.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}
