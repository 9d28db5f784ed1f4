package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edumentor/learnconnect/pkg/learnsdk"
)

// readPassword reads a password from the flag when given, otherwise from
// stdin with a prompt.
func readPassword(flagValue, prompt string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// failureMessage prefers the machine's recorded reason over the raw error.
func (a *App) failureMessage(err error) error {
	if state := a.machine.State(); state.Err != "" {
		return fmt.Errorf("%s", state.Err)
	}
	return err
}

func (a *App) loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(password, "Password: ")
			if err != nil {
				return err
			}

			err = a.machine.Login(cmd.Context(), learnsdk.Credentials{Email: email, Password: pw})
			if err != nil {
				return a.failureMessage(err)
			}

			user := a.machine.State().Session.User
			fmt.Fprintf(a.out, "logged in as %s (%s)\n", user.Name, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func (a *App) registerCmd() *cobra.Command {
	var (
		reg      learnsdk.Registration
		password string
	)

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := readPassword(password, "Password: ")
			if err != nil {
				return err
			}
			reg.Password = pw

			if err := a.machine.Register(cmd.Context(), reg); err != nil {
				return a.failureMessage(err)
			}

			user := a.machine.State().Session.User
			fmt.Fprintf(a.out, "registered as %s (%s)\n", user.Name, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&reg.Name, "name", "", "display name")
	cmd.Flags().StringVar(&reg.Email, "email", "", "account email")
	cmd.Flags().StringVar(&reg.Role, "role", "learner", "account role: learner or tutor")
	cmd.Flags().StringVar(&reg.Bio, "bio", "", "profile bio")
	cmd.Flags().Float64Var(&reg.HourlyRate, "rate", 0, "hourly rate (tutors)")
	cmd.Flags().StringVar(&reg.Timezone, "timezone", "", "IANA timezone name")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func (a *App) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and clear stored tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.machine.Bootstrap(cmd.Context()); err != nil {
				return err
			}
			if err := a.machine.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "logged out")
			return nil
		},
	}
}

func (a *App) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd); err != nil {
				return err
			}

			u := a.machine.State().Session.User
			fmt.Fprintf(a.out, "%s <%s>\nrole: %s\n", u.Name, u.Email, u.Role)
			if u.Bio != "" {
				fmt.Fprintf(a.out, "bio: %s\n", u.Bio)
			}
			if u.HourlyRate > 0 {
				fmt.Fprintf(a.out, "rate: $%.2f/hr\n", u.HourlyRate)
			}
			if u.Timezone != "" {
				fmt.Fprintf(a.out, "timezone: %s\n", u.Timezone)
			}
			return nil
		},
	}
}

func (a *App) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage the logged-in profile",
	}

	var (
		name, bio, timezone string
		rate                float64
	)

	update := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(cmd); err != nil {
				return err
			}

			var patch learnsdk.ProfileUpdate
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("bio") {
				patch.Bio = &bio
			}
			if cmd.Flags().Changed("rate") {
				patch.HourlyRate = &rate
			}
			if cmd.Flags().Changed("timezone") {
				patch.Timezone = &timezone
			}

			if err := a.machine.UpdateProfile(cmd.Context(), patch); err != nil {
				return err
			}

			u := a.machine.State().Session.User
			fmt.Fprintf(a.out, "profile updated: %s\n", u.Name)
			return nil
		},
	}

	update.Flags().StringVar(&name, "name", "", "display name")
	update.Flags().StringVar(&bio, "bio", "", "profile bio")
	update.Flags().Float64Var(&rate, "rate", 0, "hourly rate (tutors)")
	update.Flags().StringVar(&timezone, "timezone", "", "IANA timezone name")

	cmd.AddCommand(update)
	return cmd
}
