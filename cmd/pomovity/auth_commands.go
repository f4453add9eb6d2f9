package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pomovity/internal/model"
	"pomovity/internal/service"
)

// login
var loginCmd = &cobra.Command{
	Use:   "login <username>",
	Short: "Sign in; guest data on this device moves into the account",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runLogin),
}

// register
var registerCmd = &cobra.Command{
	Use:   "register <username> <email>",
	Short: "Create an account and sign in",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(runRegister),
}

// logout
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and return to guest mode",
	Args:  cobra.NoArgs,
	RunE:  withApp(runLogout),
}

// whoami
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current identity",
	Args:  cobra.NoArgs,
	RunE:  withApp(runWhoami),
}

// profile
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update the account profile",
	Args:  cobra.NoArgs,
	RunE:  withApp(runProfile),
}

// passwd
var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the account password",
	Args:  cobra.NoArgs,
	RunE:  withApp(runPasswd),
}

var (
	passwordFlag        string
	profileUsernameFlag string
	profileEmailFlag    string
)

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd, profileCmd, passwdCmd)

	for _, cmd := range []*cobra.Command{loginCmd, registerCmd} {
		cmd.Flags().StringVar(&passwordFlag, "password", "", "Password (prompted when omitted)")
	}
	profileCmd.Flags().StringVar(&profileUsernameFlag, "username", "", "New username")
	profileCmd.Flags().StringVar(&profileEmailFlag, "email", "", "New email")
}

func runLogin(cmd *cobra.Command, args []string, a *app) error {
	password, err := secret(cmd, "Password: ", passwordFlag)
	if err != nil {
		return err
	}

	result, err := a.auth.Login(cmd.Context(), args[0], password)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", a.session.User().Username)
	printMigration(cmd.OutOrStdout(), result)
	return nil
}

func runRegister(cmd *cobra.Command, args []string, a *app) error {
	password, err := secret(cmd, "Password: ", passwordFlag)
	if err != nil {
		return err
	}
	confirm := password
	if passwordFlag == "" {
		if confirm, err = secret(cmd, "Confirm password: ", ""); err != nil {
			return err
		}
	}

	result, err := a.auth.Register(cmd.Context(), service.RegisterInput{
		Username:        args[0],
		Email:           args[1],
		Password:        password,
		ConfirmPassword: confirm,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Registered and signed in as %s\n", a.session.User().Username)
	printMigration(cmd.OutOrStdout(), result)
	return nil
}

func runLogout(cmd *cobra.Command, args []string, a *app) error {
	if a.session.IsGuest() {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
		return nil
	}
	if err := a.auth.Logout(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out. New tasks are stored on this device.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string, a *app) error {
	out := cmd.OutOrStdout()
	if a.session.IsGuest() {
		fmt.Fprintln(out, "Guest (data is stored on this device)")
		return nil
	}

	fmt.Fprintln(out, formatUser(a.session.User()))
	if expires, ok := a.session.ExpiresAt(); ok {
		if time.Now().After(expires) {
			fmt.Fprintf(out, "Session expired at %s, sign in again.\n", expires.Local().Format(time.RFC1123))
		} else {
			fmt.Fprintf(out, "Session valid until %s\n", expires.Local().Format(time.RFC1123))
		}
	}
	return nil
}

func runProfile(cmd *cobra.Command, args []string, a *app) error {
	var (
		user *model.User
		err  error
	)
	if hasChangedFlags(cmd, "username", "email") {
		user, err = a.auth.UpdateProfile(cmd.Context(), model.ProfileUpdate{
			Username: profileUsernameFlag,
			Email:    profileEmailFlag,
		})
	} else {
		user, err = a.auth.Profile(cmd.Context())
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), formatUser(*user))
	return nil
}

func runPasswd(cmd *cobra.Command, args []string, a *app) error {
	current, err := secret(cmd, "Current password: ", "")
	if err != nil {
		return err
	}
	next, err := secret(cmd, "New password: ", "")
	if err != nil {
		return err
	}
	confirm, err := secret(cmd, "Confirm new password: ", "")
	if err != nil {
		return err
	}

	if err := a.auth.ChangePassword(cmd.Context(), current, next, confirm); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Password changed.")
	return nil
}

func formatUser(user model.User) string {
	if user.IsGuest {
		return "Guest"
	}
	if user.Email == "" {
		return user.Username
	}
	return fmt.Sprintf("%s <%s>", user.Username, user.Email)
}

func printMigration(out io.Writer, result service.MigrationResult) {
	if !result.Migrated {
		return
	}
	fmt.Fprintf(out, "Moved %d tasks and %d pomodoros from this device into your account.\n", result.Tasks, result.Pomodoros)
}

// secret returns value when set, otherwise prompts. Input is hidden on a
// terminal and read as a plain line otherwise.
func secret(cmd *cobra.Command, prompt, value string) (string, error) {
	if value != "" {
		return value, nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}

	line, err := readLine(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return line, nil
}

// readLine reads up to the next newline one byte at a time so consecutive
// prompts can share the same reader.
func readLine(r io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n == 1 {
			if buf[0] == '\n' {
				break
			}
			sb.WriteByte(buf[0])
		}
		if err == io.EOF {
			if sb.Len() == 0 {
				return "", io.ErrUnexpectedEOF
			}
			break
		}
		if err != nil {
			return "", err
		}
	}
	return strings.TrimRight(sb.String(), "\r"), nil
}
