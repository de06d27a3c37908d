package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dtiestoque.org/internal/client"
)

var (
	loginEmail    string
	loginPassword string

	registerName       string
	registerEmail      string
	registerPassword   string
	registerPermission string
)

// loginCmd authenticates and stores the session
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and save the session",
	Long: `Authenticate with email and password.

The token is written to the session file and reused by every other command
until it expires. The password is read from stdin when --senha is omitted.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

// logoutCmd forgets the saved session
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveSessionPath()
		if err != nil {
			return err
		}
		if err := client.ClearSession(path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Sessão encerrada.")
		return nil
	},
}

// registerCmd creates an account
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a user account",
	Args:  cobra.NoArgs,
	RunE:  runRegister,
}

func registerSessionCommands() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email (required)")
	loginCmd.Flags().StringVar(&loginPassword, "senha", "", "Account password")
	loginCmd.MarkFlagRequired("email")

	registerCmd.Flags().StringVar(&registerName, "nome", "", "Full name (required)")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email (required)")
	registerCmd.Flags().StringVar(&registerPassword, "senha", "", "Account password")
	registerCmd.Flags().StringVar(&registerPermission, "permissao", "", "Permission (default: usuario)")
	registerCmd.MarkFlagRequired("nome")
	registerCmd.MarkFlagRequired("email")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(registerCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	password, err := passwordOrPrompt(cmd, loginPassword)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	c := newAnonymousClient()
	res, err := c.Login(ctx, loginEmail, password)
	if err != nil {
		return err
	}

	path, err := resolveSessionPath()
	if err != nil {
		return err
	}
	sess := client.Session{
		API:       strings.TrimRight(apiURL, "/"),
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      res.User,
	}
	if err := client.SaveSession(path, sess); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.Message)
	fmt.Fprintf(out, "Olá, %s. Sessão válida até %s.\n", res.User.Name, res.ExpiresAt.Local().Format("02/01/2006 15:04"))
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	password, err := passwordOrPrompt(cmd, registerPassword)
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	id, err := newAnonymousClient().Register(ctx, client.Registration{
		Name:       registerName,
		Email:      registerEmail,
		Password:   password,
		Permission: registerPermission,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Usuário criado com sucesso! (id %d)\n", id)
	return nil
}

func passwordOrPrompt(cmd *cobra.Command, flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Senha: ")
	password, err := readLine(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return password, nil
}
