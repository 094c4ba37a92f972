package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"assessly-backend/internal/model"
	"assessly-backend/internal/repository"
	"assessly-backend/internal/service"
	"assessly-backend/utilities"
)

var (
	adminEmail     string
	adminFirstName string
	adminLastName  string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	Long: `Create an admin account. The password is read from the terminal without
echo, or from the first line of stdin when stdin is not a terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		password, err := readPassword()
		if err != nil {
			return err
		}

		gdb, qe, err := openDB(cfg, cfg.DB.Initialize)
		if err != nil {
			return err
		}
		defer closeDB(gdb)

		tokens := utilities.NewTokenManager(cfg.Authentication.AccessSecret, cfg.Authentication.RefreshSecret, time.Minute, time.Minute)
		auth := service.NewAuthService(repository.NewAdminRepository(qe), tokens)
		admin := &model.Admin{Email: adminEmail, FirstName: adminFirstName, LastName: adminLastName}
		if err := auth.CreateAdmin(cmd.Context(), admin, password); err != nil {
			return err
		}
		log.Info("admin created", "id", admin.ID, "email", admin.Email)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVarP(&adminEmail, "email", "e", "", "Admin email (required)")
	createAdminCmd.Flags().StringVar(&adminFirstName, "first-name", "", "First name")
	createAdminCmd.Flags().StringVar(&adminLastName, "last-name", "", "Last name")
	_ = createAdminCmd.MarkFlagRequired("email")
}

func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	fmt.Fprint(os.Stderr, "Repeat password: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if string(first) != string(second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
