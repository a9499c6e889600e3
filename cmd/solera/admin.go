package main

import (
	"fmt"

	"github.com/solera-market/solera/internal/auth"
	"github.com/solera-market/solera/internal/models"
	"github.com/solera-market/solera/internal/rbac"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage platform users",
}

var (
	createUserUsername string
	createUserEmail    string
	createUserPassword string
	createUserIsAdmin  bool
)

var adminCreateUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a user directly in the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if createUserUsername == "" || createUserEmail == "" || createUserPassword == "" {
			return fmt.Errorf("--username, --email and --password are required")
		}

		database, _, err := openDB()
		if err != nil {
			return err
		}

		hash, err := auth.HashPassword(createUserPassword)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		user := models.User{
			Username:     createUserUsername,
			Email:        createUserEmail,
			PasswordHash: hash,
		}
		if err := database.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		if createUserIsAdmin {
			enforcer, err := rbac.NewEnforcer(database)
			if err != nil {
				return fmt.Errorf("failed to initialize RBAC: %w", err)
			}
			if err := enforcer.MakeAdmin(user.ID); err != nil {
				return fmt.Errorf("failed to grant admin role: %w", err)
			}
		}

		fmt.Printf("Created user %s (%s), admin=%t\n", user.Username, user.ID, createUserIsAdmin)
		return nil
	},
}

func init() {
	adminCreateUserCmd.Flags().StringVar(&createUserUsername, "username", "", "Username")
	adminCreateUserCmd.Flags().StringVar(&createUserEmail, "email", "", "Email address")
	adminCreateUserCmd.Flags().StringVar(&createUserPassword, "password", "", "Password")
	adminCreateUserCmd.Flags().BoolVar(&createUserIsAdmin, "admin", false, "Grant the admin role")

	adminCmd.AddCommand(adminCreateUserCmd)
}
