package users

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskrelay/taskrelay/internal/config"
	"github.com/taskrelay/taskrelay/internal/db/bunx"
	"github.com/taskrelay/taskrelay/internal/repository"
	"github.com/taskrelay/taskrelay/internal/services/iam"
)

var (
	usernameFlag string
	passwordFlag string
	stdinFlag    bool
)

// UsersCmd groups user management subcommands.
var UsersCmd = &cobra.Command{
	Use:   "users",
	Short: "User management commands",
}

// createAdminCmd is the privileged admin-creation path. The public
// /register endpoint lets callers self-declare the admin flag for
// compatibility; operators who block that at the edge create admins here
// instead.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if usernameFlag == "" {
			return fmt.Errorf("--username flag is required")
		}

		password := passwordFlag
		if stdinFlag {
			scanner := bufio.NewScanner(os.Stdin)
			fmt.Print("Enter password: ")
			if scanner.Scan() {
				password = scanner.Text()
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
		}

		if password == "" {
			return fmt.Errorf("password is required (use --password or --stdin)")
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := bunx.NewDB(cfg.DatabaseURL, cfg.MaxDBConnections)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		iamService := iam.NewService(repository.NewBunUserRepository(db))
		if err := iamService.Register(context.Background(), usernameFlag, password, true); err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}

		fmt.Printf("Admin user %q created\n", usernameFlag)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&usernameFlag, "username", "", "Username for the new admin")
	createAdminCmd.Flags().StringVar(&passwordFlag, "password", "", "Password for the new admin")
	createAdminCmd.Flags().BoolVar(&stdinFlag, "stdin", false, "Read the password from stdin")

	UsersCmd.AddCommand(createAdminCmd)
}
