package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskrelay/taskrelay/cmd/relayapi/cmd/users"
	"github.com/taskrelay/taskrelay/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "relayapi",
	Short: "Assignment routing service",
	Long: `relayapi routes assignment submissions from users to named admins.
Users register and upload assignments; the addressed admin reviews and
accepts or rejects each one.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(users.UsersCmd)
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
