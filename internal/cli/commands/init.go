package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/campushire/campushire/internal/cli/config"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a campushire.yaml configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit()
		},
	}
}

func runInit() error {
	if _, err := os.Stat(config.ConfigFileName); err == nil {
		return fmt.Errorf("%s already exists in the current directory", config.ConfigFileName)
	}

	if err := config.Save(config.ConfigFileName, config.DefaultConfig()); err != nil {
		return err
	}

	fmt.Printf("✓ Created %s\n", config.ConfigFileName)
	fmt.Println("\nNext steps:")
	fmt.Printf("  1. Edit %s and set your portal URL\n", config.ConfigFileName)
	fmt.Println("  2. Create an account with: campushire signup")
	fmt.Println("     or sign in with:        campushire login")

	return nil
}
