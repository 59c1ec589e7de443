package main

import (
	"fmt"
	"os"

	"github.com/Ormared/ethercat-driver-ros2/internal/slave"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Validate slave configuration files against the schema",
	Args:  cobra.MinimumNArgs(1),
	RunE:  validateConfigs,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfigs(cmd *cobra.Command, args []string) error {
	validator, err := slave.NewValidator()
	if err != nil {
		return fmt.Errorf("failed to create validator: %w", err)
	}

	failed := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed++
			continue
		}
		if err := validator.ValidateConfig(data); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Printf("%s: ok\n", path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed validation", failed, len(args))
	}
	return nil
}
