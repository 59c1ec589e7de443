package main

import (
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "ecdriver",
	Short: "EtherCAT PDO channel mapping driver",
	Long: `ecdriver maps logical control values to and from the bit fields of
cyclically exchanged EtherCAT process data, following declarative slave
configuration files.

Commands:
  run       load the slave configs, bind interfaces and run the cyclic exchange
  validate  check slave configuration files against the schema`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/driver.yaml", "Driver configuration file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
