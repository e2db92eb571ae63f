// Package cli wires the mu commands: the sampler (`mu sample`), the
// orchestrator (`mu gather`), and the two viewers (`mu monitor`,
// `mu web`).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ConfigFileName is the optional viewer/orchestrator config file, looked
// up in the current directory and the home directory.
const ConfigFileName = ".mu.yaml"

// DefaultDataPath is where the cluster snapshot lives unless a flag or
// the config file says otherwise.
const DefaultDataPath = "/martini/sshuser/mu/mu.dat"

// rootCmd is the base command for mu.
var rootCmd = &cobra.Command{
	Use:   "mu",
	Short: "Fleet resource monitoring",
	Long: `mu watches resource usage across a fleet of shared machines.

The sampler runs on each machine and reports its own usage, the gatherer
fans out over SSH and aggregates every machine's report into a single
snapshot, and the viewers render that snapshot in the terminal or the
browser.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.
func Execute() {
	initConfig()
	if err := rootCmd.Execute(); err != nil {
		// Structured errors already render their own suggestion line.
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig loads the optional .mu.yaml and sets the config defaults.
// A missing config file is fine; a malformed one is not.
func initConfig() {
	viper.SetConfigName(".mu")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.SetEnvPrefix("MU")
	viper.AutomaticEnv()

	viper.SetDefault("data", DefaultDataPath)
	viper.SetDefault("show_room", false)

	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			fmt.Fprintf(os.Stderr, "warning: ignoring %s: %v\n", ConfigFileName, err)
		}
	}
}
