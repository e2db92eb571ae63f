package cli

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ma3ke/mu/internal/gather"
	"github.com/ma3ke/mu/internal/monitor"
)

// Command-specific flags
var (
	samplePolicyFlag string

	gatherRosterFlag   string
	gatherOutputFlag   string
	gatherSamplerFlag  string
	gatherParallelFlag int
	gatherTimeoutFlag  time.Duration

	monitorDataFlag     string
	monitorIntervalFlag time.Duration
	monitorRoomFlag     bool

	webDataFlag   string
	webListenFlag string

	initForce bool
)

// sampleCmd reports this machine's usage on stdout.
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Report this machine's usage on stdout",
	Long: `Probe the local machine and print its usage snapshot.

This is the command the gatherer runs on every machine in the roster.
The optional policy file drops noise (ignored users and processes, idle
processes) and canonicalizes process names.

Examples:
  mu sample
  mu sample --policy /etc/mu/policy`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return sampleCommand(cmd.OutOrStdout(), samplePolicyFlag)
	},
}

// gatherCmd collects every roster machine's snapshot into one file.
var gatherCmd = &cobra.Command{
	Use:   "gather",
	Short: "Gather the whole fleet into a snapshot file",
	Long: `Run the sampler on every machine in the roster over SSH and write
the aggregated cluster snapshot.

Machines that can't be reached are logged and left out; they never fail
the run. Only a broken roster or a failed write does.

Examples:
  mu gather --roster machines --output /martini/sshuser/mu/mu.dat
  mu gather --roster machines --parallel 32 --timeout 10s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return gatherCommand(gatherOptions{
			rosterPath: gatherRosterFlag,
			outputPath: gatherOutputFlag,
			samplerCmd: gatherSamplerFlag,
			parallel:   gatherParallelFlag,
			timeout:    gatherTimeoutFlag,
		})
	},
}

// monitorCmd starts the terminal dashboard.
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch the fleet in the terminal",
	Long: `Open the terminal dashboard.

Polls the snapshot file once per interval and keeps showing the last
good data when a poll fails. Press R to toggle the room column, q to
quit.

Examples:
  mu monitor
  mu monitor --data ./mu.dat --interval 2s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(monitor.Options{
			Path:     dataPath(monitorDataFlag),
			Interval: monitorIntervalFlag,
			ShowRoom: monitorRoomFlag || viper.GetBool("show_room"),
		})
	},
}

// webCmd serves the fleet dashboard over HTTP.
var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve the fleet dashboard over HTTP",
	Long: `Serve the dashboard as a small web page.

The snapshot is re-read on every request; a failed read keeps serving
the previous data, marked stale.

Examples:
  mu web
  mu web --data ./mu.dat --listen 0.0.0.0:5172`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return webCommand(dataPath(webDataFlag), webListenFlag)
	},
}

// initCmd creates a .mu.yaml configuration.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .mu.yaml configuration",
	Long: `Initialize a mu configuration file in the current directory.

Walks through the snapshot path, the roster path, and viewer defaults
with interactive prompts.

Examples:
  mu init
  mu init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForce)
	},
}

// dataPath resolves the snapshot path: flag first, then config, then the
// built-in default.
func dataPath(flag string) string {
	if flag != "" {
		return flag
	}
	return viper.GetString("data")
}

func init() {
	sampleCmd.Flags().StringVar(&samplePolicyFlag, "policy", "",
		"Path of the filter policy file (missing file means no filtering)")

	gatherCmd.Flags().StringVar(&gatherRosterFlag, "roster", "",
		"Path of the machine roster file")
	gatherCmd.Flags().StringVar(&gatherOutputFlag, "output", "",
		"Where to write the cluster snapshot (defaults to the data path)")
	gatherCmd.Flags().StringVar(&gatherSamplerFlag, "sampler", gather.DefaultSamplerCmd,
		"Sampler command to run on each machine")
	gatherCmd.Flags().IntVar(&gatherParallelFlag, "parallel", gather.DefaultWorkers,
		"How many machines to sample at once")
	gatherCmd.Flags().DurationVar(&gatherTimeoutFlag, "timeout", gather.DefaultTimeout,
		"Per-machine deadline")
	_ = gatherCmd.MarkFlagRequired("roster")

	monitorCmd.Flags().StringVar(&monitorDataFlag, "data", "",
		"Path of the cluster snapshot file")
	monitorCmd.Flags().DurationVar(&monitorIntervalFlag, "interval", monitor.DefaultInterval,
		"Snapshot poll interval")
	monitorCmd.Flags().BoolVar(&monitorRoomFlag, "room", false,
		"Start with the room column visible")

	webCmd.Flags().StringVar(&webDataFlag, "data", "",
		"Path of the cluster snapshot file")
	webCmd.Flags().StringVar(&webListenFlag, "listen", "",
		"Listen address (host:port)")

	initCmd.Flags().BoolVar(&initForce, "force", false,
		"Overwrite an existing config without asking")

	rootCmd.AddCommand(sampleCmd, gatherCmd, monitorCmd, webCmd, initCmd)
}
