package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"shardkv/cmd/kv"
	"shardkv/cmd/serve"
)

const (
	Version = "1.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "shardkv",
		Short: "minimal distributed key-value store",
		Long: fmt.Sprintf(`shardkv (v%s)

A minimal distributed key-value store: independent single-node servers
with per-key expiration and periodic snapshots, and a client that routes
each key to a server by hashing over a static pool.`, Version),
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of shardkv",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("shardkv v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(serve.ServeCmd)
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
