package kv

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shardkv/cmd/util"
	"shardkv/rpc/client"
)

var (
	kvClient *client.Client

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:               "kv",
		Short:             "Perform key-value store operations",
		PersistentPreRunE: setupClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add common client flags to the KV command
	util.SetupClientFlags(KeyValueCommands)

	// Add subcommands
	KeyValueCommands.AddCommand(setCmd)
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(delCmd)
	KeyValueCommands.AddCommand(expireCmd)
	KeyValueCommands.AddCommand(statsCmd)
	KeyValueCommands.AddCommand(keysCmd)
	KeyValueCommands.AddCommand(serversCmd)
	KeyValueCommands.AddCommand(shellCmd)
	KeyValueCommands.AddCommand(perfCmd)
}

// setupClient builds the store client from the bound flags.
func setupClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	config, err := util.GetClientConfig()
	if err != nil {
		return err
	}

	log, err := util.NewLogger(viper.GetString("log-level"))
	if err != nil {
		return err
	}

	kvClient, err = client.New(*config, log)
	return err
}
