package kv

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	setCmd = &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Sets the value for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			printResponse(kvClient.Set(args[0], args[1]))
			return nil
		},
	}
	getCmd = &cobra.Command{
		Use:   "get [key]",
		Short: "Reads the value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printResponse(kvClient.Get(args[0]))
			return nil
		},
	}
	delCmd = &cobra.Command{
		Use:     "del [key]",
		Aliases: []string{"delete"},
		Short:   "Deletes a key value pair",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printResponse(kvClient.Delete(args[0]))
			return nil
		},
	}
	expireCmd = &cobra.Command{
		Use:   "expire [key] [seconds]",
		Short: "Sets an expiration time for a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			seconds, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("seconds must be an integer: %w", err)
			}
			printResponse(kvClient.Expire(args[0], seconds))
			return nil
		},
	}
	statsCmd = &cobra.Command{
		Use:   "stats [server_id]",
		Short: "Shows statistics for one server, or all servers when omitted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				serverID, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("server_id must be an integer: %w", err)
				}
				printResponse(kvClient.Stats(serverID))
				return nil
			}
			printServerResponses(kvClient.StatsAll())
			return nil
		},
	}
	keysCmd = &cobra.Command{
		Use:   "keys [server_id]",
		Short: "Lists keys on one server, or all servers when omitted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				serverID, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("server_id must be an integer: %w", err)
				}
				printResponse(kvClient.Keys(serverID))
				return nil
			}
			printServerResponses(kvClient.KeysAll())
			return nil
		},
	}
	serversCmd = &cobra.Command{
		Use:   "servers",
		Short: "Shows the configured server pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := kvClient.Config()
			fmt.Println(config.String())
			return nil
		},
	}
)
