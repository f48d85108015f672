package serve

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdUtil "shardkv/cmd/util"
	"shardkv/rpc/common"
	"shardkv/rpc/server"
)

var (
	serveCmdConfig = &common.ServerConfig{}
	ServeCmd       = &cobra.Command{
		Use:     "serve",
		Short:   "Start a shardkv server",
		Long:    `Start one shardkv server instance. Every flag can also be set via environment variable in the form SHARDKV_<flag> (e.g. SHARDKV_PORT=7001). Servers are independent: run one process per shard of the pool.`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(cmdUtil.InitConfig)

	// add flags
	key := "id"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("Integer identity of this server. Determines the snapshot file name and tags every response"))

	key = "port"
	ServeCmd.PersistentFlags().Int(key, 0, cmdUtil.WrapString("TCP port to listen on"))

	key = "host"
	ServeCmd.PersistentFlags().String(key, "", cmdUtil.WrapString("Host address to bind. Defaults to the resolved hostname, falling back to 127.0.0.1"))

	key = "data-dir"
	ServeCmd.PersistentFlags().String(key, "data", cmdUtil.WrapString("Directory holding the snapshot file kv_store_server<id>.json"))

	key = "save-interval"
	ServeCmd.PersistentFlags().Int(key, 10, cmdUtil.WrapString("Seconds between two snapshot saves"))

	key = "reap-interval"
	ServeCmd.PersistentFlags().Int(key, 5, cmdUtil.WrapString("Seconds between two expired-key sweeps"))

	key = "timeout"
	ServeCmd.PersistentFlags().Int64(key, 5, cmdUtil.WrapString("Per-connection read/write timeout in seconds"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", cmdUtil.WrapString("Log level (debug, info, warn, error)"))
}

// processConfig reads the configuration from the command line flags and
// environment variables and converts them to the server configuration.
func processConfig(cmd *cobra.Command, _ []string) error {
	// bind the flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	serveCmdConfig.ServerID = viper.GetInt("id")
	serveCmdConfig.Port = viper.GetInt("port")
	serveCmdConfig.Host = viper.GetString("host")
	serveCmdConfig.DataDir = viper.GetString("data-dir")
	serveCmdConfig.SaveInterval = time.Duration(viper.GetInt("save-interval")) * time.Second
	serveCmdConfig.ReapInterval = time.Duration(viper.GetInt("reap-interval")) * time.Second
	serveCmdConfig.TimeoutSecond = viper.GetInt64("timeout")
	serveCmdConfig.LogLevel = viper.GetString("log-level")

	if serveCmdConfig.ServerID <= 0 {
		return fmt.Errorf("server id is required and must be a positive integer (--id)")
	}
	if serveCmdConfig.Port <= 0 {
		return fmt.Errorf("port is required and must be a positive integer (--port)")
	}

	if serveCmdConfig.Host == "" {
		serveCmdConfig.Host = resolveHost()
	}

	return nil
}

// resolveHost resolves the local hostname to an address, falling back to
// loopback when resolution fails (common in minimal containers).
func resolveHost() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "127.0.0.1"
	}
	addrs, err := net.LookupHost(hostname)
	if err != nil || len(addrs) == 0 {
		return "127.0.0.1"
	}
	return addrs[0]
}

func run(cmd *cobra.Command, _ []string) error {
	log, err := cmdUtil.NewLogger(serveCmdConfig.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	srv := server.New(*serveCmdConfig, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return srv.Serve(ctx)
}
