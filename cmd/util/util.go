package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"shardkv/rpc/common"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig initializes configuration from environment variables.
// Flags can be overridden with SHARDKV_<flag> (e.g. SHARDKV_RETRIES=5).
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("shardkv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper.
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// NewLogger builds the process logger at the given level (debug, info,
// warn, error).
func NewLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", level)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// --------------------------------------------------------------------------
// Client flags
// --------------------------------------------------------------------------

// DefaultServers is the default static server pool.
const DefaultServers = "1=localhost:7001,2=localhost:7002,3=localhost:7003"

// SetupClientFlags adds the shared client connection flags to a command.
func SetupClientFlags(cmd *cobra.Command) {
	key := "servers"
	cmd.PersistentFlags().String(key, DefaultServers, WrapString("Comma-separated server pool in the format ID=host:port. Keys are routed over this fixed pool by hashing"))

	key = "no-sharding"
	cmd.PersistentFlags().Bool(key, false, WrapString("Disable key routing and send every request to the first server (single-node and testing use)"))

	key = "timeout"
	cmd.PersistentFlags().Int(key, 5, WrapString("Connect/read/write timeout in seconds"))

	key = "retries"
	cmd.PersistentFlags().Int(key, 3, WrapString("How many times to retry a request after a transport failure"))

	key = "retry-delay"
	cmd.PersistentFlags().Int(key, 500, WrapString("Fixed delay between retry attempts in milliseconds"))

	key = "log-level"
	cmd.PersistentFlags().String(key, "warn", WrapString("Log level (debug, info, warn, error)"))
}

// GetClientConfig reads the client configuration from viper.
func GetClientConfig() (*common.ClientConfig, error) {
	servers, err := common.ParseServerList(viper.GetString("servers"))
	if err != nil {
		return nil, err
	}

	return &common.ClientConfig{
		Servers:       servers,
		Sharding:      !viper.GetBool("no-sharding"),
		TimeoutSecond: viper.GetInt("timeout"),
		RetryCount:    viper.GetInt("retries"),
		RetryDelay:    time.Duration(viper.GetInt("retry-delay")) * time.Millisecond,
	}, nil
}
