package kv

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive store shell",
	Long:  `Start an interactive shell against the configured server pool. Commands mirror the one-shot verbs: set, get, del, expire, stats, keys, servers. Type "help" for details, "exit" to leave.`,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	rl, err := readline.New("kv> ")
	if err != nil {
		return fmt.Errorf("failed to start shell: %w", err)
	}
	defer rl.Close()

	fmt.Println("Connected to pool:")
	for _, server := range kvClient.Config().Servers {
		fmt.Printf("  Server %d: %s\n", server.ID, server.Addr())
	}
	fmt.Println(`Type "help" for available commands.`)

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		args, err := shellwords.Parse(line)
		if err != nil {
			errorColor.Printf("✗ %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		if done := execShellCommand(args); done {
			return nil
		}
	}
}

// execShellCommand runs one parsed shell line. Returns true when the
// shell should exit.
func execShellCommand(args []string) bool {
	command, rest := strings.ToLower(args[0]), args[1:]

	switch command {
	case "exit", "quit":
		return true

	case "help":
		printShellHelp()

	case "set":
		if len(rest) < 2 {
			errorColor.Println("✗ Usage: set <key> <value>")
			break
		}
		// everything after the key is the value, quoted or not
		printResponse(kvClient.Set(rest[0], strings.Join(rest[1:], " ")))

	case "get":
		if len(rest) != 1 {
			errorColor.Println("✗ Usage: get <key>")
			break
		}
		printResponse(kvClient.Get(rest[0]))

	case "del", "delete":
		if len(rest) != 1 {
			errorColor.Println("✗ Usage: del <key>")
			break
		}
		printResponse(kvClient.Delete(rest[0]))

	case "expire":
		if len(rest) != 2 {
			errorColor.Println("✗ Usage: expire <key> <seconds>")
			break
		}
		seconds, err := strconv.ParseInt(rest[1], 10, 64)
		if err != nil {
			errorColor.Println("✗ Seconds must be an integer")
			break
		}
		printResponse(kvClient.Expire(rest[0], seconds))

	case "stats":
		if len(rest) > 1 {
			errorColor.Println("✗ Usage: stats [server_id]")
			break
		}
		if len(rest) == 1 {
			serverID, err := strconv.Atoi(rest[0])
			if err != nil {
				errorColor.Println("✗ server_id must be an integer")
				break
			}
			printResponse(kvClient.Stats(serverID))
			break
		}
		printServerResponses(kvClient.StatsAll())

	case "keys":
		if len(rest) > 1 {
			errorColor.Println("✗ Usage: keys [server_id]")
			break
		}
		if len(rest) == 1 {
			serverID, err := strconv.Atoi(rest[0])
			if err != nil {
				errorColor.Println("✗ server_id must be an integer")
				break
			}
			printResponse(kvClient.Keys(serverID))
			break
		}
		printServerResponses(kvClient.KeysAll())

	case "servers":
		for _, server := range kvClient.Config().Servers {
			fmt.Printf("  Server %d: %s\n", server.ID, server.Addr())
		}

	default:
		errorColor.Printf("✗ Unknown command: %s\n", args[0])
		fmt.Println(`  Type "help" for available commands.`)
	}
	return false
}

func printShellHelp() {
	fmt.Println("Available commands:")
	fmt.Println("  set <key> <value>      Store a value")
	fmt.Println("  get <key>              Fetch a value")
	fmt.Println("  del <key>              Delete a key")
	fmt.Println("  expire <key> <seconds> Set a key's TTL")
	fmt.Println("  stats [server_id]      Show server statistics")
	fmt.Println("  keys [server_id]       List stored keys")
	fmt.Println("  servers                Show the configured pool")
	fmt.Println("  help                   Show this help")
	fmt.Println("  exit                   Leave the shell")
}
