package kv

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"shardkv/rpc/client"
	"shardkv/rpc/common"
)

var (
	successColor = color.New(color.FgGreen)
	nullColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
)

// printResponse renders a single server response.
func printResponse(resp common.Response) {
	switch resp.Status {
	case common.StatusSuccess:
		successColor.Printf("✓ SUCCESS (Server %d)\n", resp.ServerID)

		if resp.Value != nil {
			fmt.Printf("  Key: %s\n", resp.Key)
			fmt.Printf("  Value: %s\n", *resp.Value)
		}
		if resp.TTL != nil {
			if *resp.TTL >= 0 {
				fmt.Printf("  TTL: %d seconds\n", *resp.TTL)
			} else {
				fmt.Println("  TTL: No expiration")
			}
		}
		if resp.Stats != nil {
			printStats(resp.Stats)
		}
		if resp.Count != nil {
			if len(resp.Keys) > 0 {
				fmt.Printf("  Keys (%d): %s\n", *resp.Count, strings.Join(resp.Keys, ", "))
			} else {
				fmt.Printf("  Keys (%d): None\n", *resp.Count)
			}
		}
		if resp.Message != "" {
			fmt.Printf("  %s\n", resp.Message)
		}

	case common.StatusNull:
		nullColor.Printf("⊘ NOT FOUND (Server %d)\n", resp.ServerID)
		fmt.Printf("  %s\n", messageOr(resp.Message, "Key not found"))

	case common.StatusError:
		errorColor.Printf("✗ ERROR (Server %d)\n", resp.ServerID)
		fmt.Printf("  %s\n", messageOr(resp.Message, "Unknown error"))

	default:
		fmt.Printf("? UNKNOWN STATUS: %s\n", resp.Status)
	}
}

// printServerResponses renders a fan-out result, one block per server.
func printServerResponses(results []client.ServerResponse) {
	for _, result := range results {
		fmt.Println()
		fmt.Println(strings.Repeat("=", 60))
		fmt.Printf("Server %d (Port %d)\n", result.ServerID, result.Port)
		fmt.Println(strings.Repeat("=", 60))
		printResponse(result.Response)
	}
}

func printStats(stats *common.StatsPayload) {
	fmt.Printf("  Total Requests: %d\n", stats.TotalRequests)
	fmt.Printf("  GET: %d\n", stats.GetRequests)
	fmt.Printf("  SET: %d\n", stats.SetRequests)
	fmt.Printf("  DELETE: %d\n", stats.DeleteRequests)
	fmt.Printf("  EXPIRE: %d\n", stats.ExpireRequests)
	fmt.Printf("  Total Keys: %d\n", stats.TotalKeys)
	fmt.Printf("  Keys with TTL: %d\n", stats.KeysWithTTL)
}

func messageOr(message, fallback string) string {
	if message == "" {
		return fallback
	}
	return message
}
