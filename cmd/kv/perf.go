package kv

import (
	"fmt"
	"time"

	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"

	"shardkv/rpc/common"
)

var (
	perfRequests int

	perfCmd = &cobra.Command{
		Use:   "perf",
		Short: "Run a simple write/read benchmark against the pool",
		Long:  `Run a simple benchmark: N unique SET requests followed by N GET requests for the same keys, routed across the pool. Reports throughput and latency percentiles per verb.`,
		RunE:  runPerf,
	}
)

func init() {
	perfCmd.Flags().IntVarP(&perfRequests, "requests", "n", 100, "Number of set/get round trips")
}

func runPerf(cmd *cobra.Command, _ []string) error {
	if perfRequests <= 0 {
		return fmt.Errorf("requests must be a positive integer")
	}

	registry := gometrics.NewRegistry()
	setTimer := gometrics.NewRegisteredTimer("set", registry)
	getTimer := gometrics.NewRegisteredTimer("get", registry)

	fmt.Printf("Running %d SET + %d GET requests against %d server(s)...\n",
		perfRequests, perfRequests, len(kvClient.Config().Servers))

	var failures int
	start := time.Now()

	for i := 0; i < perfRequests; i++ {
		key := fmt.Sprintf("perf:%d", i)
		value := fmt.Sprintf("value-%d", i)

		began := time.Now()
		resp := kvClient.Set(key, value)
		setTimer.UpdateSince(began)
		if resp.Status == common.StatusError {
			failures++
		}
	}

	for i := 0; i < perfRequests; i++ {
		key := fmt.Sprintf("perf:%d", i)

		began := time.Now()
		resp := kvClient.Get(key)
		getTimer.UpdateSince(began)
		if resp.Status == common.StatusError {
			failures++
		}
	}

	elapsed := time.Since(start)

	fmt.Println()
	printTimer("SET", setTimer)
	printTimer("GET", getTimer)
	fmt.Printf("Total: %d requests in %s (%d failed)\n",
		2*perfRequests, elapsed.Round(time.Millisecond), failures)

	// Benchmark keys stay in the store on purpose: a follow-up "kv keys"
	// shows how the hash spread them over the pool.
	return nil
}

func printTimer(name string, timer gometrics.Timer) {
	snapshot := timer.Snapshot()
	fmt.Printf("%s: count=%d rate=%.1f/s mean=%s p95=%s p99=%s\n",
		name,
		snapshot.Count(),
		snapshot.RateMean(),
		time.Duration(snapshot.Mean()).Round(time.Microsecond),
		time.Duration(snapshot.Percentile(0.95)).Round(time.Microsecond),
		time.Duration(snapshot.Percentile(0.99)).Round(time.Microsecond),
	)
}
