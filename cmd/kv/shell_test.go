package kv

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/mattn/go-shellwords"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shardkv/lib/engine"
	"shardkv/rpc/client"
	"shardkv/rpc/common"
	"shardkv/rpc/server"
)

// startShellFixture runs a real server and points the package client at it.
func startShellFixture(t *testing.T) *server.Server {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	config := common.ServerConfig{
		ServerID:      1,
		Host:          "127.0.0.1",
		Port:          port,
		DataDir:       t.TempDir(),
		SaveInterval:  time.Hour,
		ReapInterval:  time.Hour,
		TimeoutSecond: 2,
	}
	srv := server.New(config, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = srv.Serve(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	kvClient, err = client.New(common.ClientConfig{
		Servers:       []common.ServerInfo{{ID: 1, Host: "127.0.0.1", Port: port}},
		Sharding:      true,
		TimeoutSecond: 2,
		RetryCount:    5,
		RetryDelay:    50 * time.Millisecond,
	}, zap.NewNop().Sugar())
	require.NoError(t, err)

	return srv
}

// execLine parses one shell line the way the prompt loop does and runs it.
func execLine(t *testing.T, line string) bool {
	t.Helper()
	args, err := shellwords.Parse(line)
	require.NoError(t, err)
	return execShellCommand(args)
}

func TestShell_SetJoinsRemainingWords(t *testing.T) {
	srv := startShellFixture(t)

	assert.False(t, execLine(t, "set greeting hello world"))

	value, _, _ := srv.Engine().Get("greeting")
	assert.Equal(t, "hello world", value)
}

func TestShell_SetQuotedValue(t *testing.T) {
	srv := startShellFixture(t)

	assert.False(t, execLine(t, `set greeting "hello world"`))

	value, _, _ := srv.Engine().Get("greeting")
	assert.Equal(t, "hello world", value)
}

func TestShell_RoundTripVerbs(t *testing.T) {
	srv := startShellFixture(t)

	assert.False(t, execLine(t, "set name alice"))
	assert.False(t, execLine(t, "get name"))
	assert.False(t, execLine(t, "expire name 3600"))
	assert.False(t, execLine(t, "del name"))

	_, _, out := srv.Engine().Get("name")
	assert.Equal(t, engine.OutcomeMissing, out)
}

func TestShell_ExitCommands(t *testing.T) {
	startShellFixture(t)

	assert.True(t, execShellCommand([]string{"exit"}))
	assert.True(t, execShellCommand([]string{"quit"}))
	assert.False(t, execShellCommand([]string{"help"}))
}
