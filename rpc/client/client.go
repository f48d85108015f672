package client

import (
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"shardkv/rpc/common"
	"shardkv/rpc/serializer"
	"shardkv/rpc/transport"
)

// Client routes keys to servers in a static pool and performs synchronous
// request/response exchanges with bounded retry. One request is in flight
// per call; connections are not reused.
type Client struct {
	config     common.ClientConfig
	serializer serializer.IRPCSerializer
	log        *zap.SugaredLogger
}

// New creates a client over the given pool. The config must contain at
// least one server.
func New(config common.ClientConfig, log *zap.SugaredLogger) (*Client, error) {
	if len(config.Servers) == 0 {
		return nil, fmt.Errorf("no servers configured")
	}
	return &Client{
		config:     config,
		serializer: serializer.NewJSONSerializer(),
		log:        log,
	}, nil
}

// Config returns the client configuration.
func (c *Client) Config() common.ClientConfig {
	return c.config
}

// --------------------------------------------------------------------------
// Store Verbs (routed by key)
// --------------------------------------------------------------------------

// Get fetches the value for a key from its shard.
func (c *Client) Get(key string) common.Response {
	return c.Send(c.Route(key), common.NewGetRequest(key))
}

// Set stores a value on the key's shard.
func (c *Client) Set(key, value string) common.Response {
	return c.Send(c.Route(key), common.NewSetRequest(key, value))
}

// Delete removes a key from its shard.
func (c *Client) Delete(key string) common.Response {
	return c.Send(c.Route(key), common.NewDeleteRequest(key))
}

// Expire sets a key's TTL on its shard.
func (c *Client) Expire(key string, seconds int64) common.Response {
	return c.Send(c.Route(key), common.NewExpireRequest(key, seconds))
}

// --------------------------------------------------------------------------
// Retry Transport
// --------------------------------------------------------------------------

// Send performs one request/response exchange with the given server.
//
// Transport failures (dial, write, read) are retried up to the configured
// retry count with a fixed delay between attempts; after exhaustion the
// result is an error response tagged with the server's identity. A response
// that cannot be decoded is a distinct failure class and is reported
// immediately, without retry. Send never panics and never returns a Go
// error: every outcome is a Response.
func (c *Client) Send(server common.ServerInfo, req common.Request) common.Response {
	payload, err := c.serializer.SerializeRequest(req)
	if err != nil {
		resp := common.NewErrorResponse(fmt.Sprintf("failed to encode request: %v", err))
		resp.ServerID = server.ID
		return resp
	}

	attempts := c.config.RetryCount + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			c.log.Debugw("retrying request",
				"server_id", server.ID,
				"attempt", attempt,
				"max_retries", c.config.RetryCount,
				"error", lastErr,
			)
			time.Sleep(c.config.RetryDelay)
		}

		data, err := c.exchange(server, payload)
		if err != nil {
			lastErr = err
			continue
		}

		var resp common.Response
		if err := c.serializer.DeserializeResponse(data, &resp); err != nil {
			// Not a transport failure: the server answered, but with
			// something unreadable. Retrying cannot help.
			resp = common.NewErrorResponse("Invalid response from server")
			resp.ServerID = server.ID
			return resp
		}
		return resp
	}

	c.log.Warnw("server unavailable",
		"server_id", server.ID,
		"retries", c.config.RetryCount,
		"error", lastErr,
	)
	resp := common.NewErrorResponse(
		fmt.Sprintf("Server %d unavailable after %d retries", server.ID, c.config.RetryCount))
	resp.ServerID = server.ID
	return resp
}

// exchange opens a connection, sends the framed payload and reads the
// framed response. Every error it returns is transport-class.
func (c *Client) exchange(server common.ServerInfo, payload []byte) ([]byte, error) {
	conn, err := net.DialTimeout("tcp", server.Addr(), c.config.Timeout())
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", server.Addr(), err)
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.config.Timeout())); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	if err := transport.WriteFrame(conn, payload); err != nil {
		return nil, fmt.Errorf("send request to %s: %w", server.Addr(), err)
	}

	data, err := transport.ReadFrame(conn)
	if err != nil {
		return nil, fmt.Errorf("read response from %s: %w", server.Addr(), err)
	}
	return data, nil
}
