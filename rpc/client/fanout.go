package client

import (
	"fmt"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"shardkv/rpc/common"
)

// ServerResponse pairs one server of the pool with its response, for
// commands that address servers instead of keys.
type ServerResponse struct {
	ServerID int
	Port     int
	Response common.Response
}

// Stats fetches the statistics of one server by identity.
func (c *Client) Stats(serverID int) common.Response {
	return c.sendToServer(serverID, common.NewStatsRequest())
}

// Keys lists the keys held by one server.
func (c *Client) Keys(serverID int) common.Response {
	return c.sendToServer(serverID, common.NewKeysRequest())
}

// StatsAll fans the STATS request out to every configured server.
func (c *Client) StatsAll() []ServerResponse {
	return c.fanOut(common.NewStatsRequest())
}

// KeysAll fans the KEYS request out to every configured server.
func (c *Client) KeysAll() []ServerResponse {
	return c.fanOut(common.NewKeysRequest())
}

// sendToServer targets a single server by identity.
func (c *Client) sendToServer(serverID int, req common.Request) common.Response {
	for _, server := range c.config.Servers {
		if server.ID == serverID {
			return c.Send(server, req)
		}
	}
	resp := common.NewErrorResponse(fmt.Sprintf("Server %d not found", serverID))
	resp.ServerID = serverID
	return resp
}

// fanOut queries all servers concurrently and returns the responses in
// configured pool order. A failing server contributes its error response;
// it never aborts the aggregation.
func (c *Client) fanOut(req common.Request) []ServerResponse {
	results := xsync.NewMapOf[int, common.Response]()

	var wg sync.WaitGroup
	for _, server := range c.config.Servers {
		wg.Add(1)
		go func(server common.ServerInfo) {
			defer wg.Done()
			results.Store(server.ID, c.Send(server, req))
		}(server)
	}
	wg.Wait()

	out := make([]ServerResponse, 0, len(c.config.Servers))
	for _, server := range c.config.Servers {
		resp, _ := results.Load(server.ID)
		out = append(out, ServerResponse{
			ServerID: server.ID,
			Port:     server.Port,
			Response: resp,
		})
	}
	return out
}
