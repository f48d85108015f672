// Package client implements the store client: deterministic key routing
// over a static server pool, a synchronous retry transport and fan-out for
// the server-addressed commands.
//
// Routing is static modulo sharding - hash(key) mod server-count - not a
// consistent-hash ring: resizing the pool remaps nearly all keys.
//
// Every call returns a Response; the client never raises transport problems
// past Send. Failed servers are reported as error responses tagged with the
// server identity, so aggregations over the whole pool never abort on one
// failing node.
//
// Usage:
//
//	cfg := common.ClientConfig{
//		Servers:       servers,
//		Sharding:      true,
//		TimeoutSecond: 5,
//		RetryCount:    3,
//		RetryDelay:    500 * time.Millisecond,
//	}
//	c, _ := client.New(cfg, log)
//	c.Set("user:1", "John")
//	resp := c.Get("user:1")
package client
