package client

import (
	"crypto/md5"
	"encoding/binary"

	"shardkv/rpc/common"
)

// hashKey reduces a key to a stable integer: the first 8 bytes of its md5
// digest, big endian. The digest is stable across processes and restarts,
// which is all the routing contract requires.
func hashKey(key string) uint64 {
	sum := md5.Sum([]byte(key))
	return binary.BigEndian.Uint64(sum[:8])
}

// Route selects the server responsible for a key.
//
// This is static modulo sharding: hash(key) mod server-count over a fixed
// pool. Changing the number of servers remaps nearly all keys; there is no
// hash ring and no rebalancing. With sharding disabled the first server
// handles everything.
func (c *Client) Route(key string) common.ServerInfo {
	if !c.config.Sharding {
		return c.config.Servers[0]
	}
	index := hashKey(key) % uint64(len(c.config.Servers))
	return c.config.Servers[index]
}
