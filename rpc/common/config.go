package common

import (
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Server Descriptors
// --------------------------------------------------------------------------

// ServerInfo describes one server in the static pool: integer identity plus
// the address clients dial.
type ServerInfo struct {
	ID   int
	Host string
	Port int
}

// Addr returns the host:port dial address.
func (s ServerInfo) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// ParseServerList parses a comma-separated list of server descriptors in the
// form "1=localhost:7001,2=localhost:7002". Identities must be unique
// integers; the returned slice is ordered by identity.
func ParseServerList(raw string) ([]ServerInfo, error) {
	var servers []ServerInfo
	seen := make(map[int]bool)

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		idAddr := strings.SplitN(part, "=", 2)
		if len(idAddr) != 2 {
			return nil, fmt.Errorf("invalid server format: %s (expected ID=host:port)", part)
		}

		id, err := strconv.Atoi(strings.TrimSpace(idAddr[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid server ID %q: %v", idAddr[0], err)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate server ID %d", id)
		}
		seen[id] = true

		host, portStr, err := net.SplitHostPort(strings.TrimSpace(idAddr[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid server address %q: %v", idAddr[1], err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid server port %q: %v", portStr, err)
		}

		servers = append(servers, ServerInfo{ID: id, Host: host, Port: port})
	}

	if len(servers) == 0 {
		return nil, fmt.Errorf("no servers configured")
	}

	sort.Slice(servers, func(i, j int) bool { return servers[i].ID < servers[j].ID })
	return servers, nil
}

// --------------------------------------------------------------------------
// Server configuration struct
// --------------------------------------------------------------------------

// ServerConfig holds all configuration parameters for one server process.
type ServerConfig struct {
	// Identity
	ServerID int
	Host     string
	Port     int

	// Persistence
	DataDir      string
	SaveInterval time.Duration

	// Expiration
	ReapInterval time.Duration

	// Connection handling
	TimeoutSecond int64

	// Logging configuration
	LogLevel string
}

// Addr returns the listen address.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Server Identity")
	addField("Server ID", strconv.Itoa(c.ServerID))
	addField("Listen Address", c.Addr())

	addSection("Persistence")
	addField("Data Directory", c.DataDir)
	addField("Save Interval", c.SaveInterval.String())

	addSection("Expiration")
	addField("Reap Interval", c.ReapInterval.String())

	addSection("Connection Handling")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))

	addSection("Logging")
	addField("Log Level", c.LogLevel)

	return sb.String()
}

// --------------------------------------------------------------------------
// Client configuration struct
// --------------------------------------------------------------------------

// ClientConfig holds the static server pool and the retry policy of a client.
type ClientConfig struct {
	Servers       []ServerInfo
	Sharding      bool
	TimeoutSecond int
	RetryCount    int
	RetryDelay    time.Duration
}

// Timeout returns the connect/read/write timeout as a duration.
func (c *ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecond) * time.Second
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	addSection("Client Configuration")
	addField("Sharding", fmt.Sprintf("%t", c.Sharding))
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.RetryCount))
	addField("Retry Delay", c.RetryDelay.String())

	addSection("Servers")
	for _, server := range c.Servers {
		addField(strconv.Itoa(server.ID), server.Addr())
	}

	return sb.String()
}
