package common

import (
	"fmt"
	"strconv"
	"strings"
)

// --------------------------------------------------------------------------
// Commands
// --------------------------------------------------------------------------

// Command is a wire protocol command. Commands are matched
// case-insensitively on the wire and normalized to upper case.
type Command string

const (
	CmdGet    Command = "GET"
	CmdSet    Command = "SET"
	CmdDelete Command = "DELETE"
	CmdExpire Command = "EXPIRE"
	CmdStats  Command = "STATS"
	CmdKeys   Command = "KEYS"
)

// ParseCommand normalizes a raw command string. The boolean reports whether
// the command is known.
func ParseCommand(raw string) (Command, bool) {
	cmd := Command(strings.ToUpper(raw))
	switch cmd {
	case CmdGet, CmdSet, CmdDelete, CmdExpire, CmdStats, CmdKeys:
		return cmd, true
	default:
		return cmd, false
	}
}

// --------------------------------------------------------------------------
// Status
// --------------------------------------------------------------------------

// Status classifies a response.
//
//   - StatusSuccess: the operation ran and produced a result
//   - StatusNull:    a valid request found no value (missing or expired key);
//     this is a distinct non-error outcome
//   - StatusError:   transport, protocol or validation failure
type Status string

const (
	StatusSuccess Status = "success"
	StatusNull    Status = "null"
	StatusError   Status = "error"
)

// --------------------------------------------------------------------------
// Request
// --------------------------------------------------------------------------

// Request is the single JSON object sent per connection.
// Which fields are required depends on the command: key for GET/SET/DELETE/
// EXPIRE, value for SET, seconds for EXPIRE.
type Request struct {
	Command string  `json:"command"`
	Key     string  `json:"key,omitempty"`
	Value   *string `json:"value,omitempty"`
	Seconds any     `json:"seconds,omitempty"`
}

// ParseSeconds interprets the seconds field, which must be integer-parseable
// but may arrive as a JSON number or a numeric string.
func (r *Request) ParseSeconds() (int64, error) {
	switch v := r.Seconds.(type) {
	case float64:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("seconds must be an integer: %q", v)
		}
		return n, nil
	case nil:
		return 0, fmt.Errorf("seconds is missing")
	default:
		return 0, fmt.Errorf("seconds must be an integer: %v", v)
	}
}

// --------------------------------------------------------------------------
// Request Factory Functions
// --------------------------------------------------------------------------

// NewGetRequest creates a GET request.
func NewGetRequest(key string) Request {
	return Request{Command: string(CmdGet), Key: key}
}

// NewSetRequest creates a SET request.
func NewSetRequest(key, value string) Request {
	return Request{Command: string(CmdSet), Key: key, Value: &value}
}

// NewDeleteRequest creates a DELETE request.
func NewDeleteRequest(key string) Request {
	return Request{Command: string(CmdDelete), Key: key}
}

// NewExpireRequest creates an EXPIRE request.
func NewExpireRequest(key string, seconds int64) Request {
	return Request{Command: string(CmdExpire), Key: key, Seconds: seconds}
}

// NewStatsRequest creates a STATS request.
func NewStatsRequest() Request {
	return Request{Command: string(CmdStats)}
}

// NewKeysRequest creates a KEYS request.
func NewKeysRequest() Request {
	return Request{Command: string(CmdKeys)}
}

// --------------------------------------------------------------------------
// Response
// --------------------------------------------------------------------------

// StatsPayload is the stats object of a STATS response: the persisted
// counters plus the derived key counts of the answering server.
type StatsPayload struct {
	TotalRequests  uint64 `json:"total_requests"`
	GetRequests    uint64 `json:"get_requests"`
	SetRequests    uint64 `json:"set_requests"`
	DeleteRequests uint64 `json:"delete_requests"`
	ExpireRequests uint64 `json:"expire_requests"`
	TotalKeys      int    `json:"total_keys"`
	KeysWithTTL    int    `json:"keys_with_ttl"`
}

// Response is the single JSON object the server sends back. Which fields are
// populated depends on the command and status. ServerID and ServerPort are
// appended by the server to every response before encoding; client-side
// failures carry only ServerID.
type Response struct {
	Status  Status        `json:"status"`
	Message string        `json:"message,omitempty"`
	Key     string        `json:"key,omitempty"`
	Value   *string       `json:"value,omitempty"`
	TTL     *int64        `json:"ttl,omitempty"`
	Stats   *StatsPayload `json:"stats,omitempty"`
	Keys    []string      `json:"keys,omitempty"`
	Count   *int          `json:"count,omitempty"`

	ServerID   int `json:"server_id,omitempty"`
	ServerPort int `json:"server_port,omitempty"`
}

// --------------------------------------------------------------------------
// Response Factory Functions
// --------------------------------------------------------------------------

// NewErrorResponse creates a StatusError response with the given message.
func NewErrorResponse(message string) Response {
	return Response{Status: StatusError, Message: message}
}

// NewNullResponse creates a StatusNull response with the given message.
func NewNullResponse(message string) Response {
	return Response{Status: StatusNull, Message: message}
}

// NewGetResponse creates a successful GET response.
func NewGetResponse(key, value string, ttl int64) Response {
	return Response{Status: StatusSuccess, Key: key, Value: &value, TTL: &ttl}
}

// NewSetResponse creates a successful SET response.
func NewSetResponse(key, value string) Response {
	return Response{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Key '%s' set successfully", key),
		Key:     key,
		Value:   &value,
	}
}

// NewDeleteResponse creates a successful DELETE response.
func NewDeleteResponse(key string) Response {
	return Response{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Key '%s' deleted successfully", key),
	}
}

// NewExpireResponse creates a successful EXPIRE response. The ttl field
// echoes the requested seconds.
func NewExpireResponse(key string, seconds int64) Response {
	return Response{
		Status:  StatusSuccess,
		Message: fmt.Sprintf("Key '%s' will expire in %d seconds", key, seconds),
		Key:     key,
		TTL:     &seconds,
	}
}

// NewStatsResponse creates a successful STATS response.
func NewStatsResponse(payload StatsPayload) Response {
	return Response{Status: StatusSuccess, Stats: &payload}
}

// NewKeysResponse creates a successful KEYS response.
func NewKeysResponse(keys []string) Response {
	count := len(keys)
	return Response{Status: StatusSuccess, Keys: keys, Count: &count}
}
