// Package transport implements the byte-level TCP framing shared by the
// server and client: a 4-byte big-endian length prefix followed by the
// serialized message, read back with a read-until-complete loop. One
// connection carries exactly one request/response pair.
package transport
