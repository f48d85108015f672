// Package common defines the wire protocol types shared by the server and
// client - requests, responses, commands, statuses - and the configuration
// structs for both sides.
//
// A request and its response are each a single JSON object exchanged over
// one TCP connection; see the transport package for the framing.
package common
