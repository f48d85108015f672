package transport

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
)

const (
	headerSize = 4

	// MaxFrameSize bounds a single message. Frames are length-prefixed, so
	// without a cap a malformed or hostile peer could make us allocate
	// arbitrary amounts of memory.
	MaxFrameSize = 4 << 20 // 4 MiB
)

// WriteFrame writes one message to the connection with the format:
// - 4 bytes: payload length (uint32, big endian)
// - N bytes: payload
func WriteFrame(conn net.Conn, data []byte) error {
	if len(data) > MaxFrameSize {
		return fmt.Errorf("frame too large: %d bytes (max %d)", len(data), MaxFrameSize)
	}

	header := make([]byte, headerSize)
	binary.BigEndian.PutUint32(header, uint32(len(data)))

	b := net.Buffers{header, data}
	_, err := b.WriteTo(conn)
	return err
}

// ReadFrame reads one complete message from the connection, looping until
// the full payload has arrived.
func ReadFrame(conn net.Conn) ([]byte, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(conn, header); err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint32(header)
	if length > MaxFrameSize {
		return nil, fmt.Errorf("frame too large: %d bytes (max %d)", length, MaxFrameSize)
	}
	if length == 0 {
		return []byte{}, nil
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(conn, data); err != nil {
		return nil, err
	}
	return data, nil
}
