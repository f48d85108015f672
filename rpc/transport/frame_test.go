package transport

import (
	"bytes"
	"encoding/binary"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrame_RoundTrip(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	payload := []byte(`{"command":"GET","key":"name"}`)

	go func() {
		_ = WriteFrame(client, payload)
	}()

	got, err := ReadFrame(server)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFrame_EmptyPayload(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		_ = WriteFrame(client, nil)
	}()

	got, err := ReadFrame(server)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFrame_LargePayload(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	// larger than any single Write a TCP stack would pass through intact,
	// so the reader must loop until the payload is complete
	payload := bytes.Repeat([]byte("x"), 1<<20)

	go func() {
		_ = WriteFrame(client, payload)
	}()

	got, err := ReadFrame(server)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestWriteFrame_RejectsOversizedPayload(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	err := WriteFrame(client, make([]byte, MaxFrameSize+1))
	assert.ErrorContains(t, err, "frame too large")
}

func TestReadFrame_RejectsOversizedHeader(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	header := make([]byte, headerSize)
	binary.BigEndian.PutUint32(header, MaxFrameSize+1)

	go func() {
		_, _ = client.Write(header)
	}()

	_, err := ReadFrame(server)
	assert.ErrorContains(t, err, "frame too large")
}

func TestReadFrame_TruncatedPayload(t *testing.T) {
	client, server := net.Pipe()

	header := make([]byte, headerSize)
	binary.BigEndian.PutUint32(header, 100)

	go func() {
		_, _ = client.Write(header)
		_, _ = client.Write([]byte("only a few bytes"))
		client.Close()
	}()

	_, err := ReadFrame(server)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	server.Close()
}
