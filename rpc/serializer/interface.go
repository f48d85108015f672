package serializer

import "shardkv/rpc/common"

// IRPCSerializer is the interface for all wire message serializers.
type IRPCSerializer interface {
	// SerializeRequest serializes a Request into a byte array.
	SerializeRequest(req common.Request) ([]byte, error)
	// DeserializeRequest deserializes a byte array into a Request.
	DeserializeRequest(b []byte, req *common.Request) error
	// SerializeResponse serializes a Response into a byte array.
	SerializeResponse(resp common.Response) ([]byte, error)
	// DeserializeResponse deserializes a byte array into a Response.
	DeserializeResponse(b []byte, resp *common.Response) error
}
