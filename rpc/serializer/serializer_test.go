package serializer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shardkv/rpc/common"
)

func TestJSONSerializer_Request(t *testing.T) {
	s := NewJSONSerializer()

	data, err := s.SerializeRequest(common.NewSetRequest("name", "alice"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"command":"SET","key":"name","value":"alice"}`, string(data))

	var req common.Request
	require.NoError(t, s.DeserializeRequest(data, &req))
	assert.Equal(t, "SET", req.Command)
	assert.Equal(t, "name", req.Key)
	require.NotNil(t, req.Value)
	assert.Equal(t, "alice", *req.Value)
}

func TestJSONSerializer_SecondsAsNumberOrString(t *testing.T) {
	s := NewJSONSerializer()

	tests := []struct {
		name string
		raw  string
		want int64
	}{
		{"json number", `{"command":"EXPIRE","key":"k","seconds":30}`, 30},
		{"numeric string", `{"command":"EXPIRE","key":"k","seconds":"30"}`, 30},
		{"padded string", `{"command":"EXPIRE","key":"k","seconds":" 30 "}`, 30},
		{"negative", `{"command":"EXPIRE","key":"k","seconds":-5}`, -5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req common.Request
			require.NoError(t, s.DeserializeRequest([]byte(tt.raw), &req))

			seconds, err := req.ParseSeconds()
			require.NoError(t, err)
			assert.Equal(t, tt.want, seconds)
		})
	}
}

func TestJSONSerializer_SecondsRejectsNonInteger(t *testing.T) {
	s := NewJSONSerializer()

	for _, raw := range []string{
		`{"command":"EXPIRE","key":"k","seconds":"soon"}`,
		`{"command":"EXPIRE","key":"k","seconds":true}`,
	} {
		var req common.Request
		require.NoError(t, s.DeserializeRequest([]byte(raw), &req))

		_, err := req.ParseSeconds()
		assert.Error(t, err)
	}
}

func TestJSONSerializer_DeserializeRequestInvalidJSON(t *testing.T) {
	s := NewJSONSerializer()

	var req common.Request
	assert.Error(t, s.DeserializeRequest([]byte("{not json"), &req))
}

func TestJSONSerializer_ResponseOmitsUnsetFields(t *testing.T) {
	s := NewJSONSerializer()

	resp := common.NewDeleteResponse("k")
	resp.ServerID = 1
	resp.ServerPort = 7001

	data, err := s.SerializeResponse(resp)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"status":"success","message":"Key 'k' deleted successfully","server_id":1,"server_port":7001}`,
		string(data))
}

func TestJSONSerializer_ResponseKeepsMeaningfulZeros(t *testing.T) {
	s := NewJSONSerializer()

	t.Run("ttl zero", func(t *testing.T) {
		data, err := s.SerializeResponse(common.NewGetResponse("k", "", 0))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"ttl":0`)
		assert.Contains(t, string(data), `"value":""`)
	})

	t.Run("empty key list", func(t *testing.T) {
		data, err := s.SerializeResponse(common.NewKeysResponse(nil))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"count":0`)
	})
}

func TestJSONSerializer_ResponseRoundTrip(t *testing.T) {
	s := NewJSONSerializer()

	in := common.NewStatsResponse(common.StatsPayload{
		TotalRequests: 10,
		GetRequests:   4,
		TotalKeys:     3,
		KeysWithTTL:   1,
	})
	in.ServerID = 2
	in.ServerPort = 7002

	data, err := s.SerializeResponse(in)
	require.NoError(t, err)

	var out common.Response
	require.NoError(t, s.DeserializeResponse(data, &out))
	assert.Equal(t, in, out)
}
