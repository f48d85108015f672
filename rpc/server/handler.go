package server

import (
	"fmt"

	"shardkv/lib/engine"
	"shardkv/rpc/common"
)

// dispatch routes a decoded request to the engine and builds the response.
// The total request counter has already been incremented by the caller; the
// per-command counters are incremented here, after the command handler ran.
func (s *Server) dispatch(req common.Request) common.Response {
	cmd, known := common.ParseCommand(req.Command)
	if !known {
		return common.NewErrorResponse(fmt.Sprintf("Unknown command: %s", cmd))
	}

	switch cmd {
	case common.CmdGet:
		resp := s.handleGet(req)
		s.counters.RecordGet()
		return resp
	case common.CmdSet:
		resp := s.handleSet(req)
		s.counters.RecordSet()
		return resp
	case common.CmdDelete:
		resp := s.handleDelete(req)
		s.counters.RecordDelete()
		return resp
	case common.CmdExpire:
		resp := s.handleExpire(req)
		s.counters.RecordExpire()
		return resp
	case common.CmdStats:
		return s.handleStats()
	case common.CmdKeys:
		return s.handleKeys()
	default:
		return common.NewErrorResponse(fmt.Sprintf("Unknown command: %s", cmd))
	}
}

func (s *Server) handleGet(req common.Request) common.Response {
	if req.Key == "" {
		return common.NewErrorResponse("Key is required")
	}

	value, ttl, outcome := s.engine.Get(req.Key)
	switch outcome {
	case engine.OutcomeExpired:
		return common.NewNullResponse("Key expired")
	case engine.OutcomeMissing:
		return common.NewNullResponse("Key not found")
	default:
		return common.NewGetResponse(req.Key, value, ttl)
	}
}

func (s *Server) handleSet(req common.Request) common.Response {
	if req.Key == "" {
		return common.NewErrorResponse("Key is required")
	}
	if req.Value == nil {
		return common.NewErrorResponse("Value is required")
	}

	s.engine.Set(req.Key, *req.Value)
	return common.NewSetResponse(req.Key, *req.Value)
}

func (s *Server) handleDelete(req common.Request) common.Response {
	if req.Key == "" {
		return common.NewErrorResponse("Key is required")
	}

	if !s.engine.Delete(req.Key) {
		return common.NewNullResponse("Key not found")
	}
	return common.NewDeleteResponse(req.Key)
}

func (s *Server) handleExpire(req common.Request) common.Response {
	if req.Key == "" {
		return common.NewErrorResponse("Key is required")
	}
	if req.Seconds == nil {
		return common.NewErrorResponse("Seconds is required")
	}

	seconds, err := req.ParseSeconds()
	if err != nil {
		return common.NewErrorResponse("Seconds must be an integer")
	}

	if !s.engine.Expire(req.Key, seconds) {
		return common.NewNullResponse("Key not found")
	}
	return common.NewExpireResponse(req.Key, seconds)
}

func (s *Server) handleStats() common.Response {
	counters := s.counters.Snapshot()
	totalKeys, keysWithTTL := s.engine.Counts()

	return common.NewStatsResponse(common.StatsPayload{
		TotalRequests:  counters.TotalRequests,
		GetRequests:    counters.GetRequests,
		SetRequests:    counters.SetRequests,
		DeleteRequests: counters.DeleteRequests,
		ExpireRequests: counters.ExpireRequests,
		TotalKeys:      totalKeys,
		KeysWithTTL:    keysWithTTL,
	})
}

func (s *Server) handleKeys() common.Response {
	return common.NewKeysResponse(s.engine.Keys())
}
