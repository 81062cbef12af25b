package rpc

import (
	"bytes"
	"encoding/json"

	"github.com/NethermindEth/starkclient/core/felt"
)

// SyncState is the result of starknet_syncing: false when the node is synced, a status
// object otherwise.
type SyncState struct {
	Syncing bool
	Status  *SyncStatus
}

func (s *SyncState) wireParts() []any {
	return []any{s.Status}
}

func (s SyncState) MarshalJSON() ([]byte, error) {
	if !s.Syncing {
		return []byte("false"), nil
	}
	return json.Marshal(s.Status)
}

func (s *SyncState) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("false")) {
		s.Syncing, s.Status = false, nil
		return nil
	}
	status := new(SyncStatus)
	if err := json.Unmarshal(data, status); err != nil {
		return asSchemaError(err)
	}
	s.Syncing, s.Status = true, status
	return nil
}

type SyncStatus struct {
	StartingBlockHash   *felt.Felt `json:"starting_block_hash"`
	StartingBlockNumber uint64     `json:"starting_block_num"`
	CurrentBlockHash    *felt.Felt `json:"current_block_hash"`
	CurrentBlockNumber  uint64     `json:"current_block_num"`
	HighestBlockHash    *felt.Felt `json:"highest_block_hash"`
	HighestBlockNumber  uint64     `json:"highest_block_num"`
}
