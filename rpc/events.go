package rpc

import "github.com/NethermindEth/starkclient/core/felt"

type EmittedEvent struct {
	*Event
	BlockNumber     *uint64    `json:"block_number,omitempty"`
	BlockHash       *felt.Felt `json:"block_hash,omitempty"`
	TransactionHash *felt.Felt `json:"transaction_hash"`
}

type EventsChunk struct {
	Events            []*EmittedEvent `json:"events"`
	ContinuationToken string          `json:"continuation_token,omitempty"`
}

// EventFilter selects events by emitter and keys. Keys is matched position by position and
// an empty position matches any key.
type EventFilter struct {
	FromBlock *BlockID       `json:"from_block,omitempty"`
	ToBlock   *BlockID       `json:"to_block,omitempty"`
	Address   *felt.Felt     `json:"address,omitempty"`
	Keys      [][]*felt.Felt `json:"keys,omitempty"`
}

type ResultPageRequest struct {
	ContinuationToken string `json:"continuation_token,omitempty"`
	ChunkSize         uint64 `json:"chunk_size" validate:"min=1"`
}

type EventsArg struct {
	EventFilter
	ResultPageRequest
}
