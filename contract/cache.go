package contract

import (
	"github.com/NethermindEth/starkclient/abi"
	"github.com/NethermindEth/starkclient/core/felt"
	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultCacheSize = 256

// ABICache holds parsed ABIs by class hash. Classes are immutable, so entries never go
// stale and are only evicted for size.
type ABICache struct {
	lru *lru.Cache[felt.Felt, *abi.Abi]
}

func NewABICache(size int) (*ABICache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[felt.Felt, *abi.Abi](size)
	if err != nil {
		return nil, err
	}
	return &ABICache{lru: c}, nil
}

func (c *ABICache) Get(classHash *felt.Felt) (*abi.Abi, bool) {
	return c.lru.Get(*classHash)
}

func (c *ABICache) Add(classHash *felt.Felt, a *abi.Abi) {
	c.lru.Add(*classHash, a)
}

func (c *ABICache) Len() int {
	return c.lru.Len()
}
