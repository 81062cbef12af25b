package abi

import (
	"fmt"

	"github.com/NethermindEth/starkclient/core/felt"
)

type DecodedEvent struct {
	Name   string
	Fields map[string]any
}

// DecodeEvent matches keys[0] against the selectors of the struct events and decodes the
// first one that fits. Key members are read from the remaining keys, data members from
// data.
func (a *Abi) DecodeEvent(keys, data []*felt.Felt) (*DecodedEvent, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: event has no keys", ErrEventNotFound)
	}
	var lastErr error
	for _, ev := range a.Events {
		if ev.Kind != KindStruct || !ev.Selector.Equal(keys[0]) {
			continue
		}
		fields, err := a.decodeEvent(ev, keys[1:], data)
		if err != nil {
			lastErr = err
			continue
		}
		return &DecodedEvent{Name: ev.Name, Fields: fields}, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: selector %s", ErrEventNotFound, keys[0])
}

func (a *Abi) decodeEvent(ev *Event, keys, data []*felt.Felt) (map[string]any, error) {
	keyDecoder := &decoder{codec: codec{types: a.Types}, data: keys}
	dataDecoder := &decoder{codec: codec{types: a.Types}, data: data}
	fields := make(map[string]any, len(ev.Members))
	for _, m := range ev.Members {
		d := dataDecoder
		if m.Kind == MemberKey {
			d = keyDecoder
		}
		v, err := d.decode(m.Type)
		if err != nil {
			return nil, fmt.Errorf("event %s member %s: %w", ev.Name, m.Name, err)
		}
		fields[m.Name] = v
	}
	if err := keyDecoder.done(); err != nil {
		return nil, fmt.Errorf("event %s keys: %w", ev.Name, err)
	}
	if err := dataDecoder.done(); err != nil {
		return nil, fmt.Errorf("event %s data: %w", ev.Name, err)
	}
	return fields, nil
}
