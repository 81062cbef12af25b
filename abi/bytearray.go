package abi

import (
	"fmt"

	"github.com/NethermindEth/starkclient/core/felt"
)

const bytesPerWord = 31

// EncodeByteArray lays a byte string out as Cairo does: the number of full 31 byte
// words, the words, then the pending word and its length.
func EncodeByteArray(b []byte) []*felt.Felt {
	full := len(b) / bytesPerWord
	out := make([]*felt.Felt, 0, full+3)
	out = append(out, felt.NewFromUint64(uint64(full)))
	for i := range full {
		out = append(out, felt.NewFromBytes(b[i*bytesPerWord:(i+1)*bytesPerWord]))
	}
	pending := b[full*bytesPerWord:]
	return append(out, felt.NewFromBytes(pending), felt.NewFromUint64(uint64(len(pending))))
}

func (d *decoder) byteArray() (string, error) {
	start := d.pos
	n, err := d.length()
	if err != nil {
		return "", err
	}
	out := make([]byte, 0, int(n+1)*bytesPerWord)
	for range n {
		w, err := d.word(bytesPerWord)
		if err != nil {
			return "", err
		}
		out = append(out, w...)
	}

	pending, err := d.next()
	if err != nil {
		return "", err
	}
	length, err := d.next()
	if err != nil {
		return "", err
	}
	size, ok := length.Uint64()
	if !ok || size >= bytesPerWord {
		return "", &DecodeError{Position: d.pos - 1, Reason: fmt.Sprintf("pending word length %s out of range", length)}
	}
	raw := pending.Bytes()
	if pending.BitLen() > int(size)*8 {
		return "", &DecodeError{Position: start, Reason: "pending word longer than its length"}
	}
	return string(append(out, raw[felt.Bytes-int(size):]...)), nil
}

// word reads one element as size big-endian bytes.
func (d *decoder) word(size int) ([]byte, error) {
	f, err := d.next()
	if err != nil {
		return nil, err
	}
	if f.BitLen() > size*8 {
		return nil, &DecodeError{Position: d.pos - 1, Reason: fmt.Sprintf("word does not fit in %d bytes", size)}
	}
	raw := f.Bytes()
	return raw[felt.Bytes-size:], nil
}
