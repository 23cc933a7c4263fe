package envelope

import (
	"encoding/hex"

	blake2b "github.com/minio/blake2b-simd"
)

// TxIDPersonalization is the BLAKE2b personalization for transaction ids.
const TxIDPersonalization = "ctproof_TxIdHash"

// TxID returns BLAKE2b-256 of the canonical form, personalized with
// TxIDPersonalization.
//
// The id labels a transaction in logs; replays share an id. It takes no part
// in proof or signature verification.
func (e *Envelope) TxID() [32]byte {
	h, _ := blake2b.New(&blake2b.Config{
		Size:   32,
		Person: []byte(TxIDPersonalization),
	})
	canonical, _ := e.MarshalBinary()
	h.Write(canonical)

	var id [32]byte
	copy(id[:], h.Sum(nil))
	return id
}

// TxIDHex returns TxID as lowercase hex.
func (e *Envelope) TxIDHex() string {
	id := e.TxID()
	return hex.EncodeToString(id[:])
}
