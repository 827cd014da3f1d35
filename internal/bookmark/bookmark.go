// Package bookmark persists the opaque position triple a RecordSource
// needs to resume exactly where it left off after a crash: the raw
// stream position, the pending buffer window, and the buffer's live
// contents at the moment of the snapshot.
package bookmark

import (
	"encoding/json"

	"github.com/axleware/logframe/internal/errors"
)

// Bookmark is the private-contract payload handed between a RecordSource
// and its persistence layer. The representation is opaque to callers:
// they pass it through Store.Save/Load without interpreting it, and a
// RecordSource passes it back to Buffer.Restore.
type Bookmark struct {
	RawStreamPos int64  `json:"raw_stream_pos"`
	PendingPos   int    `json:"pending_buffer_pos"`
	PendingEnd   int    `json:"pending_buffer_end"`
	Contents     []byte `json:"contents"`
}

// Marshal serialises a Bookmark to its on-disk form.
func Marshal(b Bookmark) ([]byte, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, errors.Wrap(errors.KindIO, err, "marshaling bookmark")
	}
	return data, nil
}

// Unmarshal parses a Bookmark from its on-disk form.
func Unmarshal(data []byte) (Bookmark, error) {
	var b Bookmark
	if err := json.Unmarshal(data, &b); err != nil {
		return Bookmark{}, errors.Wrap(errors.KindIO, err, "unmarshaling bookmark")
	}
	return b, nil
}
