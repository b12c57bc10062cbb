package trade

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotSequence is returned when a trade snapshot is not a list. This is a
// caller bug, not a data quality problem, so it is never absorbed.
var ErrNotSequence = errors.New("trade snapshot is not a sequence")

// DecodeJSON decodes a JSON array of trade objects. Elements that are not
// objects come back as empty rows and are dropped by the normalizer.
func DecodeJSON(data []byte) ([]Raw, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, ErrNotSequence
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("decode trades: %w", err)
	}

	out := make([]Raw, 0, len(elems))
	for _, e := range elems {
		row := Raw{}
		e = bytes.TrimSpace(e)
		if len(e) > 0 && e[0] == '{' {
			dec := json.NewDecoder(bytes.NewReader(e))
			dec.UseNumber()
			if err := dec.Decode(&row); err != nil {
				row = Raw{}
			}
		}
		out = append(out, row)
	}
	return out, nil
}
