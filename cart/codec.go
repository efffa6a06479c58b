package cart

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Dropped describes a persisted entry that was left out on decode.
type Dropped struct {
	Index  int
	ID     string
	Reason string
}

func (d Dropped) String() string {
	return fmt.Sprintf("entry %d (id=%q): %s", d.Index, d.ID, d.Reason)
}

// Marshal encodes the cart as a JSON array in cart order.
func Marshal(c Cart) ([]byte, error) {
	if c == nil {
		c = Empty()
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal cart: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a persisted cart. Blank input and JSON null decode to
// an empty cart. Entries that break the cart invariants (empty id,
// quantity below one, repeated id) are skipped and reported; the first
// occurrence of an id wins.
func Unmarshal(data []byte) (Cart, []Dropped, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Empty(), nil, nil
	}

	var raw []LineItem
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return Empty(), nil, fmt.Errorf("unmarshal cart: %w", err)
	}

	out := make(Cart, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	var dropped []Dropped
	for i, item := range raw {
		switch {
		case strings.TrimSpace(item.ID) == "":
			dropped = append(dropped, Dropped{Index: i, ID: item.ID, Reason: "missing id"})
			continue
		case item.Quantity < 1:
			dropped = append(dropped, Dropped{Index: i, ID: item.ID, Reason: fmt.Sprintf("quantity %d", item.Quantity)})
			continue
		}
		if _, dup := seen[item.ID]; dup {
			dropped = append(dropped, Dropped{Index: i, ID: item.ID, Reason: "duplicate id"})
			continue
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	return out, dropped, nil
}
