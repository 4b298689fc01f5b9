package api

import (
	"encoding/json"
	"strings"
)

// opaqueID decodes an identifier the backend may emit as either a JSON
// string or a number. The widget treats both as opaque tokens.
type opaqueID string

func (id *opaqueID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*id = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = opaqueID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = opaqueID(n.String())
	return nil
}
