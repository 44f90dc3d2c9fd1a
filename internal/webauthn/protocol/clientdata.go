package protocol

import (
	"encoding/json"
	"strings"

	"github.com/asgard/webauthnd/internal/webauthn/model"
)

// ParseClientData decodes a raw clientDataJSON bytestring into its typed
// fields (type, challenge, origin).
func ParseClientData(raw []byte) (*model.ClientData, error) {
	var cd model.ClientData
	if err := json.Unmarshal(raw, &cd); err != nil {
		return nil, &ClientDataParseError{Err: err}
	}
	return &cd, nil
}

// OriginsEqual compares two origins as strings after trimming trailing
// slashes: origins differing only by a trailing slash are treated as equal.
// No other normalization (letter case, default port) is applied.
func OriginsEqual(a, b string) bool {
	return strings.TrimRight(a, "/") == strings.TrimRight(b, "/")
}
