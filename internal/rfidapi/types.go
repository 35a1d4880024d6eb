package rfidapi

import (
	"encoding/json"
	"errors"
	"strings"

	"spooltag/internal/tags"
)

// UnknownError is reported when the device fails without a usable message.
const UnknownError = "Unknown error"

// OperationResult is the device response to a write or erase.
type OperationResult struct {
	Success  bool            `json:"success"`
	Verified bool            `json:"verified"`
	Error    json.RawMessage `json:"error,omitempty"`
	Message  string          `json:"message,omitempty"`
	// TagData is the record the device read back after the operation.
	TagData  *tags.ChannelRecord `json:"tag_data,omitempty"`
	Mismatch *Mismatch           `json:"verification_mismatch,omitempty"`
}

// Mismatch describes which fields differed on write read-back.
type Mismatch struct {
	ExpectedType  string `json:"expected_type"`
	GotType       string `json:"got_type"`
	ExpectedBrand string `json:"expected_brand"`
	GotBrand      string `json:"got_brand"`
	ExpectedColor string `json:"expected_color"`
	GotColor      string `json:"got_color"`
}

// ErrorText returns the device error when it is a string, else UnknownError.
func (r OperationResult) ErrorText() string {
	var text string
	if err := json.Unmarshal(r.Error, &text); err != nil || strings.TrimSpace(text) == "" {
		return UnknownError
	}
	return text
}

var (
	errMissingChannels = errors.New("response has no channels list")
	errNotRecord       = errors.New("response is not a channel record")
)

type tagList struct {
	Channels *[]tags.ChannelRecord `json:"channels"`
}

// decodeRecord accepts a single channel object carrying at least one of the
// channel or tag_present keys.
func decodeRecord(raw json.RawMessage) (tags.ChannelRecord, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return tags.ChannelRecord{}, err
	}
	_, hasChannel := keys["channel"]
	_, hasPresent := keys["tag_present"]
	if !hasChannel && !hasPresent {
		return tags.ChannelRecord{}, errNotRecord
	}
	var rec tags.ChannelRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return tags.ChannelRecord{}, err
	}
	return rec, nil
}
