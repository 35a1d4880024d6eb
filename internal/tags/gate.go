package tags

// ReadOnlyTagType identifies the tag family the device can read but never
// write or erase.
const ReadOnlyTagType = "M1"

const (
	readOnlyWriteMessage = "M1 (Snapmaker) tags are read-only. Use an NTAG tag instead."
	readOnlyEraseMessage = "M1 (Snapmaker) tags are read-only and cannot be erased."
)

// Capability is the write/erase eligibility of one channel.
type Capability struct {
	CanWrite     bool
	CanErase     bool
	WriteMessage string
	EraseMessage string
}

// Gate derives the capability of a channel from its record. Unknown
// channels pass the zero record and are eligible.
func Gate(record ChannelRecord) Capability {
	if record.ReadOnly() {
		return Capability{
			WriteMessage: readOnlyWriteMessage,
			EraseMessage: readOnlyEraseMessage,
		}
	}
	return Capability{CanWrite: true, CanErase: true}
}
