package devicesim

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"spooltag/internal/form"
	"spooltag/internal/tags"
)

// Tag technologies the simulator knows.
const (
	TagNTAG215 = "NTAG215"
	TagM1      = tags.ReadOnlyTagType
)

var upper = cases.Upper(language.Und)

// Tag is a simulated RFID tag sitting in a channel.
type Tag struct {
	Type     string
	UID      string
	Filament *tags.FilamentData
}

// Programmed reports whether the tag carries filament data.
func (t Tag) Programmed() bool {
	return t.Filament != nil && t.Filament.Brand.Present()
}

// Device holds the tag state of every channel.
type Device struct {
	mu       sync.Mutex
	channels []*Tag
	failures map[string]Failure
}

// Failure is a one-shot fault injected into an endpoint. A zero Status makes
// the device answer 200 with success=false.
type Failure struct {
	Status  int
	Message string
}

// NewDevice returns a device with count empty channels.
func NewDevice(count int) *Device {
	if count < 1 {
		count = 1
	}
	return &Device{channels: make([]*Tag, count), failures: map[string]Failure{}}
}

// Channels returns the number of channels.
func (d *Device) Channels() int { return len(d.channels) }

// Insert places a tag in channel, replacing whatever was there. A missing UID
// is generated.
func (d *Device) Insert(channel int, tag Tag) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkChannel(channel); err != nil {
		return err
	}
	if tag.Type == "" {
		tag.Type = TagNTAG215
	}
	if tag.UID == "" {
		tag.UID = newUID()
	}
	tag.Filament = cloneFilament(tag.Filament)
	d.channels[channel] = &tag
	return nil
}

// InsertBlank places an unprogrammed NTAG in channel.
func (d *Device) InsertBlank(channel int) error {
	return d.Insert(channel, Tag{Type: TagNTAG215})
}

// Remove takes the tag out of channel.
func (d *Device) Remove(channel int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.checkChannel(channel) == nil {
		d.channels[channel] = nil
	}
}

// FailNext makes the next request to endpoint ("tags", "tag", "write" or
// "erase") fail.
func (d *Device) FailNext(endpoint string, f Failure) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures[endpoint] = f
}

func (d *Device) takeFailure(endpoint string) (Failure, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	f, ok := d.failures[endpoint]
	delete(d.failures, endpoint)
	return f, ok
}

// Record reports channel the way the RFID service does.
func (d *Device) Record(channel int) (tags.ChannelRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkChannel(channel); err != nil {
		return tags.ChannelRecord{}, err
	}
	return d.record(channel), nil
}

// Records reports every channel.
func (d *Device) Records() []tags.ChannelRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]tags.ChannelRecord, len(d.channels))
	for i := range d.channels {
		out[i] = d.record(i)
	}
	return out
}

func (d *Device) record(channel int) tags.ChannelRecord {
	tag := d.channels[channel]
	if tag == nil {
		return tags.ChannelRecord{Channel: channel}
	}
	rec := tags.ChannelRecord{
		Channel:    channel,
		TagPresent: true,
		TagType:    tag.Type,
		UID:        tag.UID,
	}
	if !tag.Programmed() {
		rec.TagEmpty = true
		return rec
	}
	rec.Filament = cloneFilament(tag.Filament)
	return rec
}

// Write programs the tag in p.Channel and reads it back.
func (d *Device) Write(p form.WritePayload) Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkChannel(p.Channel); err != nil {
		return failed(err.Error())
	}
	tag := d.channels[p.Channel]
	if tag == nil {
		return failed(fmt.Sprintf("No tag detected on channel %d", p.Channel))
	}
	if tag.Type == TagM1 {
		return failed("M1 tags are read-only")
	}

	materialType := upper.String(strings.TrimSpace(p.Type))
	colorHex := upper.String(strings.TrimPrefix(p.ColorHex, "#"))
	tag.Filament = filamentFromPayload(p, materialType, colorHex)

	readBack := d.record(p.Channel)
	f := readBack.Filament
	if f.Type.Text() == materialType && f.Brand.Text() == p.Brand && f.ColorHex.Text() == colorHex {
		return Result{
			Success:  true,
			Verified: true,
			Message:  fmt.Sprintf("Tag written and verified successfully on channel %d", p.Channel),
			TagData:  &readBack,
		}
	}
	return Result{
		Success: true,
		Message: fmt.Sprintf("Tag written on channel %d, but verification shows different data", p.Channel),
		TagData: &readBack,
	}
}

// Erase clears the tag in p.Channel. Confirmation is mandatory.
func (d *Device) Erase(p form.ErasePayload) Result {
	if !p.Confirm {
		return failed("Tag erase requires explicit confirmation (confirm=true)")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkChannel(p.Channel); err != nil {
		return failed(err.Error())
	}
	tag := d.channels[p.Channel]
	if tag == nil {
		return failed(fmt.Sprintf("No tag detected on channel %d", p.Channel))
	}
	if tag.Type == TagM1 {
		return failed("M1 tags are read-only and cannot be erased")
	}
	tag.Filament = nil
	readBack := d.record(p.Channel)
	return Result{
		Success:  true,
		Verified: true,
		Message:  fmt.Sprintf("Tag erased and verified successfully on channel %d", p.Channel),
		TagData:  &readBack,
	}
}

func (d *Device) checkChannel(channel int) error {
	if channel < 0 || channel >= len(d.channels) {
		return fmt.Errorf("Invalid channel: %d. Must be 0-%d", channel, len(d.channels)-1)
	}
	return nil
}

func filamentFromPayload(p form.WritePayload, materialType, colorHex string) *tags.FilamentData {
	f := &tags.FilamentData{
		Type:     tags.Str(materialType),
		Brand:    tags.Str(p.Brand),
		ColorHex: tags.Str(colorHex),
		Diameter: tags.Num(p.Diameter),
	}
	if p.Subtype != "" {
		f.Subtype = tags.Str(p.Subtype)
	}
	if p.Alpha != "" {
		f.Alpha = tags.Str(upper.String(p.Alpha))
	}
	for _, slot := range form.Slots {
		if c := p.Slot(slot); c != "" {
			f.AdditionalColorHexes = append(f.AdditionalColorHexes, tags.Str(upper.String(c)))
		}
	}
	if p.Density != nil {
		f.Density = tags.Num(*p.Density)
	}
	if p.MinTemp != nil {
		f.MinTemp = tags.Num(float64(*p.MinTemp))
	}
	if p.MaxTemp != nil {
		f.MaxTemp = tags.Num(float64(*p.MaxTemp))
	}
	if p.BedMinTemp != nil {
		f.BedMinTemp = tags.Num(float64(*p.BedMinTemp))
	}
	if p.BedMaxTemp != nil {
		f.BedMaxTemp = tags.Num(float64(*p.BedMaxTemp))
	}
	if p.Weight != nil && *p.Weight > 0 {
		f.Weight = tags.Num(*p.Weight)
	}
	return f
}

func cloneFilament(f *tags.FilamentData) *tags.FilamentData {
	if f == nil {
		return nil
	}
	cp := *f
	cp.AdditionalColorHexes = append([]tags.Value(nil), f.AdditionalColorHexes...)
	return &cp
}

func newUID() string {
	id := uuid.New()
	return strings.ToUpper(fmt.Sprintf("%X", id[:7]))
}
