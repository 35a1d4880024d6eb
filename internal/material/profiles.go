package material

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultType is the material selected when a tag carries no type.
const DefaultType = "PLA"

// Profile holds the default physical and thermal properties of a material.
type Profile struct {
	Name       string  `json:"name"`
	MinTemp    int     `json:"min_temp"`
	MaxTemp    int     `json:"max_temp"`
	BedMinTemp int     `json:"bed_min_temp"`
	BedMaxTemp int     `json:"bed_max_temp"`
	Density    float64 `json:"density"`
}

var profiles = map[string]Profile{
	"PLA":   {Name: "PLA", MinTemp: 190, MaxTemp: 220, BedMinTemp: 50, BedMaxTemp: 70, Density: 1.24},
	"PETG":  {Name: "PETG", MinTemp: 220, MaxTemp: 250, BedMinTemp: 70, BedMaxTemp: 90, Density: 1.27},
	"ABS":   {Name: "ABS", MinTemp: 230, MaxTemp: 260, BedMinTemp: 90, BedMaxTemp: 110, Density: 1.04},
	"TPU":   {Name: "TPU", MinTemp: 210, MaxTemp: 230, BedMinTemp: 40, BedMaxTemp: 60, Density: 1.21},
	"PVA":   {Name: "PVA", MinTemp: 190, MaxTemp: 210, BedMinTemp: 50, BedMaxTemp: 70, Density: 1.19},
	"NYLON": {Name: "NYLON", MinTemp: 240, MaxTemp: 270, BedMinTemp: 70, BedMaxTemp: 90, Density: 1.14},
	"ASA":   {Name: "ASA", MinTemp: 240, MaxTemp: 260, BedMinTemp: 90, BedMaxTemp: 110, Density: 1.07},
	"PC":    {Name: "PC", MinTemp: 260, MaxTemp: 290, BedMinTemp: 100, BedMaxTemp: 120, Density: 1.20},
}

var upper = cases.Upper(language.Und)

// Normalize folds a material name the way the device stores it.
func Normalize(name string) string {
	return upper.String(strings.TrimSpace(name))
}

// Lookup returns the profile for name. Unknown names have no defaults.
func Lookup(name string) (Profile, bool) {
	p, ok := profiles[Normalize(name)]
	return p, ok
}

// All returns every known profile ordered by name.
func All() []Profile {
	out := make([]Profile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Placeholders describes the values that will be auto-filled for the
// optional numeric fields when they are left empty.
type Placeholders struct {
	Density    string
	MinTemp    string
	MaxTemp    string
	BedMinTemp string
	BedMaxTemp string
}

// PlaceholdersFor returns the "Auto (x)" hints for name. ok is false for
// unknown materials, in which case callers keep their previous hints.
func PlaceholdersFor(name string) (Placeholders, bool) {
	p, ok := Lookup(name)
	if !ok {
		return Placeholders{}, false
	}
	return Placeholders{
		Density:    auto(strconv.FormatFloat(p.Density, 'f', -1, 64)),
		MinTemp:    auto(strconv.Itoa(p.MinTemp)),
		MaxTemp:    auto(strconv.Itoa(p.MaxTemp)),
		BedMinTemp: auto(strconv.Itoa(p.BedMinTemp)),
		BedMaxTemp: auto(strconv.Itoa(p.BedMaxTemp)),
	}, true
}

func auto(v string) string {
	return "Auto (" + v + ")"
}
