package diagram

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/psidex/pert/internal/geom"
)

// Form is the add-nodes input: start and end names plus a comma separated
// list of task names.
type Form struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Others string `json:"others"`
}

// SplitNames splits a comma separated list, trimming every name and dropping
// blank ones.
func SplitNames(s string) []string {
	var names []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// AddNodes applies the form. While the start or end slot is open its name is
// required; a missing one aborts the whole form before anything is created.
// Names for slots that are already filled are ignored. Task nodes are laid out
// in rows from the layout's origin.
func (d *Diagram) AddNodes(f Form) ([]NodeID, error) {
	start := strings.TrimSpace(f.Start)
	end := strings.TrimSpace(f.End)
	if d.start == 0 && start == "" {
		return nil, ErrMissingStart
	}
	if d.end == 0 && end == "" {
		return nil, ErrMissingEnd
	}

	var added []NodeID
	if d.start == 0 {
		id, err := d.AddNode(start, RoleStart, d.layout.StartPos)
		if err != nil {
			return added, err
		}
		added = append(added, id)
	}
	if d.end == 0 {
		id, err := d.AddNode(end, RoleEnd, d.layout.EndPos)
		if err != nil {
			return added, err
		}
		added = append(added, id)
	}

	for i, name := range SplitNames(f.Others) {
		id, err := d.AddNode(name, RoleIntermediate, d.layout.slot(i))
		if err != nil {
			return added, err
		}
		added = append(added, id)
	}
	return added, nil
}

// slot is the position of the i-th task node of a batch.
func (l Layout) slot(i int) geom.Point {
	perRow := l.NodesPerRow
	if perRow <= 0 {
		perRow = 1
	}
	return geom.Point{
		X: l.OthersPos.X + float64(i%perRow)*l.Spacing,
		Y: l.OthersPos.Y + float64(i/perRow)*l.Spacing,
	}
}

// ParseDuration reads a duration entered by the user. Only decimal digits of
// any script are accepted, so "12", "۱۲" and "١٢" all read as 12: no sign, no
// spaces, no empty input.
func ParseDuration(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidDuration)
	}
	days := 0
	for _, r := range s {
		d, ok := digitValue(r)
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
		}
		if days > (math.MaxInt-d)/10 {
			return 0, fmt.Errorf("%w: %q out of range", ErrInvalidDuration, s)
		}
		days = days*10 + d
	}
	return days, nil
}

// digitValue returns the value of a decimal digit rune. Every script's digits
// are a contiguous run from zero to nine and each unicode.Nd range starts on a
// zero.
func digitValue(r rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	if !unicode.Is(unicode.Nd, r) {
		return 0, false
	}
	for _, rg := range unicode.Nd.R16 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); r >= lo && r <= hi {
			return int((r-lo)/rune(rg.Stride)) % 10, true
		}
	}
	for _, rg := range unicode.Nd.R32 {
		if lo, hi := rune(rg.Lo), rune(rg.Hi); r >= lo && r <= hi {
			return int((r-lo)/rune(rg.Stride)) % 10, true
		}
	}
	return 0, false
}
