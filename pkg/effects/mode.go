package effects

import (
	"strconv"
	"strings"

	"github.com/nodeglow/nodeglow/pkg/errors"
)

// =============================================================================
// Interaction Modes
// =============================================================================

// Mode is a set of simultaneously active interaction modes. LayerFocus,
// AudienceFilter, and Selected combine freely; Hovering combines with
// Selected but is suppressed while LayerFocus or AudienceFilter is active.
type Mode int

const (
	// ModeHovering means a pointer is over (or near) a hover target.
	ModeHovering Mode = 1 << iota
	// ModeLayerFocus means a layer id is focused.
	ModeLayerFocus
	// ModeAudienceFilter means an audience id filters the graph.
	ModeAudienceFilter
	// ModeSelected means a node is selected and its related set is live.
	ModeSelected
)

// ModeNormal is the empty mode set: no interaction is active.
const ModeNormal Mode = 0

// Has reports whether every mode in flag is active.
func (m Mode) Has(flag Mode) bool { return m&flag == flag }

// modeNames is ordered for stable String output.
var modeNames = []struct {
	flag Mode
	name string
}{
	{ModeHovering, "hovering"},
	{ModeLayerFocus, "layer_focus"},
	{ModeAudienceFilter, "audience_filter"},
	{ModeSelected, "selected"},
}

// String renders the active set as "layer_focus|selected" style, or
// "normal" when empty.
func (m Mode) String() string {
	if m == ModeNormal {
		return "normal"
	}
	parts := make([]string, 0, len(modeNames))
	for _, mn := range modeNames {
		if m.Has(mn.flag) {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseMode is the inverse of String: it accepts "normal" or a
// "|"-joined list of mode names.
func ParseMode(s string) (Mode, error) {
	if s == "normal" || s == "" {
		return ModeNormal, nil
	}
	var m Mode
	for _, part := range strings.Split(s, "|") {
		found := false
		for _, mn := range modeNames {
			if mn.name == part {
				m |= mn.flag
				found = true
				break
			}
		}
		if !found {
			return ModeNormal, errors.New(errors.ErrCodeUnsupported, "unknown mode %q", part)
		}
	}
	return m, nil
}

// MarshalJSON encodes the mode as its String form.
func (m Mode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON decodes the String form produced by MarshalJSON.
func (m *Mode) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.Wrap(errors.ErrCodeUnsupported, err, "mode must be a JSON string")
	}
	parsed, err := ParseMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
