package catalog

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"
)

// OptionID identifies a variation option
type OptionID int64

// OptionKey is the canonical, comparable form of an OptionSet ("[3,7]").
// It is only produced by OptionSet.Key and is safe to use as a map key.
type OptionKey string

// OptionSet is a selection of variation options normalized to ascending order.
// Two selections are the same iff their keys are equal.
type OptionSet struct {
	ids []OptionID
}

// NewOptionSet builds a normalized option set from ids in any order
func NewOptionSet(ids ...OptionID) OptionSet {
	if len(ids) == 0 {
		return OptionSet{}
	}
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return OptionSet{ids: sorted}
}

// IDs returns a copy of the sorted option ids
func (s OptionSet) IDs() []OptionID {
	return slices.Clone(s.ids)
}

// Len returns the number of options in the set
func (s OptionSet) Len() int {
	return len(s.ids)
}

// Equal compares two selections element-wise
func (s OptionSet) Equal(other OptionSet) bool {
	return slices.Equal(s.ids, other.ids)
}

// Key returns the canonical identity key
func (s OptionSet) Key() OptionKey {
	var b strings.Builder
	b.WriteByte('[')
	for i, id := range s.ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(int64(id), 10))
	}
	b.WriteByte(']')
	return OptionKey(b.String())
}

// String implements fmt.Stringer
func (s OptionSet) String() string {
	return string(s.Key())
}

// MarshalJSON encodes the set as a sorted JSON array
func (s OptionSet) MarshalJSON() ([]byte, error) {
	if s.ids == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.ids)
}

// UnmarshalJSON decodes a JSON array of ids and normalizes it
func (s *OptionSet) UnmarshalJSON(data []byte) error {
	var ids []OptionID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewOptionSet(ids...)
	return nil
}
