// Package animal describes the animals a caretaker can look after and the
// attribute options a client picks when booking.
package animal

import (
	"fmt"
	"sort"
	"strings"
)

// Type represents the kind of animal being cared for.
type Type string

const (
	TypeDog     Type = "dog"
	TypeCat     Type = "cat"
	TypeBird    Type = "bird"
	TypeRodent  Type = "rodent"
	TypeReptile Type = "reptile"
	TypeFish    Type = "fish"
	TypeOther   Type = "other"
)

// IsValid returns true if the animal type is recognized.
func (t Type) IsValid() bool {
	switch t {
	case TypeDog, TypeCat, TypeBird, TypeRodent, TypeReptile, TypeFish, TypeOther:
		return true
	}
	return false
}

// ParseType converts a string to a Type.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(s))
	if !t.IsValid() {
		return "", fmt.Errorf("invalid animal type: %s", s)
	}
	return t, nil
}

// Option is an attribute value in "attribute:value" form, e.g. "size:large".
type Option string

// ParseOption validates the "attribute:value" shape and lowercases it.
func ParseOption(s string) (Option, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	attr, value, ok := strings.Cut(s, ":")
	if !ok || attr == "" || value == "" {
		return "", fmt.Errorf("invalid animal attribute option %q, expected attribute:value", s)
	}
	return Option(s), nil
}

// Attribute returns the attribute part of the option.
func (o Option) Attribute() string {
	attr, _, _ := strings.Cut(string(o), ":")
	return attr
}

// OptionSet is a sorted, duplicate-free list of options.
type OptionSet []Option

// NewOptionSet parses, deduplicates and sorts raw options.
func NewOptionSet(raw []string) (OptionSet, error) {
	seen := make(map[Option]struct{}, len(raw))
	set := make(OptionSet, 0, len(raw))
	for _, r := range raw {
		opt, err := ParseOption(r)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[opt]; dup {
			continue
		}
		seen[opt] = struct{}{}
		set = append(set, opt)
	}
	sort.Slice(set, func(i, j int) bool { return set[i] < set[j] })
	return set, nil
}

// Contains reports whether the set holds the option.
func (s OptionSet) Contains(o Option) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= o })
	return i < len(s) && s[i] == o
}

// Missing returns the options of other that s does not contain.
func (s OptionSet) Missing(other OptionSet) []Option {
	var missing []Option
	for _, o := range other {
		if !s.Contains(o) {
			missing = append(missing, o)
		}
	}
	return missing
}

// Strings returns the options as plain strings.
func (s OptionSet) Strings() []string {
	out := make([]string, len(s))
	for i, o := range s {
		out[i] = string(o)
	}
	return out
}
