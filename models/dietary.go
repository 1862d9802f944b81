package models

import (
	"encoding/json"
	"sort"
	"strings"
)

type DietaryTag string

const (
	DietaryVegetarian DietaryTag = "Vegetarian"
	DietaryVegan      DietaryTag = "Vegan"
	DietaryGlutenFree DietaryTag = "Gluten-Free"
	DietaryDairyFree  DietaryTag = "Dairy-Free"
	DietaryNutFree    DietaryTag = "Nut-Free"
	DietaryLowCarb    DietaryTag = "Low-Carb"
)

// DietaryOptions is the display order of the known tags.
var DietaryOptions = []DietaryTag{
	DietaryVegetarian,
	DietaryVegan,
	DietaryGlutenFree,
	DietaryDairyFree,
	DietaryNutFree,
	DietaryLowCarb,
}

const dietarySeparator = ";"

// DietarySet is an unordered set of dietary tags. It is stored on the gateway
// as a single string joined by ";". Unknown tags are kept so a round trip
// never loses data.
type DietarySet struct {
	tags map[DietaryTag]struct{}
}

func NewDietarySet(tags ...DietaryTag) DietarySet {
	var s DietarySet
	for _, tag := range tags {
		s.Add(tag)
	}
	return s
}

// ParseDietarySet splits a stored value. Empty segments and surrounding
// whitespace are dropped, duplicates collapse.
func ParseDietarySet(raw string) DietarySet {
	var s DietarySet
	for _, part := range strings.Split(raw, dietarySeparator) {
		s.Add(DietaryTag(part))
	}
	return s
}

// Add inserts tag. A value holding the separator is split into its parts so
// the set always survives Join and ParseDietarySet.
func (s *DietarySet) Add(tag DietaryTag) {
	if strings.Contains(string(tag), dietarySeparator) {
		for _, part := range strings.Split(string(tag), dietarySeparator) {
			s.Add(DietaryTag(part))
		}
		return
	}
	tag = DietaryTag(strings.TrimSpace(string(tag)))
	if tag == "" {
		return
	}
	if s.tags == nil {
		s.tags = make(map[DietaryTag]struct{})
	}
	s.tags[tag] = struct{}{}
}

func (s *DietarySet) Remove(tag DietaryTag) {
	delete(s.tags, tag)
}

// Toggle flips membership and reports whether the tag is now present.
func (s *DietarySet) Toggle(tag DietaryTag) bool {
	if s.Has(tag) {
		s.Remove(tag)
		return false
	}
	s.Add(tag)
	return s.Has(tag)
}

func (s DietarySet) Has(tag DietaryTag) bool {
	_, ok := s.tags[tag]
	return ok
}

func (s DietarySet) Len() int {
	return len(s.tags)
}

// Tags returns known tags in DietaryOptions order followed by unknown tags
// sorted alphabetically.
func (s DietarySet) Tags() []DietaryTag {
	out := make([]DietaryTag, 0, len(s.tags))
	for _, opt := range DietaryOptions {
		if s.Has(opt) {
			out = append(out, opt)
		}
	}

	var extra []string
	for tag := range s.tags {
		if !tag.Known() {
			extra = append(extra, string(tag))
		}
	}
	sort.Strings(extra)
	for _, tag := range extra {
		out = append(out, DietaryTag(tag))
	}
	return out
}

func (s DietarySet) Join() string {
	tags := s.Tags()
	parts := make([]string, len(tags))
	for i, tag := range tags {
		parts[i] = string(tag)
	}
	return strings.Join(parts, dietarySeparator)
}

func (s DietarySet) Equal(other DietarySet) bool {
	if s.Len() != other.Len() {
		return false
	}
	for tag := range s.tags {
		if !other.Has(tag) {
			return false
		}
	}
	return true
}

func (s DietarySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Tags())
}

// UnmarshalJSON accepts either a list of tags or the joined string form.
func (s *DietarySet) UnmarshalJSON(data []byte) error {
	*s = DietarySet{}

	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		*s = ParseDietarySet(joined)
		return nil
	}

	var tags []DietaryTag
	if err := json.Unmarshal(data, &tags); err != nil {
		return err
	}
	*s = NewDietarySet(tags...)
	return nil
}

func (t DietaryTag) Known() bool {
	for _, opt := range DietaryOptions {
		if opt == t {
			return true
		}
	}
	return false
}
