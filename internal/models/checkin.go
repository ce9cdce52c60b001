package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/sutrr/internal/constants"
)

// CheckinValues maps a check-in category to its last logged value
type CheckinValues map[string]int

// CheckinCategory describes the accepted range of a category
type CheckinCategory struct {
	Name   string
	Min    int
	Max    int
	Labels []string // optional label per value, indexed from Min
}

// CheckinCategories lists the supported categories
var CheckinCategories = map[string]CheckinCategory{
	constants.CheckinMood: {
		Name: constants.CheckinMood, Min: 1, Max: 5,
		Labels: []string{"Stressed", "Anxious", "Neutral", "Calm", "Energetic"},
	},
	constants.CheckinEnergy: {
		Name: constants.CheckinEnergy, Min: 0, Max: 100,
	},
	constants.CheckinCycle: {
		Name: constants.CheckinCycle, Min: 0, Max: 3,
		Labels: []string{"Menstrual", "Follicular", "Ovulation", "Luteal"},
	},
}

// CategoryNames returns the category names in sorted order
func CategoryNames() []string {
	names := make([]string, 0, len(CheckinCategories))
	for name := range CheckinCategories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ValidateCheckin checks category and value range
func ValidateCheckin(category string, value int) (CheckinCategory, error) {
	cat, ok := CheckinCategories[strings.ToLower(strings.TrimSpace(category))]
	if !ok {
		return CheckinCategory{}, fmt.Errorf("unknown check-in category %q (expected one of %s)", category, strings.Join(CategoryNames(), ", "))
	}
	if value < cat.Min || value > cat.Max {
		return CheckinCategory{}, fmt.Errorf("%s must be between %d and %d", cat.Name, cat.Min, cat.Max)
	}
	return cat, nil
}

// Label returns the display label for value, or the number itself
func (c CheckinCategory) Label(value int) string {
	idx := value - c.Min
	if idx >= 0 && idx < len(c.Labels) {
		return c.Labels[idx]
	}
	return fmt.Sprintf("%d", value)
}
