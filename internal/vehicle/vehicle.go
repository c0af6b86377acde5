// Package vehicle classifies vehicles for congestion tax purposes.
package vehicle

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCategory is returned when a category name is not recognised.
var ErrUnknownCategory = errors.New("unknown vehicle category")

// Category is the exemption category of a vehicle.
type Category string

const (
	Car       Category = "Car"
	Motorbike Category = "Motorbike"
	Tractor   Category = "Tractor"
	Emergency Category = "Emergency"
	Diplomat  Category = "Diplomat"
	Foreign   Category = "Foreign"
	Military  Category = "Military"
)

var categories = []Category{Car, Motorbike, Tractor, Emergency, Diplomat, Foreign, Military}

// Categories returns all known categories.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// IsTollFree reports whether vehicles of this category never pay a fee.
func (c Category) IsTollFree() bool {
	switch c {
	case Motorbike, Tractor, Emergency, Diplomat, Foreign, Military:
		return true
	default:
		return false
	}
}

// ParseCategory parses a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	name := strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(string(c), name) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// UnmarshalJSON implements json.Unmarshaler, normalising the case.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(c))
}

func (c Category) String() string {
	return string(c)
}

// NormalizePlate removes spaces and dashes from a registration plate and
// upper-cases it.
func NormalizePlate(plate string) string {
	plate = strings.ReplaceAll(plate, " ", "")
	plate = strings.ReplaceAll(plate, "-", "")
	return strings.ToUpper(plate)
}
