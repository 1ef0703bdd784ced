package product

import (
	"fmt"
	"strings"
)

// Status is the availability state of a product. The zero value is StatusDefault.
type Status int

const (
	StatusDefault Status = iota
	StatusAvailable
	StatusOutOfStock
	StatusDiscontinued
	StatusComingSoon
)

type statusInfo struct {
	name  string
	label string
}

var statuses = [...]statusInfo{
	StatusDefault:      {"DEFAULT", "Desconocido"},
	StatusAvailable:    {"AVAILABLE", "Disponible"},
	StatusOutOfStock:   {"OUT_OF_STOCK", "Agotado"},
	StatusDiscontinued: {"DISCONTINUED", "Descontinuado"},
	StatusComingSoon:   {"COMING_SOON", "Próximamente"},
}

// Statuses returns every status in declaration order.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	for i := range statuses {
		out[i] = Status(i)
	}
	return out
}

func (s Status) Valid() bool {
	return s >= 0 && int(s) < len(statuses)
}

func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statuses[s].name
}

// Label returns the localized display label.
func (s Status) Label() string {
	if !s.Valid() {
		return statuses[StatusDefault].label
	}
	return statuses[s].label
}

// ParseStatus resolves an enum name (case-insensitive).
func ParseStatus(s string) (Status, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for i, info := range statuses {
		if info.name == name {
			return Status(i), nil
		}
	}
	return StatusDefault, fmt.Errorf("unknown status %q", s)
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %d", int(s))
	}
	return []byte(statuses[s].name), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
