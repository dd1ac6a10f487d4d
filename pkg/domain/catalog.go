package domain

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category groups products in the catalog.
type Category struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Emoji       string `json:"emoji,omitempty" yaml:"emoji,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Product is a read-only catalog entry.
type Product struct {
	ID          string    `json:"id" yaml:"id"`
	CategoryID  string    `json:"category" yaml:"category"`
	Name        string    `json:"name" yaml:"name"`
	Price       float64   `json:"price" yaml:"price"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Sizes       OptionSet `json:"sizes,omitempty" yaml:"sizes,omitempty"`
	Variants    OptionSet `json:"variants,omitempty" yaml:"variants,omitempty"`
	Images      []string  `json:"images,omitempty" yaml:"images,omitempty"`
	InStock     bool      `json:"in_stock" yaml:"in_stock"`
}

// OptionSet is an optional, non-empty list of selectable labels (sizes, variants).
// The zero value is absent. Blank labels are dropped on construction, so an
// OptionSet is either absent or holds at least one label.
type OptionSet struct {
	values []string
}

// NewOptionSet builds an OptionSet from labels, dropping blank entries.
func NewOptionSet(labels ...string) OptionSet {
	var values []string
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			values = append(values, l)
		}
	}
	return OptionSet{values: values}
}

// Present reports whether the set holds at least one label.
func (o OptionSet) Present() bool { return len(o.values) > 0 }

// Len returns the number of labels.
func (o OptionSet) Len() int { return len(o.values) }

// At returns the label at the zero-based index.
func (o OptionSet) At(i int) (string, bool) {
	if i < 0 || i >= len(o.values) {
		return "", false
	}
	return o.values[i], true
}

// Values returns a copy of the labels.
func (o OptionSet) Values() []string {
	if len(o.values) == 0 {
		return nil
	}
	out := make([]string, len(o.values))
	copy(out, o.values)
	return out
}

// Join renders the labels separated by sep.
func (o OptionSet) Join(sep string) string {
	return strings.Join(o.values, sep)
}

func (o OptionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.values)
}

func (o *OptionSet) UnmarshalJSON(data []byte) error {
	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return err
	}
	*o = NewOptionSet(labels...)
	return nil
}

func (o OptionSet) MarshalYAML() (any, error) {
	return o.values, nil
}

func (o *OptionSet) UnmarshalYAML(node *yaml.Node) error {
	var labels []string
	if err := node.Decode(&labels); err != nil {
		return err
	}
	*o = NewOptionSet(labels...)
	return nil
}
