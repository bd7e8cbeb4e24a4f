package form

import "strings"

// Field is the one capability the validator needs from an input: its text
// and a way to flag it as invalid. UI widgets and plain values both satisfy it.
type Field interface {
	Text() string
	SetErrorState(invalid bool)
}

// Value is a Field backed by a string, for callers without a widget such as
// CLI flags.
type Value struct {
	S       string
	Invalid bool
}

func NewValue(s string) *Value {
	return &Value{S: s}
}

func (v *Value) Text() string { return v.S }

func (v *Value) SetErrorState(invalid bool) { v.Invalid = invalid }

// Partition splits fields by whether they hold any non-space text.
type Partition struct {
	Empty  []Field
	Filled []Field
}

// PresenceCheck sorts fields into Empty and Filled, keeping their order.
func PresenceCheck(fields []Field) Partition {
	var p Partition
	for _, f := range fields {
		if strings.TrimSpace(f.Text()) == "" {
			p.Empty = append(p.Empty, f)
		} else {
			p.Filled = append(p.Filled, f)
		}
	}
	return p
}

// MarkFields sets the error state on every field in invalid and clears it on
// the rest of all.
func MarkFields(all, invalid []Field) {
	bad := make(map[Field]bool, len(invalid))
	for _, f := range invalid {
		bad[f] = true
	}
	for _, f := range all {
		f.SetErrorState(bad[f])
	}
}

// Texts returns the trimmed text of each named field.
func Texts(fields map[string]Field) map[string]string {
	out := make(map[string]string, len(fields))
	for name, f := range fields {
		out[name] = strings.TrimSpace(f.Text())
	}
	return out
}

// Lookup returns the fields named in names, skipping unknown names.
func Lookup(fields map[string]Field, names []string) []Field {
	out := make([]Field, 0, len(names))
	for _, n := range names {
		if f, ok := fields[n]; ok {
			out = append(out, f)
		}
	}
	return out
}
