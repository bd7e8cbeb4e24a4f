package form

import (
	"slices"
	"strings"

	"github.com/julianstephens/nazmara/internal/constants"
)

// Result collects every failed rule of one check. It is a value, not an
// error: an empty Result means the form passed.
type Result struct {
	Errors  []string
	Invalid []string
}

func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Summary joins the messages one per line.
func (r Result) Summary() string {
	return strings.Join(r.Errors, "\n")
}

func (r *Result) fail(field, msg string) {
	r.Errors = append(r.Errors, msg)
	if !slices.Contains(r.Invalid, field) {
		r.Invalid = append(r.Invalid, field)
	}
}

// Data holds cleaned values keyed by field name.
type Data map[string]any

func (d Data) String(name string) string {
	s, _ := d[name].(string)
	return s
}

func (d Data) Int(name string) int {
	n, _ := d[name].(int)
	return n
}

// Validator evaluates the field rules. It holds no state between calls.
type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// order returns the keys of values in evaluation order: known fields first,
// then unknown names sorted.
func order(values map[string]string) []string {
	names := make([]string, 0, len(values))
	for _, n := range fieldOrder {
		if _, ok := values[n]; ok {
			names = append(names, n)
		}
	}
	var unknown []string
	for n := range values {
		if !slices.Contains(fieldOrder, n) {
			unknown = append(unknown, n)
		}
	}
	slices.Sort(unknown)
	return append(names, unknown...)
}

// Check runs the format rules over values. With signup set the password must
// also be hard to guess. Every failure is reported, not just the first.
func (v *Validator) Check(values map[string]string, signup bool) Result {
	var r Result
	for _, name := range order(values) {
		val := values[name]
		switch name {
		case constants.FieldFirstName, constants.FieldLastName:
			clean, ok := cleanName(val)
			if !inRange(clean, constants.NameMinLen, constants.NameMaxLen) {
				r.fail(name, lengthMessage(name, constants.NameMinLen, constants.NameMaxLen))
			} else if !ok {
				r.fail(name, label(name)+" format is invalid")
			}

		case constants.FieldNickname:
			clean, ok := cleanNickname(val)
			if !inRange(clean, constants.NicknameMinLen, constants.NicknameMaxLen) {
				r.fail(name, lengthMessage(name, constants.NicknameMinLen, constants.NicknameMaxLen))
			} else if !ok {
				r.fail(name, "nickname format is invalid")
			}

		case constants.FieldEmail:
			if _, err := normalizeEmail(val); err != nil {
				r.fail(name, err.Error())
			}

		case constants.FieldPassword:
			pw := strings.TrimSpace(val)
			if !inRange(pw, constants.PasswordMinLen, constants.PasswordMaxLen) {
				r.fail(name, lengthMessage(name, constants.PasswordMinLen, constants.PasswordMaxLen))
			} else if signup {
				if _, reason := passwordStrength(pw, related(values)); reason != "" {
					r.fail(name, reason)
				}
			}

		case constants.FieldTitle, constants.FieldDescription:
			clean, ok := cleanTaskText(val)
			if !inRange(clean, constants.TaskTextMinLen, constants.TaskTextMaxLen) {
				r.fail(name, lengthMessage(name, constants.TaskTextMinLen, constants.TaskTextMaxLen))
			} else if !ok {
				r.fail(name, label(name)+" may only contain letters, digits and spaces")
			}

		case constants.FieldPriority:
			if _, ok := parsePriority(val); !ok {
				r.fail(name, "priority must be one of "+strings.Join(constants.PriorityLabels, ", "))
			}

		default:
			r.fail(name, "unknown field: "+name)
		}
	}
	return r
}

// Extract returns the cleaned value of every field, using the same rules as
// Check without reporting format failures. Only unknown names fail here.
// The password is returned trimmed but otherwise untouched.
func (v *Validator) Extract(values map[string]string) (Data, Result) {
	var r Result
	d := Data{}
	for _, name := range order(values) {
		val := values[name]
		switch name {
		case constants.FieldFirstName, constants.FieldLastName:
			d[name], _ = cleanName(val)
		case constants.FieldNickname:
			d[name], _ = cleanNickname(val)
		case constants.FieldEmail:
			if e, err := normalizeEmail(val); err == nil {
				d[name] = e
			} else {
				d[name] = strings.TrimSpace(val)
			}
		case constants.FieldPassword:
			d[name] = strings.TrimSpace(val)
		case constants.FieldTitle, constants.FieldDescription:
			d[name], _ = cleanTaskText(val)
		case constants.FieldPriority:
			p, _ := parsePriority(val)
			d[name] = int(p)
		default:
			r.fail(name, "unknown field: "+name)
		}
	}
	return d, r
}

// Validate is Check followed by Extract. Data is nil when the check failed.
func (v *Validator) Validate(values map[string]string, signup bool) (Data, Result) {
	if r := v.Check(values, signup); !r.OK() {
		return nil, r
	}
	return v.Extract(values)
}

// related lists the personal values of a form for the password estimator.
func related(values map[string]string) []string {
	var out []string
	for _, n := range []string{constants.FieldFirstName, constants.FieldLastName, constants.FieldNickname, constants.FieldEmail} {
		if s := strings.TrimSpace(values[n]); s != "" {
			out = append(out, s)
		}
	}
	return out
}
