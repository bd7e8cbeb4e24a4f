package tui

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/nazmara/internal/constants"
	"github.com/julianstephens/nazmara/internal/form"
	"github.com/julianstephens/nazmara/internal/storage"
)

// formField is a huh-bound input that the validator can read and mark.
type formField struct {
	name    string
	label   string
	value   string
	invalid bool
}

func (f *formField) Text() string { return f.value }

func (f *formField) SetErrorState(invalid bool) { f.invalid = invalid }

func (f *formField) title() string {
	if f.invalid {
		return f.label + " ✗"
	}
	return f.label
}

type fieldSet []*formField

func (fs fieldSet) all() []form.Field {
	out := make([]form.Field, len(fs))
	for i, f := range fs {
		out[i] = f
	}
	return out
}

func (fs fieldSet) byName() map[string]form.Field {
	out := make(map[string]form.Field, len(fs))
	for _, f := range fs {
		out[f.name] = f
	}
	return out
}

func (fs fieldSet) get(name string) *formField {
	for _, f := range fs {
		if f.name == name {
			return f
		}
	}
	return nil
}

type setupFormModel struct {
	fields fieldSet
}

func newSetupFormModel() *setupFormModel {
	return &setupFormModel{fields: fieldSet{
		{name: constants.FieldFirstName, label: "First name"},
		{name: constants.FieldLastName, label: "Last name"},
		{name: constants.FieldNickname, label: "Nickname"},
	}}
}

func newSetupForm(fm *setupFormModel) *huh.Form {
	inputs := make([]huh.Field, len(fm.fields))
	for i, f := range fm.fields {
		inputs[i] = huh.NewInput().
			Title(f.title()).
			Value(&f.value)
	}
	return huh.NewForm(
		huh.NewGroup(inputs...).
			Title("Create an offline profile").
			Description("Your data stays on this machine."),
	).WithTheme(huh.ThemeDracula())
}

type taskFormModel struct {
	fields fieldSet
	date   string
	tagID  string
}

func newTaskFormModel(priority, date string) *taskFormModel {
	return &taskFormModel{
		fields: fieldSet{
			{name: constants.FieldTitle, label: "Title"},
			{name: constants.FieldDescription, label: "Description (optional)"},
			{name: constants.FieldPriority, label: "Priority", value: priority},
		},
		date: date,
	}
}

func newTaskForm(fm *taskFormModel, tagNames map[string]string) *huh.Form {
	title := fm.fields.get(constants.FieldTitle)
	desc := fm.fields.get(constants.FieldDescription)
	prio := fm.fields.get(constants.FieldPriority)

	ids := make([]string, 0, len(tagNames))
	for id := range tagNames {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int { return strings.Compare(tagNames[a], tagNames[b]) })
	tagOptions := []huh.Option[string]{huh.NewOption("None", "")}
	for _, id := range ids {
		tagOptions = append(tagOptions, huh.NewOption(tagNames[id], id))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title.title()).
				Value(&title.value),
			huh.NewInput().
				Title(desc.title()).
				Value(&desc.value),
			huh.NewSelect[string]().
				Title(prio.title()).
				Options(huh.NewOptions(constants.PriorityLabels...)...).
				Value(&prio.value),
			huh.NewInput().
				Title("Date (YYYY-MM-DD)").
				Value(&fm.date).
				Validate(func(s string) error {
					if _, err := time.Parse(constants.DateFormat, strings.TrimSpace(s)); err != nil {
						return errors.New("date must be YYYY-MM-DD")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Tag").
				Options(tagOptions...).
				Value(&fm.tagID),
		),
	).WithTheme(huh.ThemeDracula())
}

// validate runs the presence and format checks over fs, marks the offending
// fields and returns the cleaned values. Empty optional fields are left out
// of the format check.
func (m *Model) validate(fs fieldSet, required []string, signup bool) (form.Data, bool) {
	all := fs.all()
	byName := fs.byName()

	p := form.PresenceCheck(form.Lookup(byName, required))
	if len(p.Empty) > 0 {
		form.MarkFields(all, p.Empty)
		m.setStatus("Please fill in the highlighted fields.", true)
		return nil, false
	}

	values := form.Texts(byName)
	for name, v := range values {
		if v == "" {
			delete(values, name)
		}
	}

	r := m.validator.Check(values, signup)
	form.MarkFields(all, form.Lookup(byName, r.Invalid))
	if !r.OK() {
		m.setStatus(strings.Join(r.Errors, "; "), true)
		return nil, false
	}

	data, r := m.validator.Extract(values)
	if !r.OK() {
		m.setStatus(strings.Join(r.Errors, "; "), true)
		return nil, false
	}
	return data, true
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

// setError shows err on the status line. Storage faults get a generic
// message; details go to the log.
func (m *Model) setError(err error) {
	switch {
	case errors.Is(err, storage.ErrStorage):
		m.setStatus("Could not save, please try again.", true)
	case errors.Is(err, storage.ErrNotFound):
		m.setStatus("That item no longer exists.", true)
	default:
		m.setStatus(err.Error(), true)
	}
}
