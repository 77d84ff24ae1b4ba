package wizard

// Snapshot is an immutable copy of the machine state handed to listeners.
// Seq grows with every snapshot a machine takes.
type Snapshot struct {
	Seq          uint64
	Step         Step
	Fields       []FieldSnapshot
	Method       string
	WasValidated bool
	Summary      Summary
	Submitting   bool
	Redirect     string
}

// FieldSnapshot is the render state of one control.
type FieldSnapshot struct {
	Name     string
	Step     Step
	Panel    string
	Value    string
	Required bool
	Hidden   bool
	State    State
	Message  string
}

func (m *Machine) snapshotLocked() Snapshot {
	fs := make([]FieldSnapshot, 0, len(m.form.Fields()))
	for _, fd := range m.form.Fields() {
		msg := ""
		if fd.State == StateInvalid {
			msg = fd.ValidationMessage()
		}
		fs = append(fs, FieldSnapshot{
			Name:     fd.Name,
			Step:     fd.Step,
			Panel:    string(fd.Panel),
			Value:    fd.Value,
			Required: fd.Required,
			Hidden:   fd.Hidden,
			State:    fd.State,
			Message:  msg,
		})
	}
	m.seq++
	return Snapshot{
		Seq:          m.seq,
		Step:         m.current,
		Fields:       fs,
		Method:       string(m.form.PaymentMethod()),
		WasValidated: m.form.WasValidated(),
		Summary:      m.summary,
		Submitting:   m.submitting,
		Redirect:     m.redirect,
	}
}
