package wizard

import (
	"sync"

	"github.com/iliyamo/stayin-booking/internal/model"
)

// Labels of the submit control.
const (
	SubmitLabel = "Confirmar Reserva"
	BusyLabel   = "A Processar..."
)

// View is what the booking page renders.
type View struct {
	Step         Step                 `json:"step"`
	Steps        []bool               `json:"steps"`
	Stepper      []bool               `json:"stepper"`
	Fields       map[string]FieldView `json:"fields"`
	Panels       map[string]PanelView `json:"panels"`
	WasValidated bool                 `json:"was_validated"`
	Summary      SummaryView          `json:"summary"`
	Submit       SubmitView           `json:"submit"`
	Redirect     string               `json:"redirect,omitempty"`
}

type FieldView struct {
	Value    string `json:"value"`
	Required bool   `json:"required"`
	Hidden   bool   `json:"hidden"`
	State    State  `json:"state"`
	Message  string `json:"message,omitempty"`
}

type PanelView struct {
	Hidden bool `json:"hidden"`
}

type SummaryView struct {
	Nome      string `json:"confirm-nome"`
	Email     string `json:"confirm-email"`
	Pagamento string `json:"confirm-pagamento"`
}

type SubmitView struct {
	Disabled bool   `json:"disabled"`
	Label    string `json:"label"`
}

// Presenter turns snapshots into views.  It keeps the last one so handlers
// can read it after driving the machine.
type Presenter struct {
	mu   sync.RWMutex
	seq  uint64
	view View
}

// Update renders s; pass it to Machine.Subscribe.  A snapshot older than
// the one already rendered is ignored.
func (p *Presenter) Update(s Snapshot) {
	v := Render(s)
	p.mu.Lock()
	defer p.mu.Unlock()
	if s.Seq != 0 && s.Seq <= p.seq {
		return
	}
	p.seq = s.Seq
	p.view = v
}

// View returns the last rendered view.
func (p *Presenter) View() View {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.view
}

// Render projects a snapshot.  Exactly one step is visible; the stepper
// marks every step up to and including the current one.
func Render(s Snapshot) View {
	v := View{
		Step:         s.Step,
		Steps:        make([]bool, StepCount),
		Stepper:      make([]bool, StepCount),
		Fields:       make(map[string]FieldView, len(s.Fields)),
		Panels:       make(map[string]PanelView, len(model.PaymentMethods)),
		WasValidated: s.WasValidated,
		Summary: SummaryView{
			Nome:      s.Summary.Nome,
			Email:     s.Summary.Email,
			Pagamento: s.Summary.Pagamento,
		},
		Submit:   SubmitView{Label: SubmitLabel},
		Redirect: s.Redirect,
	}
	for i := range v.Steps {
		v.Steps[i] = Step(i) == s.Step
		v.Stepper[i] = Step(i) < s.Step+1
	}
	for _, m := range model.PaymentMethods {
		v.Panels[string(m)] = PanelView{Hidden: string(m) != s.Method}
	}
	for _, f := range s.Fields {
		v.Fields[f.Name] = FieldView{
			Value:    f.Value,
			Required: f.Required,
			Hidden:   f.Hidden,
			State:    f.State,
			Message:  f.Message,
		}
	}
	if s.Submitting {
		v.Submit = SubmitView{Disabled: true, Label: BusyLabel}
	}
	return v
}
