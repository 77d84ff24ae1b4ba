package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/iliyamo/stayin-booking/internal/model"
)

// Step is a state of the booking wizard.
type Step int

const (
	StepPersonalData Step = iota
	StepPayment
	StepConfirmation
)

// StepCount is the number of form steps.
const StepCount = 3

const lastStep = StepConfirmation

// ConfirmationPage is where a submitted booking navigates to.
const ConfirmationPage = "confirmacao.html"

// DefaultSubmitDelay is the simulated submission latency.
const DefaultSubmitDelay = 1500 * time.Millisecond

var (
	// ErrInvalid is returned by Submit when full-form validation fails.
	ErrInvalid = errors.New("booking form is invalid")
	// ErrSubmitting is returned while the submit control is disabled.
	ErrSubmitting = errors.New("booking already submitted")
	// ErrClosed is returned by every operation after Teardown.
	ErrClosed = errors.New("booking wizard closed")
)

// ReservationWriter receives the summary at final submit.  SessionRepo
// satisfies it.
type ReservationWriter interface {
	SaveReservation(ctx context.Context, s model.ReservationSummary) error
}

// Summary holds the display fields filled in when leaving the payment step.
type Summary struct {
	Nome      string
	Email     string
	Pagamento string
}

// Options configure a Machine; zero values pick the defaults.
type Options struct {
	SubmitDelay time.Duration
	Now         func() time.Time
}

// Machine is the booking wizard state machine.  It owns the form, the
// current step and the pending submit task; rendering happens in listeners
// that receive a Snapshot after every change.  A Machine is safe for
// concurrent use because the submit task completes on its own goroutine.
type Machine struct {
	mu         sync.Mutex
	form       *Form
	stay       model.Stay
	current    Step
	summary    Summary
	submitting bool
	redirect   string
	task       *Task
	gen        int
	seq        uint64
	closed     bool
	delay      time.Duration
	writer     ReservationWriter
	listeners  []func(Snapshot)
}

// NewMachine starts a wizard at the personal data step for stay.
func NewMachine(stay model.Stay, w ReservationWriter, opts Options) *Machine {
	if opts.SubmitDelay <= 0 {
		opts.SubmitDelay = DefaultSubmitDelay
	}
	return &Machine{
		form:    NewForm(opts.Now),
		stay:    stay,
		current: StepPersonalData,
		delay:   opts.SubmitDelay,
		writer:  w,
	}
}

// Subscribe registers fn for state changes and immediately sends it the
// current snapshot.
func (m *Machine) Subscribe(fn func(Snapshot)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	snap := m.snapshotLocked()
	m.mu.Unlock()
	fn(snap)
}

// CurrentState returns the visible step.
func (m *Machine) CurrentState() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// CanAdvance runs step validation on the visible step.  Field marks are
// updated as a side effect; the step does not change.
func (m *Machine) CanAdvance() bool {
	m.mu.Lock()
	ok := m.form.ValidateStep(m.current)
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.publish(snap)
	return ok
}

// Advance validates the visible step.  On success it fills the summary when
// leaving the payment step and advances unless already on the last step.
// On failure the form is marked validated and the step stays.
func (m *Machine) Advance() (bool, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false, ErrClosed
	}
	ok := m.nextLocked()
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.publish(snap)
	return ok, nil
}

func (m *Machine) nextLocked() bool {
	if !m.form.ValidateStep(m.current) {
		m.form.markValidated()
		return false
	}
	if m.current == StepPayment {
		m.populateSummaryLocked()
	}
	if m.current < lastStep {
		m.current++
	}
	return true
}

// Retreat goes back one step without validation.  It reports whether the
// step changed.
func (m *Machine) Retreat() (bool, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false, ErrClosed
	}
	moved := m.current > StepPersonalData
	if moved {
		m.current--
	}
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.publish(snap)
	return moved, nil
}

// Enter handles the Enter key anywhere in the form.  It never submits: on
// the first two steps it behaves like Advance, on the confirmation step it is
// swallowed.
func (m *Machine) Enter() (bool, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false, ErrClosed
	}
	if m.current == lastStep {
		m.mu.Unlock()
		return false, nil
	}
	ok := m.nextLocked()
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.publish(snap)
	return ok, nil
}

// Input forwards an input event to the form.
func (m *Machine) Input(name, value string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	err := m.form.Input(name, value)
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.publish(snap)
	return err
}

// SelectPayment switches the payment field-set.
func (m *Machine) SelectPayment(method model.PaymentMethod) error {
	if _, ok := model.ParsePaymentMethod(string(method)); !ok {
		return ErrUnknownPaymentMethod
	}
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	m.form.SelectPayment(method)
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.publish(snap)
	return nil
}

func (m *Machine) populateSummaryLocked() {
	first, _ := m.form.Field(FieldFirstName)
	last, _ := m.form.Field(FieldLastName)
	email, _ := m.form.Field(FieldEmail)
	m.summary = Summary{
		Nome:      first.Value + " " + last.Value,
		Email:     email.Value,
		Pagamento: m.form.PaymentMethod().Label(),
	}
}

// Submit is the native form submit.  It validates every required control
// across all steps; on failure the form is marked validated and ErrInvalid
// returned.  On success the confirmation fields are refreshed, the
// reservation summary is written, the submit
// control disabled, and the navigation to the confirmation page scheduled
// after the submit delay.
func (m *Machine) Submit(ctx context.Context) (model.ReservationSummary, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return model.ReservationSummary{}, ErrClosed
	}
	if m.submitting {
		m.mu.Unlock()
		return model.ReservationSummary{}, ErrSubmitting
	}
	if !m.form.ValidateAll() {
		m.form.markValidated()
		snap := m.snapshotLocked()
		m.mu.Unlock()
		m.publish(snap)
		return model.ReservationSummary{}, ErrInvalid
	}
	m.populateSummaryLocked()
	summary := m.stay.Summary()
	if m.writer != nil {
		if err := m.writer.SaveReservation(ctx, summary); err != nil {
			m.mu.Unlock()
			return model.ReservationSummary{}, err
		}
	}
	m.submitting = true
	m.gen++
	gen := m.gen
	m.task = Schedule(m.delay, func() { m.finishSubmit(gen) })
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.publish(snap)
	return summary, nil
}

func (m *Machine) finishSubmit(gen int) {
	m.mu.Lock()
	if m.closed || m.gen != gen {
		m.mu.Unlock()
		return
	}
	m.redirect = ConfirmationPage
	snap := m.snapshotLocked()
	m.mu.Unlock()
	m.publish(snap)
}

// Pending returns the submit task, nil before a successful submit.
func (m *Machine) Pending() *Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.task
}

// Teardown disposes the wizard: the pending submit task is cancelled and
// listeners are dropped, so no navigation fires against a discarded view.
func (m *Machine) Teardown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	if m.task != nil {
		m.task.Cancel()
	}
	m.listeners = nil
}

// Snapshot returns the current state without notifying listeners.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// publish delivers s outside the machine lock, so listeners may see
// snapshots out of order; Snapshot.Seq lets them drop stale ones.
func (m *Machine) publish(s Snapshot) {
	m.mu.Lock()
	ls := append([]func(Snapshot){}, m.listeners...)
	m.mu.Unlock()
	for _, fn := range ls {
		fn(s)
	}
}
