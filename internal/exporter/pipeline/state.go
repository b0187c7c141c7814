package pipeline

import (
	"fmt"
	"time"
)

// ============================================================
// Run state machine
// ============================================================

type State string

const (
	StateIdle               State = "idle"
	StateCapturing          State = "capturing"
	StateInferringStructure State = "inferring_structure"
	StateGeneratingCode     State = "generating_code"
	StateExtracting         State = "extracting"
	StateCompiling          State = "compiling"
	StatePackaging          State = "packaging"
	StateDone               State = "done"
	StateFailed             State = "failed"
)

// Terminal сообщает, что из состояния больше нет переходов.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// transitionTable: допустимые переходы вперёд. В Failed можно попасть
// из любого нетерминального состояния, поэтому он в таблице не указан.
type transitionTable map[State]State

var aiTransitions = transitionTable{
	StateIdle:               StateCapturing,
	StateCapturing:          StateInferringStructure,
	StateInferringStructure: StateGeneratingCode,
	StateGeneratingCode:     StatePackaging,
	StatePackaging:          StateDone,
}

var templateTransitions = transitionTable{
	StateIdle:       StateExtracting,
	StateExtracting: StateCompiling,
	StateCompiling:  StatePackaging,
	StatePackaging:  StateDone,
}

type Transition struct {
	From State     `json:"from"`
	To   State     `json:"to"`
	At   time.Time `json:"at"`
}

// Failure: терминальное состояние Failed(stage, error).
type Failure struct {
	Stage State
	Err   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Stage, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Machine хранит состояние одного запуска. Запуск последователен,
// поэтому блокировки не нужны.
type Machine struct {
	table   transitionTable
	state   State
	history []Transition
	failure *Failure
	observe func(Transition)
	now     func() time.Time
}

func newMachine(table transitionTable, observe func(Transition)) *Machine {
	return &Machine{table: table, state: StateIdle, observe: observe, now: time.Now}
}

func (m *Machine) State() State {
	return m.state
}

// History возвращает копию истории переходов.
func (m *Machine) History() []Transition {
	out := make([]Transition, len(m.history))
	copy(out, m.history)
	return out
}

func (m *Machine) Failure() *Failure {
	return m.failure
}

// Advance выполняет единственный допустимый переход вперёд.
func (m *Machine) Advance(to State) error {
	next, ok := m.table[m.state]
	if !ok || next != to {
		return fmt.Errorf("illegal transition %s -> %s", m.state, to)
	}
	m.record(to)
	return nil
}

// Fail переводит запуск в Failed, запоминая стадию, на которой он упал.
func (m *Machine) Fail(err error) *Failure {
	if m.state.Terminal() {
		return m.failure
	}
	m.failure = &Failure{Stage: m.state, Err: err}
	m.record(StateFailed)
	return m.failure
}

func (m *Machine) record(to State) {
	t := Transition{From: m.state, To: to, At: m.now().UTC()}
	m.history = append(m.history, t)
	m.state = to
	if m.observe != nil {
		m.observe(t)
	}
}
