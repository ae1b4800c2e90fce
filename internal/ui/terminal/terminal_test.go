package terminal

import (
	"context"
	"testing"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/kersley/attend/internal/catalog"
	"github.com/kersley/attend/internal/identity"
	"github.com/kersley/attend/internal/session"
	"github.com/kersley/attend/internal/snapshot"
	"github.com/kersley/attend/internal/store"
)

// memSnapshots is an in-memory snapshot.Store.
type memSnapshots struct {
	saved *snapshot.Snapshot
}

func (f *memSnapshots) Save(s snapshot.Snapshot) error {
	f.saved = &s
	return nil
}

func (f *memSnapshots) Load() (snapshot.Snapshot, error) {
	if f.saved == nil {
		return snapshot.Snapshot{}, snapshot.ErrNotFound
	}
	return *f.saved, nil
}

func (f *memSnapshots) Clear() error {
	f.saved = nil
	return nil
}

// fakeIdentity is an identity.Service with canned results.
type fakeIdentity struct {
	provision identity.ProvisionResult
	confirmed bool
}

func (f *fakeIdentity) Provision(_ context.Context, email string) (identity.ProvisionResult, error) {
	res := f.provision
	res.Email = email
	return res, nil
}

func (f *fakeIdentity) CheckConfirmed(context.Context) (bool, error) {
	return f.confirmed, nil
}

func (f *fakeIdentity) Resend(context.Context, string) error {
	return nil
}

// fakeStore is a store.Registrations returning a fixed receipt.
type fakeStore struct {
	receipt store.Receipt
}

func (f *fakeStore) Submit(_ context.Context, email string, _ catalog.Answers) (store.Receipt, error) {
	r := f.receipt
	r.Email = email
	return r, nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	c, err := catalog.Parse([]byte(`
questions:
  - id: role
    order: 1
    label: What is your role?
    type: single-select
    required: true
    options: [Speaker, Attendee]
  - id: notes
    order: 2
    label: Anything else?
    type: textarea
    required: false
`))
	require.NoError(t, err)

	machine := session.New(c, &memSnapshots{})
	ident := &fakeIdentity{provision: identity.ProvisionResult{Status: identity.StatusConfirmationRequired}}
	regs := &fakeStore{receipt: store.Receipt{ID: "11111111-2222-3333-4444-555555555555"}}
	return New(machine, ident, regs, false)
}

// start applies the machine's startup output the way Init does.
func start(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(startupMsg{res: m.machine.Start()})
	sized, _ := next.(Model).Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return sized.(Model)
}

// sendLine types a line and presses enter.
func sendLine(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(line)})
	sized, cmd := next.(Model).Update(tea.KeyMsg{Type: tea.KeyEnter})
	return sized.(Model), cmd
}

func TestNew(t *testing.T) {
	m := newTestModel(t)

	require.False(t, m.Done())
	require.Empty(t, m.lines)
}

func TestView_EmptyBeforeFirstWindowSize(t *testing.T) {
	m := newTestModel(t)
	next, _ := m.Update(startupMsg{res: m.machine.Start()})

	require.Empty(t, next.(Model).View())
}

func TestStartup_ShowsIntro(t *testing.T) {
	m := start(t, newTestModel(t))

	view := m.View()
	require.Contains(t, view, "Welcome")
	require.Contains(t, view, "register new")
}

func TestUpdate_TypedLineReachesMachine(t *testing.T) {
	m := start(t, newTestModel(t))

	m, _ = sendLine(t, m, "register new")

	view := m.View()
	require.Contains(t, view, "register new") // echoed input
	require.Contains(t, view, "first name")
	require.Empty(t, m.input.Value(), "input should reset after enter")
}

func TestUpdate_PasswordStepsMaskInput(t *testing.T) {
	m := start(t, newTestModel(t))
	m, _ = sendLine(t, m, "register new")
	m, _ = sendLine(t, m, "Grace")
	m, _ = sendLine(t, m, "Hopper")
	require.Equal(t, textinput.EchoNormal, m.input.EchoMode)

	m, _ = sendLine(t, m, "grace@example.org")
	require.Equal(t, textinput.EchoPassword, m.input.EchoMode)
	require.Equal(t, '*', m.input.EchoCharacter)

	m, _ = sendLine(t, m, "correct horse battery")
	require.Equal(t, textinput.EchoPassword, m.input.EchoMode)

	m, cmd := sendLine(t, m, "correct horse battery")
	require.Equal(t, textinput.EchoNormal, m.input.EchoMode)
	require.NotNil(t, cmd, "provisioning effect should produce a command")
	require.Equal(t, session.PhaseProvisioningAccount, m.machine.Phase())
}

func TestUpdate_ProvisionResolutionAdvances(t *testing.T) {
	m := start(t, newTestModel(t))
	m, _ = sendLine(t, m, "register new")
	m, _ = sendLine(t, m, "Grace")
	m, _ = sendLine(t, m, "Hopper")
	m, _ = sendLine(t, m, "grace@example.org")
	m, _ = sendLine(t, m, "correct horse battery")
	m, _ = sendLine(t, m, "correct horse battery")

	next, _ := m.Update(provisionMsg{Result: identity.ProvisionResult{
		Status: identity.StatusConfirmationRequired,
		Email:  "grace@example.org",
	}})
	m = next.(Model)

	require.Equal(t, session.PhaseAwaitingConfirmation, m.machine.Phase())
	require.Contains(t, m.View(), "grace@example.org")
}

func TestUpdate_CtrlCQuits(t *testing.T) {
	m := start(t, newTestModel(t))

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
	require.Empty(t, next.(Model).View(), "no redraw after quitting")
}

func TestFullSession_SubmitCompletes(t *testing.T) {
	m := start(t, newTestModel(t))
	m, _ = sendLine(t, m, "register new")
	m, _ = sendLine(t, m, "Grace")
	m, _ = sendLine(t, m, "Hopper")
	m, _ = sendLine(t, m, "grace@example.org")
	m, _ = sendLine(t, m, "correct horse battery")
	m, _ = sendLine(t, m, "correct horse battery")

	next, _ := m.Update(provisionMsg{Result: identity.ProvisionResult{
		Status: identity.StatusConfirmationRequired,
		Email:  "grace@example.org",
	}})
	m = next.(Model)

	m, _ = sendLine(t, m, "continue")
	next, _ = m.Update(confirmationMsg{Confirmed: true})
	m = next.(Model)
	require.Equal(t, session.PhaseQuestioning, m.machine.Phase())

	m, _ = sendLine(t, m, "1") // role: Speaker
	m, _ = sendLine(t, m, "")  // notes: optional, skip
	require.Equal(t, session.PhaseReviewing, m.machine.Phase())
	require.Contains(t, m.View(), "Speaker")

	m, cmd := sendLine(t, m, "submit")
	require.NotNil(t, cmd)
	require.Equal(t, session.PhaseSubmitting, m.machine.Phase())

	next, cmd = m.Update(submitMsg{Receipt: store.Receipt{
		ID:    "11111111-2222-3333-4444-555555555555",
		Email: "grace@example.org",
	}})
	m = next.(Model)

	require.True(t, m.Done())
	require.NotNil(t, cmd)
}
