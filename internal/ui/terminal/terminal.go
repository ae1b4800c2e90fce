// Package terminal is the simulated-terminal shell around the session
// state machine: a scrollback of tagged output lines plus one input
// prompt. It renders machine outputs, forwards input lines, and runs
// the machine's effects against the real collaborators.
package terminal

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kersley/attend/internal/catalog"
	"github.com/kersley/attend/internal/identity"
	"github.com/kersley/attend/internal/log"
	"github.com/kersley/attend/internal/pubsub"
	"github.com/kersley/attend/internal/session"
	"github.com/kersley/attend/internal/store"
	"github.com/kersley/attend/internal/ui/styles"
)

// effectTimeout bounds each external collaborator call.
const effectTimeout = 30 * time.Second

// Model is the Bubble Tea model for the registration terminal.
type Model struct {
	machine  *session.Machine
	identity identity.Service
	store    store.Registrations

	input textinput.Model
	lines []session.Output

	width  int
	height int

	debug       bool
	logListener *log.Listener
	lastLog     string

	quitting bool
	done     bool
}

// Messages carrying collaborator results back into the machine.
type (
	provisionMsg    session.ProvisionResolved
	confirmationMsg session.ConfirmationResolved
	resendMsg       session.ResendResolved
	submitMsg       session.SubmitResolved
)

// New creates the shell. The machine must not have been started yet;
// Init runs its startup protocol.
func New(machine *session.Machine, ident identity.Service, regs store.Registrations, debug bool) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = styles.PromptStyle
	ti.Focus()
	ti.CharLimit = 2000

	m := Model{
		machine:  machine,
		identity: ident,
		store:    regs,
		input:    ti,
		debug:    debug,
	}
	if debug {
		m.logListener = log.NewListener(context.Background())
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}

	res := m.machine.Start()
	// Init cannot mutate the model, so startup lines arrive as a message.
	cmds = append(cmds, func() tea.Msg { return startupMsg{res: res} })

	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	return tea.Batch(cmds...)
}

type startupMsg struct {
	res session.Result
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		return m, nil

	case startupMsg:
		return m.applyResult(msg.res)

	case pubsub.Event[string]:
		m.lastLog = strings.TrimRight(msg.Payload, "\n")
		if m.logListener != nil {
			return m, m.logListener.Listen()
		}
		return m, nil

	case provisionMsg:
		return m.applyResult(m.machine.Dispatch(session.ProvisionResolved(msg)))
	case confirmationMsg:
		return m.applyResult(m.machine.Dispatch(session.ConfirmationResolved(msg)))
	case resendMsg:
		return m.applyResult(m.machine.Dispatch(session.ResendResolved(msg)))
	case submitMsg:
		return m.applyResult(m.machine.Dispatch(session.SubmitResolved(msg)))

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			line := m.input.Value()
			m.input.SetValue("")
			return m.applyResult(m.machine.HandleLine(line))
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// applyResult appends the machine's output lines and turns its effects
// into commands.
func (m Model) applyResult(res session.Result) (Model, tea.Cmd) {
	m.lines = append(m.lines, res.Outputs...)
	m.syncEchoMode()

	var cmds []tea.Cmd
	for _, eff := range res.Effects {
		switch eff := eff.(type) {
		case session.EffectProvision:
			cmds = append(cmds, m.provisionCmd(eff.Email))
		case session.EffectCheckConfirmation:
			cmds = append(cmds, m.checkConfirmationCmd())
		case session.EffectResend:
			cmds = append(cmds, m.resendCmd(eff.Email))
		case session.EffectSubmit:
			cmds = append(cmds, m.submitCmd(eff.Email, eff.Answers))
		case session.EffectExit:
			m.quitting = true
			cmds = append(cmds, tea.Quit)
		case session.EffectComplete:
			m.done = true
			cmds = append(cmds, tea.Quit)
		}
	}
	return m, tea.Batch(cmds...)
}

// syncEchoMode masks the prompt while a password step is active.
func (m *Model) syncEchoMode() {
	if m.machine.PromptMasked() {
		m.input.EchoMode = textinput.EchoPassword
		m.input.EchoCharacter = '*'
	} else {
		m.input.EchoMode = textinput.EchoNormal
	}
}

func (m Model) provisionCmd(email string) tea.Cmd {
	svc := m.identity
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), effectTimeout)
		defer cancel()
		result, err := svc.Provision(ctx, email)
		return provisionMsg{Result: result, Err: err}
	}
}

func (m Model) checkConfirmationCmd() tea.Cmd {
	svc := m.identity
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), effectTimeout)
		defer cancel()
		confirmed, err := svc.CheckConfirmed(ctx)
		return confirmationMsg{Confirmed: confirmed, Err: err}
	}
}

func (m Model) resendCmd(email string) tea.Cmd {
	svc := m.identity
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), effectTimeout)
		defer cancel()
		return resendMsg{Err: svc.Resend(ctx, email)}
	}
}

func (m Model) submitCmd(email string, answers catalog.Answers) tea.Cmd {
	regs := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), effectTimeout)
		defer cancel()
		receipt, err := regs.Submit(ctx, email, answers)
		return submitMsg{Receipt: receipt, Err: err}
	}
}

// Done reports whether the session finished with a stored registration.
func (m Model) Done() bool {
	return m.done
}
