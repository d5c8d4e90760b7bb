// Package tui implements the botdash terminal dashboard. It only renders
// controller state; behaviour lives in package dashboard.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"charm.land/bubbles/v2/progress"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/raphaelgruber/botdash/internal/client"
	"github.com/raphaelgruber/botdash/internal/dashboard"
	"github.com/raphaelgruber/botdash/internal/metrics"
	"github.com/raphaelgruber/botdash/internal/models"
)

// Options configures the dashboard program.
type Options struct {
	Client       *client.Client
	Metrics      *metrics.Collector
	Logger       *slog.Logger
	PollInterval time.Duration
	ClientName   string
}

// Run opens the dashboard and blocks until the user quits or ctx is done.
// The status monitor runs for the lifetime of the program.
func Run(ctx context.Context, opts Options) error {
	dopts := []dashboard.Option{dashboard.WithLogger(opts.Logger)}
	m := newModel(ctx, controllers{
		monitor:  dashboard.NewStatusMonitor(opts.Client, opts.PollInterval, dopts...),
		checks:   dashboard.NewStatusChecks(opts.Client, dopts...),
		datasets: dashboard.NewDatasetUploadController(opts.Client, dopts...),
		search:   dashboard.NewSearchDispatcher(opts.Client, dopts...),
		config:   dashboard.NewConfigurationSubmitter(opts.Client, dopts...),
	}, opts.Metrics, opts.ClientName)

	p := tea.NewProgram(m)
	m.monitor.OnUpdate(func(snap models.StatusSnapshot) {
		p.Send(statusMsg{snap: snap})
	})
	stop := m.monitor.Start(ctx)
	defer stop()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			p.Send(tea.QuitMsg{})
		case <-done:
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}

type tab int

const (
	tabDashboard tab = iota
	tabDatasets
	tabSearch
	tabConfig
)

var tabNames = [...]string{"Dashboard", "Datasets", "Search", "Configuration"}

// Upload form fields.
const (
	fieldName = iota
	fieldDescription
	fieldFile
)

// statusMsg carries a fresh snapshot from the status monitor.
type statusMsg struct {
	snap models.StatusSnapshot
}

// opDoneMsg reports that a controller operation finished. The model reads
// the outcome from the controller state.
type opDoneMsg struct {
	op  string
	err error
}

// uploadDoneMsg reports a finished upload. submitted holds the form
// values the upload was made from.
type uploadDoneMsg struct {
	err       error
	submitted [3]string
}

// configDoneMsg reports a finished credential submission.
type configDoneMsg struct {
	integration models.Integration
	err         error
	submitted   string
}

type controllers struct {
	monitor  *dashboard.StatusMonitor
	checks   *dashboard.StatusChecks
	datasets *dashboard.DatasetUploadController
	search   *dashboard.SearchDispatcher
	config   *dashboard.ConfigurationSubmitter
}

// model is the bubbletea model for the dashboard.
type model struct {
	controllers
	ctx        context.Context
	metrics    *metrics.Collector
	clientName string
	theme      Theme

	active   tab
	width    int
	quitting bool

	spinner spinner.Model
	health  progress.Model

	notice models.Message // dashboard tab

	uploadInputs []textinput.Model
	uploadFocus  int
	fileErr      string

	queryInput textinput.Model

	configInputs []textinput.Model // telegram, openai
	configFocus  int
}

var configOrder = [...]models.Integration{models.IntegrationTelegram, models.IntegrationOpenAI}

func newModel(ctx context.Context, c controllers, collector *metrics.Collector, clientName string) model {
	if clientName == "" {
		clientName = "botdash-tui"
	}

	upload := []textinput.Model{
		newInput("Dataset name"),
		newInput("What the dataset contains"),
		newInput("Path to file"),
	}

	telegram := newInput("123456:ABC-DEF...")
	telegram.EchoMode = textinput.EchoPassword
	openai := newInput("sk-...")
	openai.EchoMode = textinput.EchoPassword

	return model{
		controllers:  c,
		ctx:          ctx,
		metrics:      collector,
		clientName:   clientName,
		theme:        defaultTheme,
		spinner:      spinner.New(),
		health:       progress.New(progress.WithDefaultBlend(), progress.WithWidth(30)),
		uploadInputs: upload,
		queryInput:   newInput("Search query or person name"),
		configInputs: []textinput.Model{telegram, openai},
	}
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = 512
	return ti
}

// Init starts the spinner and loads the dashboard tab.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.activate(tabDashboard))
}

// Update handles messages and returns the updated model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg.String(), msg)

	case statusMsg:
		// State is read from the monitor on render.
		return m, nil

	case opDoneMsg:
		if msg.op == opRecordCheck {
			if msg.err != nil {
				m.notice = models.ErrorMessage("Failed to record status check")
			} else {
				m.notice = models.SuccessMessage("Status check recorded")
			}
		}
		return m, nil

	case uploadDoneMsg:
		// Fields edited since the submit keep the newer text.
		if msg.err == nil {
			for i := range m.uploadInputs {
				if m.uploadInputs[i].Value() == msg.submitted[i] {
					m.uploadInputs[i].SetValue("")
				}
			}
		}
		return m, nil

	case configDoneMsg:
		if msg.err == nil {
			for i, integration := range configOrder {
				if integration == msg.integration && m.configInputs[i].Value() == msg.submitted {
					m.configInputs[i].SetValue("")
				}
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey routes a key press. msg is forwarded to the focused input when
// the key is not a binding.
func (m model) handleKey(key string, msg tea.Msg) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "f1":
		return m.switchTab(tabDashboard)
	case "f2":
		return m.switchTab(tabDatasets)
	case "f3":
		return m.switchTab(tabSearch)
	case "f4":
		return m.switchTab(tabConfig)
	case "ctrl+right":
		return m.switchTab((m.active + 1) % tab(len(tabNames)))
	case "ctrl+left":
		return m.switchTab((m.active + tab(len(tabNames)) - 1) % tab(len(tabNames)))
	}

	switch m.active {
	case tabDatasets:
		return m.datasetsKey(key, msg)
	case tabSearch:
		return m.searchKey(key, msg)
	case tabConfig:
		return m.configKey(key, msg)
	default:
		return m.dashboardKey(key)
	}
}

func (m model) switchTab(t tab) (tea.Model, tea.Cmd) {
	if t == m.active {
		return m, nil
	}
	m.blurAll()
	m.active = t

	var focus tea.Cmd
	switch t {
	case tabDatasets:
		focus = m.uploadInputs[m.uploadFocus].Focus()
	case tabSearch:
		focus = m.queryInput.Focus()
	case tabConfig:
		focus = m.configInputs[m.configFocus].Focus()
	}
	return m, tea.Batch(focus, m.activate(t))
}

// activate returns the load a tab performs each time it is opened.
func (m model) activate(t tab) tea.Cmd {
	switch t {
	case tabDashboard:
		return m.run(opLoadChecks, m.checks.Load)
	case tabDatasets:
		return m.run(opLoadDatasets, m.datasets.Activate)
	default:
		return nil
	}
}

func (m *model) blurAll() {
	for i := range m.uploadInputs {
		m.uploadInputs[i].Blur()
	}
	m.queryInput.Blur()
	for i := range m.configInputs {
		m.configInputs[i].Blur()
	}
}

// Operation names carried by opDoneMsg.
const (
	opLoadChecks   = "load_checks"
	opRecordCheck  = "record_check"
	opLoadDatasets = "load_datasets"
	opRefresh      = "refresh_status"
	opSearch       = "search"
)

// run executes fn off the update loop and reports completion.
func (m model) run(op string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

// View renders the dashboard.
func (m model) View() tea.View {
	return tea.NewView(m.render())
}

func (m model) render() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	switch m.active {
	case tabDatasets:
		b.WriteString(m.renderDatasets())
	case tabSearch:
		b.WriteString(m.renderSearch())
	case tabConfig:
		b.WriteString(m.renderConfig())
	default:
		b.WriteString(m.renderDashboard())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m model) renderTabs() string {
	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf("F%d %s", i+1, name)
		if tab(i) == m.active {
			parts[i] = m.theme.activeTabStyle().Render(label)
		} else {
			parts[i] = m.theme.tabStyle().Render(label)
		}
	}
	return strings.Join(parts, " ")
}

func (m model) renderFooter() string {
	hint := "F1-F4 switch tabs • ctrl+c quit"
	if m.metrics != nil {
		var calls, failures int64
		for _, op := range m.metrics.Snapshot().Operations {
			calls += op.Count
			failures += op.Failures
		}
		hint += fmt.Sprintf(" • %d API calls, %d failed", calls, failures)
	}
	return m.theme.hintStyle().Render(hint)
}
