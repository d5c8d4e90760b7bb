package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/raphaelgruber/botdash/internal/dashboard"
	"github.com/raphaelgruber/botdash/internal/models"
)

const maxListedChecks = 5

// =============================================================================
// DASHBOARD
// =============================================================================

func (m model) dashboardKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "r":
		m.notice = models.Message{}
		return m, tea.Batch(
			m.run(opRefresh, m.monitor.Refresh),
			m.run(opLoadChecks, m.checks.Load),
		)
	case "c":
		m.notice = models.Message{}
		name := m.clientName
		return m, m.run(opRecordCheck, func(ctx context.Context) error {
			_, err := m.checks.Record(ctx, name)
			return err
		})
	}
	return m, nil
}

// healthyFraction is the share of status fields in their healthy state.
func healthyFraction(s models.StatusSnapshot) float64 {
	healthy := 0
	if s.App == models.AppRunning {
		healthy++
	}
	if s.TelegramBot == models.IntegrationConfigured {
		healthy++
	}
	if s.OpenAI == models.IntegrationConfigured {
		healthy++
	}
	if s.Database == models.DatabaseConnected {
		healthy++
	}
	return float64(healthy) / 4
}

func (m model) renderDashboard() string {
	snap := m.monitor.Snapshot()
	t := m.theme

	var b strings.Builder
	b.WriteString(t.titleStyle().Render("System Status"))
	b.WriteString("\n")

	rows := []struct {
		label, value     string
		healthy, unknown bool
	}{
		{"Application", snap.App.Label(), snap.App == models.AppRunning, snap.App == models.AppUnknown},
		{"Telegram Bot", snap.TelegramBot.Label(), snap.TelegramBot == models.IntegrationConfigured, snap.TelegramBot == models.IntegrationUnknown},
		{"OpenAI API", snap.OpenAI.Label(), snap.OpenAI == models.IntegrationConfigured, snap.OpenAI == models.IntegrationUnknown},
		{"Database", snap.Database.Label(), snap.Database == models.DatabaseConnected, snap.Database == models.DatabaseUnknown},
	}
	var panel strings.Builder
	for i, r := range rows {
		if i > 0 {
			panel.WriteString("\n")
		}
		fmt.Fprintf(&panel, "%-14s %s", r.label, t.health(r.value, r.healthy, r.unknown))
	}
	b.WriteString(t.panelStyle().Render(panel.String()))
	b.WriteString("\n")

	b.WriteString(m.health.ViewAs(healthyFraction(snap)))
	b.WriteString("\n")
	if polled := m.monitor.LastPolled(); polled.IsZero() {
		b.WriteString(t.hintStyle().Render(m.spinner.View() + " Waiting for first status..."))
	} else {
		b.WriteString(t.hintStyle().Render(fmt.Sprintf("Updated %s, every %s", polled.Format("15:04:05"), m.monitor.Interval())))
	}
	b.WriteString("\n\n")

	b.WriteString(t.titleStyle().Render("Status Checks"))
	b.WriteString("\n")
	checks := m.checks.State()
	switch {
	case checks.Loading && !checks.Loaded:
		b.WriteString(m.spinner.View() + " Loading...\n")
	case len(checks.Checks) == 0:
		b.WriteString(t.hintStyle().Render("No status checks recorded"))
		b.WriteString("\n")
	default:
		recent := checks.Checks
		if len(recent) > maxListedChecks {
			recent = recent[len(recent)-maxListedChecks:]
		}
		for _, rec := range recent {
			fmt.Fprintf(&b, "  %-24s %s\n", rec.ClientName, rec.Timestamp.Local().Format(time.DateTime))
		}
		if extra := len(checks.Checks) - len(recent); extra > 0 {
			b.WriteString(t.hintStyle().Render(fmt.Sprintf("  ... and %d older", extra)))
			b.WriteString("\n")
		}
	}

	if !m.notice.IsZero() {
		b.WriteString("\n" + t.message(m.notice) + "\n")
	}
	b.WriteString("\n" + t.hintStyle().Render("r refresh • c record check • q quit"))
	return b.String()
}

// =============================================================================
// DATASETS
// =============================================================================

func (m model) datasetsKey(key string, msg tea.Msg) (tea.Model, tea.Cmd) {
	switch key {
	case "tab", "down":
		return m.focusUpload((m.uploadFocus + 1) % len(m.uploadInputs))
	case "shift+tab", "up":
		return m.focusUpload((m.uploadFocus + len(m.uploadInputs) - 1) % len(m.uploadInputs))
	case "ctrl+r":
		return m, m.run(opLoadDatasets, m.datasets.Refresh)
	case "enter":
		return m.submitUpload()
	}

	var cmd tea.Cmd
	m.uploadInputs[m.uploadFocus], cmd = m.uploadInputs[m.uploadFocus].Update(msg)
	return m, cmd
}

func (m model) focusUpload(i int) (tea.Model, tea.Cmd) {
	m.uploadInputs[m.uploadFocus].Blur()
	m.uploadFocus = i
	return m, m.uploadInputs[i].Focus()
}

// submitUpload copies the form into the draft and submits it. An empty
// file path is left to the controller's validation. The draft is left
// alone while an upload is outstanding.
func (m model) submitUpload() (tea.Model, tea.Cmd) {
	if m.datasets.State().Uploading {
		return m, nil
	}
	m.fileErr = ""
	m.datasets.SetName(m.uploadInputs[fieldName].Value())
	m.datasets.SetDescription(m.uploadInputs[fieldDescription].Value())

	file := dashboard.DatasetFile{}
	if path := strings.TrimSpace(m.uploadInputs[fieldFile].Value()); path != "" {
		f, err := dashboard.FileFromPath(path)
		if err != nil {
			m.fileErr = err.Error()
			return m, nil
		}
		file = f
	}
	m.datasets.SetFile(file)

	var submitted [3]string
	for i, in := range m.uploadInputs {
		submitted[i] = in.Value()
	}
	ctrl := m.datasets
	ctx := m.ctx
	return m, func() tea.Msg {
		return uploadDoneMsg{err: ctrl.Submit(ctx), submitted: submitted}
	}
}

func (m model) renderDatasets() string {
	st := m.datasets.State()
	t := m.theme

	var b strings.Builder
	b.WriteString(t.titleStyle().Render("Upload Dataset"))
	b.WriteString("\n")
	labels := [...]string{"Name", "Description", "File"}
	for i, in := range m.uploadInputs {
		fmt.Fprintf(&b, "%-12s %s\n", labels[i], in.View())
	}

	switch {
	case st.Uploading:
		b.WriteString(m.spinner.View() + " Uploading...\n")
	case m.fileErr != "":
		b.WriteString(t.errorStyle().Render("✗ "+m.fileErr) + "\n")
	case !st.Message.IsZero():
		b.WriteString(t.message(st.Message) + "\n")
	}
	b.WriteString(t.hintStyle().Render("tab next field • enter upload • ctrl+r refresh list"))
	b.WriteString("\n\n")

	b.WriteString(t.titleStyle().Render("Datasets"))
	b.WriteString("\n")
	switch {
	case !st.Loaded:
		b.WriteString(m.spinner.View() + " Loading...\n")
	case len(st.Datasets) == 0:
		b.WriteString(t.hintStyle().Render("No datasets uploaded yet") + "\n")
	default:
		fmt.Fprintf(&b, "  %-24s %-12s %s\n", "NAME", "STATUS", "UPLOADED")
		for _, ds := range st.Datasets {
			uploaded := ""
			if !ds.UploadDate.IsZero() {
				uploaded = ds.UploadDate.Local().Format("2006-01-02 15:04")
			}
			fmt.Fprintf(&b, "  %-24s %-12s %s\n", clip(ds.Name, 24), datasetStatus(t, ds.Status), uploaded)
		}
	}
	return b.String()
}

func datasetStatus(t Theme, s models.DatasetStatus) string {
	label := fmt.Sprintf("%-12s", s.Label())
	switch s {
	case models.DatasetComplete:
		return t.successStyle().Render(label)
	case models.DatasetFailed:
		return t.errorStyle().Render(label)
	case models.DatasetProcessing:
		return t.accentStyle().Render(label)
	default:
		return t.hintStyle().Render(label)
	}
}

// =============================================================================
// SEARCH
// =============================================================================

func (m model) searchKey(key string, msg tea.Msg) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+t":
		next := models.SearchPerson
		if m.search.State().Mode == models.SearchPerson {
			next = models.SearchWeb
		}
		// Both modes are valid; SetMode cannot fail here.
		_ = m.search.SetMode(next)
		return m, nil
	case "enter":
		mode := m.search.State().Mode
		query := m.queryInput.Value()
		ctrl := m.search
		return m, m.run(opSearch, func(ctx context.Context) error {
			_, err := ctrl.Search(ctx, mode, query)
			return err
		})
	}

	var cmd tea.Cmd
	m.queryInput, cmd = m.queryInput.Update(msg)
	return m, cmd
}

func (m model) renderSearch() string {
	st := m.search.State()
	t := m.theme

	var b strings.Builder
	b.WriteString(t.titleStyle().Render("Search"))
	b.WriteString("  ")
	for _, mode := range []models.SearchMode{models.SearchWeb, models.SearchPerson} {
		label := "Web Search"
		if mode == models.SearchPerson {
			label = "Person Search"
		}
		if mode == st.Mode {
			b.WriteString(t.activeTabStyle().Render(label))
		} else {
			b.WriteString(t.tabStyle().Render(label))
		}
	}
	b.WriteString("\n")
	b.WriteString(m.queryInput.View())
	b.WriteString("\n")
	b.WriteString(t.hintStyle().Render("enter search • ctrl+t switch mode"))
	b.WriteString("\n\n")

	switch st.Display() {
	case dashboard.Loading:
		b.WriteString(m.spinner.View() + " Searching...\n")
	case dashboard.NotSearched:
		b.WriteString(t.hintStyle().Render("Enter a query to search") + "\n")
	case dashboard.NoResults:
		b.WriteString(dashboard.NoResultsText(st.Mode) + "\n")
	case dashboard.HasResults:
		b.WriteString(m.renderResults(st.Results))
	}
	return b.String()
}

func (m model) renderResults(results models.SearchResults) string {
	t := m.theme
	var b strings.Builder

	switch r := results.(type) {
	case models.WebResults:
		for _, hit := range r.Hits {
			b.WriteString(t.accentStyle().Render(hit.Title) + "\n")
			if hit.Href != "" {
				b.WriteString(t.hintStyle().Render(hit.Href) + "\n")
			}
			if hit.Body != "" {
				b.WriteString(clip(hit.Body, 200) + "\n")
			}
			b.WriteString("\n")
		}
	case models.PersonResults:
		p := r.Person
		b.WriteString(t.titleStyle().Render(p.Name) + "\n")
		if len(p.SocialProfiles) > 0 {
			b.WriteString("\nSocial Profiles\n")
			for _, sp := range p.SocialProfiles {
				fmt.Fprintf(&b, "  %s %s\n", sp.Title, t.hintStyle().Render(sp.Href))
			}
		}
		if len(p.ProfessionalInfo) > 0 {
			b.WriteString("\nProfessional Information\n")
			for _, info := range p.ProfessionalInfo {
				b.WriteString("  " + t.accentStyle().Render(info.Title) + "\n")
				if info.Body != "" {
					b.WriteString("  " + clip(info.Body, 200) + "\n")
				}
			}
		}
	}
	return b.String()
}

// =============================================================================
// CONFIGURATION
// =============================================================================

func (m model) configKey(key string, msg tea.Msg) (tea.Model, tea.Cmd) {
	switch key {
	case "tab", "down", "shift+tab", "up":
		m.configInputs[m.configFocus].Blur()
		m.configFocus = (m.configFocus + 1) % len(m.configInputs)
		return m, m.configInputs[m.configFocus].Focus()
	case "enter":
		integration := configOrder[m.configFocus]
		flow, err := m.config.Flow(integration)
		if err != nil || flow.State().Configuring {
			return m, nil
		}
		value := m.configInputs[m.configFocus].Value()
		flow.SetInput(value)
		ctx := m.ctx
		return m, func() tea.Msg {
			return configDoneMsg{integration: integration, err: flow.Submit(ctx), submitted: value}
		}
	}

	var cmd tea.Cmd
	m.configInputs[m.configFocus], cmd = m.configInputs[m.configFocus].Update(msg)
	return m, cmd
}

func (m model) renderConfig() string {
	t := m.theme
	titles := [...]string{"Telegram Bot", "OpenAI API"}
	labels := [...]string{"Bot Token", "API Key"}

	var b strings.Builder
	for i, integration := range configOrder {
		flow, err := m.config.Flow(integration)
		if err != nil {
			continue
		}
		st := flow.State()

		b.WriteString(t.titleStyle().Render(titles[i]))
		b.WriteString("\n")
		fmt.Fprintf(&b, "%-10s %s\n", labels[i], m.configInputs[i].View())
		switch {
		case st.Configuring:
			b.WriteString(m.spinner.View() + " Configuring...\n")
		case !st.Message.IsZero():
			b.WriteString(t.message(st.Message) + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(t.hintStyle().Render("tab switch field • enter save"))
	return b.String()
}

// clip shortens s to at most n runes.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
