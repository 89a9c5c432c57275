package cli

import (
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"pfeifer.dev/barc/cereal"
	ms "pfeifer.dev/barc/settings"
)

type mainState int

const (
	showMenu mainState = iota
	showTelemetry
	showSettings
)

var (
	docStyle   = lipgloss.NewStyle().Margin(1, 2)
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type TickMsg time.Time

func tickEvery() tea.Cmd {
	return tea.Every(ms.LOOP_DELAY, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

type uiModel struct {
	list              list.Model
	state             mainState
	telemetry         telemetryModel
	settings          extendedModel
	sub               *cereal.Subscriber[cereal.Telemetry]
	extendedSub       *cereal.Subscriber[cereal.ExtendedOut]
	extendedData      cereal.ExtendedOut
	extendedDataValid bool
}

type item struct {
	title, desc string
	state       mainState
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title }

func initialModel() (uiModel, error) {
	items := []list.Item{
		item{title: "Telemetry", desc: "Watch the live vehicle state and lap statistics", state: showTelemetry},
		item{title: "Settings", desc: "Show the settings of the running instance", state: showSettings},
	}

	sub, err := cereal.NewTelemetrySubscriber()
	if err != nil {
		return uiModel{}, err
	}
	extendedSub, err := cereal.NewExtendedOutSubscriber()
	if err != nil {
		return uiModel{}, err
	}

	listDelegate := list.NewDefaultDelegate()
	m := uiModel{
		list:        list.New(items, listDelegate, 0, 0),
		telemetry:   newTelemetryModel(),
		sub:         &sub,
		extendedSub: &extendedSub,
	}
	m.list.Title = "barc"
	return m, nil
}

func (m uiModel) Init() tea.Cmd {
	return tickEvery()
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if msg.String() == "esc" && m.state != showMenu {
			m.state = showMenu
			return m, nil
		}
		if msg.Type == tea.KeyEnter && m.state == showMenu && m.list.FilterState() != list.Filtering {
			it := m.list.SelectedItem().(item)
			m.state = it.state
			return m, nil
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
		m.telemetry.bar.Width = max(msg.Width-h-4, 10)
	case TickMsg:
		extendedData, success := m.extendedSub.Read()
		if success {
			m.extendedData = extendedData
			m.extendedDataValid = true
		}
		tel, success := m.sub.Read()
		if success {
			m.telemetry = m.telemetry.update(tel)
		}
		m.settings = m.settings.update(m.extendedData, m.extendedDataValid)
		return m, tickEvery()
	}

	var cmd tea.Cmd
	if m.state == showMenu {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m uiModel) View() string {
	switch m.state {
	case showTelemetry:
		return m.telemetry.View()
	case showSettings:
		return m.settings.View()
	}
	return docStyle.Render(m.list.View())
}

func watch() error {
	model, err := initialModel()
	if err != nil {
		return errors.Wrap(err, "could not subscribe to barc output")
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return errors.Wrap(err, "watch ui failed")
	}
	return nil
}

func newProgressBar() progress.Model {
	return progress.New(progress.WithDefaultGradient())
}
