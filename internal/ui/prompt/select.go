package prompt

import (
	"os"

	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/spec-kit/specify/internal/ui/styles"
)

// Option is one entry of a Select prompt.
type Option struct {
	Label  string
	Detail string // shown under the label when any option has one
}

// SelectResult holds the result of a selection prompt.
type SelectResult struct {
	Value     string
	Index     int
	Cancelled bool
}

type listItem struct {
	Option
	index int
}

func (i listItem) Title() string       { return i.Label }
func (i listItem) Description() string { return i.Detail }
func (i listItem) FilterValue() string { return i.Label }

type selectModel struct {
	list      list.Model
	done      bool
	cancelled bool
	selected  int
}

func newSelectModel(prompt string, options []Option) selectModel {
	items := make([]list.Item, len(options))
	details := false
	for i, opt := range options {
		items[i] = listItem{Option: opt, index: i}
		details = details || opt.Detail != ""
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = details
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = styles.AccentStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(styles.Muted)

	perItem := 1
	if details {
		perItem = 2
	}
	l := list.New(items, delegate, 60, min(len(options)*perItem+6, 20))
	l.Title = prompt
	l.Styles.Title = styles.TitleStyle
	l.SetShowStatusBar(false)
	l.SetShowHelp(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	return selectModel{list: l, selected: -1}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		key := msg.String()
		// While filtering, keys edit the filter; only ctrl+c aborts.
		if m.list.FilterState() == list.Filtering && key != "ctrl+c" {
			break
		}
		switch key {
		case "enter":
			if item, ok := m.list.SelectedItem().(listItem); ok {
				m.selected = item.index
			}
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			if key == "esc" && m.list.FilterState() == list.FilterApplied {
				break
			}
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}
	return tea.NewView(m.list.View())
}

func (m selectModel) result(options []Option) SelectResult {
	if m.cancelled || m.selected < 0 || m.selected >= len(options) {
		return SelectResult{Cancelled: true}
	}
	return SelectResult{Value: options[m.selected].Label, Index: m.selected}
}

// Select shows a list selection prompt and returns the user's selection.
// Typing / filters the list; esc, q or ctrl+c cancel.
func Select(prompt string, options []Option) (SelectResult, error) {
	if len(options) == 0 {
		return SelectResult{Cancelled: true}, nil
	}

	p := tea.NewProgram(newSelectModel(prompt, options), tea.WithOutput(os.Stderr))
	finalModel, err := p.Run()
	if err != nil {
		return SelectResult{}, err
	}
	return finalModel.(selectModel).result(options), nil
}
