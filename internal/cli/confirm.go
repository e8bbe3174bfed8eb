package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// confirmItem is one gated instance awaiting the user's decision.
type confirmItem struct {
	NodeID string
	Index  int
	Source string
	Target string
	Reason string
}

// confirmModel is the bubbletea model for the gate confirmation prompt. It
// walks the awaiting instances one at a time; each is approved with y/enter
// or declined with n, and esc declines everything still pending.
type confirmModel struct {
	items    []confirmItem
	cursor   int
	approved []bool
	aborted  bool
}

func newConfirmModel(items []confirmItem) confirmModel {
	return confirmModel{
		items:    items,
		approved: make([]bool, len(items)),
	}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.aborted = true
		return m, tea.Quit
	case "y", "Y", "enter":
		m.approved[m.cursor] = true
		m.cursor++
	case "n", "N":
		m.cursor++
	}

	if m.cursor >= len(m.items) {
		return m, tea.Quit
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.cursor >= len(m.items) {
		return ""
	}
	item := m.items[m.cursor]

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Generative Fill Approval"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d of %d · y approve · n decline · esc cancel", m.cursor+1, len(m.items))))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s  %s %s %s\n",
		StyleHighlight.Render(fmt.Sprintf("%s/%d", item.NodeID, item.Index)),
		StyleValue.Render(item.Source),
		StyleDim.Render(iconArrow),
		StyleValue.Render(item.Target)))
	b.WriteString("  " + StyleDim.Render("reason: ") + StyleValue.Render(item.Reason) + "\n\n")
	b.WriteString("  " + StyleWarning.Render("Approve generation? This spends one credit.") + " ")
	return b.String()
}

// runConfirmPrompt runs the interactive prompt and returns the approved
// subset. A cancelled prompt approves nothing.
func runConfirmPrompt(items []confirmItem) ([]confirmItem, error) {
	final, err := tea.NewProgram(newConfirmModel(items)).Run()
	if err != nil {
		return nil, fmt.Errorf("confirmation prompt: %w", err)
	}

	m, ok := final.(confirmModel)
	if !ok || m.aborted {
		return nil, nil
	}

	var approved []confirmItem
	for i, item := range items {
		if m.approved[i] {
			approved = append(approved, item)
		}
	}
	return approved, nil
}
