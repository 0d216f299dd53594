package analyzer

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// keyMap holds the analyzer's key bindings.
type keyMap struct {
	Analyze  key.Binding
	Submit   key.Binding
	Focus    key.Binding
	Clear    key.Binding
	Help     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		// Most terminals cannot report ctrl+enter; alt+enter is the
		// modified Enter they do pass through.
		Analyze: key.NewBinding(
			key.WithKeys("alt+enter", "ctrl+s"),
			key.WithHelp("alt+enter/ctrl+s", "analyze"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "press analyze"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "switch focus"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "clear"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Analyze, k.Focus, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Analyze, k.Submit, k.Focus},
		{k.Clear, k.PageUp, k.PageDown},
		{k.Help, k.Quit},
	}
}

// helpMarkdown renders the bindings as a markdown page for glamour.
func (k keyMap) helpMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# Keyboard\n\n")
	sb.WriteString("| Key | Action |\n|---|---|\n")
	for _, group := range k.FullHelp() {
		for _, b := range group {
			h := b.Help()
			sb.WriteString("| `" + h.Key + "` | " + h.Desc + " |\n")
		}
	}
	sb.WriteString("\nType Indonesian text in the box, then press **Analyze**. ")
	sb.WriteString("Both models are queried in one request and shown side by side.\n")
	return sb.String()
}
