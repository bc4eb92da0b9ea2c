package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle       key.Binding
	Next         key.Binding
	Previous     key.Binding
	NextChapter  key.Binding
	PrevChapter  key.Binding
	Start        key.Binding
	End          key.Binding
	Faster       key.Binding
	Slower       key.Binding
	Voice        key.Binding
	Theme        key.Binding
	Copy         key.Binding
	Search       key.Binding
	Reload       key.Binding
	ScrollUp     key.Binding
	ScrollDown   key.Binding
	Help         key.Binding
	Quit         key.Binding
	AcceptSearch key.Binding
	CancelSearch key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Toggle:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		Next:         key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next sentence")),
		Previous:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous sentence")),
		NextChapter:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next chapter")),
		PrevChapter:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous chapter")),
		Start:        key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g/home", "first sentence")),
		End:          key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G/end", "last sentence")),
		Faster:       key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "faster")),
		Slower:       key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "slower")),
		Voice:        key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "next voice")),
		Theme:        key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle theme")),
		Copy:         key.NewBinding(key.WithKeys("y", "c"), key.WithHelp("y", "copy sentence")),
		Search:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "find sentence")),
		Reload:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		ScrollUp:     key.NewBinding(key.WithKeys("up", "k", "pgup", "b"), key.WithHelp("↑/k", "scroll up")),
		ScrollDown:   key.NewBinding(key.WithKeys("down", "j", "pgdown", "f"), key.WithHelp("↓/j", "scroll down")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
		AcceptSearch: key.NewBinding(key.WithKeys("enter")),
		CancelSearch: key.NewBinding(key.WithKeys("esc", "ctrl+c")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Previous, k.Next, k.Search, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Previous, k.Next, k.PrevChapter, k.NextChapter, k.Start, k.End},
		{k.Faster, k.Slower, k.Voice, k.Theme},
		{k.Copy, k.Search, k.Reload, k.ScrollUp, k.ScrollDown, k.Help, k.Quit},
	}
}
