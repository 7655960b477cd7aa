package cli

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit        key.Binding
	Tab         key.Binding
	Search      key.Binding
	Add         key.Binding
	Edit        key.Binding
	Delete      key.Binding
	Route       key.Binding
	Capacity    key.Binding
	CapacityAll key.Binding
	Map         key.Binding
	Clear       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Tab:         key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "books/shelves")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Add:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Route:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "route")),
		Capacity:    key.NewBinding(key.WithKeys("+"), key.WithHelp("+", "shelf +1")),
		CapacityAll: key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "all shelves +1")),
		Map:         key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "map")),
		Clear:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Add, k.Edit, k.Delete, k.Route, k.Capacity, k.CapacityAll, k.Map, k.Tab, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Add, k.Edit, k.Delete},
		{k.Route, k.Map, k.Clear},
		{k.Capacity, k.CapacityAll, k.Tab, k.Quit},
	}
}
