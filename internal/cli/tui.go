package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/meshview/pkg/manycore"
	"github.com/matzehuels/meshview/pkg/render/mesh/attributes"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listActiveStyle   = lipgloss.NewStyle().Foreground(colorGreen)
)

// Attribute families as they appear in a configuration.
const (
	familyCore    = "core"
	familyRouter  = "router"
	familyChannel = "channel"
)

const optionOff = "off"

// configItem is one configurable key with the choices it cycles through.
type configItem struct {
	Family  string
	Key     string
	Options []string
	Choice  int
}

func (it configItem) selected() string { return it.Options[it.Choice] }

// Palette is the bucket bounds and colours given to fill and coloured
// text choices.
type Palette struct {
	Bounds  []uint64
	Colours []string
}

// ConfigureModel is the bubbletea model of the interactive attribute picker.
type ConfigureModel struct {
	Items     []configItem
	Cursor    int
	Offset    int
	Height    int
	Done      bool
	Cancelled bool
}

// NewConfigureModel lists every configurable key of sys: core and router
// attributes, channel loads, the border toggle and the routing algorithms
// the description carries.
func NewConfigureModel(sys *manycore.System) ConfigureModel {
	styled := []string{optionOff, string(attributes.KindText), string(attributes.KindColouredText), string(attributes.KindFill)}
	plain := []string{optionOff, string(attributes.KindText)}

	var items []configItem
	coreKeys, routerKeys := sys.AttributeKeys()
	for _, k := range coreKeys {
		opts := styled
		if k == manycore.IDKey || k == manycore.CoordinatesKey {
			opts = plain
		}
		items = append(items, configItem{Family: familyCore, Key: k, Options: opts})
	}
	for _, k := range routerKeys {
		opts := styled
		if k == manycore.IDKey {
			opts = plain
		}
		items = append(items, configItem{Family: familyRouter, Key: k, Options: opts})
	}
	items = append(items,
		configItem{Family: familyChannel, Key: manycore.LoadKey, Options: styled},
		configItem{Family: familyChannel, Key: manycore.BorderRoutersKey, Options: []string{optionOff, "on"}},
	)
	if algs := sys.Algorithms(); len(algs) > 0 {
		items = append(items, configItem{
			Family:  familyChannel,
			Key:     manycore.RoutingKey,
			Options: append([]string{optionOff}, algs...),
		})
	}
	return ConfigureModel{Items: items, Height: 15}
}

func (m ConfigureModel) Init() tea.Cmd {
	return nil
}

func (m ConfigureModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Cancelled = true
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "right", "l", " ", "tab":
			m.cycle(1)
		case "left", "h", "shift+tab":
			m.cycle(-1)
		case "enter":
			m.Done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m *ConfigureModel) cycle(step int) {
	if len(m.Items) == 0 {
		return
	}
	it := &m.Items[m.Cursor]
	n := len(it.Options)
	it.Choice = ((it.Choice+step)%n + n) % n
}

func (m ConfigureModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Configure Overlay"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ←/→ change  ⏎ save  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))
	for i := m.Offset; i < end; i++ {
		it := m.Items[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		name := fmt.Sprintf("%-8s %-22s", it.Family, it.Key)
		choice := it.selected()

		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(cursor + name + " " + choice))
		case choice != optionOff:
			b.WriteString(listNormalStyle.Render(cursor+name) + " " + listActiveStyle.Render(choice))
		default:
			b.WriteString(listDimStyle.Render(cursor + name + " " + choice))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]  %d selected", m.Cursor+1, len(m.Items), m.selectedCount())))
	return b.String()
}

func (m ConfigureModel) selectedCount() int {
	n := 0
	for _, it := range m.Items {
		if it.selected() != optionOff {
			n++
		}
	}
	return n
}

// Document converts the selections into a configuration document. Styled
// choices take their palette from p.
func (m ConfigureModel) Document(p Palette) attributes.Document {
	doc := attributes.Document{
		Core:    map[string]attributes.FieldSpec{},
		Router:  map[string]attributes.FieldSpec{},
		Channel: map[string]attributes.FieldSpec{},
	}
	family := map[string]map[string]attributes.FieldSpec{
		familyCore:    doc.Core,
		familyRouter:  doc.Router,
		familyChannel: doc.Channel,
	}

	for _, it := range m.Items {
		choice := it.selected()
		if choice == optionOff {
			continue
		}
		var spec attributes.FieldSpec
		switch it.Key {
		case manycore.RoutingKey:
			spec = attributes.FieldSpec{Type: attributes.KindRouting, Algorithm: choice}
		case manycore.BorderRoutersKey:
			spec = attributes.FieldSpec{Type: attributes.KindBoolean, Value: true}
		default:
			spec = attributes.FieldSpec{Type: attributes.Kind(choice)}
			if spec.Type != attributes.KindFill {
				spec.Label = labelFor(it.Key)
			}
			if spec.Type != attributes.KindText {
				spec.Bounds, spec.Colours = p.Bounds, p.Colours
			}
		}
		family[it.Family][it.Key] = spec
	}
	return doc
}

// labelFor derives a display label from a key: "@memoryUsage" -> "memoryUsage".
func labelFor(key string) string {
	return strings.TrimPrefix(key, "@")
}
