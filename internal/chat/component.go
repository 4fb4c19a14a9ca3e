// Package chat implements the opaque chat component value exchanged with
// clients as JSON. The full component/NBT text-formatting model is an
// external collaborator's concern; this package only carries enough shape
// (plain text, a named color, nested children) to build a status MOTD or a
// disconnect reason.
package chat

// NamedColor is one of the Minecraft client's built-in chat color names.
type NamedColor string

const (
	ColorBlack       NamedColor = "black"
	ColorDarkBlue    NamedColor = "dark_blue"
	ColorDarkGreen   NamedColor = "dark_green"
	ColorDarkAqua    NamedColor = "dark_aqua"
	ColorDarkRed     NamedColor = "dark_red"
	ColorDarkPurple  NamedColor = "dark_purple"
	ColorGold        NamedColor = "gold"
	ColorGray        NamedColor = "gray"
	ColorDarkGray    NamedColor = "dark_gray"
	ColorBlue        NamedColor = "blue"
	ColorGreen       NamedColor = "green"
	ColorAqua        NamedColor = "aqua"
	ColorRed         NamedColor = "red"
	ColorLightPurple NamedColor = "light_purple"
	ColorYellow      NamedColor = "yellow"
	ColorWhite       NamedColor = "white"
)

// Component is a minimal chat component: a text run, an optional color, and
// optional appended children, serialized exactly the way the vanilla
// protocol's JSON text component does.
type Component struct {
	Text  string      `json:"text"`
	Color NamedColor  `json:"color,omitempty"`
	Bold  bool        `json:"bold,omitempty"`
	Extra []Component `json:"extra,omitempty"`
}

// Text builds a plain-text component.
func Text(s string) Component {
	return Component{Text: s}
}

// WithColor returns a copy of c with its color set.
func (c Component) WithColor(color NamedColor) Component {
	c.Color = color
	return c
}

// WithBold returns a copy of c with bold set.
func (c Component) WithBold(bold bool) Component {
	c.Bold = bold
	return c
}

// Append returns a copy of c with child appended to its children.
func (c Component) Append(child Component) Component {
	c.Extra = append(append([]Component(nil), c.Extra...), child)
	return c
}
