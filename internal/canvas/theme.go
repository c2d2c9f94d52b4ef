package canvas

// Paint is a fill and outline colour pair.
type Paint struct {
	Fill    string `toml:"fill" json:"fill"`
	Outline string `toml:"outline" json:"outline"`
}

// Theme is the palette the diagram draws with.
type Theme struct {
	Start        Paint  `toml:"start"`
	End          Paint  `toml:"end"`
	Intermediate Paint  `toml:"intermediate"`
	NodeText     string `toml:"node_text"`
	Edge         Paint  `toml:"edge"`
	Label        string `toml:"label"`
	Highlight    string `toml:"highlight"`
	Preview      string `toml:"preview"`
	Font         string `toml:"font"`
}

// DefaultTheme returns the stock palette: green start, red end, gold tasks,
// royal blue edges.
func DefaultTheme() Theme {
	return Theme{
		Start:        Paint{Fill: "#4CAF50", Outline: "#2E7D32"},
		End:          Paint{Fill: "#F44336", Outline: "#C62828"},
		Intermediate: Paint{Fill: "#FFD700", Outline: "#B8860B"},
		NodeText:     "white",
		Edge:         Paint{Fill: "#4169E1", Outline: "#00008B"},
		Label:        "#FF4500",
		Highlight:    "#00FF00",
		Preview:      "#9E9E9E",
		Font:         "sans-serif",
	}
}
