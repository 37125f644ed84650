package theme

import "github.com/charmbracelet/lipgloss"

type CommandSegmentStyle struct {
	Background lipgloss.Color
	Border     lipgloss.Color
	Key        lipgloss.Color
	Text       lipgloss.Color
}

type Theme struct {
	AppFrame           lipgloss.Style
	Header             lipgloss.Style
	HeaderBrand        lipgloss.Style
	HeaderValue        lipgloss.Style
	InputBorder        lipgloss.Style
	InputBorderBusy    lipgloss.Style
	Prompt             lipgloss.Style
	Suggestion         lipgloss.Style
	SuggestionActive   lipgloss.Style
	SuggestionMeta     lipgloss.Style
	SuggestionMarker   lipgloss.Style
	SectionTitle       lipgloss.Style
	Empty              lipgloss.Style
	StatusBar          lipgloss.Style
	Notification       lipgloss.Style
	Error              lipgloss.Style
	Success            lipgloss.Style
	CommandSegments    []CommandSegmentStyle
	CommandDivider     lipgloss.Style
	ActiveForeground   lipgloss.Color
	InactiveForeground lipgloss.Color
}

func DefaultTheme() Theme {
	accent := lipgloss.Color("#7D56F4")
	base := lipgloss.NewStyle().Foreground(lipgloss.Color("#dcd7ff"))

	return Theme{
		AppFrame: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#403B59")).
			Padding(0, 1),
		Header: lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E1FF")),
		HeaderBrand: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1A1020")).
			Background(lipgloss.Color("#FBC859")).
			Bold(true).
			Padding(0, 1),
		HeaderValue:      lipgloss.NewStyle().Foreground(lipgloss.Color("#D1CFF6")),
		InputBorder:      base.BorderStyle(lipgloss.RoundedBorder()).BorderForeground(accent),
		InputBorderBusy:  base.BorderStyle(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#FFB61E")),
		Prompt:           lipgloss.NewStyle().Foreground(accent).Bold(true),
		Suggestion:       lipgloss.NewStyle().Foreground(lipgloss.Color("#C2C0D9")).PaddingLeft(2),
		SuggestionActive: lipgloss.NewStyle().Foreground(lipgloss.Color("#FDFBFF")).Background(accent).Bold(true),
		SuggestionMeta:   lipgloss.NewStyle().Foreground(lipgloss.Color("#5E5A72")),
		SuggestionMarker: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8B39")).Bold(true),
		SectionTitle:     lipgloss.NewStyle().Foreground(lipgloss.Color("#15AABF")).Bold(true),
		Empty:            lipgloss.NewStyle().Foreground(lipgloss.Color("#5E5A72")).Italic(true),
		StatusBar:        lipgloss.NewStyle().Foreground(lipgloss.Color("#A6A1BB")),
		Notification:     lipgloss.NewStyle().Foreground(lipgloss.Color("#E0DEF4")).Background(lipgloss.Color("#433C59")).Padding(0, 1),
		Error:            lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6E6E")),
		Success:          lipgloss.NewStyle().Foreground(lipgloss.Color("#6EF17E")),
		CommandSegments: []CommandSegmentStyle{
			{
				Background: lipgloss.Color("#2C1E3A"),
				Border:     lipgloss.Color("#7D56F4"),
				Key:        lipgloss.Color("#F6E3FF"),
				Text:       lipgloss.Color("#E5E1FF"),
			},
			{
				Background: lipgloss.Color("#102B33"),
				Border:     lipgloss.Color("#15AABF"),
				Key:        lipgloss.Color("#A7F2FF"),
				Text:       lipgloss.Color("#D6F7FF"),
			},
			{
				Background: lipgloss.Color("#32160E"),
				Border:     lipgloss.Color("#FF7A45"),
				Key:        lipgloss.Color("#FFE0D3"),
				Text:       lipgloss.Color("#FFD4C2"),
			},
		},
		CommandDivider:     lipgloss.NewStyle().Foreground(lipgloss.Color("#403B59")).Bold(true),
		ActiveForeground:   lipgloss.Color("#F5F2FF"),
		InactiveForeground: lipgloss.Color("#5E5A72"),
	}
}

func (t Theme) CommandSegment(idx int) CommandSegmentStyle {
	if len(t.CommandSegments) == 0 {
		return CommandSegmentStyle{
			Background: lipgloss.Color("#2C1E3A"),
			Border:     lipgloss.Color("#7D56F4"),
			Key:        lipgloss.Color("#F6E3FF"),
			Text:       lipgloss.Color("#E5E1FF"),
		}
	}
	return t.CommandSegments[idx%len(t.CommandSegments)]
}
