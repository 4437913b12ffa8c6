package formatter

import (
	"bytes"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/spotdash/internal/models"
)

var styles = NewPalette("#1DB954", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// Title renders a styled section heading
func Title(s string) string {
	return styles.title.Render(s)
}

// OK renders a styled success message
func OK(s string) string {
	return styles.ok.Render(s)
}

// Err renders a styled error message
func Err(s string) string {
	return styles.err.Render(s)
}

// Help renders a styled hint line
func Help(s string) string {
	return styles.help.Render(s)
}

// StyledTracks renders tracks with a heading and dimmed metadata
func StyledTracks(heading string, tracks []models.Track) []byte {
	var buf bytes.Buffer
	buf.WriteString(Title(heading) + "\n")
	for i, t := range tracks {
		meta := styles.help.Render(fmt.Sprintf("%s · %s", joinArtists(t.Artists), formatDuration(t.DurationMS)))
		buf.WriteString(fmt.Sprintf("%2d. %s  %s\n", i+1, t.Name, meta))
	}
	return buf.Bytes()
}

// StyledArtists renders artists with a heading and dimmed genre list
func StyledArtists(heading string, artists []models.Artist) []byte {
	var buf bytes.Buffer
	buf.WriteString(Title(heading) + "\n")
	for i, a := range artists {
		line := fmt.Sprintf("%2d. %s", i+1, a.Name)
		if len(a.Genres) > 0 {
			line += "  " + styles.help.Render(joinArtists(a.Genres))
		}
		buf.WriteString(line + "\n")
	}
	return buf.Bytes()
}

// StyledShows renders shows with a heading and dimmed publisher
func StyledShows(heading string, shows []models.Show) []byte {
	var buf bytes.Buffer
	buf.WriteString(Title(heading) + "\n")
	for i, s := range shows {
		meta := styles.help.Render(fmt.Sprintf("%s · %d episodes", s.Publisher, s.TotalEpisodes))
		buf.WriteString(fmt.Sprintf("%2d. %s  %s\n", i+1, s.Name, meta))
	}
	return buf.Bytes()
}
