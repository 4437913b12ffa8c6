// package formatter renders catalog entities (tracks, artists, albums, shows,
// episodes) to CSV, plain text and styled terminal output.
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/desertthunder/spotdash/internal/models"
)

// formatDuration renders a millisecond duration as m:ss.
func formatDuration(ms int) string {
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

func joinArtists(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	out := names[0]
	for _, n := range names[1:] {
		out += ", " + n
	}
	return out
}

func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// TracksToCSV converts tracks to CSV with columns: ID, Name, Artists, Album, Duration, Popularity
func TracksToCSV(tracks []models.Track) ([]byte, error) {
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		rows = append(rows, []string{
			t.ID,
			t.Name,
			joinArtists(t.Artists),
			t.AlbumName,
			formatDuration(t.DurationMS),
			strconv.Itoa(t.Popularity),
		})
	}
	return writeCSV([]string{"ID", "Name", "Artists", "Album", "Duration", "Popularity"}, rows)
}

// ArtistsToCSV converts artists to CSV with columns: ID, Name, Genres, Popularity
func ArtistsToCSV(artists []models.Artist) ([]byte, error) {
	rows := make([][]string, 0, len(artists))
	for _, a := range artists {
		genres := ""
		for i, g := range a.Genres {
			if i > 0 {
				genres += "; "
			}
			genres += g
		}
		rows = append(rows, []string{a.ID, a.Name, genres, strconv.Itoa(a.Popularity)})
	}
	return writeCSV([]string{"ID", "Name", "Genres", "Popularity"}, rows)
}

// AlbumsToCSV converts albums to CSV with columns: ID, Name, Artists, Tracks, Released
func AlbumsToCSV(albums []models.Album) ([]byte, error) {
	rows := make([][]string, 0, len(albums))
	for _, a := range albums {
		rows = append(rows, []string{
			a.ID,
			a.Name,
			joinArtists(a.Artists),
			strconv.Itoa(a.TotalTracks),
			a.ReleaseDate,
		})
	}
	return writeCSV([]string{"ID", "Name", "Artists", "Tracks", "Released"}, rows)
}

// ShowsToCSV converts shows to CSV with columns: ID, Name, Publisher, Episodes
func ShowsToCSV(shows []models.Show) ([]byte, error) {
	rows := make([][]string, 0, len(shows))
	for _, s := range shows {
		rows = append(rows, []string{s.ID, s.Name, s.Publisher, strconv.Itoa(s.TotalEpisodes)})
	}
	return writeCSV([]string{"ID", "Name", "Publisher", "Episodes"}, rows)
}

// EpisodesToCSV converts episodes to CSV with columns: ID, Name, Show, Duration, Released
func EpisodesToCSV(episodes []models.Episode) ([]byte, error) {
	rows := make([][]string, 0, len(episodes))
	for _, e := range episodes {
		rows = append(rows, []string{
			e.ID,
			e.Name,
			e.ShowName,
			formatDuration(e.DurationMS),
			e.ReleaseDate,
		})
	}
	return writeCSV([]string{"ID", "Name", "Show", "Duration", "Released"}, rows)
}

// TracksToText renders tracks as a numbered plain text list
func TracksToText(tracks []models.Track) []byte {
	var buf bytes.Buffer
	for i, t := range tracks {
		albumPart := ""
		if t.AlbumName != "" {
			albumPart = fmt.Sprintf(" (%s)", t.AlbumName)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, joinArtists(t.Artists), t.Name, albumPart, formatDuration(t.DurationMS)))
	}
	return buf.Bytes()
}

// ArtistsToText renders artists as a numbered plain text list
func ArtistsToText(artists []models.Artist) []byte {
	var buf bytes.Buffer
	for i, a := range artists {
		buf.WriteString(fmt.Sprintf("%d. %s", i+1, a.Name))
		if len(a.Genres) > 0 {
			buf.WriteString(fmt.Sprintf(" (%s)", joinArtists(a.Genres)))
		}
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

// AlbumsToText renders albums as a numbered plain text list
func AlbumsToText(albums []models.Album) []byte {
	var buf bytes.Buffer
	for i, a := range albums {
		buf.WriteString(fmt.Sprintf("%d. %s - %s", i+1, joinArtists(a.Artists), a.Name))
		if a.ReleaseDate != "" {
			buf.WriteString(fmt.Sprintf(" [%s]", a.ReleaseDate))
		}
		buf.WriteString("\n")
	}
	return buf.Bytes()
}

// ShowsToText renders shows as a numbered plain text list
func ShowsToText(shows []models.Show) []byte {
	var buf bytes.Buffer
	for i, s := range shows {
		buf.WriteString(fmt.Sprintf("%d. %s - %s (%d episodes)\n", i+1, s.Publisher, s.Name, s.TotalEpisodes))
	}
	return buf.Bytes()
}

// EpisodesToText renders episodes as a numbered plain text list
func EpisodesToText(episodes []models.Episode) []byte {
	var buf bytes.Buffer
	for i, e := range episodes {
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s]\n", i+1, e.ShowName, e.Name, formatDuration(e.DurationMS)))
	}
	return buf.Bytes()
}

// ProfileToText renders a profile as a key-value block
func ProfileToText(p models.Profile) []byte {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("User: %s\n", p.ID))
	if p.DisplayName != "" {
		buf.WriteString(fmt.Sprintf("Name: %s\n", p.DisplayName))
	}
	buf.WriteString(fmt.Sprintf("Followers: %d\n", p.FollowersTotal))
	return buf.Bytes()
}
