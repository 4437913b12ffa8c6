package formatter

import (
	"strings"
	"testing"

	"github.com/desertthunder/spotdash/internal/models"
)

func sampleTracks() []models.Track {
	return []models.Track{
		{
			ID:         "track1",
			Name:       "Song One",
			Artists:    []string{"Artist One"},
			AlbumName:  "Album One",
			DurationMS: 180000,
			Popularity: 70,
		},
		{
			ID:         "track2",
			Name:       "Song Two",
			Artists:    []string{"Artist Two", "Artist Three"},
			AlbumName:  "Album Two",
			DurationMS: 245000,
			Popularity: 55,
		},
	}
}

func TestCSVExporters(t *testing.T) {
	t.Run("TracksToCSV", func(t *testing.T) {
		data, err := TracksToCSV(sampleTracks())
		if err != nil {
			t.Fatalf("TracksToCSV failed: %v", err)
		}
		output := string(data)

		if !strings.Contains(output, "ID,Name,Artists,Album,Duration,Popularity") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "track1") {
			t.Errorf("CSV missing track1 ID")
		}
		if !strings.Contains(output, "3:00") {
			t.Errorf("CSV missing formatted duration, got: %s", output)
		}
		if !strings.Contains(output, `"Artist Two, Artist Three"`) {
			t.Errorf("CSV did not quote joined artists, got: %s", output)
		}
	})

	t.Run("ShowsToCSV", func(t *testing.T) {
		shows := []models.Show{{ID: "show1", Name: "A Show", Publisher: "Pub", TotalEpisodes: 12}}
		data, err := ShowsToCSV(shows)
		if err != nil {
			t.Fatalf("ShowsToCSV failed: %v", err)
		}
		output := string(data)
		if !strings.Contains(output, "ID,Name,Publisher,Episodes") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "show1,A Show,Pub,12") {
			t.Errorf("CSV missing show record, got: %s", output)
		}
	})

	t.Run("EmptyInput", func(t *testing.T) {
		data, err := ArtistsToCSV(nil)
		if err != nil {
			t.Fatalf("ArtistsToCSV failed: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 1 {
			t.Errorf("expected headers only, got %d lines", len(lines))
		}
	})
}

func TestTextExporters(t *testing.T) {
	t.Run("TracksToText", func(t *testing.T) {
		output := string(TracksToText(sampleTracks()))

		if !strings.Contains(output, "1. Artist One - Song One (Album One) [3:00]") {
			t.Errorf("unexpected track line, got: %s", output)
		}
		if !strings.Contains(output, "2. Artist Two, Artist Three - Song Two") {
			t.Errorf("missing second track, got: %s", output)
		}
	})

	t.Run("EpisodesToText", func(t *testing.T) {
		episodes := []models.Episode{
			{ID: "ep1", Name: "Pilot", ShowName: "A Show", DurationMS: 65000},
		}
		output := string(EpisodesToText(episodes))
		if !strings.Contains(output, "1. A Show - Pilot [1:05]") {
			t.Errorf("unexpected episode line, got: %s", output)
		}
	})

	t.Run("ProfileToText", func(t *testing.T) {
		p := models.Profile{ID: "user123", DisplayName: "Bob", FollowersTotal: 9}
		output := string(ProfileToText(p))
		for _, want := range []string{"User: user123", "Name: Bob", "Followers: 9"} {
			if !strings.Contains(output, want) {
				t.Errorf("profile output missing %q, got: %s", want, output)
			}
		}
	})

	t.Run("ProfileWithoutDisplayName", func(t *testing.T) {
		output := string(ProfileToText(models.Profile{ID: "user123"}))
		if strings.Contains(output, "Name:") {
			t.Errorf("empty display name should be omitted, got: %s", output)
		}
	})
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		ms   int
		want string
	}{
		{0, "0:00"},
		{1000, "0:01"},
		{59999, "0:59"},
		{60000, "1:00"},
		{245000, "4:05"},
		{3600000, "60:00"},
	}
	for _, tc := range cases {
		if got := formatDuration(tc.ms); got != tc.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tc.ms, got, tc.want)
		}
	}
}

func TestStyledRenderers(t *testing.T) {
	t.Run("StyledTracks", func(t *testing.T) {
		output := string(StyledTracks("Top Tracks", sampleTracks()))
		if !strings.Contains(output, "Top Tracks") {
			t.Errorf("missing heading, got: %s", output)
		}
		if !strings.Contains(output, "Song One") {
			t.Errorf("missing track name, got: %s", output)
		}
	})

	t.Run("StyledArtists", func(t *testing.T) {
		artists := []models.Artist{{ID: "a1", Name: "Artist One", Genres: []string{"rock"}}}
		output := string(StyledArtists("Top Artists", artists))
		if !strings.Contains(output, "Artist One") {
			t.Errorf("missing artist name, got: %s", output)
		}
	})
}
