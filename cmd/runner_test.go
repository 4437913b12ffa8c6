package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotdash/internal/cache"
	"github.com/desertthunder/spotdash/internal/session"
	"github.com/desertthunder/spotdash/internal/shared"
	tu "github.com/desertthunder/spotdash/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			store := cache.NewMemoryStore()

			runner := NewRunner(RunnerOpts{
				Config:      config,
				Logger:      logger,
				Output:      output,
				HTTPClient:  httpClient,
				Store:       store,
				SessionPath: "/tmp/session.json",
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.store != store {
				t.Error("expected store to be set")
			}
			if runner.sessionPath != "/tmp/session.json" {
				t.Errorf("expected session path to be set, got %s", runner.sessionPath)
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Fatal("expected registered commands")
		}
		names := map[string]bool{}
		for _, c := range commands {
			names[c.Name] = true
		}
		for _, want := range []string{"login", "profile", "top", "search", "releases", "library", "follow", "playlist", "cache", "serve", "setup"} {
			if !names[want] {
				t.Errorf("missing command %q", want)
			}
		}
	})
}

// writeSessionFile seeds a session file with a fresh token.
func writeSessionFile(t *testing.T, dir string) string {
	t.Helper()
	bag := session.Bag{
		session.KeyToken:        "valid_token",
		session.KeyExpiresAt:    time.Now().Add(time.Hour).Unix(),
		session.KeyRefreshToken: "refresh",
		session.KeyUser:         map[string]any{"id": "user123"},
	}
	data, err := json.Marshal(bag)
	if err != nil {
		t.Fatalf("failed to marshal session: %v", err)
	}
	path := filepath.Join(dir, "session.json")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("failed to write session file: %v", err)
	}
	return path
}

// newTestApp wires a runner against a mocked transport and a seeded session.
func newTestApp(t *testing.T, transport http.RoundTripper) (*cli.Command, *bytes.Buffer, string) {
	t.Helper()
	output := &bytes.Buffer{}
	sessionPath := writeSessionFile(t, t.TempDir())

	config := shared.DefaultConfig()
	config.Credentials.Spotify.ClientID = "cid"
	config.Credentials.Spotify.ClientSecret = "secret"

	runner := NewRunner(RunnerOpts{
		Config:      config,
		Store:       cache.NewMemoryStore(),
		HTTPClient:  &http.Client{Transport: transport},
		Logger:      shared.NewLogger(&tu.FWriter{}),
		Output:      output,
		SessionPath: sessionPath,
	})
	app := &cli.Command{Name: "spotdash", Commands: runner.register()}
	return app, output, sessionPath
}

func TestCommands(t *testing.T) {
	t.Run("profile prints plain text", func(t *testing.T) {
		transport := tu.RoundTripFunc(func(r *http.Request) (*http.Response, error) {
			return tu.JSONResponse(http.StatusOK, `{"id":"user123","display_name":"Bob","followers":{"total":3}}`), nil
		})
		app, output, _ := newTestApp(t, transport)

		if err := app.Run(context.Background(), []string{"spotdash", "profile"}); err != nil {
			t.Fatalf("profile command failed: %v", err)
		}
		if !strings.Contains(output.String(), "Name: Bob") {
			t.Errorf("unexpected output: %s", output.String())
		}
	})

	t.Run("profile --json prints JSON", func(t *testing.T) {
		transport := tu.RoundTripFunc(func(r *http.Request) (*http.Response, error) {
			return tu.JSONResponse(http.StatusOK, `{"id":"user123","display_name":"Bob","followers":{"total":3}}`), nil
		})
		app, output, _ := newTestApp(t, transport)

		if err := app.Run(context.Background(), []string{"spotdash", "profile", "--json"}); err != nil {
			t.Fatalf("profile command failed: %v", err)
		}
		var profile map[string]any
		if err := json.Unmarshal(output.Bytes(), &profile); err != nil {
			t.Fatalf("output is not JSON: %v", err)
		}
		if profile["display_name"] != "Bob" {
			t.Errorf("unexpected payload: %v", profile)
		}
	})

	t.Run("top tracks csv", func(t *testing.T) {
		transport := tu.RoundTripFunc(func(r *http.Request) (*http.Response, error) {
			return tu.JSONResponse(http.StatusOK, `{"items":[
				{"id":"t1","name":"Song","artists":[{"name":"Artist"}],"album":{"name":"Album"},"duration_ms":180000,"popularity":50}
			],"total":1}`), nil
		})
		app, output, _ := newTestApp(t, transport)

		if err := app.Run(context.Background(), []string{"spotdash", "top", "tracks", "--csv"}); err != nil {
			t.Fatalf("top tracks failed: %v", err)
		}
		if !strings.Contains(output.String(), "t1,Song,Artist,Album,3:00,50") {
			t.Errorf("unexpected CSV: %s", output.String())
		}
	})

	t.Run("library save requires ids", func(t *testing.T) {
		app, _, _ := newTestApp(t, tu.RoundTripFunc(func(r *http.Request) (*http.Response, error) {
			t.Error("no upstream call expected")
			return nil, nil
		}))

		err := app.Run(context.Background(), []string{"spotdash", "library", "save"})
		if err == nil {
			t.Fatal("expected error for missing ids")
		}
	})

	t.Run("library save shows", func(t *testing.T) {
		var saved []string
		transport := tu.RoundTripFunc(func(r *http.Request) (*http.Response, error) {
			saved = append(saved, r.Method+" "+r.URL.Path)
			return tu.JSONResponse(http.StatusOK, `{}`), nil
		})
		app, output, _ := newTestApp(t, transport)

		if err := app.Run(context.Background(), []string{"spotdash", "library", "save", "s1", "s2"}); err != nil {
			t.Fatalf("library save failed: %v", err)
		}
		if !strings.Contains(output.String(), "Saved 2 shows") {
			t.Errorf("unexpected output: %s", output.String())
		}
		if len(saved) != 1 || !strings.Contains(saved[0], "PUT /v1/me/shows") {
			t.Errorf("unexpected upstream calls: %v", saved)
		}
	})

	t.Run("refreshed token is persisted", func(t *testing.T) {
		transport := tu.RoundTripFunc(func(r *http.Request) (*http.Response, error) {
			if r.URL.Host == "accounts.spotify.com" {
				return tu.JSONResponse(http.StatusOK, `{"access_token":"renewed","expires_in":3600}`), nil
			}
			return tu.JSONResponse(http.StatusOK, `{"id":"user123"}`), nil
		})
		app, _, sessionPath := newTestApp(t, transport)

		// expire the stored token so the command triggers a refresh
		data, _ := os.ReadFile(sessionPath)
		bag := make(session.Bag)
		json.Unmarshal(data, &bag)
		bag[session.KeyExpiresAt] = time.Now().Add(-time.Hour).Unix()
		data, _ = json.Marshal(bag)
		os.WriteFile(sessionPath, data, 0600)

		if err := app.Run(context.Background(), []string{"spotdash", "profile", "--json"}); err != nil {
			t.Fatalf("profile command failed: %v", err)
		}

		data, _ = os.ReadFile(sessionPath)
		saved := make(session.Bag)
		json.Unmarshal(data, &saved)
		if saved[session.KeyToken] != "renewed" {
			t.Errorf("expected refreshed token persisted, got %v", saved[session.KeyToken])
		}
	})

	t.Run("missing session file", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{
			Output:      output,
			Logger:      shared.NewLogger(&tu.FWriter{}),
			SessionPath: filepath.Join(t.TempDir(), "absent.json"),
		})
		app := &cli.Command{Name: "spotdash", Commands: runner.register()}

		err := app.Run(context.Background(), []string{"spotdash", "profile"})
		if err == nil {
			t.Fatal("expected error without a session")
		}
		if !strings.Contains(err.Error(), "login") {
			t.Errorf("expected login hint, got %v", err)
		}
	})
}
