package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/catalogctl/internal/api"
	"github.com/desertthunder/catalogctl/internal/catalog"
	"github.com/desertthunder/catalogctl/internal/session"
	"github.com/desertthunder/catalogctl/internal/shared"
	tu "github.com/desertthunder/catalogctl/internal/testing"
	"github.com/golang-jwt/jwt/v5"
	"github.com/urfave/cli/v3"
)

func mintToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

// testRunner wires a Runner against the given backend handler with a valid
// stored credential.
func testRunner(t *testing.T, handler http.Handler) (*Runner, *bytes.Buffer) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	tokens := session.NewFileStore(filepath.Join(t.TempDir(), "auth_token.json"))
	if err := tokens.Write(mintToken(t, time.Now().Add(time.Hour)), "refresh"); err != nil {
		t.Fatalf("failed to seed token store: %v", err)
	}

	client := api.New(api.Options{BaseURL: server.URL, Tokens: tokens})
	services := catalog.NewServices(client)
	store := session.New(services.Auth, tokens, nil)
	guard := session.NewGuard(store)

	output := &bytes.Buffer{}
	runner := NewRunner(RunnerOpts{
		Client:   client,
		Services: services,
		Session:  store,
		Guard:    guard,
		Output:   output,
	})
	return runner, output
}

func envelopeHandler(payload string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"statusCode":200,"message":"ok","data":%s,"success":true}`, payload)
	})
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
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
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("without services leaves engine nil", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.engine != nil {
				t.Error("expected nil engine without services")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
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

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles trailing newline write failure", func(t *testing.T) {
			buf := &bytes.Buffer{}
			limited := tu.NewLimitedWriter(1, 0, buf)
			runner := NewRunner(RunnerOpts{Output: &limited})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err == nil {
				t.Fatal("expected error once the write limit is hit")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
			if !strings.Contains(buf.String(), `"key"`) {
				t.Errorf("expected payload written before the failure, got %q", buf.String())
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
		})
	})

	t.Run("writeTable", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		err := runner.writeTable(
			[]string{"ID", "Name"},
			[][]string{{"1", "OK Computer"}, {"2", "Kid A"}},
		)

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		for _, want := range []string{"ID", "Name", "OK Computer", "Kid A"} {
			if !strings.Contains(result, want) {
				t.Errorf("expected table to contain %q, got:\n%s", want, result)
			}
		}
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Fatal("expected commands to be registered")
		}

		names := make(map[string]bool, len(commands))
		for _, cmd := range commands {
			names[cmd.Name] = true
		}
		for _, want := range []string{"auth", "users", "tracks", "playlists", "artists", "albums", "snapshot", "cache", "setup", "tui", "api"} {
			if !names[want] {
				t.Errorf("expected %q command to be registered", want)
			}
		}
	})
}

func TestGuardedCommands(t *testing.T) {
	t.Run("denies when logged out", func(t *testing.T) {
		runner, _ := testRunner(t, envelopeHandler("[]"))
		runner.session.Logout()

		app := &cli.Command{Commands: runner.register()}
		err := app.Run(context.Background(), []string{"catalogctl", "users", "list"})

		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Fatalf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("allows with stored credential", func(t *testing.T) {
		runner, output := testRunner(t, envelopeHandler(`[{"id":1,"username":"admin","email":"admin@example.com"}]`))

		app := &cli.Command{Commands: runner.register()}
		err := app.Run(context.Background(), []string{"catalogctl", "users", "list"})

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "admin") {
			t.Errorf("expected user listing, got:\n%s", output.String())
		}
	})

	t.Run("snapshot requires database", func(t *testing.T) {
		runner, _ := testRunner(t, envelopeHandler("[]"))

		app := &cli.Command{Commands: runner.register()}
		err := app.Run(context.Background(), []string{"catalogctl", "snapshot", "run"})

		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Fatalf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestAuthCommands(t *testing.T) {
	t.Run("login stores credential and reports success", func(t *testing.T) {
		access := mintToken(t, time.Now().Add(time.Hour))
		handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.URL.Path != "/auth/login" {
				t.Errorf("unexpected path %s", req.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"statusCode":200,"message":"ok","data":{"accessToken":%q,"refreshToken":"r1","username":"admin","email":"admin@example.com"},"success":true}`, access)
		})

		runner, output := testRunner(t, handler)
		runner.session.Logout()

		app := &cli.Command{Commands: runner.register()}
		err := app.Run(context.Background(), []string{"catalogctl", "auth", "login", "--password", "hunter2", "admin"})

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Logged in as admin") {
			t.Errorf("expected login confirmation, got %q", output.String())
		}
		if !runner.session.CheckAuth() {
			t.Error("expected a usable stored credential after login")
		}
	})

	t.Run("login surfaces backend rejection", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"statusCode":401,"message":"Invalid credentials","data":null,"success":false}`)
		})

		runner, _ := testRunner(t, handler)
		runner.session.Logout()

		app := &cli.Command{Commands: runner.register()}
		err := app.Run(context.Background(), []string{"catalogctl", "auth", "login", "--password", "wrong", "admin"})

		if err == nil {
			t.Fatal("expected error for rejected login")
		}
		if !strings.Contains(err.Error(), "Invalid credentials") {
			t.Errorf("expected backend message, got %v", err)
		}
	})

	t.Run("status reflects session state", func(t *testing.T) {
		runner, output := testRunner(t, envelopeHandler("null"))

		app := &cli.Command{Commands: runner.register()}
		if err := app.Run(context.Background(), []string{"catalogctl", "auth", "status"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "✓ Authenticated") {
			t.Errorf("expected authenticated status, got %q", output.String())
		}

		output.Reset()
		runner.session.Logout()
		if err := app.Run(context.Background(), []string{"catalogctl", "auth", "status"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "✗ Not authenticated") {
			t.Errorf("expected logged-out status, got %q", output.String())
		}
	})

	t.Run("logout removes the stored credential", func(t *testing.T) {
		runner, output := testRunner(t, envelopeHandler("null"))

		app := &cli.Command{Commands: runner.register()}
		if err := app.Run(context.Background(), []string{"catalogctl", "auth", "logout"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Logged out") {
			t.Errorf("expected logout confirmation, got %q", output.String())
		}
		if runner.session.CheckAuth() {
			t.Error("expected no usable credential after logout")
		}
	})
}

func TestEntityCommands(t *testing.T) {
	t.Run("tracks list renders a table", func(t *testing.T) {
		runner, output := testRunner(t, envelopeHandler(`[{"id":5,"name":"Karma Police","durationMs":261000,"popularity":80,"isrc":"GBAYE9700256"}]`))

		app := &cli.Command{Commands: runner.register()}
		err := app.Run(context.Background(), []string{"catalogctl", "tracks", "list"})

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		result := output.String()
		if !strings.Contains(result, "Karma Police") {
			t.Errorf("expected track name in table, got:\n%s", result)
		}
		if !strings.Contains(result, "4:21") {
			t.Errorf("expected formatted duration, got:\n%s", result)
		}
	})

	t.Run("tracks list json outputs raw records", func(t *testing.T) {
		runner, output := testRunner(t, envelopeHandler(`[{"id":5,"name":"Karma Police"}]`))

		app := &cli.Command{Commands: runner.register()}
		err := app.Run(context.Background(), []string{"catalogctl", "tracks", "list", "--json"})

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), `"name": "Karma Police"`) {
			t.Errorf("expected JSON output, got:\n%s", output.String())
		}
	})

	t.Run("get rejects a non-numeric id", func(t *testing.T) {
		runner, _ := testRunner(t, envelopeHandler("null"))

		app := &cli.Command{Commands: runner.register()}
		err := app.Run(context.Background(), []string{"catalogctl", "tracks", "get", "abc"})

		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("delete confirms the removal", func(t *testing.T) {
		runner, output := testRunner(t, envelopeHandler("null"))

		app := &cli.Command{Commands: runner.register()}
		err := app.Run(context.Background(), []string{"catalogctl", "artists", "delete", "3"})

		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(output.String(), "Artist 3 deleted") {
			t.Errorf("expected delete confirmation, got %q", output.String())
		}
	})
}
