package main

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// writeFile writes content to name inside dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// configFor writes a config file that points scribdt at srv.
func configFor(t *testing.T, dir string, srv *httptest.Server) string {
	t.Helper()
	return writeFile(t, dir, "config.yaml", fmt.Sprintf("base_url: %s\ntimeout: 5s\nworkers: 4\n", srv.URL))
}

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// siteHandler fakes the search, receipt, download and profile endpoints.
// Users 1 and 2 have avatars, user 3 does not, every other id is missing.
func siteHandler(t *testing.T, srvURL *string, emptySearch bool) http.Handler {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /search/query", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if emptySearch || r.URL.Query().Get("page") != "1" {
			fmt.Fprint(w, `{"results":{"documents":{"content":{"documents":[]}}}}`)
			return
		}
		fmt.Fprint(w, `{"results":{"documents":{"content":{"documents":[
			{"reader_url":"https://www.scribd.com/document/555/leaked-memo","title":"Leaked memo","author":{"name":"mallory"}}
		]}}}}`)
	})
	mux.HandleFunc("GET /doc-page/download-receipt-modal-props/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Cookie") == "" {
			http.Error(w, "login required", http.StatusUnauthorized)
			return
		}
		fmt.Fprintf(w, `{"document":{"download_url":%q,"access_key":"k","author":{"name":"mallory"}}}`,
			*srvURL+"/dl/"+r.PathValue("id"))
	})
	mux.HandleFunc("GET /dl/{id}", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "please wire the money and mail bob@example.org")
	})
	mux.HandleFunc("GET /user/{id}/A", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		switch id {
		case 1, 2:
			fmt.Fprintf(w, `<html><head><title>user%d | Site</title></head><body>
				<img src="https://img.example.com/img/word_user/%d.jpg"></body></html>`, id, id)
		case 3:
			fmt.Fprint(w, `<html><head><title>noface | Site</title></head></html>`)
		default:
			http.NotFound(w, r)
		}
	})
	return mux
}

func newSite(t *testing.T, emptySearch bool) *httptest.Server {
	t.Helper()

	var srvURL string
	srv := httptest.NewServer(siteHandler(t, &srvURL, emptySearch))
	srvURL = srv.URL
	t.Cleanup(srv.Close)
	return srv
}

func TestDocumentsCmd(t *testing.T) {
	t.Parallel()

	t.Run("requires cookies before any request", func(t *testing.T) {
		t.Parallel()

		var hits int
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { hits++ }))
		t.Cleanup(srv.Close)
		cfg := configFor(t, t.TempDir(), srv)

		_, _, err := execute(t, "documents", "q", "-c", cfg)
		if err == nil || !strings.Contains(err.Error(), "cookies file is required") {
			t.Errorf("expected cookies error, got %v", err)
		}
		if hits != 0 {
			t.Errorf("expected no requests, got %d", hits)
		}
	})

	t.Run("missing cookie file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfg := configFor(t, dir, newSite(t, false))

		_, _, err := execute(t, "documents", "q", "-c", cfg, "--cookies", filepath.Join(dir, "nope.txt"))
		if err == nil || !strings.Contains(err.Error(), "file not found") {
			t.Errorf("expected file not found, got %v", err)
		}
	})

	t.Run("missing filters file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfg := configFor(t, dir, newSite(t, false))
		cookies := writeFile(t, dir, "cookies.txt", "sid=abc")

		_, _, err := execute(t, "documents", "q", "-c", cfg, "--cookies", cookies, "--filters", filepath.Join(dir, "f.json"))
		if err == nil || !strings.Contains(err.Error(), "file not found") {
			t.Errorf("expected file not found, got %v", err)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfg := configFor(t, dir, newSite(t, false))
		cookies := writeFile(t, dir, "cookies.txt", "sid=abc")

		_, _, err := execute(t, "documents", "q", "-c", cfg, "--cookies", cookies, "--format", "xml")
		if err == nil || !strings.Contains(err.Error(), "unknown report format") {
			t.Errorf("expected format error, got %v", err)
		}
	})

	t.Run("reports findings", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfg := configFor(t, dir, newSite(t, false))
		cookies := writeFile(t, dir, "cookies.txt", "sid=abc; bad; csrf=x")
		filters := writeFile(t, dir, "filters.json", `{"entities": ["email_address", "NOT_A_KIND"]}`)
		db := filepath.Join(dir, "out.db")

		stdout, stderr, err := execute(t, "documents", "memo", "-p", "2", "-c", cfg,
			"--cookies", cookies, "--filters", filters, "--db", db)
		if err != nil {
			t.Fatalf("documents failed: %v\n%s", err, stderr)
		}

		for _, want := range []string{
			"author: mallory",
			"DocumentID: 555",
			"Detected entity: EMAIL_ADDRESS",
			"Data: bob@example.org",
		} {
			if !strings.Contains(stdout, want) {
				t.Errorf("stdout missing %q:\n%s", want, stdout)
			}
		}
		if !strings.Contains(stderr, "ignoring malformed cookie") || !strings.Contains(stderr, "ignoring unknown entity kind") {
			t.Errorf("expected cookie and filter warnings:\n%s", stderr)
		}
		if strings.Contains(stderr, "csrf=x") {
			t.Errorf("cookie values must not be logged:\n%s", stderr)
		}

		stdout, _, err = execute(t, "r", "-c", cfg, "--db", db, "-d")
		if err != nil {
			t.Fatalf("r failed: %v", err)
		}
		if !strings.Contains(stdout, "Leaked memo") {
			t.Errorf("stored document not listed:\n%s", stdout)
		}
	})

	t.Run("json output to file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfg := configFor(t, dir, newSite(t, false))
		cookies := writeFile(t, dir, "cookies.txt", "sid=abc")
		out := filepath.Join(dir, "reports", "findings.jsonl")

		if _, stderr, err := execute(t, "documents", "memo", "-c", cfg, "--cookies", cookies, "--format", "json", "-o", out); err != nil {
			t.Fatalf("documents failed: %v\n%s", err, stderr)
		}

		data, err := os.ReadFile(out) //nolint:gosec // test file
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), `"text":"bob@example.org"`) {
			t.Errorf("unexpected report:\n%s", data)
		}
	})

	t.Run("no results", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfg := configFor(t, dir, newSite(t, true))
		cookies := writeFile(t, dir, "cookies.txt", "sid=abc")

		stdout, stderr, err := execute(t, "documents", "nothing", "-p", "5", "-c", cfg, "--cookies", cookies)
		if err != nil {
			t.Fatalf("documents failed: %v", err)
		}
		if stdout != "No documents found for the given query.\n" {
			t.Errorf("stdout = %q", stdout)
		}
		if stderr != "" {
			t.Errorf("expected no log lines, got:\n%s", stderr)
		}
	})
}

func TestUsersAndRetrieveCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := configFor(t, dir, newSite(t, false))
	db := filepath.Join(dir, "users.db")

	stdout, stderr, err := execute(t, "users", "--user_end", "6", "--db", db, "-c", cfg)
	if err != nil {
		t.Fatalf("users failed: %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "Stored 2 users") {
		t.Errorf("stdout = %q", stdout)
	}
	if stderr != "" {
		t.Errorf("missing profiles must not be logged:\n%s", stderr)
	}

	t.Run("search by username", func(t *testing.T) {
		stdout, _, err := execute(t, "r", "-c", cfg, "--db", db, "--username", "user2")
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(stdout, "Search Results:\n") || !strings.Contains(stdout, "img/word_user/2.jpg") {
			t.Errorf("unexpected output:\n%s", stdout)
		}
		if strings.Contains(stdout, "word_user/1.jpg") {
			t.Errorf("user1 should not match:\n%s", stdout)
		}
	})

	t.Run("no match", func(t *testing.T) {
		stdout, _, err := execute(t, "r", "-c", cfg, "--db", db, "--username", "zzz")
		if err != nil {
			t.Fatal(err)
		}
		if stdout != "No results found.\n" {
			t.Errorf("stdout = %q", stdout)
		}
	})

	t.Run("list users", func(t *testing.T) {
		stdout, _, err := execute(t, "r", "-c", cfg, "--db", db, "-u")
		if err != nil {
			t.Fatal(err)
		}
		if strings.Count(stdout, "word_user/") != 2 || strings.Contains(stdout, "noface") {
			t.Errorf("unexpected listing:\n%s", stdout)
		}
	})

	t.Run("nothing to retrieve", func(t *testing.T) {
		if _, _, err := execute(t, "r", "-c", cfg, "--db", db); err == nil {
			t.Error("expected error without a search term or listing flag")
		}
	})

	t.Run("missing database", func(t *testing.T) {
		_, _, err := execute(t, "r", "-c", cfg, "--db", filepath.Join(dir, "missing.db"), "-u")
		if err == nil || !strings.Contains(err.Error(), "failed to open database") {
			t.Errorf("expected open error, got %v", err)
		}
	})
}

func TestUsersCmdPrintsWithoutDB(t *testing.T) {
	t.Parallel()

	cfg := configFor(t, t.TempDir(), newSite(t, false))

	stdout, _, err := execute(t, "users", "--user_end", "4", "-c", cfg)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 printed users, got %q", stdout)
	}
	for _, l := range lines {
		if !strings.Contains(l, "img/word_user/") {
			t.Errorf("printed user without avatar: %q", l)
		}
	}
}

func TestUsersCmdRejectsBadRange(t *testing.T) {
	t.Parallel()

	cfg := configFor(t, t.TempDir(), newSite(t, false))
	if _, _, err := execute(t, "users", "--user_end", "0", "-c", cfg); err == nil {
		t.Error("expected error for --user_end 0")
	}
}
