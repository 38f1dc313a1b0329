package scribd

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestReceiptAndDownload(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/doc-page/download-receipt-modal-props/123", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintf(w, `{"document":{"download_url":%q,"access_key":"key-1","author":{"name":"alice"}}}`, srv.URL+"/dl/123")
	})
	mux.HandleFunc("/doc-page/download-receipt-modal-props/404", func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	})
	mux.HandleFunc("/doc-page/download-receipt-modal-props/500", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"document":{}}`)
	})
	mux.HandleFunc("/dl/123", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("secret_password") != "key-1" || r.URL.Query().Get("extension") != "txt" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		fmt.Fprint(w, "contact me at jane@example.com")
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	t.Run("receipt then text", func(t *testing.T) {
		t.Parallel()

		r, err := c.Receipt(t.Context(), "123")
		if err != nil {
			t.Fatalf("Receipt failed: %v", err)
		}
		if r.Author != "alice" || r.AccessKey != "key-1" || r.DocumentID != "123" {
			t.Errorf("unexpected receipt %+v", r)
		}

		text, err := c.DownloadText(t.Context(), r)
		if err != nil {
			t.Fatalf("DownloadText failed: %v", err)
		}
		if text.Text != "contact me at jane@example.com" || text.Lossy {
			t.Errorf("unexpected text %+v", text)
		}
		if text.Author != "alice" || text.DocumentID != "123" || len(text.Digest) != 64 {
			t.Errorf("unexpected metadata %+v", text)
		}
	})

	t.Run("wrong key fails with status error", func(t *testing.T) {
		t.Parallel()

		_, err := c.DownloadText(t.Context(), Receipt{DocumentID: "123", DownloadURL: srv.URL + "/dl/123", AccessKey: "bad"})
		var se *StatusError
		if !errors.As(err, &se) || se.Code != http.StatusForbidden {
			t.Errorf("expected 403 status error, got %v", err)
		}
	})

	t.Run("missing receipt", func(t *testing.T) {
		t.Parallel()

		_, err := c.Receipt(t.Context(), "404")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("receipt without url", func(t *testing.T) {
		t.Parallel()

		_, err := c.Receipt(t.Context(), "500")
		if !errors.Is(err, ErrMissingDownloadURL) {
			t.Errorf("expected ErrMissingDownloadURL, got %v", err)
		}
	})
}

func TestReceiptTextURL(t *testing.T) {
	t.Parallel()

	r := Receipt{DownloadURL: "https://dl.example.com/file?a=1", AccessKey: "k&y"}
	got, err := r.TextURL()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"a=1", "extension=txt", "secret_password=k%26y"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}
}

func TestDecodeText(t *testing.T) {
	t.Parallel()

	t.Run("valid UTF-8 is strict", func(t *testing.T) {
		t.Parallel()
		text, lossy := DecodeText([]byte("héllo"))
		if text != "héllo" || lossy {
			t.Errorf("got %q lossy=%v", text, lossy)
		}
	})

	t.Run("UTF-8 BOM is stripped", func(t *testing.T) {
		t.Parallel()
		text, lossy := DecodeText([]byte("\xEF\xBB\xBFabc"))
		if text != "abc" || lossy {
			t.Errorf("got %q lossy=%v", text, lossy)
		}
	})

	t.Run("invalid bytes are replaced", func(t *testing.T) {
		t.Parallel()
		text, lossy := DecodeText([]byte{'a', 0xFF, 'b'})
		if !lossy {
			t.Error("expected lossy decode")
		}
		if !utf8.ValidString(text) || !strings.HasPrefix(text, "a") || !strings.HasSuffix(text, "b") ||
			!strings.ContainsRune(text, utf8.RuneError) {
			t.Errorf("unexpected lossy text %q", text)
		}
	})

	t.Run("UTF-16 with BOM is decoded", func(t *testing.T) {
		t.Parallel()
		text, lossy := DecodeText([]byte{0xFF, 0xFE, 'h', 0, 'i', 0})
		if text != "hi" || lossy {
			t.Errorf("got %q lossy=%v", text, lossy)
		}
	})
}
