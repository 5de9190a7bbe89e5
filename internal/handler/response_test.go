package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	t.Run("sets content type and status code", func(t *testing.T) {
		w := httptest.NewRecorder()
		data := map[string]string{"status": "ok"}

		WriteJSON(w, http.StatusOK, data)

		if got := w.Header().Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want %q", got, "application/json")
		}
		if w.Code != http.StatusOK {
			t.Errorf("status code = %d, want %d", w.Code, http.StatusOK)
		}

		var result map[string]string
		if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if result["status"] != "ok" {
			t.Errorf("body status = %q, want %q", result["status"], "ok")
		}
	})
}

func TestWriteError(t *testing.T) {
	t.Run("writes 404 error", func(t *testing.T) {
		w := httptest.NewRecorder()

		WriteError(w, http.StatusNotFound, "date_not_found", "date 20220105 not found")

		if w.Code != http.StatusNotFound {
			t.Errorf("status code = %d, want %d", w.Code, http.StatusNotFound)
		}

		var resp errorResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode: %v", err)
		}
		if resp.Error != "date_not_found" {
			t.Errorf("error = %q, want %q", resp.Error, "date_not_found")
		}
		if resp.Message != "date 20220105 not found" {
			t.Errorf("message = %q", resp.Message)
		}
	})

	t.Run("writes 502 bad gateway", func(t *testing.T) {
		w := httptest.NewRecorder()

		WriteError(w, http.StatusBadGateway, "fetch_error", "registry unavailable")

		if w.Code != http.StatusBadGateway {
			t.Errorf("status code = %d, want %d", w.Code, http.StatusBadGateway)
		}
	})
}

func TestQueryParams(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x?count=20&threshold=0.5&bad=abc", nil)

	if n, ok := queryInt(r, "count"); !ok || n == nil || *n != 20 {
		t.Errorf("queryInt(count) = %v, %v; want 20, true", n, ok)
	}
	if n, ok := queryInt(r, "missing"); !ok || n != nil {
		t.Errorf("queryInt(missing) = %v, %v; want nil, true", n, ok)
	}
	if _, ok := queryInt(r, "bad"); ok {
		t.Error("queryInt(bad) ok = true, want false")
	}
	if f, ok := queryFloat(r, "threshold"); !ok || f == nil || *f != 0.5 {
		t.Errorf("queryFloat(threshold) = %v, %v; want 0.5, true", f, ok)
	}
	if _, ok := queryFloat(r, "bad"); ok {
		t.Error("queryFloat(bad) ok = true, want false")
	}
}
