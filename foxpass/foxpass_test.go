package foxpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/foxpass-community/foxsync/rest"
)

type recordedRequest struct {
	method  string
	path    string
	payload map[string]interface{}
}

func recordingServer(t *testing.T, body string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{method: r.Method, path: r.URL.Path}
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&rec.payload)
		}
		reqs = append(reqs, rec)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &reqs
}

func TestAddEntry(t *testing.T) {
	srv, reqs := recordingServer(t, `{"status":"ok"}`)
	c := New("secret", rest.WithBaseURL(srv.URL+"/v1/"))

	if _, err := c.AddEntry(context.Background(), "office", "aa:bb:cc:dd:ee:ff"); err != nil {
		t.Fatalf("expected err: nil, got: %v", err)
	}
	want := []recordedRequest{{
		method:  http.MethodPut,
		path:    "/v1/mac_entries/office/prefixes/",
		payload: map[string]interface{}{"prefix": "aa:bb:cc:dd:ee:ff"},
	}}
	if diff := cmp.Diff(want, *reqs, cmp.AllowUnexported(recordedRequest{})); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestAddGroup(t *testing.T) {
	srv, reqs := recordingServer(t, `{"status":"ok","data":{"name":"office"}}`)
	c := New("secret", rest.WithBaseURL(srv.URL+"/v1/"))

	if _, err := c.AddGroup(context.Background(), "office"); err != nil {
		t.Fatalf("expected err: nil, got: %v", err)
	}
	want := []recordedRequest{{
		method:  http.MethodPost,
		path:    "/v1/mac_entries/",
		payload: map[string]interface{}{"name": "office"},
	}}
	if diff := cmp.Diff(want, *reqs, cmp.AllowUnexported(recordedRequest{})); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteGroup(t *testing.T) {
	srv, reqs := recordingServer(t, `{"status":"ok"}`)
	c := New("secret", rest.WithBaseURL(srv.URL+"/v1/"))

	if _, err := c.DeleteGroup(context.Background(), "office"); err != nil {
		t.Fatalf("expected err: nil, got: %v", err)
	}
	got := (*reqs)[0]
	if got.method != http.MethodDelete || got.path != "/v1/mac_entries/office/" {
		t.Fatalf("got %s %s, want DELETE /v1/mac_entries/office/", got.method, got.path)
	}
}

func TestDeleteEntry(t *testing.T) {
	srv, reqs := recordingServer(t, `{"status":"ok"}`)
	c := New("secret", rest.WithBaseURL(srv.URL+"/v1/"))

	if err := c.DeleteEntry(context.Background(), "office", "aa:bb:cc:dd:ee:ff"); err != nil {
		t.Fatalf("expected err: nil, got: %v", err)
	}
	got := (*reqs)[0]
	if got.method != http.MethodDelete || got.path != "/v1/mac_entries/office/aa:bb:cc:dd:ee:ff/" {
		t.Fatalf("got %s %s", got.method, got.path)
	}
}

func TestGetGroup(t *testing.T) {
	tests := map[string]struct {
		status int
		body   string
		want   map[string]interface{}
		absent bool
	}{
		"exists":  {status: 200, body: `{"status":"ok","data":{"name":"office"}}`, want: map[string]interface{}{"name": "office"}},
		"missing": {status: 404, body: `{"status":"error"}`, absent: true},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			c := New("secret", rest.WithBaseURL(srv.URL+"/v1/"))
			got, err := c.GetGroup(context.Background(), "office")
			if tc.absent {
				if err == nil || len(got) != 0 {
					t.Fatalf("expected absent group, got %v, err %v", got, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected err: nil, got: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("group mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListEntries(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"status":"ok","data":[{"prefix":"aa:bb:cc:dd:ee:ff"}]}`)
	}))
	defer srv.Close()

	c := New("secret", rest.WithBaseURL(srv.URL+"/v1/"))
	got := c.ListEntries(context.Background(), "office")
	if gotPath != "/v1/mac_entries/office/prefixes/" {
		t.Fatalf("got path %s", gotPath)
	}
	want := []map[string]interface{}{{"prefix": "aa:bb:cc:dd:ee:ff"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestIsEntryPresent(t *testing.T) {
	tests := map[string]struct {
		status int
		body   string
		want   bool
	}{
		"present": {status: 200, body: `{"status":"ok"}`, want: true},
		"missing": {status: 404, body: `{"status":"error"}`, want: false},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			var gotPath string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			}))
			defer srv.Close()

			c := New("secret", rest.WithBaseURL(srv.URL+"/v1/"))
			got := c.IsEntryPresent(context.Background(), "office", "aa:bb:cc:dd:ee:ff")
			if got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			if gotPath != "/v1/mac_entries/office/prefixes/aa:bb:cc:dd:ee:ff/" {
				t.Fatalf("got path %s", gotPath)
			}
		})
	}
}
