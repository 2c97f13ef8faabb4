package restclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
)

type postDto struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// testClient builds a client pointed at the httptest server with the given
// base path and credentials.
func testClient(t *testing.T, srv *httptest.Server, basePath, user, password string) *Client {
	t.Helper()

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse test server url: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("parse test server port: %v", err)
	}

	client, err := NewBuilder().
		Scheme(SchemeHTTP).
		Host(u.Hostname()).
		Port(port).
		BasePath(basePath).
		BasicAuth(user, password).
		Build()
	if err != nil {
		t.Fatalf("build client: %v", err)
	}
	return client
}

func TestGetJSONDecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/posts/1" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"id":"1","title":"hello"}`))
	}))
	defer srv.Close()

	client := testClient(t, srv, "/posts", "", "")

	var dto postDto
	if err := client.GetJSON(context.Background(), "/1", nil, &dto); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if dto.ID != "1" {
		t.Fatalf("expected id \"1\", got %q", dto.ID)
	}
	if dto.Title != "hello" {
		t.Fatalf("expected title \"hello\", got %q", dto.Title)
	}
}

func TestGenericGetDecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"id":"7"}`))
	}))
	defer srv.Close()

	client := testClient(t, srv, "", "", "")

	dto, err := Get[postDto](context.Background(), client, "/posts/7", nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if dto.ID != "7" {
		t.Fatalf("expected id \"7\", got %q", dto.ID)
	}
}

func TestPostJSONUsesPostMethod(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", r.Method)
		}
		w.Write([]byte(`{"id":"2"}`))
	}))
	defer srv.Close()

	client := testClient(t, srv, "", "", "")

	var dto postDto
	if err := client.PostJSON(context.Background(), "/posts", nil, &dto); err != nil {
		t.Fatalf("PostJSON: %v", err)
	}
	if dto.ID != "2" {
		t.Fatalf("expected id \"2\", got %q", dto.ID)
	}
}

func TestQueryParamsRendered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q.Get("a"); got != "1" {
			t.Fatalf("expected a=1, got a=%q", got)
		}
		if got := q.Get("b"); got != "2" {
			t.Fatalf("expected b=2, got b=%q", got)
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := testClient(t, srv, "", "", "")

	var dto struct{}
	err := client.GetJSON(context.Background(), "/search", map[string]string{"a": "1", "b": "2"}, &dto)
	if err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
}

func TestWildcardMediaTypeHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "*/*" {
			t.Fatalf("expected Accept */*, got %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "*/*" {
			t.Fatalf("expected Content-Type */*, got %q", got)
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := testClient(t, srv, "", "", "")

	var dto struct{}
	if err := client.GetJSON(context.Background(), "/", nil, &dto); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
}

func TestBasicAuthHeaderWhenConfigured(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, password, ok := r.BasicAuth()
		if !ok {
			t.Fatalf("expected Authorization header")
		}
		if user != "alice" || password != "s3cret" {
			t.Fatalf("unexpected credentials %s:%s", user, password)
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := testClient(t, srv, "", "alice", "s3cret")

	var dto struct{}
	if err := client.GetJSON(context.Background(), "/", nil, &dto); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
}

func TestNoAuthHeaderWithPartialCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "" {
			t.Fatalf("expected no Authorization header, got %q", got)
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	// User without password must not produce a header.
	client := testClient(t, srv, "", "alice", "")

	var dto struct{}
	if err := client.GetJSON(context.Background(), "/", nil, &dto); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
}

func TestStatusErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		target *ResponseError
		kind   ErrorKind
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, target: ErrUnauthorized, kind: KindUnauthorized},
		{name: "not found", status: http.StatusNotFound, target: ErrNotFound, kind: KindNotFound},
		{name: "server error", status: http.StatusInternalServerError, target: ErrUnknown, kind: KindUnknown},
		{name: "bad request", status: http.StatusBadRequest, target: ErrUnknown, kind: KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			client := testClient(t, srv, "", "", "")

			var dto struct{}
			err := client.GetJSON(context.Background(), "/", nil, &dto)
			if err == nil {
				t.Fatalf("expected error for status %d", tc.status)
			}
			if !errors.Is(err, tc.target) {
				t.Fatalf("expected errors.Is match for kind %v, got %v", tc.kind, err)
			}
			var respErr *ResponseError
			if !errors.As(err, &respErr) {
				t.Fatalf("expected *ResponseError, got %T", err)
			}
			if respErr.StatusCode != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, respErr.StatusCode)
			}
		})
	}
}

func TestNonOKSuccessStatusStillDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"id":"9"}`))
	}))
	defer srv.Close()

	client := testClient(t, srv, "", "", "")

	var dto postDto
	if err := client.GetJSON(context.Background(), "/", nil, &dto); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
	if dto.ID != "9" {
		t.Fatalf("expected id \"9\", got %q", dto.ID)
	}
}

func TestMalformedBodyReturnsDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"id":`))
	}))
	defer srv.Close()

	client := testClient(t, srv, "", "", "")

	var dto postDto
	err := client.GetJSON(context.Background(), "/", nil, &dto)
	if err == nil {
		t.Fatalf("expected decode error")
	}
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
	if decodeErr.Unwrap() == nil {
		t.Fatalf("expected wrapped cause")
	}
}

func TestBasePathPrefixesEveryRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/posts/1" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := testClient(t, srv, "/api/v2", "", "")

	var dto struct{}
	if err := client.GetJSON(context.Background(), "/posts/1", nil, &dto); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}
}

func TestErrorMessageIncludesBodySnippet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("missing field"))
	}))
	defer srv.Close()

	client := testClient(t, srv, "", "", "")

	var dto struct{}
	err := client.GetJSON(context.Background(), "/", nil, &dto)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "missing field") {
		t.Fatalf("expected body snippet in error, got %q", err.Error())
	}
}
