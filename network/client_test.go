package network

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL + "/")
}

func TestListUsers(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		want      int
		wantErr   error
		statusErr bool
	}{
		{
			name:   "payload",
			status: http.StatusOK,
			body:   `{"message":"ok","data":[{"id":1,"name":"Ann","email":"a@x.com","age":30,"role":"user","created_at":"2024-01-01T00:00:00Z"}]}`,
			want:   1,
		},
		{
			name:   "empty list",
			status: http.StatusOK,
			body:   `{"message":"ok","data":[]}`,
			want:   0,
		},
		{
			name:    "no data",
			status:  http.StatusOK,
			body:    `{"message":"ok"}`,
			wantErr: ErrNoPayload,
		},
		{
			name:    "garbage body",
			status:  http.StatusOK,
			body:    `<html>`,
			wantErr: ErrTransport,
		},
		{
			name:      "server error",
			status:    http.StatusInternalServerError,
			body:      `{"message":"boom"}`,
			statusErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != PathUsers {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				if r.Header.Get(HeaderRequestID) == "" {
					t.Errorf("missing request id header")
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			users, err := c.ListUsers(context.Background())
			switch {
			case tt.statusErr:
				var se *StatusError
				if !errors.As(err, &se) {
					t.Fatalf("want StatusError, got %v", err)
				}
				if se.Code != tt.status || se.Message != "boom" {
					t.Fatalf("unexpected status error %+v", se)
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
			default:
				if err != nil {
					t.Fatalf("ListUsers: %v", err)
				}
				if len(users) != tt.want {
					t.Fatalf("want %d users, got %d", tt.want, len(users))
				}
			}
		})
	}
}

func TestListUsersTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url).ListUsers(context.Background())
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("want ErrTransport, got %v", err)
	}
	if IsStatus(err) {
		t.Fatalf("transport failure must not look like a status error")
	}
}

func TestCreateUser(t *testing.T) {
	var got CreateUserRequest
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != PathCreateUser {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"User created successfully","data":{"id":7,"name":"Bo","email":"b@x.com","age":41,"role":"guest","created_at":"2024-05-01T10:00:00.000Z"}}`))
	})

	age := 41
	u, err := c.CreateUser(context.Background(), CreateUserRequest{
		Name: "Bo", Email: "b@x.com", Age: &age, Role: RoleGuest, CreatedAt: "2024-05-01T10:00:00.000Z",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID != 7 || u.Role != RoleGuest {
		t.Fatalf("unexpected user %+v", u)
	}
	if got.Age == nil || *got.Age != 41 || got.Name != "Bo" {
		t.Fatalf("server saw %+v", got)
	}
}

func TestCreateUserNullAge(t *testing.T) {
	var raw map[string]any
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"User created successfully"}`))
	})

	_, err := c.CreateUser(context.Background(), CreateUserRequest{Name: "x", Role: RoleUser})
	if !errors.Is(err, ErrNoPayload) {
		t.Fatalf("want ErrNoPayload, got %v", err)
	}
	v, ok := raw["age"]
	if !ok || v != nil {
		t.Fatalf("age should be sent as null, got %#v", raw["age"])
	}
}

func TestGetUserAndHealth(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathUser:
			if r.URL.Query().Get("id") != "3" {
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte("User not found\n"))
				return
			}
			_, _ = w.Write([]byte(`{"message":"User found","data":{"id":3,"name":"Bob"}}`))
		case PathHealth:
			_, _ = w.Write([]byte(`{"message":"Server is running","data":{"timestamp":"now","version":"1.0.0"}}`))
		}
	})

	u, err := c.GetUser(context.Background(), 3)
	if err != nil || u.Name != "Bob" {
		t.Fatalf("GetUser: %+v %v", u, err)
	}

	_, err = c.GetUser(context.Background(), 4)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusNotFound || se.Message != "User not found" {
		t.Fatalf("want 404 StatusError, got %v", err)
	}

	h, err := c.Health(context.Background())
	if err != nil || h.Version != "1.0.0" {
		t.Fatalf("Health: %+v %v", h, err)
	}
}

func TestRoleHelpers(t *testing.T) {
	if !RoleModerator.Valid() || Role("root").Valid() || Role("").Valid() {
		t.Fatalf("Valid misclassified roles")
	}
	if RoleAdmin.Label() != "Admin" || Role("").Label() != "" {
		t.Fatalf("unexpected labels %q %q", RoleAdmin.Label(), Role("").Label())
	}
}

func TestTimeoutOptionLeavesSharedClient(t *testing.T) {
	for _, order := range []string{"timeout last", "timeout first"} {
		t.Run(order, func(t *testing.T) {
			shared := &http.Client{Timeout: time.Minute}
			opts := []ClientOption{WithHTTPClient(shared), WithTimeout(3 * time.Second)}
			if order == "timeout first" {
				opts[0], opts[1] = opts[1], opts[0]
			}
			c := NewClient("http://127.0.0.1:1", opts...)

			if shared.Timeout != time.Minute {
				t.Fatalf("caller's client was modified: %v", shared.Timeout)
			}
			if c.http.Timeout != 3*time.Second {
				t.Fatalf("timeout %v, want 3s", c.http.Timeout)
			}
		})
	}

	if c := NewClient("http://127.0.0.1:1"); c.http.Timeout != 10*time.Second {
		t.Fatalf("default timeout %v", c.http.Timeout)
	}
}
