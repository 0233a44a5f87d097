package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/macrotrack/internal/auth"
)

type testCodec struct{}

func (testCodec) Name() string                       { return "json" }
func (testCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (testCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type whoAmI struct {
	UserID string `json:"userId"`
}

const procedure = "/test.v1.EchoService/WhoAmI"

func setup(t *testing.T) (*auth.JWTManager, *Metrics, *connect.Client[whoAmI, whoAmI]) {
	t.Helper()

	jwtManager := auth.NewJWTManager("test-secret", 0)
	metrics := NewMetrics(prometheus.NewRegistry())

	handler := connect.NewUnaryHandler(procedure,
		func(ctx context.Context, req *connect.Request[whoAmI]) (*connect.Response[whoAmI], error) {
			return connect.NewResponse(&whoAmI{UserID: GetUserID(ctx)}), nil
		},
		connect.WithCodec(testCodec{}),
		connect.WithInterceptors(metrics.Interceptor(), LoggingInterceptor(), RequireAuth(jwtManager)),
	)

	mux := http.NewServeMux()
	mux.Handle(procedure, handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := connect.NewClient[whoAmI, whoAmI](srv.Client(), srv.URL+procedure, connect.WithCodec(testCodec{}))
	return jwtManager, metrics, client
}

func call(client *connect.Client[whoAmI, whoAmI], authorization string) (*connect.Response[whoAmI], error) {
	req := connect.NewRequest(&whoAmI{})
	if authorization != "" {
		req.Header().Set("Authorization", authorization)
	}
	return client.CallUnary(context.Background(), req)
}

func TestRequireAuth(t *testing.T) {
	jwtManager, _, client := setup(t)

	token, err := jwtManager.Generate("alice", "", time.Hour)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	resp, err := call(client, "Bearer "+token)
	if err != nil {
		t.Fatalf("authenticated call failed: %v", err)
	}
	if resp.Msg.UserID != "alice" {
		t.Errorf("user id in context = %q, want alice", resp.Msg.UserID)
	}

	for name, header := range map[string]string{
		"missing":      "",
		"wrong scheme": "Basic " + token,
		"bad token":    "Bearer nope",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := call(client, header)
			if connect.CodeOf(err) != connect.CodeUnauthenticated {
				t.Errorf("expected unauthenticated, got %v", err)
			}
		})
	}
}

func TestMetricsInterceptor(t *testing.T) {
	jwtManager, metrics, client := setup(t)

	token, err := jwtManager.Generate("alice", "", time.Hour)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for range 2 {
		if _, err := call(client, "Bearer "+token); err != nil {
			t.Fatalf("call failed: %v", err)
		}
	}
	if _, err := call(client, ""); err == nil {
		t.Fatal("expected unauthenticated call to fail")
	}

	if got := testutil.ToFloat64(metrics.requests.WithLabelValues(procedure, "ok")); got != 2 {
		t.Errorf("ok count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.requests.WithLabelValues(procedure, "unauthenticated")); got != 1 {
		t.Errorf("unauthenticated count = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(metrics.latency); got != 1 {
		t.Errorf("latency series = %d, want 1", got)
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{"Bearer abc", "abc", nil},
		{"bearer  abc ", "abc", nil},
		{"", "", auth.ErrMissingToken},
		{"Bearer", "", auth.ErrInvalidToken},
		{"Token abc", "", auth.ErrInvalidToken},
	}

	for _, tt := range tests {
		got, err := bearerToken(tt.header)
		if !errors.Is(err, tt.wantErr) || got != tt.want {
			t.Errorf("bearerToken(%q) = %q, %v; want %q, %v", tt.header, got, err, tt.want, tt.wantErr)
		}
	}
}
