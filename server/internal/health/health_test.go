package health_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/responder/responder/server/internal/health"
	"github.com/responder/responder/server/internal/store"
)

// toggleProber fails while broken is set.
type toggleProber struct{ broken atomic.Bool }

func (p *toggleProber) Probe() error {
	if p.broken.Load() {
		return errors.New("document unreadable")
	}
	return nil
}

// startServer serves c over a random local port and returns a health client.
func startServer(t *testing.T, c *health.Checker) healthpb.HealthClient {
	t.Helper()

	srv := health.NewServer(c)
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go srv.Serve(lis) //nolint:errcheck
	t.Cleanup(srv.Stop)

	conn, err := grpc.Dial(lis.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	) //nolint:staticcheck
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return healthpb.NewHealthClient(conn)
}

func check(t *testing.T, client healthpb.HealthClient, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("Check(%q): %v", service, err)
	}
	return resp.GetStatus()
}

func TestChecker_StartsNotServing(t *testing.T) {
	client := startServer(t, health.NewChecker(&toggleProber{}, time.Hour))
	for _, svc := range []string{"", health.ServiceName} {
		if got := check(t, client, svc); got != healthpb.HealthCheckResponse_NOT_SERVING {
			t.Errorf("%q before first probe: got %v, want NOT_SERVING", svc, got)
		}
	}
}

func TestChecker_FollowsProbe(t *testing.T) {
	p := &toggleProber{}
	c := health.NewChecker(p, time.Hour)
	client := startServer(t, c)

	if got := c.Check(); got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("Check: got %v, want SERVING", got)
	}
	for _, svc := range []string{"", health.ServiceName} {
		if got := check(t, client, svc); got != healthpb.HealthCheckResponse_SERVING {
			t.Errorf("%q: got %v, want SERVING", svc, got)
		}
	}

	p.broken.Store(true)
	c.Check()
	if got := check(t, client, health.ServiceName); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("after failure: got %v, want NOT_SERVING", got)
	}
}

func TestChecker_UnknownService_NotFound(t *testing.T) {
	client := startServer(t, health.NewChecker(&toggleProber{}, time.Hour))
	_, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "other"})
	if code := status.Code(err); code != codes.NotFound {
		t.Errorf("code: got %v, want NotFound", code)
	}
}

func TestChecker_RunProbesOnInterval(t *testing.T) {
	p := &toggleProber{}
	c := health.NewChecker(p, 10*time.Millisecond)
	client := startServer(t, c)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	waitStatus(t, client, healthpb.HealthCheckResponse_SERVING)
	p.broken.Store(true)
	waitStatus(t, client, healthpb.HealthCheckResponse_NOT_SERVING)
	p.broken.Store(false)
	waitStatus(t, client, healthpb.HealthCheckResponse_SERVING)

	cancel()
	<-done
	if got := check(t, client, health.ServiceName); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("after Run returned: got %v, want NOT_SERVING", got)
	}
}

func waitStatus(t *testing.T, client healthpb.HealthClient, want healthpb.HealthCheckResponse_ServingStatus) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for check(t, client, health.ServiceName) != want {
		if time.Now().After(deadline) {
			t.Fatalf("status never became %v", want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestChecker_WithFileStore(t *testing.T) {
	p := filepath.Join(t.TempDir(), "questions.json")
	c := health.NewChecker(store.NewFile(p), time.Hour)

	// Missing file is healthy.
	if got := c.Check(); got != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("missing file: got %v, want SERVING", got)
	}

	if err := os.WriteFile(p, []byte("not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := c.Check(); got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("malformed file: got %v, want NOT_SERVING", got)
	}
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	i := health.LoggingInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

	req := &healthpb.HealthCheckRequest{Service: health.ServiceName}
	res, err := i(context.Background(), req, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	})
	if err != nil || res != "ok" {
		t.Errorf("got (%v, %v), want (ok, nil)", res, err)
	}

	want := status.Error(codes.Unavailable, "down")
	_, err = i(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, want
	})
	if status.Code(err) != codes.Unavailable {
		t.Errorf("error: got %v, want Unavailable", err)
	}
}

func TestLoggingInterceptor_LogsCall(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	req := &healthpb.HealthCheckRequest{Service: health.ServiceName}
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	_, _ = health.LoggingInterceptor()(context.Background(), req, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.NotFound, "unknown service")
	})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if entry["level"] != "WARN" {
		t.Errorf("level: got %v, want WARN", entry["level"])
	}
	if entry["method"] != info.FullMethod || entry["code"] != "NotFound" {
		t.Errorf("method/code: got %v/%v", entry["method"], entry["code"])
	}
	if n, ok := entry["req_bytes"].(float64); !ok || n <= 0 {
		t.Errorf("req_bytes: got %v, want a positive size", entry["req_bytes"])
	}
}
