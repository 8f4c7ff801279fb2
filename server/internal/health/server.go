package health

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
)

// NewServer returns a gRPC server with c's health service registered.
func NewServer(c *Checker, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.UnaryInterceptor(LoggingInterceptor())}, opts...)
	srv := grpc.NewServer(opts...)
	healthpb.RegisterHealthServer(srv, c.Server())
	return srv
}

// LoggingInterceptor returns a UnaryServerInterceptor that logs every call
// with its method, status code, duration, request size and the caller's user
// agent.
func LoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		var ua string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get("user-agent"); len(vals) > 0 {
				ua = vals[0]
			}
		}

		level := slog.LevelDebug
		if err != nil {
			level = slog.LevelWarn
		}
		attrs := []any{
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
			"user_agent", ua,
		}
		if m, ok := req.(proto.Message); ok {
			attrs = append(attrs, "req_bytes", proto.Size(m))
		}
		slog.Log(ctx, level, "grpc: call", attrs...)
		return resp, err
	}
}
