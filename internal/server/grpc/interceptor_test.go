package grpc

import (
	"context"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/quickqr/internal/logging"
)

type recordingLogger struct {
	logging.NopLogger
	msgs []string
	args [][]any
}

func (r *recordingLogger) Debug(_ context.Context, msg string, args ...any) {
	r.msgs = append(r.msgs, msg)
	r.args = append(r.args, args)
}

func (r *recordingLogger) With(...any) logging.Logger { return r }

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	log := &recordingLogger{}
	s := NewGRPCServer("", log, nil)

	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		return "ok", nil
	}

	resp, err := s.loggingInterceptor(context.Background(), nil, info, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}
	if len(log.msgs) != 1 || log.msgs[0] != "rpc" {
		t.Fatalf("expected one rpc log line, got %v", log.msgs)
	}
	if log.args[0][1] != info.FullMethod || log.args[0][3] != codes.OK.String() {
		t.Fatalf("unexpected log args: %v", log.args[0])
	}
}

func TestLoggingInterceptor_KeepsError(t *testing.T) {
	log := &recordingLogger{}
	s := NewGRPCServer("", log, nil)

	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		return nil, status.Error(codes.NotFound, "unknown service")
	}

	_, err := s.loggingInterceptor(context.Background(), nil, info, h)
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected NotFound, got %v", status.Code(err))
	}
	if log.args[0][3] != codes.NotFound.String() {
		t.Fatalf("unexpected log args: %v", log.args[0])
	}
}
