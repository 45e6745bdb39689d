package service

import (
	"bytes"
	"context"
	"log"
	"net"
	"strings"
	"testing"

	"github.com/ddfreyne/clarke/internal/config"
	"github.com/dustin/go-humanize"
	"github.com/google/go-cmp/cmp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func startServer(t *testing.T, cfg *config.Config) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := NewGRPCServer(NewServer(cfg))
	go gs.Serve(lis)
	t.Cleanup(gs.Stop)

	client, err := NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestEval(t *testing.T) {
	client := startServer(t, nil)

	tests := []struct {
		name  string
		input string
		want  *Result
	}{
		{
			"value and output",
			"print(\"hi\")\n2 + 3 * 4",
			&Result{Output: "hi\n", Value: "14", Type: "int"},
		},
		{
			"empty program",
			"",
			&Result{Value: "null", Type: "void"},
		},
		{
			"static error",
			"1 + \"a\"",
			&Result{
				Error: "line 1: left-hand side and right-hand side have distinct types (\"int\" and \"string\", respectively)\n\n1 + \"a\"\n~~~~~~~",
				Code:  "BinOpTypeMismatch",
			},
		},
		{
			"runtime error keeps output",
			"print(1)\n1 / 0",
			&Result{Output: "1\n", Error: "line 2: division by zero\n\n1 / 0\n~~~~~", Code: "ArithmeticError"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.Eval(context.Background(), tt.input)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Eval mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheckDoesNotRun(t *testing.T) {
	client := startServer(t, nil)

	got, err := client.Check(context.Background(), "print(\"side effect\")\nlet x = 1 == 1")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(&Result{Type: "bool"}, got); diff != "" {
		t.Errorf("Check mismatch (-want +got):\n%s", diff)
	}
}

func TestRequestsAreIsolated(t *testing.T) {
	client := startServer(t, nil)

	if _, err := client.Eval(context.Background(), "let shared = 1"); err != nil {
		t.Fatal(err)
	}
	got, err := client.Eval(context.Background(), "shared")
	if err != nil {
		t.Fatal(err)
	}
	if got.Code != "NameError" {
		t.Errorf("second request saw the first one's binding: %+v", got)
	}
}

func TestRecursionLimitFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.MaxCallDepth = 20
	client := startServer(t, cfg)

	got, err := client.Eval(context.Background(), "fun f(n: int): int { f(n + 1) }\nf(0)")
	if err != nil {
		t.Fatal(err)
	}
	if got.Code != "RecursionError" || !strings.Contains(got.Error, "maximum call depth (20) exceeded") {
		t.Errorf("got %+v", got)
	}
}

func TestCancelledRequest(t *testing.T) {
	client := startServer(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Eval(ctx, "1")
	if status.Code(err) != codes.Canceled {
		t.Errorf("err = %v, want Canceled", err)
	}
}

func TestLoggingInterceptor(t *testing.T) {
	var buf bytes.Buffer
	intercept := LoggingInterceptor(log.New(&buf, "", 0))
	info := &grpc.UnaryServerInfo{FullMethod: evalMethod}
	req := wrapperspb.String("print(1)")
	resp, err := structpb.NewStruct(map[string]interface{}{FieldOutput: "1\n", FieldCode: ""})
	if err != nil {
		t.Fatal(err)
	}

	_, err = intercept(context.Background(), req, info, func(context.Context, interface{}) (interface{}, error) {
		return resp, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	line := buf.String()
	for _, want := range []string{
		evalMethod,
		"in=" + humanize.Bytes(uint64(proto.Size(req))),
		"out=" + humanize.Bytes(uint64(proto.Size(resp))),
		"status=OK",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q lacks %q", line, want)
		}
	}
}

func TestLoggingInterceptorRecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	intercept := LoggingInterceptor(log.New(&buf, "", 0))
	info := &grpc.UnaryServerInfo{FullMethod: checkMethod}

	_, err := intercept(context.Background(), wrapperspb.String(""), info, func(context.Context, interface{}) (interface{}, error) {
		panic("boom")
	})
	if status.Code(err) != codes.Internal {
		t.Errorf("code = %s, want Internal", status.Code(err))
	}
	if !strings.Contains(buf.String(), "out=- status=Internal") {
		t.Errorf("log line %q", buf.String())
	}
}
