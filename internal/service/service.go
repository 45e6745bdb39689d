// Package service exposes the pipeline as the gRPC service
// clarke.Evaluator. The service is described by hand with well-known
// protobuf types, so no generated code is needed.
package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ddfreyne/clarke/internal/analyzer"
	"github.com/ddfreyne/clarke/internal/backend"
	"github.com/ddfreyne/clarke/internal/config"
	"github.com/ddfreyne/clarke/internal/lexer"
	"github.com/ddfreyne/clarke/internal/logutil"
	"github.com/ddfreyne/clarke/internal/parser"
	"github.com/ddfreyne/clarke/internal/pipeline"
	"github.com/dustin/go-humanize"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "clarke.Evaluator"

const (
	evalMethod  = "/" + ServiceName + "/Eval"
	checkMethod = "/" + ServiceName + "/Check"
)

// Response field names.
const (
	FieldOutput = "output"
	FieldValue  = "value"
	FieldType   = "type"
	FieldError  = "error"
	FieldCode   = "code"
)

// EvaluatorServer is the server API for clarke.Evaluator.
type EvaluatorServer interface {
	// Eval runs a program and reports what it printed and its value.
	Eval(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	// Check analyzes a program without running it.
	Check(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EvaluatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Eval", Handler: unaryHandler(evalMethod, EvaluatorServer.Eval)},
		{MethodName: "Check", Handler: unaryHandler(checkMethod, EvaluatorServer.Check)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "clarke/evaluator.proto",
}

type unaryMethod func(EvaluatorServer, context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)

func unaryHandler(fullMethod string, m unaryMethod) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(wrapperspb.StringValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return m(srv.(EvaluatorServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return m(srv.(EvaluatorServer), ctx, req.(*wrapperspb.StringValue))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// RegisterEvaluatorServer registers srv on s.
func RegisterEvaluatorServer(s grpc.ServiceRegistrar, srv EvaluatorServer) {
	s.RegisterService(&serviceDesc, srv)
}

// Server implements EvaluatorServer. Every request gets a fresh prelude
// and environment, so requests share no program state.
type Server struct {
	cfg *config.Config
}

func NewServer(cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Server{cfg: cfg}
}

// NewGRPCServer returns a gRPC server with s registered and every call
// logged.
func NewGRPCServer(s *Server, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(LoggingInterceptor(logutil.GetLogger("[service] "))))
	gs := grpc.NewServer(opts...)
	RegisterEvaluatorServer(gs, s)
	return gs
}

func (s *Server) Eval(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	return s.run(ctx, req.GetValue(), true)
}

func (s *Server) Check(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	return s.run(ctx, req.GetValue(), false)
}

func (s *Server) run(ctx context.Context, source string, execute bool) (*structpb.Struct, error) {
	var out bytes.Buffer
	pctx := pipeline.NewPipelineContext(source)
	pctx.Config = s.cfg
	pctx.Output = &out

	stages := []pipeline.Processor{
		&lexer.LexerProcessor{},
		&parser.ParserProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
	}
	if execute {
		exec := backend.NewExecutionProcessor(backend.NewTreeWalk())
		exec.Context = ctx
		stages = append(stages, exec)
	}
	pctx = pipeline.New(stages...).Run(pctx)

	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}

	fields := map[string]interface{}{
		FieldOutput: out.String(),
		FieldType:   resultType(pctx),
	}
	if pctx.Result != nil {
		fields[FieldValue] = pctx.Result.Inspect()
	}
	if pctx.Failed() {
		var msgs []string
		for _, e := range pctx.Errors {
			msgs = append(msgs, e.Render(source, false))
		}
		fields[FieldError] = strings.Join(msgs, "\n")
		fields[FieldCode] = string(pctx.Errors[0].Code)
		delete(fields, FieldType)
	}
	return structpb.NewStruct(fields)
}

// resultType is the static type of the program's last statement.
func resultType(pctx *pipeline.PipelineContext) string {
	if pctx.AstRoot == nil {
		return ""
	}
	stmts := pctx.AstRoot.Statements
	if len(stmts) == 0 {
		return config.VoidTypeName
	}
	if t := stmts[len(stmts)-1].Meta().Type; t != nil {
		return t.TypeName()
	}
	return ""
}

// LoggingInterceptor logs every call with its duration and status, and
// turns panics into Internal errors.
func LoggingInterceptor(logger *log.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				err = status.Error(codes.Internal, fmt.Sprint(r))
			}
			code := ""
			if s, ok := resp.(*structpb.Struct); ok {
				code = s.GetFields()[FieldCode].GetStringValue()
			}
			logger.Printf("%s %v in=%s out=%s status=%s diagnostic=%q", info.FullMethod, time.Since(start),
				messageSize(req), messageSize(resp), status.Code(err), code)
		}()
		return handler(ctx, req)
	}
}

// messageSize is the encoded size of m for logging, or "-" if m is not a
// protobuf message.
func messageSize(m interface{}) string {
	msg, ok := m.(proto.Message)
	if !ok || msg == nil {
		return "-"
	}
	return humanize.Bytes(uint64(proto.Size(msg)))
}
