package service

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Result is a decoded clarke.Evaluator response. Error and Code are empty
// when the program succeeded.
type Result struct {
	Output string
	Value  string
	Type   string
	Error  string
	Code   string
}

// Client calls a remote clarke.Evaluator.
type Client struct {
	conn *grpc.ClientConn
}

// NewClient connects to target. Without options the connection is
// plaintext.
func NewClient(target string, opts ...grpc.DialOption) (*Client, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) Eval(ctx context.Context, source string) (*Result, error) {
	return c.call(ctx, evalMethod, source)
}

func (c *Client) Check(ctx context.Context, source string) (*Result, error) {
	return c.call(ctx, checkMethod, source)
}

func (c *Client) call(ctx context.Context, method, source string) (*Result, error) {
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, wrapperspb.String(source), out); err != nil {
		return nil, err
	}
	f := out.GetFields()
	return &Result{
		Output: f[FieldOutput].GetStringValue(),
		Value:  f[FieldValue].GetStringValue(),
		Type:   f[FieldType].GetStringValue(),
		Error:  f[FieldError].GetStringValue(),
		Code:   f[FieldCode].GetStringValue(),
	}, nil
}
