package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/metadata"
)

// JSONCodecName is the gRPC content-subtype used for every backend call. Payloads are plain
// JSON documents carried over gRPC framing (application/grpc+json).
const JSONCodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return JSONCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type RPCClient struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

func NewRPCClient(address string, timeout time.Duration, opts ...grpc.DialOption) (*RPCClient, error) {
	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(JSONCodecName)),
	}, opts...)

	conn, err := grpc.NewClient(address, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC client for %s: %w", address, err)
	}
	return &RPCClient{conn: conn, timeout: timeout}, nil
}

// Invoke calls a unary method ("/package.Service/Method"), forwarding the caller's access
// token from ctx as authorization metadata.
func (c *RPCClient) Invoke(ctx context.Context, method string, req, resp any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if token := AuthTokenFromContext(ctx); token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
	}
	return c.conn.Invoke(ctx, method, req, resp)
}

func (c *RPCClient) Close() error {
	return c.conn.Close()
}

type authTokenKey struct{}

func WithAuthToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, authTokenKey{}, token)
}

func AuthTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(authTokenKey{}).(string)
	return token
}
