// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

// Package rawstream is the integration seam for the five upstream protocols
// whose wire schemas spec.md §1 explicitly puts out of scope (Arpc, Thor,
// Shredstream, Shreder, Jetstream): it dials a real gRPC connection and
// opens a real server-streaming RPC, so "connection failure is fatal"
// (spec.md §4.1) is load-bearing, while leaving frame decoding to a
// protocol-specific callback supplied by each provider/*.go file. A raw byte
// codec stands in for each protocol's generated protobuf stubs, which this
// module does not vendor.
package rawstream

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/metadata"

	"github.com/corvus-labs/geyserbench/provider"
)

// rawCodec passes []byte through unmodified, standing in for a protocol's
// generated protobuf marshal/unmarshal pair. Frame decoding is done above
// this layer by the caller-supplied Decode function.
type rawCodec struct{}

func (rawCodec) Marshal(v interface{}) ([]byte, error) {
	b, _ := v.(*[]byte)
	return *b, nil
}

func (rawCodec) Unmarshal(data []byte, v interface{}) error {
	b, _ := v.(*[]byte)
	*b = append((*b)[:0], data...)
	return nil
}

func (rawCodec) Name() string { return "geyserbench-raw" }

func init() {
	encoding.RegisterCodec(rawCodec{})
}

// Transport is the generic Dial/Subscribe/Close seam each out-of-scope
// protocol provider builds on (SPEC_FULL.md §4.1).
type Transport struct {
	conn *grpc.ClientConn
}

// Close releases the underlying gRPC connection.
func (t *Transport) Close() error {
	return t.conn.Close()
}

// Subscribe opens a server-streaming RPC on this connection. See the
// package-level Subscribe for the decode contract.
func (t *Transport) Subscribe(ctx context.Context, fullMethod string, reqBytes []byte, decode func([]byte) (provider.Frame, error)) (<-chan provider.Frame, <-chan error) {
	return Subscribe(ctx, t.conn, fullMethod, reqBytes, decode)
}

// DialTransport opens a real gRPC connection and wraps it as a Transport.
func DialTransport(ctx context.Context, url, xToken string) (*Transport, error) {
	conn, err := Dial(ctx, url, xToken)
	if err != nil {
		return nil, err
	}
	return &Transport{conn: conn}, nil
}

// Dial opens a gRPC client connection to url. TLS is used automatically for
// https:// targets; xToken, if non-empty, is attached as the "x-token"
// metadata key on every call, the same header Yellowstone-style feeds use
// for authentication.
func Dial(ctx context.Context, url, xToken string) (*grpc.ClientConn, error) {
	target := strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "http://")

	var transportCreds grpc.DialOption
	if strings.HasPrefix(url, "https://") {
		transportCreds = grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{}))
	} else {
		transportCreds = grpc.WithInsecure()
	}

	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return grpc.DialContext(dialCtx, target,
		transportCreds,
		grpc.WithBlock(),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(rawCodec{})),
		grpc.WithPerRPCCredentials(tokenCreds{token: xToken}),
	)
}

// tokenCreds attaches the x-token header, when set, to every RPC.
type tokenCreds struct {
	token string
}

func (t tokenCreds) GetRequestMetadata(ctx context.Context, uri ...string) (map[string]string, error) {
	if t.token == "" {
		return nil, nil
	}
	return map[string]string{"x-token": t.token}, nil
}

func (t tokenCreds) RequireTransportSecurity() bool { return false }

// Subscribe opens a server-streaming RPC at fullMethod, sends reqBytes as
// the single request message, and returns a channel of decoded frames. The
// channel is closed when the stream ends (EOF) or ctx is cancelled;
// decode errors are logged by the caller via the returned error channel and
// do not stop the stream.
func Subscribe(ctx context.Context, conn *grpc.ClientConn, fullMethod string, reqBytes []byte, decode func([]byte) (provider.Frame, error)) (<-chan provider.Frame, <-chan error) {
	frames := make(chan provider.Frame, 256)
	errs := make(chan error, 1)

	go func() {
		defer close(frames)

		md := metadata.Pairs()
		streamCtx := metadata.NewOutgoingContext(ctx, md)

		stream, err := conn.NewStream(streamCtx, &grpc.StreamDesc{ServerStreams: true}, fullMethod)
		if err != nil {
			errs <- err
			return
		}
		if err := stream.SendMsg(&reqBytes); err != nil {
			errs <- err
			return
		}
		if err := stream.CloseSend(); err != nil {
			errs <- err
			return
		}

		for {
			var buf []byte
			if err := stream.RecvMsg(&buf); err != nil {
				if err.Error() != "EOF" {
					errs <- err
				}
				return
			}
			frame, err := decode(buf)
			if err != nil {
				select {
				case errs <- err:
				default:
				}
				continue
			}
			select {
			case frames <- frame:
			case <-ctx.Done():
				return
			}
		}
	}()

	return frames, errs
}
