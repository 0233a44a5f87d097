// Package apiconnect binds the macrotrack.v1 services to Connect handlers
// and clients.
package apiconnect

import (
	"context"
	"encoding/json"
	"net/http"

	"connectrpc.com/connect"
)

// Codec encodes messages as plain JSON. It replaces Connect's default "json"
// codec, which only accepts protobuf messages.
type Codec struct{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func unaryHandler[Req, Res any](
	procedure string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	opts ...connect.HandlerOption,
) http.Handler {
	return connect.NewUnaryHandler(procedure, fn, append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)...)
}

func newClient[Req, Res any](httpClient connect.HTTPClient, url string, opts ...connect.ClientOption) *connect.Client[Req, Res] {
	return connect.NewClient[Req, Res](httpClient, url, append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)...)
}
