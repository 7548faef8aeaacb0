// Package rpc exposes a calculator session over gRPC. Messages are plain Go
// structs carried by the JSON codec from pkg/core/grpc.
package rpc

import (
	"context"

	"google.golang.org/grpc"

	"github.com/msto63/euler/internal/euler/rewriter"
	"github.com/msto63/euler/internal/euler/service"
	"github.com/msto63/euler/internal/euler/store"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "euler.v1.Calculator"

const (
	CalculateMethod    = "/" + ServiceName + "/Calculate"
	HistoryMethod      = "/" + ServiceName + "/History"
	ClearHistoryMethod = "/" + ServiceName + "/ClearHistory"
	RerunMethod        = "/" + ServiceName + "/Rerun"
)

// CalculateRequest evaluates an expression, optionally in an explicit angle mode
type CalculateRequest struct {
	Expression string `json:"expression"`
	AngleMode  string `json:"angle_mode,omitempty"`
}

// CalculateResponse carries the result together with the effective angle mode
type CalculateResponse struct {
	Expression string             `json:"expression"`
	AngleMode  rewriter.AngleMode `json:"angle_mode"`
	service.Result
}

// HistoryRequest lists up to Limit entries, 0 for all
type HistoryRequest struct {
	Limit int `json:"limit,omitempty"`
}

// HistoryResponse lists history entries, newest first
type HistoryResponse struct {
	Entries []store.Entry `json:"entries"`
	Count   int           `json:"count"`
}

// ClearHistoryRequest clears the history
type ClearHistoryRequest struct{}

// ClearHistoryResponse reports how many entries were removed
type ClearHistoryResponse struct {
	Removed int `json:"removed"`
}

// RerunRequest re-evaluates the n-th newest entry (1-based)
type RerunRequest struct {
	Index int `json:"index"`
}

// CalculatorServer is the server API of the calculator service
type CalculatorServer interface {
	Calculate(context.Context, *CalculateRequest) (*CalculateResponse, error)
	History(context.Context, *HistoryRequest) (*HistoryResponse, error)
	ClearHistory(context.Context, *ClearHistoryRequest) (*ClearHistoryResponse, error)
	Rerun(context.Context, *RerunRequest) (*CalculateResponse, error)
}

// RegisterCalculatorServer registers srv with s
func RegisterCalculatorServer(s grpc.ServiceRegistrar, srv CalculatorServer) {
	s.RegisterService(&calculatorServiceDesc, srv)
}

var calculatorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CalculatorServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Calculate", Handler: unaryHandler(CalculateMethod, CalculatorServer.Calculate)},
		{MethodName: "History", Handler: unaryHandler(HistoryMethod, CalculatorServer.History)},
		{MethodName: "ClearHistory", Handler: unaryHandler(ClearHistoryMethod, CalculatorServer.ClearHistory)},
		{MethodName: "Rerun", Handler: unaryHandler(RerunMethod, CalculatorServer.Rerun)},
	},
	Streams: []grpc.StreamDesc{},
}

// unaryHandler adapts a typed server method to grpc.MethodHandler
func unaryHandler[Req, Resp any](fullMethod string, call func(CalculatorServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CalculatorServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(CalculatorServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// CalculatorClient is the client API of the calculator service
type CalculatorClient struct {
	cc grpc.ClientConnInterface
}

// NewCalculatorClient creates a client on cc
func NewCalculatorClient(cc grpc.ClientConnInterface) *CalculatorClient {
	return &CalculatorClient{cc: cc}
}

// Calculate evaluates an expression remotely
func (c *CalculatorClient) Calculate(ctx context.Context, in *CalculateRequest, opts ...grpc.CallOption) (*CalculateResponse, error) {
	out := new(CalculateResponse)
	if err := c.cc.Invoke(ctx, CalculateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// History lists remote history entries
func (c *CalculatorClient) History(ctx context.Context, in *HistoryRequest, opts ...grpc.CallOption) (*HistoryResponse, error) {
	out := new(HistoryResponse)
	if err := c.cc.Invoke(ctx, HistoryMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ClearHistory clears the remote history
func (c *CalculatorClient) ClearHistory(ctx context.Context, in *ClearHistoryRequest, opts ...grpc.CallOption) (*ClearHistoryResponse, error) {
	out := new(ClearHistoryResponse)
	if err := c.cc.Invoke(ctx, ClearHistoryMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Rerun re-evaluates a remote history entry
func (c *CalculatorClient) Rerun(ctx context.Context, in *RerunRequest, opts ...grpc.CallOption) (*CalculateResponse, error) {
	out := new(CalculateResponse)
	if err := c.cc.Invoke(ctx, RerunMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
