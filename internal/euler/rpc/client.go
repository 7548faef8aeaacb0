package rpc

import (
	"context"

	"google.golang.org/grpc"

	coreGrpc "github.com/msto63/euler/pkg/core/grpc"
)

// Client is a connected calculator client that returns coded errors
type Client struct {
	conn *grpc.ClientConn
	api  *CalculatorClient
}

// Dial connects to a calculator server at target (host:port)
func Dial(target string) (*Client, error) {
	conn, err := coreGrpc.DialSimple(target)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, api: NewCalculatorClient(conn)}, nil
}

// Calculate evaluates expr remotely. An empty angleMode uses the server's mode.
func (c *Client) Calculate(ctx context.Context, expr, angleMode string) (*CalculateResponse, error) {
	resp, err := c.api.Calculate(ctx, &CalculateRequest{Expression: expr, AngleMode: angleMode})
	return resp, coreGrpc.FromStatus(err)
}

// History lists up to limit remote entries, 0 for all
func (c *Client) History(ctx context.Context, limit int) (*HistoryResponse, error) {
	resp, err := c.api.History(ctx, &HistoryRequest{Limit: limit})
	return resp, coreGrpc.FromStatus(err)
}

// ClearHistory clears the remote history
func (c *Client) ClearHistory(ctx context.Context) (int, error) {
	resp, err := c.api.ClearHistory(ctx, &ClearHistoryRequest{})
	if err != nil {
		return 0, coreGrpc.FromStatus(err)
	}
	return resp.Removed, nil
}

// Rerun re-evaluates the n-th newest remote entry
func (c *Client) Rerun(ctx context.Context, n int) (*CalculateResponse, error) {
	resp, err := c.api.Rerun(ctx, &RerunRequest{Index: n})
	return resp, coreGrpc.FromStatus(err)
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}
