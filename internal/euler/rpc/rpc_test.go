package rpc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	eulererr "github.com/msto63/euler/foundation/core/error"
	"github.com/msto63/euler/internal/euler/classifier"
	"github.com/msto63/euler/internal/euler/rewriter"
	"github.com/msto63/euler/internal/euler/service"
	"github.com/msto63/euler/internal/euler/store"
)

func startServer(t *testing.T) (*Server, *Client) {
	t.Helper()
	session := service.NewSession(nil, store.NewMemoryStore(50), rewriter.Degrees)
	srv, err := New(Config{Host: "127.0.0.1", Port: 0}, session)
	require.NoError(t, err)
	require.NoError(t, srv.StartAsync())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Stop(ctx)
	})

	client, err := Dial(srv.Address())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return srv, client
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestNew_RequiresSession(t *testing.T) {
	_, err := New(DefaultConfig(), nil)
	assert.True(t, eulererr.HasCode(err, eulererr.CodeMissingConfig))
}

func TestCalculate(t *testing.T) {
	_, client := startServer(t)
	ctx := testContext(t)

	tests := []struct {
		expr      string
		angleMode string
		wantOK    bool
		want      string
		wantMode  rewriter.AngleMode
		domain    classifier.Domain
	}{
		{"2 + 3 * 4", "", true, "14", rewriter.Degrees, classifier.Math},
		{"sin(30)", "", true, "0.5", rewriter.Degrees, classifier.Math},
		{"cos(0)", "rad", true, "1", rewriter.Radians, classifier.Math},
		{"2x + 3 = 7", "", true, "x = 2", rewriter.Degrees, classifier.Algebra},
		{"area circle r=5", "", true, "78.5398163397 square units", rewriter.Degrees, classifier.Geometry},
		{"1/0", "", false, "", rewriter.Degrees, classifier.Math},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			resp, err := client.Calculate(ctx, tt.expr, tt.angleMode)
			require.NoError(t, err)
			assert.Equal(t, tt.expr, resp.Expression)
			assert.Equal(t, tt.wantOK, resp.OK)
			assert.Equal(t, tt.want, resp.Result.Result)
			assert.Equal(t, tt.wantMode, resp.AngleMode)
			assert.Equal(t, tt.domain, resp.Domain)
			if !tt.wantOK {
				assert.Equal(t, eulererr.CodeInvalidExpression, resp.ErrorKind)
				assert.Equal(t, "Invalid expression", resp.Message)
			}
		})
	}
}

func TestCalculate_InvalidRequests(t *testing.T) {
	_, client := startServer(t)
	ctx := testContext(t)

	_, err := client.Calculate(ctx, "  ", "")
	assert.True(t, eulererr.HasCode(err, eulererr.CodeInvalidInput), "err = %v", err)

	_, err = client.Calculate(ctx, "1+1", "gradians")
	assert.True(t, eulererr.HasCode(err, eulererr.CodeInvalidInput), "err = %v", err)
}

func TestHistoryAndRerun(t *testing.T) {
	_, client := startServer(t)
	ctx := testContext(t)

	for _, expr := range []string{"1+1", "1/0", "sqrt(9)"} {
		_, err := client.Calculate(ctx, expr, "")
		require.NoError(t, err)
	}

	hist, err := client.History(ctx, 0)
	require.NoError(t, err)
	require.Equal(t, 2, hist.Count)
	assert.Equal(t, "sqrt(9)", hist.Entries[0].Expression)
	assert.Equal(t, "3", hist.Entries[0].Result)
	assert.Equal(t, rewriter.Degrees, hist.Entries[0].AngleMode)

	hist, err = client.History(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, hist.Entries, 1)

	_, err = client.History(ctx, -1)
	assert.True(t, eulererr.HasCode(err, eulererr.CodeInvalidInput))

	resp, err := client.Rerun(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "1+1", resp.Expression)
	assert.Equal(t, "2", resp.Result.Result)

	_, err = client.Rerun(ctx, 10)
	assert.True(t, eulererr.HasCode(err, eulererr.CodeNotFound), "err = %v", err)

	removed, err := client.ClearHistory(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	hist, err = client.History(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, hist.Count)
}

func TestHealthService(t *testing.T) {
	srv, client := startServer(t)
	ctx := testContext(t)

	health := healthpb.NewHealthClient(client.conn)
	for _, name := range []string{"", ServiceName} {
		resp, err := health.Check(ctx, &healthpb.HealthCheckRequest{Service: name}, grpc.CallContentSubtype("proto"))
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Stop(stopCtx)

	_, err := client.Calculate(ctx, "1+1", "")
	assert.Error(t, err)
}
