package apilog

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
)

// Dial connects to an HTTP JSON-RPC endpoint with every request logged to sink.
func Dial(ctx context.Context, url string, sink Sink, logger *zap.Logger) (*ethclient.Client, error) {
	client, err := rpc.DialOptions(ctx, url, rpc.WithHTTPClient(NewHTTPClient("rpc", sink, logger)))
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	return ethclient.NewClient(client), nil
}
