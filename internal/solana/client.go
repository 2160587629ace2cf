package solana

import (
	"context"
	"time"

	"go.uber.org/zap"

	"spl-token-creator/internal/observability"
)

// Client combines HTTP RPC with optional WebSocket confirmation.
// Without a WebSocket client confirmation falls back to status polling.
type Client struct {
	*HTTPClient
	ws     WSClient
	logger *zap.Logger
}

var _ Chain = (*Client)(nil)

// NewClient creates a Client. ws may be nil.
func NewClient(rpc *HTTPClient, ws WSClient, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{HTTPClient: rpc, ws: ws, logger: logger.Named("chain")}
}

// ConfirmTransaction waits for a signature notification while polling
// statuses and block height so an expired blockhash is still detected.
func (c *Client) ConfirmTransaction(ctx context.Context, signature string, bh Blockhash) error {
	start := time.Now()
	defer func() {
		observability.RecordConfirmation(time.Since(start).Seconds())
	}()

	var notifications <-chan SignatureNotification
	if c.ws != nil {
		ch, err := c.ws.SubscribeSignature(ctx, signature)
		if err != nil {
			c.logger.Warn("signature subscribe failed, polling instead",
				zap.String("signature", signature), zap.Error(err))
		} else {
			notifications = ch
		}
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n, ok := <-notifications:
			if !ok {
				notifications = nil
				continue
			}
			if n.Err != nil {
				txErr := &TransactionError{Signature: signature, Err: n.Err}
				if logs, err := c.GetTransactionLogs(ctx, signature); err == nil {
					txErr.Logs = logs
				}
				return txErr
			}
			return nil
		case <-ticker.C:
			done, err := c.checkConfirmation(ctx, signature, bh)
			if done {
				return err
			}
			if err != nil {
				c.logger.Debug("confirmation check failed", zap.String("signature", signature), zap.Error(err))
			}
		}
	}
}

// Close releases the WebSocket connection, if any.
func (c *Client) Close() error {
	if c.ws == nil {
		return nil
	}
	return c.ws.Close()
}
