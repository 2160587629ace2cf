package solana

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// signatureServer confirms each signatureSubscribe and immediately pushes a
// notification with notifErr.
func signatureServer(t *testing.T, subID int64, notifErr interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer c.Close()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				return
			}

			var req wsRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				t.Errorf("unmarshal request: %v", err)
				return
			}
			if req.Method != "signatureSubscribe" {
				t.Errorf("expected signatureSubscribe, got %s", req.Method)
			}

			c.WriteJSON(map[string]interface{}{
				"jsonrpc": "2.0",
				"id":      req.ID,
				"result":  subID,
			})
			c.WriteJSON(map[string]interface{}{
				"jsonrpc": "2.0",
				"method":  "signatureNotification",
				"params": map[string]interface{}{
					"subscription": subID,
					"result": map[string]interface{}{
						"context": map[string]interface{}{"slot": 100},
						"value":   map[string]interface{}{"err": notifErr},
					},
				},
			})
		}
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestWSClient_Connect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		// Keep connection open
		for {
			_, _, err := conn.ReadMessage()
			if err != nil {
				return
			}
		}
	}))
	defer server.Close()

	client, err := NewWSClient(context.Background(), wsURL(server), nil, nil)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	defer client.Close()

	if client.closed.Load() {
		t.Error("client should not be closed")
	}
}

func TestWSClient_SubscribeSignature(t *testing.T) {
	// Subscription ID 0 is valid and is what most nodes return first.
	server := signatureServer(t, 0, nil)
	defer server.Close()

	ctx := context.Background()
	client, err := NewWSClient(ctx, wsURL(server), nil, nil)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	defer client.Close()

	ch, err := client.SubscribeSignature(ctx, "sig1")
	if err != nil {
		t.Fatalf("SubscribeSignature: %v", err)
	}

	select {
	case notif, ok := <-ch:
		if !ok {
			t.Fatal("channel closed without notification")
		}
		if notif.Signature != "sig1" {
			t.Errorf("expected sig1, got %s", notif.Signature)
		}
		if notif.Slot != 100 {
			t.Errorf("expected slot 100, got %d", notif.Slot)
		}
		if notif.Err != nil {
			t.Errorf("expected no error, got %v", notif.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for notification")
	}

	// One-shot: channel is closed after the notification
	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
}

func TestWSClient_SubscribeSignature_Error(t *testing.T) {
	server := signatureServer(t, 7, map[string]interface{}{"InstructionError": []interface{}{0, "Custom"}})
	defer server.Close()

	ctx := context.Background()
	client, err := NewWSClient(ctx, wsURL(server), nil, nil)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	defer client.Close()

	ch, err := client.SubscribeSignature(ctx, "sig1")
	if err != nil {
		t.Fatalf("SubscribeSignature: %v", err)
	}

	select {
	case notif := <-ch:
		if notif.Err == nil {
			t.Error("expected notification error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for notification")
	}
}

func TestWSClient_SubscribeAfterClose(t *testing.T) {
	server := signatureServer(t, 1, nil)
	defer server.Close()

	client, err := NewWSClient(context.Background(), wsURL(server), nil, nil)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	client.Close()

	if _, err := client.SubscribeSignature(context.Background(), "sig1"); err == nil {
		t.Error("expected error subscribing after close")
	}

	// Second close is a no-op
	if err := client.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestWSClient_SubscribeTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		// Never answer
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	cfg := DefaultWSConfig()
	cfg.SubscribeTimeout = 50 * time.Millisecond

	client, err := NewWSClient(context.Background(), wsURL(server), &cfg, nil)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}
	defer client.Close()

	if _, err := client.SubscribeSignature(context.Background(), "sig1"); err == nil {
		t.Error("expected subscription timeout")
	}
}

func TestClient_ConfirmTransaction_WebSocket(t *testing.T) {
	ws := signatureServer(t, 3, nil)
	defer ws.Close()

	rpcServer := newRPCServer(t, map[string]func([]json.RawMessage) interface{}{
		"getSignatureStatuses": func([]json.RawMessage) interface{} {
			return map[string]interface{}{"value": []interface{}{nil}}
		},
		"getBlockHeight": func([]json.RawMessage) interface{} {
			return 1
		},
	})
	defer rpcServer.Close()

	wsClient, err := NewWSClient(context.Background(), wsURL(ws), nil, nil)
	if err != nil {
		t.Fatalf("NewWSClient: %v", err)
	}

	// Polling alone would never confirm
	client := NewClient(NewHTTPClient(rpcServer.URL, WithConfirmPollInterval(time.Hour)), wsClient, nil)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.ConfirmTransaction(ctx, "sig1", Blockhash{LastValidBlockHeight: 50}); err != nil {
		t.Fatalf("ConfirmTransaction: %v", err)
	}
}

func TestClient_ConfirmTransaction_PollingFallback(t *testing.T) {
	rpcServer := newRPCServer(t, map[string]func([]json.RawMessage) interface{}{
		"getSignatureStatuses": func([]json.RawMessage) interface{} {
			return map[string]interface{}{
				"value": []interface{}{
					map[string]interface{}{"slot": 5, "err": nil, "confirmationStatus": "finalized"},
				},
			}
		},
	})
	defer rpcServer.Close()

	client := NewClient(NewHTTPClient(rpcServer.URL, WithConfirmPollInterval(5*time.Millisecond)), nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.ConfirmTransaction(ctx, "sig1", Blockhash{LastValidBlockHeight: 50}); err != nil {
		t.Fatalf("ConfirmTransaction: %v", err)
	}
}
