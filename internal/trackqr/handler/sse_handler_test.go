package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mrbharat03/Indian-Railway/internal/trackqr/sse"
	"go.uber.org/zap"
)

func TestSSEStream_ConnectedEvent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := sse.NewHub(zap.NewNop())
	defer hub.Close()

	userID := `u"quoted\id`
	r := gin.New()
	r.GET("/stream", func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}, NewSSEHandler(hub).Stream)

	// 连接已断开，handler 发送 connected 后立即退出
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/stream", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("expected event stream, got %s", ct)
	}

	body := w.Body.String()
	if !strings.HasPrefix(body, "event: connected\ndata: ") {
		t.Fatalf("unexpected stream start: %q", body)
	}
	line := strings.SplitN(strings.TrimPrefix(body, "event: connected\ndata: "), "\n", 2)[0]

	var payload map[string]string
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("connected payload is not valid JSON: %v (%q)", err, line)
	}
	if !strings.HasPrefix(payload["client_id"], userID+"_") {
		t.Errorf("unexpected client id %q", payload["client_id"])
	}
	if hub.Count() != 0 {
		t.Errorf("expected client unregistered, got %d", hub.Count())
	}
}
