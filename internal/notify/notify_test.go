package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"storefront/internal/logging"
)

func TestHelpers_FillLevelAndTime(t *testing.T) {
	rec := &Recorder{}
	ctx := context.Background()
	Success(ctx, rec, "s1", "Додано до кошика: Тюль")
	Info(ctx, rec, "s1", "Кошик очищено")
	Error(ctx, rec, "", "Помилка", "Не вдалося додати відгук")

	all := rec.All()
	if len(all) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(all))
	}
	if all[0].Level != LevelSuccess || all[1].Level != LevelInfo || all[2].Level != LevelError {
		t.Fatalf("levels: %+v", all)
	}
	if all[0].At.IsZero() {
		t.Fatalf("timestamp not set")
	}
	if rec.Last().Title != "Помилка" {
		t.Fatalf("last: %+v", rec.Last())
	}

	// nil notifier is allowed
	Success(ctx, nil, "", "ignored")
}

func TestFanout(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	Success(context.Background(), Fanout{a, b}, "", "ok")
	if len(a.All()) != 1 || len(b.All()) != 1 {
		t.Fatalf("fanout did not reach every notifier")
	}
}

func dial(t *testing.T, srv *httptest.Server, session string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?session=" + session
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func waitClients(t *testing.T, h *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, h.Clients())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHub_DeliversBySession(t *testing.T) {
	hub := NewHub(logging.Discard())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.Serve(w, r, r.URL.Query().Get("session"))
	}))
	defer srv.Close()

	mine := dial(t, srv, "s1")
	defer mine.Close()
	other := dial(t, srv, "s2")
	defer other.Close()
	waitClients(t, hub, 2)

	Success(context.Background(), hub, "s1", "Кошик очищено")

	mine.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := mine.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var n Notification
	if err := json.Unmarshal(data, &n); err != nil || n.Message != "Кошик очищено" {
		t.Fatalf("unexpected payload %s: %v", data, err)
	}

	other.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := other.ReadMessage(); err == nil {
		t.Fatalf("notification leaked to another session")
	}
}
