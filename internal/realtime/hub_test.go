package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sadhna-backend/internal/models"
)

type tokenUsers map[string]*models.User

func (t tokenUsers) Identify(_ context.Context, token string) (*models.User, error) {
	if u, ok := t[token]; ok {
		return u, nil
	}
	return nil, errors.New("bad token")
}

func TestPublishWithNoClients(t *testing.T) {
	h := NewHub(tokenUsers{})
	assert.NotPanics(t, func() {
		h.Publish(context.Background(), Event{Name: EventLeaveApplied, Data: map[string]string{"message": "x"}})
	})
	assert.Equal(t, 0, h.ClientCount())
}

func TestAudienceIncludes(t *testing.T) {
	everyone := Audience{}
	assert.True(t, everyone.includes(5, models.RoleWorker))

	a := Audience{UserIDs: []int{5}, Roles: []string{models.RoleAdmin, models.RoleManager}}
	assert.True(t, a.includes(5, models.RoleWorker))
	assert.True(t, a.includes(9, models.RoleManager))
	assert.False(t, a.includes(9, models.RoleWorker))
	assert.False(t, a.includes(9, models.RoleSupervisor))
}

func dial(t *testing.T, srv *httptest.Server, token string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestEventsReachOnlyTheirAudience(t *testing.T) {
	users := tokenUsers{
		"admin":  {ID: 1, Username: "admin", Role: models.RoleAdmin},
		"ravi":   {ID: 2, Username: "ravi", Role: models.RoleWorker},
		"suresh": {ID: 3, Username: "suresh", Role: models.RoleWorker},
	}
	h := NewHub(users)
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWS)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	admin := dial(t, srv, "admin")
	defer admin.Close()
	ravi := dial(t, srv, "ravi")
	defer ravi.Close()
	suresh := dial(t, srv, "suresh")
	defer suresh.Close()

	require.Eventually(t, func() bool { return h.ClientCount() == 3 }, time.Second, 10*time.Millisecond)

	h.Publish(context.Background(), Event{
		Name:     EventLeaveStatusUpdated,
		Data:     map[string]interface{}{"status": "Approved", "message": "Leave request approved"},
		Audience: Audience{UserIDs: []int{2}, Roles: []string{models.RoleAdmin, models.RoleManager}},
	})

	for _, c := range []*websocket.Conn{admin, ravi} {
		c.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := c.ReadMessage()
		require.NoError(t, err)

		var got struct {
			Event string            `json:"event"`
			Data  map[string]string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg, &got))
		assert.Equal(t, EventLeaveStatusUpdated, got.Event)
		assert.Equal(t, "Leave request approved", got.Data["message"])
	}

	suresh.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err := suresh.ReadMessage()
	assert.Error(t, err, "unrelated worker must not receive the event")
}

func TestServeWSRejectsMissingOrBadToken(t *testing.T) {
	h := NewHub(tokenUsers{})

	rec := httptest.NewRecorder()
	h.ServeWS(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeWS(rec, httptest.NewRequest(http.MethodGet, "/ws?token=nope", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDisconnectUnregisters(t *testing.T) {
	h := NewHub(tokenUsers{"a": {ID: 1, Role: models.RoleAdmin}})
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	conn := dial(t, srv, "a")
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	conn.Close()
	require.Eventually(t, func() bool { return h.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}
