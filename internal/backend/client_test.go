package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/testmiddle/internal/models"
)

type capturedRequest struct {
	path      string
	requestID string
	envelope  map[string]any
}

type recorder struct {
	mu       sync.Mutex
	requests []capturedRequest
}

func (r *recorder) all() []capturedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]capturedRequest(nil), r.requests...)
}

// setupBackend starts a fake table service that records each envelope it
// receives and answers with reply.
func setupBackend(t *testing.T, reply string) (*Client, *recorder) {
	rec := &recorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())

		var envelope map[string]any
		require.NoError(t, json.Unmarshal([]byte(r.PostForm.Get(models.JSONStringField)), &envelope))
		rec.mu.Lock()
		rec.requests = append(rec.requests, capturedRequest{
			path:      r.URL.Path,
			requestID: r.Header.Get(RequestIDHeader),
			envelope:  envelope,
		})
		rec.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(map[string]string{
		models.TableTest:      server.URL + "/test",
		models.TableTestScore: server.URL + "/test_score",
	}, 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return client, rec
}

func TestClient_SendRelaysRawBody(t *testing.T) {
	reply := `{"status":"success","items":[{"primary_key":1}],"extra":true}`
	client, rec := setupBackend(t, reply)

	ctx := WithRequestID(context.Background(), "req-1")
	body, err := client.Send(ctx, &models.Request{
		Action:    models.ActionDelete,
		TableName: models.TableTest,
	})
	require.NoError(t, err)
	assert.Equal(t, reply, string(body))

	captured := rec.all()
	require.Len(t, captured, 1)
	got := captured[0]
	assert.Equal(t, "/test", got.path)
	assert.Equal(t, "req-1", got.requestID)
	assert.Equal(t, map[string]any{
		"action":     "delete",
		"table_name": "test",
		"fields":     map[string]any{},
	}, got.envelope)
}

func TestClient_SendUnknownTable(t *testing.T) {
	client, rec := setupBackend(t, `{}`)

	_, err := client.Send(context.Background(), &models.Request{Action: models.ActionList, TableName: "student"})
	assert.ErrorIs(t, err, ErrUnknownTable)
	assert.Empty(t, rec.all())
}

func TestClient_SendTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClient(map[string]string{models.TableTest: url}, time.Second)
	require.NoError(t, err)

	_, err = client.Send(context.Background(), &models.Request{Action: models.ActionList, TableName: models.TableTest})
	assert.Error(t, err)
}

func TestClient_List(t *testing.T) {
	testCases := []struct {
		name  string
		reply string
		want  []models.Record
	}{
		{
			name:  "items",
			reply: `{"status":"success","items":[{"primary_key":1,"test_id":"4"},{"primary_key":2,"test_id":"5"}]}`,
			want: []models.Record{
				{"primary_key": json.Number("1"), "test_id": "4"},
				{"primary_key": json.Number("2"), "test_id": "5"},
			},
		},
		{
			name:  "missing items",
			reply: `{"status":"success"}`,
			want:  []models.Record{},
		},
		{
			name:  "null items",
			reply: `{"status":"success","items":null}`,
			want:  []models.Record{},
		},
		{
			name:  "error envelope",
			reply: `{"status":"error","user_message":"nope"}`,
			want:  []models.Record{},
		},
		{
			name:  "not json",
			reply: `<html>oops</html>`,
			want:  []models.Record{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client, rec := setupBackend(t, tc.reply)

			items, err := client.List(context.Background(), models.TableTestScore, map[string]any{"test_id": 4})
			require.NoError(t, err)
			assert.Equal(t, tc.want, items)

			captured := rec.all()
			require.Len(t, captured, 1)
			assert.Equal(t, "/test_score", captured[0].path)
			assert.Equal(t, map[string]any{
				"action":     "list",
				"table_name": "test_score",
				"fields":     map[string]any{"test_id": float64(4)},
			}, captured[0].envelope)
		})
	}
}

func TestClient_Edit(t *testing.T) {
	client, rec := setupBackend(t, `{"status":"success"}`)

	resp, err := client.Edit(context.Background(), models.TableTestScore, json.Number("9"), map[string]any{"test_name": "Quiz"})
	require.NoError(t, err)
	assert.True(t, resp.Succeeded())

	captured := rec.all()
	require.Len(t, captured, 1)
	assert.Equal(t, map[string]any{
		"action":      "edit",
		"table_name":  "test_score",
		"primary_key": float64(9),
		"fields":      map[string]any{"test_name": "Quiz"},
	}, captured[0].envelope)
	assert.NotEmpty(t, captured[0].requestID)
}

func TestNewClient_RejectsBadEndpoint(t *testing.T) {
	_, err := NewClient(map[string]string{models.TableTest: "not a url"}, time.Second)
	assert.Error(t, err)
}
