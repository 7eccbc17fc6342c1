package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamadismail/xpeed-cng/internal/config"
)

type recordedRequest struct {
	path  string
	auth  string
	to    string
	body  string
	input map[string]any
}

func newTestServer(t *testing.T, status int, reply string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()

	var mu sync.Mutex
	var requests []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		text, _ := payload["text"].(map[string]any)
		mu.Lock()
		requests = append(requests, recordedRequest{
			path:  r.URL.Path,
			auth:  r.Header.Get("Authorization"),
			to:    payload["to"].(string),
			body:  text["body"].(string),
			input: payload,
		})
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)

	return srv, &requests
}

func TestSendTextMessage(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, `{"messages":[{"id":"wamid.1"}]}`)

	client := NewClient(config.WhatsAppConfig{
		AccessToken:   "secret",
		PhoneNumberID: "12345",
		BaseURL:       srv.URL + "/",
		APIVersion:    "v20.0",
	})

	resp, err := client.SendTextMessage(context.Background(), SendTextMessageRequest{To: "8801700000000", Body: "Grand total: Tk 10,024.59"})
	require.NoError(t, err)
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "wamid.1", resp.Messages[0].ID)

	require.Len(t, *requests, 1)
	got := (*requests)[0]
	assert.Equal(t, "/v20.0/12345/messages", got.path)
	assert.Equal(t, "Bearer secret", got.auth)
	assert.Equal(t, "8801700000000", got.to)
	assert.Equal(t, "Grand total: Tk 10,024.59", got.body)
	assert.Equal(t, "whatsapp", got.input["messaging_product"])
}

func TestSendTextMessageAPIError(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusBadRequest, `{"error":{"message":"Invalid parameter","code":100}}`)

	client := NewClient(config.WhatsAppConfig{AccessToken: "secret", PhoneNumberID: "1", BaseURL: srv.URL, APIVersion: "v20.0"})

	_, err := client.SendTextMessage(context.Background(), SendTextMessageRequest{To: "1", Body: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "code=100")
	assert.Contains(t, err.Error(), "Invalid parameter")
}

func TestSendTextMessageRequiresRecipient(t *testing.T) {
	client := NewClient(config.WhatsAppConfig{BaseURL: "http://127.0.0.1:0", APIVersion: "v20.0"})

	_, err := client.SendTextMessage(context.Background(), SendTextMessageRequest{To: " ", Body: "hi"})
	assert.ErrorIs(t, err, ErrEmptyRecipient)
}

func TestSendTextMessageSplitsLongBodies(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, `{"messages":[{"id":"wamid.x"}]}`)
	client := NewClient(config.WhatsAppConfig{AccessToken: "secret", PhoneNumberID: "1", BaseURL: srv.URL, APIVersion: "v20.0"})

	line := strings.Repeat("x", 99) + "\n"
	body := strings.Repeat(line, 50) // 5000 bytes

	resp, err := client.SendTextMessage(context.Background(), SendTextMessageRequest{To: "1", Body: body})
	require.NoError(t, err)
	assert.Len(t, resp.Messages, 2)
	require.Len(t, *requests, 2)
	assert.Equal(t, body, (*requests)[0].body+(*requests)[1].body)
}

func TestSplitBody(t *testing.T) {
	assert.Equal(t, []string{"short"}, SplitBody("short", 10))
	assert.Equal(t, []string{"ab\n", "cd\n", "ef"}, SplitBody("ab\ncd\nef", 4))
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, SplitBody("abcdefghij", 4))

	// "é" is two bytes; a cut must not land between them.
	chunks := SplitBody("aéé", 2)
	assert.Equal(t, []string{"a", "é", "é"}, chunks)

	for _, limit := range []int{0, -1} {
		assert.Equal(t, []string{"abcdefghij"}, SplitBody("abcdefghij", limit), "limit %d", limit)
	}
}
