package sheet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sarabun-oss/sarabun/internal/platform/httpx"
)

func TestDispatchSendsActionAndDecodesData(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","data":[{"id":"005/2569","status":"PENDING"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret", time.Second)
	records, err := client.ListRequestsByYear(context.Background(), 2569)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "005/2569", records[0].ID)

	require.Equal(t, "list-requests-by-year", got["action"])
	require.Equal(t, "secret", got["token"])
	payload, ok := got["payload"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, float64(2569), payload["year"])
}

func TestDispatchRemoteRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"error","message":"duplicate id"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	err := client.CreateRequest(context.Background(), RequestRecord{ID: "005/2569"})
	require.ErrorIs(t, err, httpx.ErrRemote)
	require.Contains(t, err.Error(), "duplicate id")
}

func TestDispatchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	_, err := client.ListRequests(context.Background())
	require.ErrorIs(t, err, httpx.ErrRemote)
}

func TestDispatchUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, "", time.Second)
	_, err := client.ListRequests(context.Background())
	require.ErrorIs(t, err, httpx.ErrUnreachable)
}

func TestUploadFileEncodesBase64(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var got struct {
			Action  string `json:"action"`
			Payload struct {
				Filename string `json:"filename"`
				MimeType string `json:"mimeType"`
				Content  string `json:"content"`
			} `json:"payload"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		require.Equal(t, "upload-file", got.Action)
		require.Equal(t, "command_005-2569.pdf", got.Payload.Filename)
		require.Equal(t, "JVBERg==", got.Payload.Content)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","data":{"url":"https://files.example/command_005-2569.pdf"}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", time.Second)
	url, err := client.UploadFile(context.Background(), "command_005-2569.pdf", "application/pdf", []byte("%PDF"))
	require.NoError(t, err)
	require.Equal(t, "https://files.example/command_005-2569.pdf", url)
}
