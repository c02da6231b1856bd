package xmnote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func targetFor(t *testing.T, serverURL string) Target {
	t.Helper()
	u, err := url.Parse(serverURL)
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return Target{IPAddr: host, Port: port}
}

func TestTarget_URL(t *testing.T) {
	assert.Equal(t, "http://192.168.0.2:8080/send", Target{IPAddr: "192.168.0.2"}.URL())
	assert.Equal(t, "http://192.168.0.2:9090/send", Target{IPAddr: "192.168.0.2", Port: 9090}.URL())
}

func TestClient_Send(t *testing.T) {
	doc := &Document{
		Title:        "Dune",
		Author:       "Frank Herbert",
		PublishDate:  100,
		Type:         DocumentTypeBook,
		LocationUnit: LocationUnitPosition,
		Entries:      []Entry{{Text: "Fear is the mind-killer.", Time: 200}},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/send", r.URL.Path)
		assert.Equal(t, "application/json;charset=UTF-8", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json, text/plain, */*", r.Header.Get("Accept"))

		var received Document
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		assert.Equal(t, *doc, received)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"code":200,"message":"success"}`))
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.Client())
	resp, err := client.Send(context.Background(), targetFor(t, server.URL), doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"code":200,"message":"success"}`, string(resp))
}

func TestClient_Send_AnyJSONValue(t *testing.T) {
	for _, body := range []string{`[1,2]`, `true`, `"ok"`, `42`, `null`} {
		t.Run(body, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body + "\n"))
			}))
			defer server.Close()

			client := NewClientWithHTTP(server.Client())
			resp, err := client.Send(context.Background(), targetFor(t, server.URL), &Document{})
			require.NoError(t, err)
			assert.JSONEq(t, body, string(resp))
		})
	}
}

func TestClient_Send_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.Client())
	resp, err := client.Send(context.Background(), targetFor(t, server.URL), &Document{})
	require.NoError(t, err)
	assert.Empty(t, resp)
}

func TestClient_Send_InvalidJSONResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.Client())
	_, err := client.Send(context.Background(), targetFor(t, server.URL), &Document{})
	require.Error(t, err)

	var netErr *NetworkError
	assert.False(t, errors.As(err, &netErr))
}

func TestClient_Send_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"bad entries"}`))
	}))
	defer server.Close()

	client := NewClientWithHTTP(server.Client())
	_, err := client.Send(context.Background(), targetFor(t, server.URL), &Document{})

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "bad entries")
}

func TestClient_Send_ConnectionRefused(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	target := targetFor(t, server.URL)
	server.Close()

	client := NewClient(2 * time.Second)
	resp, err := client.Send(context.Background(), target, &Document{})
	assert.Nil(t, resp)

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, target.URL(), netErr.URL)
	assert.Zero(t, hits.Load())
}

func TestClient_Send_Timeout(t *testing.T) {
	var hits atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(50 * time.Millisecond)
	_, err := client.Send(context.Background(), targetFor(t, server.URL), &Document{})

	var netErr *NetworkError
	require.True(t, errors.As(err, &netErr))
	// a single attempt, no retry
	assert.Equal(t, int32(1), hits.Load())
}
