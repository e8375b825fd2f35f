package clients

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

func TestHTTPClient_DoAndPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("X-Raffle", "r-1")
			_, _ = w.Write([]byte(`{"ok":true}`))
		case http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			w.WriteHeader(http.StatusAccepted)
			_, _ = w.Write(body)
		}
	}))
	defer server.Close()

	client := NewHTTPClient()

	req, err := http.NewRequest(http.MethodGet, server.URL, http.NoBody)
	require.NoError(t, err)
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "r-1", resp.Header.Get("X-Raffle"))

	status, body, err := client.Post(server.URL, http.Header{"Content-Type": []string{"application/json"}}, []byte(`{"ok":true}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, `{"ok":true}`, string(body))
}

func TestHTTPClient_SetClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	mock := NewMockHTTPClientI(ctrl)

	client := NewHTTPClient()
	client.SetClient(mock)

	mock.EXPECT().Post("http://hooks.local", gomock.Any(), []byte("{}")).Return(0, nil, errors.New("connection refused"))

	_, _, err := client.Post("http://hooks.local", nil, []byte("{}"))
	assert.EqualError(t, err, "connection refused")
}
