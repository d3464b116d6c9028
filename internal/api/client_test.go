package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/backdesk/internal/auth"
	"github.com/mesh-intelligence/backdesk/internal/metrics"
	"github.com/mesh-intelligence/backdesk/pkg/types"
)

var customers = types.Resource{
	Name:     "customers",
	Path:     "/customers",
	Envelope: types.EnvelopeData,
	Fields:   []types.Field{{Name: "name", Kind: types.KindString}},
}

var suppliers = types.Resource{
	Name:     "suppliers",
	Path:     "/suppliers",
	Envelope: types.EnvelopeBare,
	Fields:   []types.Field{{Name: "name", Kind: types.KindString}},
}

func testClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return New(ts.URL+"/api/", 5*time.Second, opts...)
}

func TestClient_List(t *testing.T) {
	creds := auth.NewCredentials("secret")
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/customers", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, err := uuid.Parse(r.Header.Get(RequestIDHeader))
		assert.NoError(t, err, "request id should be a uuid")
		w.Write([]byte(`{"data":[{"id":1,"name":"Ada"}]}`))
	}, WithCredentials(creds))

	got, err := c.List(context.Background(), customers)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"name":"Ada"}]`, string(got))
}

func TestClient_ListNoCredential(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}, WithCredentials(&auth.Credentials{}))

	got, err := c.List(context.Background(), suppliers)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestClient_ListMalformed(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"oops":true}`))
	})

	_, err := c.List(context.Background(), suppliers)
	var te *types.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "decode", te.Op)
	assert.ErrorIs(t, err, types.ErrMalformedResponse)
	assert.Contains(t, err.Error(), "connection error: ")
}

func TestClient_TransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := New(url, time.Second)
	_, err := c.List(context.Background(), suppliers)

	var te *types.TransportError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, http.MethodGet, te.Op)
	assert.Contains(t, te.Error(), "connection error: ")
	assert.NotContains(t, te.Error(), url, "url should not be repeated in the message")
}

func TestClient_Create(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/customers", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ada", body["name"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":7,"name":"Ada"}}`))
	}, WithCredentials(auth.NewCredentials("t")))

	got, err := c.Create(context.Background(), customers, types.Draft{"name": "Ada"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"name":"Ada"}`, string(got))
}

func TestClient_UpdateAndDelete(t *testing.T) {
	var calls []string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.EscapedPath())
		switch r.Method {
		case http.MethodPut:
			io.Copy(io.Discard, r.Body)
			w.Write([]byte(`{"id":"a b","name":"New"}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	got, err := c.Update(context.Background(), suppliers, "a b", types.Draft{"name": "New"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"a b","name":"New"}`, string(got))

	require.NoError(t, c.Delete(context.Background(), suppliers, "a b"))
	assert.Equal(t, []string{"PUT /api/suppliers/a%20b", "DELETE /api/suppliers/a%20b"}, calls)
}

func TestClient_ZeroIDRejected(t *testing.T) {
	c := New("http://unused", time.Second)

	_, err := c.Update(context.Background(), suppliers, "", types.Draft{})
	assert.ErrorIs(t, err, types.ErrInvalidID)
	assert.ErrorIs(t, c.Delete(context.Background(), suppliers, ""), types.ErrInvalidID)
}

func TestClient_ErrorResponses(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "validation",
			status:  http.StatusUnprocessableEntity,
			body:    `{"errors":{"email":["is invalid"]}}`,
			wantMsg: "email: is invalid",
			check: func(t *testing.T, err error) {
				var ve *types.ValidationError
				assert.True(t, errors.As(err, &ve))
			},
		},
		{
			name:    "server message",
			status:  http.StatusBadRequest,
			body:    `{"message":"duplicate code"}`,
			wantMsg: "duplicate code",
		},
		{
			name:    "server without body",
			status:  http.StatusInternalServerError,
			body:    ``,
			wantMsg: "request failed with status 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.Create(context.Background(), suppliers, types.Draft{"name": "x"})
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, types.UserMessage(err))
			if tt.check != nil {
				tt.check(t, err)
			}
		})
	}
}

func TestClient_UnauthorizedHook(t *testing.T) {
	creds := auth.NewCredentials("expired")
	hookCalls := 0
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	}, WithCredentials(creds), WithUnauthorizedHook(func() {
		hookCalls++
		creds.Clear()
	}))

	_, err := c.List(context.Background(), suppliers)
	assert.ErrorIs(t, err, types.ErrUnauthorized)
	assert.Equal(t, 1, hookCalls)
	assert.False(t, creds.Present())
}

func TestClient_ContextCancelled(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.List(ctx, suppliers)
	var te *types.TransportError
	require.True(t, errors.As(err, &te))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_RecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}, WithMetrics(m))

	_, err := c.List(context.Background(), suppliers)
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(reg, "backdesk_api_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
