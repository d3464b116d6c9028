package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/backdesk/pkg/types"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		identity string
		reply    string
		want     string
		field    string
	}{
		{name: "token field", identity: "ops@example.com", reply: `{"token":"t1"}`, want: "t1", field: "email"},
		{name: "access_token field", identity: "ops", reply: `{"access_token":"t2"}`, want: "t2", field: "username"},
		{name: "enveloped token", identity: "ops@example.com", reply: `{"data":{"token":"t3"}}`, want: "t3", field: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/api/auth/login", r.URL.Path)
				var body map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, tt.identity, body[tt.field])
				assert.Equal(t, "pw", body["password"])
				w.Write([]byte(tt.reply))
			})

			got, err := c.Login(context.Background(), tt.identity, "pw")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogin_NoToken(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"user":{}}`))
	})

	_, err := c.Login(context.Background(), "ops", "pw")
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestLogin_Rejected(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid credentials"}`))
	})

	_, err := c.Login(context.Background(), "ops", "bad")
	assert.ErrorIs(t, err, types.ErrUnauthorized)
	assert.Equal(t, "invalid credentials", types.UserMessage(err))
}

func TestRefreshToken(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/refresh", r.URL.Path)
		w.Write([]byte(`{"token":"fresh"}`))
	}, WithAuthPaths(types.AuthConfig{LoginPath: "/auth/login", RefreshPath: "/auth/refresh"}))

	got, err := c.RefreshToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)
}
