package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Registration(t *testing.T) {
	type call struct {
		path string
		body map[string]interface{}
	}
	var (
		mu    sync.Mutex
		calls []call
	)
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		mu.Lock()
		calls = append(calls, call{path: r.URL.Path, body: body})
		mu.Unlock()

		if r.URL.Path == "/rest/api/v1/register/auth/activate" {
			w.Write([]byte("s3cr3t-Pass"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"OK"}`))
	})
	ctx := context.Background()

	_, err := c.RegisterUser(ctx, "+77010000000", true)
	require.NoError(t, err)
	_, err = c.SendSMS(ctx, "+77010000000")
	require.NoError(t, err)
	password, err := c.VerifySMS(ctx, "+77010000000", "1234")
	require.NoError(t, err)

	assert.False(t, password.IsJSON())
	assert.Equal(t, "s3cr3t-Pass", password.Text())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 3)
	assert.Equal(t, "/rest/api/v1/register/auth", calls[0].path)
	assert.Equal(t, map[string]interface{}{"login": "+77010000000", "agreement": true}, calls[0].body)
	assert.Equal(t, "/rest/api/v1/register/send", calls[1].path)
	assert.Equal(t, map[string]interface{}{"login": "+77010000000", "smsType": "SYSTEM"}, calls[1].body)
	assert.Equal(t, "/rest/api/v1/register/auth/activate", calls[2].path)
	assert.Equal(t, map[string]interface{}{"login": "+77010000000", "smsCode": "1234", "smsType": "SYSTEM"}, calls[2].body)
}

func TestClient_GetAuthToken(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth2/token", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client", user)
		assert.Equal(t, "secret", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		assert.Equal(t, "+77010000000", r.PostForm.Get("username"))
		assert.Equal(t, "s3cr3t", r.PostForm.Get("password"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"acc","token_type":"bearer","refresh_token":"ref","expires_in":3600}`))
	})

	token, err := c.GetAuthToken(context.Background(), "+77010000000", "s3cr3t")
	require.NoError(t, err)
	assert.Equal(t, "acc", token.AccessToken)
	assert.Equal(t, "ref", token.RefreshToken)
	assert.True(t, token.Valid())
}

func TestClient_GetAuthToken_Rejected(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	})

	_, err := c.GetAuthToken(context.Background(), "+77010000000", "wrong")
	assert.Error(t, err)
}
