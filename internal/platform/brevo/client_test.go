package brevo_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/studytrail/internal/platform/brevo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Send(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v3/smtp/email", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("api-key"))
		assert.Equal(t, "application/json", r.Header.Get("content-type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"<abc@brevo>"}`))
	}))
	defer srv.Close()

	client, err := brevo.New(brevo.Config{APIKey: "secret", BaseURL: srv.URL + "/"}, nil)
	require.NoError(t, err)

	res, err := client.Send(context.Background(), brevo.SendEmailRequest{
		To:      []brevo.EmailAddress{{Email: "me@example.com", Name: "FAANG Student"}},
		Subject: "Hello",
		HTML:    "<p>hi</p>",
	})
	require.NoError(t, err)
	require.Equal(t, "<abc@brevo>", res.MessageID)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	require.Equal(t, "Hello", got["subject"])
	require.Equal(t, "<p>hi</p>", got["htmlContent"])
	sender := got["sender"].(map[string]any)
	require.Equal(t, "noreply@faangprep.com", sender["email"])
	require.Equal(t, "FAANG Prep Platform", sender["name"])
}

func TestClient_SendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, err := brevo.New(brevo.Config{APIKey: "bad", BaseURL: srv.URL}, nil)
	require.NoError(t, err)

	_, err = client.Send(context.Background(), brevo.SendEmailRequest{
		To:      []brevo.EmailAddress{{Email: "me@example.com"}},
		Subject: "Hello",
		HTML:    "<p>hi</p>",
	})
	var statusErr *brevo.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	require.Contains(t, statusErr.Body, "unauthorized")
}

func TestClient_Validation(t *testing.T) {
	_, err := brevo.New(brevo.Config{}, nil)
	require.ErrorIs(t, err, brevo.ErrMissingAPIKey)

	client, err := brevo.New(brevo.Config{APIKey: "k", BaseURL: "http://127.0.0.1:0"}, nil)
	require.NoError(t, err)

	_, err = client.Send(context.Background(), brevo.SendEmailRequest{Subject: "s", HTML: "h"})
	require.Error(t, err)
	_, err = client.Send(context.Background(), brevo.SendEmailRequest{To: []brevo.EmailAddress{{Email: "a@b"}}, HTML: "h"})
	require.Error(t, err)
}
