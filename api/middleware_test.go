package api

import (
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsrfTokenHeaderRoundTrip(t *testing.T) {
	r := chi.NewRouter()
	r.Use(csrf.Protect([]byte("0123456789abcdef0123456789abcdef"), csrf.Secure(false)))
	r.Use(csrfTokenHeader)
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Post("/", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })

	srv := httptest.NewServer(r)
	defer srv.Close()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	res, err := client.Get(srv.URL + "/")
	require.NoError(t, err)
	res.Body.Close()
	token := res.Header.Get("X-CSRF-Token")
	require.NotEmpty(t, token)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/", nil)
	require.NoError(t, err)
	req.Header.Set("X-CSRF-Token", token)
	res, err = client.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNoContent, res.StatusCode)

	// without the header the mutation is refused
	req, err = http.NewRequest(http.MethodPost, srv.URL+"/", nil)
	require.NoError(t, err)
	res, err = client.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}
