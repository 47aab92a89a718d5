package redx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BearBump/CourierGate/internal/apperr"
	"github.com/BearBump/CourierGate/internal/integrations/courier"
	"github.com/stretchr/testify/require"
)

var creds = courier.Credentials{Login: "01700000000", Password: "pw"}

func TestLogin_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v4/auth/login", r.URL.Path)
		require.Equal(t, "https://redx.com.bd", r.Header.Get("Origin"))
		require.Equal(t, "https://redx.com.bd/", r.Header.Get("Referer"))
		require.Equal(t, courier.BrowserUserAgent, r.Header.Get("User-Agent"))
		require.Equal(t, "application/json;charset=UTF-8", r.Header.Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, map[string]string{"phone": "01700000000", "password": "pw"}, body)

		w.Header().Add("Set-Cookie", "__ti__=s%3Aabc.def; Path=/; HttpOnly")
		_, _ = w.Write([]byte(`{"data":{"accessToken":"jwt"}}`))
	}))
	defer srv.Close()

	s, err := New(srv.URL, srv.URL).Login(context.Background(), creds)
	require.NoError(t, err)
	require.Equal(t, "__ti__=s%3Aabc.def", s.Get(courier.ArtifactCookie))
}

func TestLogin_Errors(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		cookie  string
		body    string
		code    string
		message string
	}{
		{name: "upstream message", status: 401, body: `{"message":"Invalid credentials"}`, code: "redex_login_unsuccessful", message: "RedEx API Error: Invalid credentials"},
		{name: "raw body", status: 500, body: `oops`, code: "redex_login_unsuccessful", message: "RedEx login failed. Raw response: oops"},
		{name: "empty body", status: 500, code: "redex_login_unsuccessful", message: "RedEx login failed."},
		{name: "200 without token", status: 200, body: `{"data":{}}`, code: "redex_login_unsuccessful"},
		{name: "no final cookie", status: 200, body: `{"data":{"accessToken":"t"}}`, code: "redex_no_final_cookie"},
		{name: "only other cookies", status: 200, cookie: "XSRF=abc; Path=/", body: `{"data":{"accessToken":"t"}}`, code: "redex_cookie_parse_failed"},
		{name: "cookie without prefix", status: 200, cookie: "__ti__=plain; Path=/", body: `{"data":{"accessToken":"t"}}`, code: "redex_cookie_parse_failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tc.cookie != "" {
					w.Header().Add("Set-Cookie", tc.cookie)
				}
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL, srv.URL).Login(context.Background(), creds)
			e, ok := apperr.As(err)
			require.True(t, ok)
			require.Equal(t, tc.code, e.Code)
			if tc.message != "" {
				require.Equal(t, tc.message, e.Message)
			}
		})
	}
}

func TestLogin_NoCredsAndTransport(t *testing.T) {
	_, err := New("", "").Login(context.Background(), courier.Credentials{Login: "x"})
	require.True(t, apperr.HasCode(err, "redex_no_creds"))

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	_, err = New(srv.URL, srv.URL).Login(context.Background(), creds)
	require.True(t, apperr.HasCode(err, "redex_post_failed"))
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/redx_se/admin/parcel/customer-success-return-rate", r.URL.Path)
		require.Equal(t, "8801711111111", r.URL.Query().Get("phoneNumber"))
		require.Equal(t, "__ti__=s%3Aabc", r.Header.Get("Cookie"))
		_, _ = w.Write([]byte(`{"data":{"totalParcels":"10","deliveredParcels":"7"}}`))
	}))
	defer srv.Close()

	sess := courier.Session{Artifacts: map[string]string{courier.ArtifactCookie: "__ti__=s%3Aabc"}}
	b := New(srv.URL, srv.URL).Fetch(context.Background(), sess, "01711111111")
	require.JSONEq(t, `{"data":{"totalParcels":"10","deliveredParcels":"7"}}`, string(b))
}

func TestFetch_AbsentOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	require.Nil(t, New(srv.URL, srv.URL).Fetch(context.Background(), courier.Session{}, "0171"))
}
