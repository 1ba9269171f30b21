// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/knowmap/pkg/types"
)

func TestNewClientTimeout(t *testing.T) {
	assert.Equal(t, DefaultTimeout, NewClient(types.HTTPConfig{}).Timeout)
	assert.Equal(t, 3*time.Second, NewClient(types.HTTPConfig{Timeout: 3 * time.Second}).Timeout)
}

func TestGet_SendsUserAgentAndReturnsBody(t *testing.T) {
	var gotUA string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		fmt.Fprint(w, "hello")
	}))
	defer ts.Close()

	body, err := Get(context.Background(), ts.Client(), ts.URL, "knowmap/test")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, "knowmap/test", gotUA)
}

func TestGet_Non2xxIsStatusErrorWithoutRetry(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"message":"slow down"}`)
	}))
	defer ts.Close()

	_, err := Get(context.Background(), ts.Client(), ts.URL, "")
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	assert.JSONEq(t, `{"message":"slow down"}`, string(se.Body))
	assert.Equal(t, "request failed with HTTP 429", err.Error())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGet_TransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := Get(context.Background(), http.DefaultClient, url+"/v2/everything?apiKey=s3cret", "")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "s3cret", "credentials are redacted from transport errors")
	assert.Contains(t, err.Error(), "/v2/everything")
}

func TestGet_BadURL(t *testing.T) {
	_, err := Get(context.Background(), http.DefaultClient, "://bad", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating request")
}

func TestGetJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("bad") != "" {
			fmt.Fprint(w, `{not json`)
			return
		}
		fmt.Fprint(w, `{"name":"knowmap"}`)
	}))
	defer ts.Close()

	var v struct {
		Name string `json:"name"`
	}
	require.NoError(t, GetJSON(context.Background(), ts.Client(), ts.URL, "", &v))
	assert.Equal(t, "knowmap", v.Name)

	err := GetJSON(context.Background(), ts.Client(), ts.URL+"?bad=1", "", &v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing response")
}

func TestRedactDropsQuery(t *testing.T) {
	assert.Equal(t, "https://newsapi.org/v2/everything", redact("https://newsapi.org/v2/everything?apiKey=secret&q=x"))
	assert.Equal(t, "", redact("::"))
}

func TestGet_BodyOverLimitIsAnError(t *testing.T) {
	old := maxBodyBytes
	maxBodyBytes = 8
	t.Cleanup(func() { maxBodyBytes = old })

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, r.URL.Query().Get("body"))
	}))
	defer ts.Close()

	body, err := Get(context.Background(), ts.Client(), ts.URL+"?body=12345678", "")
	require.NoError(t, err, "a body exactly at the limit is accepted")
	assert.Equal(t, "12345678", string(body))

	_, err = Get(context.Background(), ts.Client(), ts.URL+"?body=123456789", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}
