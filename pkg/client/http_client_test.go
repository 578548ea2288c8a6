// Copyright (C) 2026 UniPay Project
//
// This file is part of unipay-go.
//
// unipay-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// unipay-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with unipay-go.  If not, see <https://www.gnu.org/licenses/>.

package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unipay-project/unipay-go/pkg/payerr"
)

func TestHTTPClient_Post(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "text/xml; charset=utf-8", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "<xml><a>1</a></xml>", string(body))
		_, _ = w.Write([]byte("<xml><return_code>SUCCESS</return_code></xml>"))
	}))
	defer srv.Close()

	c := NewHTTPClient()
	resp, err := c.PostXML(context.Background(), srv.URL, "<xml><a>1</a></xml>")
	require.NoError(t, err)
	assert.Equal(t, "<xml><return_code>SUCCESS</return_code></xml>", resp)
}

func TestHTTPClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewHTTPClient(WithMaxRetries(2), WithBackoff(time.Millisecond))
	resp, err := c.PostForm(context.Background(), srv.URL, "a=1")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPClient_RetriesExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewHTTPClient(WithMaxRetries(1), WithBackoff(time.Millisecond))
	_, err := c.PostForm(context.Background(), srv.URL, "a=1")

	require.Error(t, err)
	var netErr *payerr.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.StatusServiceUnavailable, netErr.StatusCode)
}

func TestHTTPClient_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad sign"))
	}))
	defer srv.Close()

	c := NewHTTPClient(WithMaxRetries(3), WithBackoff(time.Millisecond))
	_, err := c.PostJSON(context.Background(), srv.URL, "{}")

	require.Error(t, err)
	var netErr *payerr.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Equal(t, http.StatusBadRequest, netErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPClient_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Cancellation is observed in the retry wait, not hidden behind it.
	c := NewHTTPClient(WithMaxRetries(5), WithBackoff(time.Minute))
	_, err := c.PostForm(ctx, srv.URL, "a=1")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPClient_ConnectionRefused(t *testing.T) {
	c := NewHTTPClient(WithMaxRetries(0))
	_, err := c.PostForm(context.Background(), "http://127.0.0.1:1", "a=1")

	require.Error(t, err)
	var netErr *payerr.NetworkError
	assert.True(t, errors.As(err, &netErr))
}
