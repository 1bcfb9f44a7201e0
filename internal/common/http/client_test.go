package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var in map[string]int
		if assert.NoError(t, json.NewDecoder(r.Body).Decode(&in)) {
			_ = json.NewEncoder(w).Encode(map[string]int{"doubled": in["n"] * 2})
		}
	}))
	defer srv.Close()

	var out struct {
		Doubled int `json:"doubled"`
	}
	err := NewClient(time.Second).PostJSON(context.Background(), srv.URL, map[string]int{"n": 21}, &out)
	require.NoError(t, err)
	assert.Equal(t, 42, out.Doubled)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "non-2xx",
			status: http.StatusBadGateway,
			body:   "upstream down",
			check: func(t *testing.T, err error) {
				var se *StatusError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, http.StatusBadGateway, se.StatusCode)
				assert.Equal(t, "upstream down", se.Body)
			},
		},
		{
			name:   "invalid body",
			status: http.StatusOK,
			body:   "not json",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrInvalidBody)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			var out map[string]interface{}
			err := NewClient(time.Second).GetJSON(context.Background(), srv.URL, &out)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestClient_GetJSON_NilOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	assert.NoError(t, NewClient(time.Second).GetJSON(context.Background(), srv.URL, nil))
}
