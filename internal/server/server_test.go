package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	. "github.com/janpfeifer/connectk/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/move", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := New(DefaultConfig)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok": true}`, rec.Body.String())
}

func TestMove(t *testing.T) {
	s := New(DefaultConfig)

	// Empty board: the center is played right away.
	rec := post(t, s, `{"board": {"width": 7, "height": 6, "k": 4, "gravity": true}, "deadline_ms": 1000}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var resp MoveResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, MoveResponse{Move: Pos{3, 3}, Value: 0, Depth: 0}, resp)

	// Small tree, searched to the end.
	rec = post(t, s, `{
		"board": {"width": 3, "height": 3, "k": 3, "gravity": false, "cells": [[2, 1, 0], [0, 1, 0], [0, 2, 2]]},
		"player": 1,
		"deadline_ms": 2000,
		"config": "ab,margin=100ms"
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"move": [2, 0], "value": 0, "depth": 4}`, rec.Body.String())
}

func TestMoveBadRequests(t *testing.T) {
	s := New(DefaultConfig)
	for _, body := range []string{
		`not json`,
		`{}`,
		`{"board": {"width": 0, "height": 6, "k": 4}}`,
		`{"board": {"width": 2, "height": 1, "k": 2, "cells": [[1], [3]]}}`,
		`{"board": {"width": 3, "height": 1, "k": 2, "cells": [[1], [1], [2]]}}`,
		`{"board": {"width": 7, "height": 6, "k": 4}, "player": 3}`,
		`{"board": {"width": 7, "height": 6, "k": 4}, "deadline_ms": -1}`,
		`{"board": {"width": 7, "height": 6, "k": 4}, "deadline_ms": 3600000}`,
		`{"board": {"width": 7, "height": 6, "k": 4}, "config": "mcts"}`,
	} {
		rec := post(t, s, body)
		assert.Equalf(t, http.StatusBadRequest, rec.Code, "body %s", body)
		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmptyf(t, resp.Error, "body %s", body)
	}

	// The deadline of the player configuration is bound by MaxDeadline too.
	s = New(Config{PlayerConfig: "ab", MaxDeadline: 500 * time.Millisecond})
	for _, body := range []string{
		`{"board": {"width": 7, "height": 6, "k": 4, "gravity": true}, "config": "ab,deadline=3s"}`,
		`{"board": {"width": 7, "height": 6, "k": 4, "gravity": true}}`,
		`{"board": {"width": 7, "height": 6, "k": 4, "gravity": true}, "deadline_ms": 501}`,
	} {
		start := time.Now()
		rec := post(t, s, body)
		assert.Equalf(t, http.StatusBadRequest, rec.Code, "body %s", body)
		assert.Contains(t, rec.Body.String(), "larger than the maximum")
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	}
	rec := post(t, s, `{"board": {"width": 7, "height": 6, "k": 4, "gravity": true}, "config": "ab,deadline=400ms"}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Unknown route and method.
	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/move", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
