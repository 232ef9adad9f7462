package main

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func request(e *echo.Echo, method, target string, form url.Values) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	e, err := newServer(NewStore(), zap.NewNop())
	require.NoError(t, err)

	rec := request(e, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<a class="brand" href="/">Todos</a>`)
	assert.Contains(t, body, "Buy groceries")
	assert.Contains(t, body, `<span class="tag tag-urgent">urgent</span>`)
	assert.Contains(t, body, `<dl class="stats">`)
	assert.NotContains(t, body, "<ui:")

	rec = request(e, http.MethodGet, "/?status=completed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nothing to do")
}

func TestTodoActions(t *testing.T) {
	store := NewStore()
	e, err := newServer(store, zap.NewNop())
	require.NoError(t, err)

	rec := request(e, http.MethodPost, "/todos/todo-1/toggle", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "todos:changed", rec.Header().Get("HX-Trigger"))

	rec = request(e, http.MethodGet, "/_c/ui:todos?status=completed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Buy groceries")
	assert.Contains(t, rec.Body.String(), `class="todo done"`)

	rec = request(e, http.MethodPost, "/todos", url.Values{"title": {"Water plants"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, request(e, http.MethodGet, "/", nil).Body.String(), "Water plants")

	rec = request(e, http.MethodDelete, "/todos/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = request(e, http.MethodDelete, "/todos/todo-2", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Nil(t, store.Get("todo-2"))
}
