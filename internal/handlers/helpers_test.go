package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"

	"github.com/sgnatenko/todo-chat-api/internal/middlewares"
	"github.com/sgnatenko/todo-chat-api/internal/models"
)

// newAuthedRequest builds a request that looks like it passed the auth
// middleware and chi routing: the user sits in the context and URL
// params are resolvable.
func newAuthedRequest(method, target string, body io.Reader, user *models.UserDB, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	ctx := req.Context()
	if user != nil {
		ctx = middlewares.WithCurrentUser(ctx, user)
	}

	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)

	return req.WithContext(ctx)
}
