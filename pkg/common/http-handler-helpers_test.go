package common

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matst80/slask-storefront/pkg/types"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestJsonHandlerStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{nil, http.StatusOK},
		{types.InvalidArgument("bad"), http.StatusBadRequest},
		{fmt.Errorf("session abc: %w", ErrNotFound), http.StatusNotFound},
		{types.NetworkFailure("down", nil), http.StatusBadGateway},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		h := JsonHandler(zap.NewNop(), func(w http.ResponseWriter, r *http.Request) (any, error) {
			if c.err != nil {
				return nil, c.err
			}
			return map[string]string{"ok": "yes"}, nil
		})
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, c.status, rec.Code, "error %v", c.err)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	}
}

func TestJsonHandlerNoContent(t *testing.T) {
	h := JsonHandler(zap.NewNop(), func(w http.ResponseWriter, r *http.Request) (any, error) {
		return nil, nil
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodDelete, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
