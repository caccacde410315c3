package common

import (
	"errors"
	"net/http"

	"github.com/matst80/slask-storefront/pkg/common/jsoncompat"
	"github.com/matst80/slask-storefront/pkg/types"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("not found")

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HandlerFunc returns the value to encode as the JSON response body.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) (any, error)

func JsonHandler(logger *zap.Logger, fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := fn(w, r)
		if err != nil {
			status := StatusFor(err)
			if status >= http.StatusInternalServerError {
				logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
			} else {
				logger.Debug("request rejected", zap.String("path", r.URL.Path), zap.Int("status", status), zap.Error(err))
			}
			WriteJson(w, status, errorResponse(err))
			return
		}
		if result == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		WriteJson(w, http.StatusOK, result)
	}
}

func WriteJson(w http.ResponseWriter, status int, v any) {
	data, err := jsoncompat.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	w.Write(data)
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrNetworkFailure):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func errorResponse(err error) ErrorResponse {
	if errors.Is(err, ErrNotFound) {
		return ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	}
	code := string(types.CodeOf(err))
	if code == "" {
		code = "INTERNAL"
	}
	return ErrorResponse{Code: code, Message: types.MessageOf(err)}
}
