package httpresponse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	apperrors "llm_move/internal/errors"
)

type Response[T any] struct {
	Status int `json:"Status"`
	Body   T   `json:"Body,omitempty"`
}

type ErrorResponse struct {
	ErrorDescription string `json:"ErrorDescription"`
	Kind             string `json:"Kind,omitempty"`
	Retryable        bool   `json:"retryable,omitempty"`
}

const INTERNALERRORJSON = "{\"Status\": 500,\"Body\":{\"ErrorDescription\": \"Internal server error\"}}"

const MALFORMEDJSON_errorDesc = "json unmarshalling error"

func WriteResponseWithStatus(w http.ResponseWriter, status int, body any) {
	jsonByte, err := marshalStatusJson(status, body)
	if err != nil {
		WriteInternalErrorResponse(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(jsonByte)
}

func WriteErrorWithStatus(w http.ResponseWriter, status int, desc string) {
	WriteResponseWithStatus(w, status, ErrorResponse{ErrorDescription: desc})
}

// StatusFor maps an error to the HTTP status reported for it.
func StatusFor(err error) int {
	if errors.Is(err, apperrors.ErrGameNotFound) {
		return http.StatusNotFound
	}
	var f *apperrors.Failure
	if !errors.As(err, &f) {
		return http.StatusInternalServerError
	}
	switch f.Kind {
	case apperrors.KindInvalidInput:
		return http.StatusBadRequest
	case apperrors.KindContentPolicy:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// WriteFailure writes err with the status from StatusFor. Errors that carry no
// failure kind are logged and reported as internal errors.
func WriteFailure(w http.ResponseWriter, log *zap.SugaredLogger, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		log.Errorw("request failed", "error", err)
		WriteErrorWithStatus(w, status, apperrors.ErrInternal.Error())
		return
	}
	resp := ErrorResponse{ErrorDescription: err.Error()}
	var f *apperrors.Failure
	if errors.As(err, &f) {
		resp.Kind = string(f.Kind)
		resp.Retryable = f.Retryable()
	}
	WriteResponseWithStatus(w, status, resp)
}

func marshalStatusJson(status int, body any) ([]byte, error) {
	response := Response[any]{
		Status: status,
		Body:   body,
	}
	marshal, err := json.Marshal(response)
	if err != nil {
		return nil, err
	}
	return marshal, nil
}

func WriteInternalErrorResponse(w http.ResponseWriter) {
	// same as http.Error apart from the content type
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = fmt.Fprintln(w, INTERNALERRORJSON)
}
