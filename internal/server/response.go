package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/contentpipe/contentpipe/internal/service"
)

// Envelope is the wire shape of every JSON response.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
	Meta    Meta        `json:"meta"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Meta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"requestId"`
}

func meta(r *http.Request) Meta {
	return Meta{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID(r.Context()),
	}
}

func writeData(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status == http.StatusNoContent {
		return
	}

	err := json.NewEncoder(w).Encode(&Envelope{
		Success: true,
		Data:    data,
		Meta:    meta(r),
	})
	if err != nil {
		logrus.Errorf("error encoding response: %v", err)
	}
}

// writeError translates a service error into the envelope. Anything that is
// not a typed service error is reported as a generic internal error and
// logged in full server-side.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	body := &ErrorBody{
		Code:    service.CodeInternal,
		Message: "An unexpected error occurred",
	}

	if serr, ok := service.AsServiceError(err); ok {
		status = serr.Status
		body.Code = serr.Code
		body.Message = serr.Message
	}

	logrus.WithFields(logrus.Fields{
		"requestId": requestID(r.Context()),
		"path":      r.URL.Path,
		"method":    r.Method,
		"code":      body.Code,
	}).Errorf("request error: %v", err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encodeErr := json.NewEncoder(w).Encode(&Envelope{
		Success: false,
		Error:   body,
		Meta:    meta(r),
	})
	if encodeErr != nil {
		logrus.Errorf("error encoding error response: %v", encodeErr)
	}
}
