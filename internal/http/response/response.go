package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"admitdesk/internal/common"
)

// ErrorCollector receives the code of every error response for metrics.
type ErrorCollector interface {
	IncError(code string)
}

var errorCollector ErrorCollector

func SetErrorCollector(collector ErrorCollector) {
	errorCollector = collector
}

type errorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func Error(w http.ResponseWriter, err error) {
	var coded *common.Error
	if !errors.As(err, &coded) {
		coded = common.NewError(common.CodeInternal, "internal error", err)
	}
	if errorCollector != nil {
		errorCollector.IncError(string(coded.Code))
	}
	body := errorBody{Error: coded.Message, Code: string(coded.Code), Fields: coded.Fields}
	if coded.Code == common.CodeInternal {
		// Never leak the underlying cause to the caller.
		body.Error = "internal error"
	}
	JSON(w, statusFor(coded.Code), body)
}

func statusFor(code common.ErrorCode) int {
	switch code {
	case common.CodeValidation:
		return http.StatusBadRequest
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeConflict:
		return http.StatusConflict
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
