package api

import (
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/listenupapp/bookcatalog/internal/http/response"
)

// EnvelopeTransformer wraps every huma response body in the shared
// response.Envelope so REST clients see one shape for data and errors.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	switch body := v.(type) {
	case nil:
		return v, nil
	case response.Envelope, *response.Envelope:
		return v, nil
	case *APIError:
		return response.Failure(body.Code, body.Message, body.Details), nil
	case *huma.ErrorModel:
		var details any
		if len(body.Errors) > 0 {
			details = body.Errors
		}
		return response.Failure(statusToCode(body.Status), errorMessage(body.Status, body.Detail, body.Title), details), nil
	case error:
		return response.Failure(statusToCode(parseStatus(status)), body.Error(), nil), nil
	}

	if code := parseStatus(status); code >= http.StatusBadRequest {
		return response.Failure(statusToCode(code), http.StatusText(code), v), nil
	}

	return response.OK(v), nil
}

func parseStatus(status string) int {
	code, err := strconv.Atoi(status)
	if err != nil {
		return http.StatusInternalServerError
	}
	return code
}

func errorMessage(status int, detail, title string) string {
	switch {
	case detail != "":
		return detail
	case title != "":
		return title
	default:
		return http.StatusText(status)
	}
}
