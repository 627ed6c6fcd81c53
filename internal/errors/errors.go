// errors стандартизирует ответы об ошибках HTTP-слоя lapa-service.
// На вход он принимает ошибку сервисного слоя, а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Источник истинности по кодам: сентинелы internal/service.
// Типизированные ошибки (ValidationError, DuplicateNameError, PreviewError)
// несут собственное безопасное сообщение для пользователя.
package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/pribylovaa/lapa-nations/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть.
type APIError struct {
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Fields    []string `json:"fields,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку сервиса в HTTP-статус и ответ для фронта.
//
// Поведение:
//   - err == nil — программная ошибка вызова: 500/internal;
//   - ValidationError — 400 с перечнем полей;
//   - DuplicateNameError — 409/already_exists с именем страны;
//   - PreviewError — 502/preview_failed с URL;
//   - прочие сентинелы маппятся через baseFromService();
//   - всё остальное — 500/internal.
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, ErrorResponse{
			Error: APIError{Code: "internal", Message: "internal error"},
		}
	}

	var verr *service.ValidationError
	if stderrors.As(err, &verr) {
		return http.StatusBadRequest, ErrorResponse{
			Error: APIError{Code: "invalid_argument", Message: verr.Error(), Fields: verr.Fields},
		}
	}

	var derr *service.DuplicateNameError
	if stderrors.As(err, &derr) {
		return http.StatusConflict, ErrorResponse{
			Error: APIError{Code: "already_exists", Message: derr.Error()},
		}
	}

	var perr *service.PreviewError
	if stderrors.As(err, &perr) {
		return http.StatusBadGateway, ErrorResponse{
			Error: APIError{Code: "preview_failed", Message: perr.Error()},
		}
	}

	httpStatus, code, msg := baseFromService(err)
	return httpStatus, ErrorResponse{
		Error: APIError{Code: code, Message: msg},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// baseFromService — маппинг сентинелов:
//   - ErrInvalidArgument -> 400
//   - ErrNotFound -> 404
//   - ErrDuplicateName -> 409/already_exists
//   - ErrConflict (уникальный индекс) -> 409/conflict
//   - ErrPreview -> 502
//   - ErrUnavailable (отключено конфигурацией) -> 501
//   - context.Canceled -> 499
//   - context.DeadlineExceeded -> 504
//   - прочее -> 500/internal
func baseFromService(err error) (int, string, string) {
	switch {
	case stderrors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case stderrors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case stderrors.Is(err, service.ErrDuplicateName):
		return http.StatusConflict, "already_exists", "already exists"
	case stderrors.Is(err, service.ErrConflict):
		return http.StatusConflict, "conflict", "conflict"
	case stderrors.Is(err, service.ErrPreview):
		return http.StatusBadGateway, "preview_failed", "preview failed"
	case stderrors.Is(err, service.ErrUnavailable):
		return http.StatusNotImplemented, "unimplemented", "unimplemented"
	case stderrors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
