// handlers — REST/SSE-эндпойнты lapa-service поверх service.Service.
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pribylovaa/lapa-nations/internal/service"
)

// maxBodyBytes — предел тела JSON-запроса.
const maxBodyBytes = 1 << 20

// Handlers агрегирует зависимости хендлеров.
type Handlers struct {
	Service *service.Service
}

func New(s *service.Service) *Handlers {
	return &Handlers{Service: s}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: неизвестные поля и тело больше
// maxBodyBytes запрещены.
func decodeStrict(w http.ResponseWriter, r *http.Request, value any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(value); err != nil {
		return errInvalidBody(err)
	}

	return nil
}

// errInvalidBody — локальная ошибка разбора тела -> 400/invalid_argument.
func errInvalidBody(err error) error {
	return fmt.Errorf("decode body: %v: %w", err, service.ErrInvalidArgument)
}
