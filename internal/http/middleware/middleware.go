// middleware — net/http мидлвары lapa-service: request id, сессия, логирование,
// метрики, перехват паник и таймаут.
package middleware

import (
	"net/http"
)

// Middleware — стандартный net/http мидлвар.
type Middleware func(http.Handler) http.Handler

// Chain оборачивает h так, что первый мидлвар в списке выполняется первым.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := range mws {
		h = mws[len(mws)-1-i](h)
	}

	return h
}

// responseRecorder запоминает код ответа и число записанных байт.
// Flush и Unwrap нужны SSE-стримам (http.ResponseController).
type responseRecorder struct {
	http.ResponseWriter
	code  int
	bytes int
}

func (rw *responseRecorder) WriteHeader(code int) {
	if rw.code == 0 {
		rw.code = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseRecorder) Write(p []byte) (int, error) {
	rw.implicitOK()
	n, err := rw.ResponseWriter.Write(p)
	rw.bytes += n
	return n, err
}

func (rw *responseRecorder) Flush() {
	rw.implicitOK()
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseRecorder) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

// implicitOK — net/http сам отправит 200, если заголовок не был записан явно.
func (rw *responseRecorder) implicitOK() {
	if rw.code == 0 {
		rw.code = http.StatusOK
	}
}
