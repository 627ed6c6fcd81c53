package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	apierrors "github.com/pribylovaa/lapa-nations/internal/errors"
	"github.com/pribylovaa/lapa-nations/internal/pkg/log"
)

// keepAliveInterval — период SSE-комментариев, не дающих прокси закрыть соединение.
const keepAliveInterval = 15 * time.Second

// serveSnapshots отдаёт подписку как SSE: каждое событие — полный снимок
// коллекции (event: snapshot). Медленный клиент получает только последний
// снимок: непрочитанный заменяется новым.
func serveSnapshots[T, V any](
	w http.ResponseWriter,
	r *http.Request,
	subscribe func(func([]T)) (func(), error),
	view func([]T) []V,
) {
	rc := http.NewResponseController(w)

	latest := make(chan []T, 1)
	unsubscribe, err := subscribe(func(list []T) {
		select {
		case latest <- list:
		default:
			select {
			case <-latest:
			default:
			}
			latest <- list
		}
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		log.From(r.Context()).Warn("sse_flush_unsupported", slog.String("err", err.Error()))
		return
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case list := <-latest:
			data, err := json.Marshal(view(list))
			if err != nil {
				log.From(r.Context()).Error("sse_encode_failed", slog.String("err", err.Error()))
				return
			}
			if _, err := fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", data); err != nil {
				return
			}
		}

		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func (h *Handlers) StreamCountries(w http.ResponseWriter, r *http.Request) {
	serveSnapshots(w, r, h.Service.SubscribeCountries, countriesFromModel)
}

func (h *Handlers) StreamNews(w http.ResponseWriter, r *http.Request) {
	serveSnapshots(w, r, h.Service.SubscribeNews, newsListFromModel)
}

func (h *Handlers) StreamGlobalComments(w http.ResponseWriter, r *http.Request) {
	serveSnapshots(w, r, h.Service.SubscribeGlobalComments, commentsFromModel)
}

