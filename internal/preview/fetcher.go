// preview разворачивает ссылки:
//   - fetcher.go — загрузка страницы и извлечение Open Graph (goquery + bluemonday);
//   - ollama.go / heuristic.go — решение, полезнее ли превью голой ссылки;
//   - classify.go — перевод текстового вердикта в булев флаг.
package preview

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/pribylovaa/lapa-nations/internal/config"
	"github.com/pribylovaa/lapa-nations/internal/models"
)

// Fetcher загружает страницу и извлекает og:title, og:description и og:image.
//
// Особенности:
//   - тело ответа ограничено MaxBodyBytes;
//   - запросы к одному хосту разнесены во времени (HostInterval);
//   - одновременные запросы одного URL схлопываются в один; общая загрузка не зависит
//     от отмены контекста отдельного вызывающего и ограничена FetchTimeout.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	limiter   *hostLimiter
	group     singleflight.Group
	policy    *bluemonday.Policy
	maxBody   int64
	userAgent string
}

// NewFetcher создаёт Fetcher. client == nil — http.Client с cfg.FetchTimeout.
func NewFetcher(cfg config.PreviewConfig, client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.FetchTimeout}
	}

	return &Fetcher{
		client:    client,
		timeout:   cfg.FetchTimeout,
		limiter:   newHostLimiter(cfg.HostInterval),
		policy:    bluemonday.StrictPolicy(),
		maxBody:   cfg.MaxBodyBytes,
		userAgent: cfg.UserAgent,
	}
}

// Fetch возвращает метаданные страницы rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (models.Metadata, error) {
	const op = "preview/fetcher/Fetch"

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return models.Metadata{}, fmt.Errorf("%s: bad url %q", op, rawURL)
	}

	ch := f.group.DoChan(u.String(), func() (any, error) {
		shared := context.WithoutCancel(ctx)
		if f.timeout > 0 {
			var cancel context.CancelFunc
			shared, cancel = context.WithTimeout(shared, f.timeout)
			defer cancel()
		}
		return f.fetch(shared, u)
	})

	select {
	case <-ctx.Done():
		return models.Metadata{}, fmt.Errorf("%s: %w", op, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return models.Metadata{}, fmt.Errorf("%s: %w", op, res.Err)
		}
		return res.Val.(models.Metadata), nil
	}
}

func (f *Fetcher) fetch(ctx context.Context, u *url.URL) (models.Metadata, error) {
	if err := f.limiter.wait(ctx, u.Host); err != nil {
		return models.Metadata{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.Metadata{}, err
	}

	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return models.Metadata{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Metadata{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if f.maxBody > 0 {
		body = io.LimitReader(resp.Body, f.maxBody)
	}

	// Базой для относительных og:image служит итоговый URL после редиректов.
	base := u
	if resp.Request != nil && resp.Request.URL != nil {
		base = resp.Request.URL
	}

	return ParseMetadata(body, base, f.policy)
}

// ParseMetadata извлекает Open Graph из HTML.
// Учитываются атрибуты property и name; значения очищаются от разметки.
// Относительный og:image разрешается относительно base; не-http(s) ссылки отбрасываются.
func ParseMetadata(r io.Reader, base *url.URL, policy *bluemonday.Policy) (models.Metadata, error) {
	if policy == nil {
		policy = bluemonday.StrictPolicy()
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return models.Metadata{}, err
	}

	clean := func(s string) string {
		s = html.UnescapeString(policy.Sanitize(s))
		return strings.Join(strings.Fields(s), " ")
	}

	md := models.Metadata{
		Title:       clean(ogContent(doc, "og:title")),
		Description: clean(ogContent(doc, "og:description")),
	}

	if img := strings.TrimSpace(ogContent(doc, "og:image")); img != "" {
		md.ImageURL = resolveImage(base, img)
	}

	return md, nil
}

func ogContent(doc *goquery.Document, prop string) string {
	for _, sel := range []string{
		fmt.Sprintf("meta[property='%s']", prop),
		fmt.Sprintf("meta[name='%s']", prop),
	} {
		if v, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}

	return ""
}

func resolveImage(base *url.URL, raw string) string {
	ref, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	if base != nil {
		ref = base.ResolveReference(ref)
	}

	if ref.Scheme != "http" && ref.Scheme != "https" {
		return ""
	}

	return ref.String()
}

// maxTrackedHosts — сколько лимитеров хостов держим одновременно.
const maxTrackedHosts = 1024

// hostLimiter выдерживает интервал между запросами к одному хосту.
// Лимитеры редких хостов вытесняются по LRU.
type hostLimiter struct {
	interval time.Duration

	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
}

func newHostLimiter(interval time.Duration) *hostLimiter {
	// Ошибка возможна только при size <= 0.
	cache, _ := lru.New[string, *rate.Limiter](maxTrackedHosts)
	return &hostLimiter{interval: interval, limiters: cache}
}

func (h *hostLimiter) wait(ctx context.Context, host string) error {
	if h.interval <= 0 {
		return nil
	}

	h.mu.Lock()
	l, ok := h.limiters.Get(host)
	if !ok {
		l = rate.NewLimiter(rate.Every(h.interval), 1)
		h.limiters.Add(host, l)
	}
	h.mu.Unlock()

	return l.Wait(ctx)
}
