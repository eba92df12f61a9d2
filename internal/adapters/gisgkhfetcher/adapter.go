package gisgkhfetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/google/uuid"

	"github.com/firs-iln/gkh-bot/internal/constants"
	"github.com/firs-iln/gkh-bot/internal/core/domain"
	"github.com/firs-iln/gkh-bot/internal/core/port"
)

const serviceName = "gis-gkh"

// GisGkhFetcherAdapter отвечает за все взаимодействия с порталом ГИС ЖКХ
type GisGkhFetcherAdapter struct {
	// один родительский коллектор, который разделяет лимиты
	collector *colly.Collector
	logger    port.LoggerPort
}

// NewGisGkhFetcherAdapter - конструктор
func NewGisGkhFetcherAdapter(logger port.LoggerPort) (*GisGkhFetcherAdapter, error) {
	c := colly.NewCollector(colly.AllowedDomains(constants.GisGkhDomain), colly.AllowURLRevisit())

	err := c.Limit(&colly.LimitRule{
		DomainGlob:  constants.GisGkhDomain,
		Parallelism: 1,
		RandomDelay: 3 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("GisGkhFetcherAdapter: failed to set limit rule: %w", err)
	}

	return &GisGkhFetcherAdapter{
		collector: c,
		logger:    logger,
	}, nil
}

// setPortalHeaders подставляет заголовки браузера: без них портал
// отдает антибот-страницу вместо JSON. Session-GUID и Request-GUID
// генерируются на каждый запрос, как это делает фронтенд портала
func setPortalHeaders(r *colly.Request) {
	r.Headers.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:109.0) Gecko/20100101 Firefox/115.0")
	r.Headers.Set("Accept", "application/json; charset=utf-8")
	r.Headers.Set("Accept-Language", "ru-RU,ru;q=0.8,en-US;q=0.5,en;q=0.3")
	r.Headers.Set("Content-Type", "application/json;charset=utf-8")
	r.Headers.Set("Session-GUID", uuid.NewString())
	r.Headers.Set("State-GUID", "/houses")
	r.Headers.Set("Request-GUID", uuid.NewString())
	r.Headers.Set("Origin", "https://dom.gosuslugi.ru")
	r.Headers.Set("Referer", "https://dom.gosuslugi.ru/")
	r.Headers.Set("Sec-Fetch-Dest", "empty")
	r.Headers.Set("Sec-Fetch-Mode", "cors")
	r.Headers.Set("Sec-Fetch-Site", "same-origin")
}

// getJSON выполняет GET и возвращает тело ответа
func (a *GisGkhFetcherAdapter) getJSON(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collector := a.collector.Clone()
	var body []byte
	var fetchErr error

	collector.OnRequest(func(r *colly.Request) {
		setPortalHeaders(r)
		a.logger.Debug("gis-gkh request", port.Fields{"url": r.URL.String()})
	})
	collector.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = &domain.UpstreamError{Service: serviceName, StatusCode: r.StatusCode, Err: err}
	})

	if err := collector.Visit(url); err != nil {
		return nil, &domain.UpstreamError{Service: serviceName, Err: fmt.Errorf("failed to visit %s: %w", url, err)}
	}
	collector.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	return body, nil
}

// postJSON выполняет POST c JSON-телом и возвращает тело ответа
func (a *GisGkhFetcherAdapter) postJSON(ctx context.Context, url string, payload any) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	requestBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body for %s: %w", url, err)
	}

	collector := a.collector.Clone()
	var body []byte
	var fetchErr error

	collector.OnRequest(func(r *colly.Request) {
		setPortalHeaders(r)
		a.logger.Debug("gis-gkh request", port.Fields{"url": r.URL.String()})
	})
	collector.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	collector.OnError(func(r *colly.Response, err error) {
		fetchErr = &domain.UpstreamError{Service: serviceName, StatusCode: r.StatusCode, Err: err}
	})

	if err := collector.PostRaw(url, requestBody); err != nil {
		return nil, &domain.UpstreamError{Service: serviceName, Err: fmt.Errorf("failed to post to %s: %w", url, err)}
	}
	collector.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	return body, nil
}
