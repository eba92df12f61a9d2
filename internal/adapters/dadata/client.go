package dadata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/tidwall/gjson"

	"github.com/firs-iln/gkh-bot/internal/core/domain"
	"github.com/firs-iln/gkh-bot/internal/core/port"
)

const serviceName = "dadata"

const (
	defaultCleanBaseURL   = "https://cleaner.dadata.ru/api/v1"
	defaultSuggestBaseURL = "https://suggestions.dadata.ru/suggestions/api/4_1/rs"

	cacheSize = 128
	cacheTTL  = 10 * time.Minute
)

// Config хранит конфигурацию клиента dadata
type Config struct {
	Token  string
	Secret string

	// Переопределяются только в тестах
	CleanBaseURL   string
	SuggestBaseURL string
}

// Client реализует EnrichmentPort через API dadata.
// Ответы кэшируются на cacheTTL, чтобы повторные обращения к одному
// адресу или ИНН не расходовали суточную квоту сервиса
type Client struct {
	clean   *resty.Client
	suggest *resty.Client
	logger  port.LoggerPort

	addresses *expirable.LRU[string, *domain.AddressRecord]
	cadastres *expirable.LRU[string, *domain.AddressRecord]
	parties   *expirable.LRU[string, *domain.PartyRecord]
}

// NewClient - конструктор
func NewClient(cfg Config, logger port.LoggerPort) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("dadata token is required")
	}
	if cfg.CleanBaseURL == "" {
		cfg.CleanBaseURL = defaultCleanBaseURL
	}
	if cfg.SuggestBaseURL == "" {
		cfg.SuggestBaseURL = defaultSuggestBaseURL
	}

	clean := resty.New().
		SetBaseURL(cfg.CleanBaseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Authorization", "Token "+cfg.Token).
		SetHeader("X-Secret", cfg.Secret).
		SetHeader("Content-Type", "application/json")

	suggest := resty.New().
		SetBaseURL(cfg.SuggestBaseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Authorization", "Token "+cfg.Token).
		SetHeader("Content-Type", "application/json")

	return &Client{
		clean:     clean,
		suggest:   suggest,
		logger:    logger,
		addresses: expirable.NewLRU[string, *domain.AddressRecord](cacheSize, nil, cacheTTL),
		cadastres: expirable.NewLRU[string, *domain.AddressRecord](cacheSize, nil, cacheTTL),
		parties:   expirable.NewLRU[string, *domain.PartyRecord](cacheSize, nil, cacheTTL),
	}, nil
}

// ResolveAddress чистит произвольную строку адреса.
// Для петербургских адресов без литеры повторяет запрос с «литер А»:
// без литеры dadata часто возвращает соседнее здание
func (c *Client) ResolveAddress(ctx context.Context, address string) (*domain.AddressRecord, error) {
	if record, ok := c.addresses.Get(address); ok {
		return record, nil
	}

	record, err := c.cleanAddress(ctx, address)
	if err != nil {
		return nil, err
	}
	if record != nil && strings.Contains(record.Result, "Санкт-Петербург") && !strings.Contains(record.Result, "литер") {
		record, err = c.cleanAddress(ctx, record.Result+" литер А")
		if err != nil {
			return nil, err
		}
	}

	c.addresses.Add(address, record)
	return record, nil
}

func (c *Client) cleanAddress(ctx context.Context, address string) (*domain.AddressRecord, error) {
	c.logger.Debug("dadata clean address", port.Fields{"address": address})

	resp, err := c.clean.R().
		SetContext(ctx).
		SetBody([]string{address}).
		Post("/clean/address")
	if err != nil {
		return nil, &domain.UpstreamError{Service: serviceName, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &domain.UpstreamError{Service: serviceName, StatusCode: resp.StatusCode()}
	}

	data := gjson.GetBytes(resp.Body(), "0")
	if !data.Exists() {
		return nil, nil
	}
	return addressRecordFromData(data), nil
}

// ResolveAddressByCadastre ищет адрес по кадастровому номеру
func (c *Client) ResolveAddressByCadastre(ctx context.Context, cadNum string) (*domain.AddressRecord, error) {
	if record, ok := c.cadastres.Get(cadNum); ok {
		return record, nil
	}
	c.logger.Debug("dadata find address by cadastre", port.Fields{"cadastre_number": cadNum})

	resp, err := c.suggest.R().
		SetContext(ctx).
		SetBody(map[string]any{"query": cadNum}).
		Post("/findById/address")
	if err != nil {
		return nil, &domain.UpstreamError{Service: serviceName, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &domain.UpstreamError{Service: serviceName, StatusCode: resp.StatusCode()}
	}

	var record *domain.AddressRecord
	if data := gjson.GetBytes(resp.Body(), "suggestions.0.data"); data.Exists() {
		record = addressRecordFromData(data)
	}
	c.cadastres.Add(cadNum, record)
	return record, nil
}

// ResolveOrganization ищет юрлицо по ИНН (только головная организация)
func (c *Client) ResolveOrganization(ctx context.Context, inn string) (*domain.PartyRecord, error) {
	if record, ok := c.parties.Get(inn); ok {
		return record, nil
	}
	c.logger.Debug("dadata find party", port.Fields{"inn": inn})

	resp, err := c.suggest.R().
		SetContext(ctx).
		SetBody(map[string]any{"query": inn, "count": 1, "branch_type": "MAIN"}).
		Post("/findById/party")
	if err != nil {
		return nil, &domain.UpstreamError{Service: serviceName, Err: err}
	}
	if !resp.IsSuccess() {
		return nil, &domain.UpstreamError{Service: serviceName, StatusCode: resp.StatusCode()}
	}

	var record *domain.PartyRecord
	if suggestion := gjson.GetBytes(resp.Body(), "suggestions.0"); suggestion.Exists() {
		record = partyRecordFromSuggestion(suggestion)
	}
	c.parties.Add(inn, record)
	return record, nil
}
