package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"selectshop/internal/models"
)

const (
	DefaultNaverBaseURL = "https://openapi.naver.com"
	defaultDisplay      = 15
	defaultTimeout      = 5 * time.Second
	maxBodyBytes        = 1 << 20
)

// NaverOptions configura o cliente da busca de compras da Naver
type NaverOptions struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Display      int
	Timeout      time.Duration
	HTTPClient   *http.Client
}

// NaverClient implementa Client sobre a API de busca de compras da Naver
type NaverClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	display      int
	client       *http.Client
}

// NewNaverClient cria um novo cliente da Naver
func NewNaverClient(opts NaverOptions) (*NaverClient, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultNaverBaseURL
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("url base da naver inválida: %w", err)
	}
	if opts.ClientID == "" || opts.ClientSecret == "" {
		return nil, errors.New("credenciais da naver não configuradas")
	}

	display := opts.Display
	if display <= 0 {
		display = defaultDisplay
	}

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &NaverClient{
		baseURL:      base,
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		display:      display,
		client:       client,
	}, nil
}

// Search consulta a Naver uma única vez, sem retentativas
func (c *NaverClient) Search(ctx context.Context, query string) ([]models.Item, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &models.ValidationError{Message: "termo de busca vazio"}
	}

	q := url.Values{}
	q.Set("display", strconv.Itoa(c.display))
	q.Set("query", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/search/shop.json?"+q.Encode(), nil)
	if err != nil {
		return nil, &models.ExternalServiceError{Query: query, Cause: err}
	}
	req.Header.Set("X-Naver-Client-Id", c.clientID)
	req.Header.Set("X-Naver-Client-Secret", c.clientSecret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &models.ExternalServiceError{Query: query, Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &models.ExternalServiceError{Query: query, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &models.ExternalServiceError{
			Query: query,
			Cause: fmt.Errorf("status code: %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	items, err := decodeShopResponse(body)
	if err != nil {
		return nil, &models.ExternalServiceError{Query: query, Cause: err}
	}
	return items, nil
}

type shopResponse struct {
	Items *[]shopItem `json:"items"`
}

type shopItem struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Image  string `json:"image"`
	LPrice price  `json:"lprice"`
}

// price aceita o lprice como string ("12000") ou número (12000)
type price int

func (p *price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("lprice inválido %q", s)
		}
		*p = price(v)
		return nil
	}

	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("lprice inválido %s", data)
	}
	*p = price(v)
	return nil
}

func decodeShopResponse(body []byte) ([]models.Item, error) {
	var res shopResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("resposta malformada: %w", err)
	}
	if res.Items == nil {
		return nil, errors.New("resposta malformada: campo items ausente")
	}

	items := make([]models.Item, 0, len(*res.Items))
	for _, it := range *res.Items {
		items = append(items, models.Item{
			Title:       plainText(it.Title),
			Link:        it.Link,
			Image:       it.Image,
			LowestPrice: int(it.LPrice),
		})
	}
	return items, nil
}
