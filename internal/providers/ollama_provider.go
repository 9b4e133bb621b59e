package providers

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"infinite-experiment/contactimport/internal/common"
	"infinite-experiment/contactimport/internal/constants"
	"infinite-experiment/contactimport/internal/logging"
	"infinite-experiment/contactimport/internal/metrics"
	"infinite-experiment/contactimport/internal/models/dtos"
)

const hintSystemPrompt = `Map spreadsheet column headers to database fields. Return JSON only.

Example:
Headers: ["Name", "Email", "Company Name"]
Output: {"имя": "Name", "электронная_почта": "Email", "компания": "Company Name"}

Fields you can use (Russian database):
- имя (for first names: Name, First Name, Имя, ФИО, Канал бота)
- фамилия (for last names: Last Name, Surname, Фамилия)
- компания (Company, Компания, Organization)
- должность (Position, Job Title, Должность)
- примечания (Notes, Comments, Заметки)
- электронная_почта (Email, E-mail, Почта)
- телефон (Phone, Mobile, Телефон)
- linkedin_url (LinkedIn, Линкедин)
- телеграмма (Telegram, Телега, TG)
- website (Website, Domain, Домен, Сайт)
- страна (Country, Страна, Region)
- рейтинг (Rating, Score, Рейтинг)
- сеть (Network, Нетворк, Community)
- день_рождения (Birthday, Birth Date, Дата)

Special mappings:
- "канал бота" or similar names → use "имя"
- "LinkedIn/Телега" → use "телеграмма"
- "должность и заметки" → use "должность"

Return ONLY the fields you find. Skip fields you don't see.`

// OllamaConfig configures the local LLM endpoint
type OllamaConfig struct {
	BaseURL    string
	Model      string
	Timeout    time.Duration
	RatePerSec float64
	CacheTTL   time.Duration
}

// OllamaHintProvider implements HintProvider against an Ollama /api/chat endpoint
type OllamaHintProvider struct {
	BaseURL string
	Model   string
	Client  *http.Client

	cache    common.CacheInterface
	cacheTTL time.Duration
	group    singleflight.Group
	limiter  *rate.Limiter
	metrics  *metrics.MetricsRegistry
}

var _ HintProvider = (*OllamaHintProvider)(nil)

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format"`
}

type ollamaResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

// NewOllamaHintProvider creates a new hint provider. cache and m may be nil.
func NewOllamaHintProvider(cfg OllamaConfig, cache common.CacheInterface, m *metrics.MetricsRegistry) *OllamaHintProvider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	limit := rate.Inf
	if cfg.RatePerSec > 0 {
		limit = rate.Limit(cfg.RatePerSec)
	}

	return &OllamaHintProvider{
		BaseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		Model:    cfg.Model,
		Client:   &http.Client{Timeout: cfg.Timeout},
		cache:    cache,
		cacheTTL: cfg.CacheTTL,
		limiter:  rate.NewLimiter(limit, 1),
		metrics:  m,
	}
}

// SuggestMapping returns the raw field to header mapping proposed by the model.
// Identical concurrent requests share one upstream call.
func (p *OllamaHintProvider) SuggestMapping(ctx context.Context, headers []string, sampleRow dtos.Row) (map[string]string, error) {
	if len(headers) == 0 {
		return nil, &ProviderError{
			Code:    constants.ErrCodeInvalidBody,
			Message: constants.MsgNoHeaders,
		}
	}

	key := hintCacheKey(headers, sampleRow)
	if cached, ok := p.fromCache(key); ok {
		p.count("cache_hit")
		return cached, nil
	}

	val, err, _ := p.group.Do(key, func() (interface{}, error) {
		// a call that finished while we waited may have filled the cache
		if cached, ok := p.fromCache(key); ok {
			return cached, nil
		}
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, &ProviderError{
				Code:    constants.ErrCodeRateLimited,
				Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
				Err:     err,
			}
		}

		mapping, err := p.chat(ctx, headers, sampleRow)
		if err != nil {
			return nil, err
		}
		if p.cache != nil {
			p.cache.Set(key, mapping, p.cacheTTL)
		}
		return mapping, nil
	})
	if err != nil {
		p.count("error")
		logging.Warn("Hint request failed", "headers", len(headers), "error", err)
		return nil, err
	}

	p.count("ok")
	return copyMapping(val.(map[string]string)), nil
}

func (p *OllamaHintProvider) chat(ctx context.Context, headers []string, sampleRow dtos.Row) (map[string]string, error) {
	headersJSON, _ := json.Marshal(headers)
	prompt := "Headers: " + string(headersJSON)
	if len(sampleRow) > 0 {
		if sample, err := json.Marshal(sampleRow); err == nil {
			prompt += "\nSample row: " + string(sample)
		}
	}
	prompt += "\nOutput:"

	payload := ollamaRequest{
		Model: p.Model,
		Messages: []ollamaMessage{
			{Role: "system", Content: hintSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Stream: false,
		Format: "json",
	}

	var resp ollamaResponse
	if _, err := p.doPost(ctx, "/api/chat", payload, &resp); err != nil {
		return nil, err
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(resp.Message.Content), &raw); err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeHintInvalidResponse,
			Message: constants.GetErrorMessage(constants.ErrCodeHintInvalidResponse),
			Details: resp.Message.Content,
			Err:     err,
		}
	}

	mapping := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			mapping[k] = s
		}
	}
	return mapping, nil
}

// doPost performs a POST request with a JSON body
func (p *OllamaHintProvider) doPost(ctx context.Context, endpoint string, payload interface{}, result interface{}) (int, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeHintUnavailable,
			Message: "Failed to marshal request body",
			Err:     err,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+endpoint, bytes.NewReader(payloadBytes))
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeHintUnavailable,
			Message: "Failed to create request",
			Err:     err,
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return 0, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return resp.StatusCode, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to read response body",
			Err:     readErr,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, buildHTTPError(resp.StatusCode, endpoint, string(bodyBytes))
	}

	if err := json.Unmarshal(bodyBytes, result); err != nil {
		return resp.StatusCode, &ProviderError{
			Code:    constants.ErrCodeHintInvalidResponse,
			Message: "Failed to decode response",
			Details: string(bodyBytes),
			Err:     err,
		}
	}
	return resp.StatusCode, nil
}

// buildHTTPError creates appropriate error based on status code
func buildHTTPError(statusCode int, endpoint string, body string) error {
	if statusCode == http.StatusTooManyRequests {
		return &ProviderError{
			Code:    constants.ErrCodeRateLimited,
			Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
			Details: body,
		}
	}
	return &ProviderError{
		Code:    constants.ErrCodeHintUnavailable,
		Message: fmt.Sprintf("HTTP %d from %s", statusCode, endpoint),
		Details: body,
	}
}

func (p *OllamaHintProvider) fromCache(key string) (map[string]string, bool) {
	if p.cache == nil {
		return nil, false
	}
	val, ok := p.cache.Get(key)
	if !ok {
		return nil, false
	}
	switch m := val.(type) {
	case map[string]string:
		return copyMapping(m), true
	case map[string]interface{}:
		// redis hands values back through JSON
		out := make(map[string]string, len(m))
		for k, v := range m {
			if s, ok := v.(string); ok {
				out[k] = s
			}
		}
		return out, true
	}
	return nil, false
}

func (p *OllamaHintProvider) count(result string) {
	if p.metrics != nil {
		p.metrics.HintRequestsTotal.WithLabelValues(result).Inc()
	}
}

func hintCacheKey(headers []string, sampleRow dtos.Row) string {
	h := sha256.New()
	for _, header := range headers {
		h.Write([]byte(header))
		h.Write([]byte{0x1f})
	}
	keys := make([]string, 0, len(sampleRow))
	for k := range sampleRow {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%v\x1e", k, sampleRow[k])
	}
	return string(constants.CachePrefixHints) + hex.EncodeToString(h.Sum(nil))
}

func copyMapping(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
