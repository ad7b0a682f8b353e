package adclient

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptyAccessToken  = errors.New("access token vazio na resposta de autenticação")
	ErrMalformedResponse = errors.New("resposta malformada da plataforma de anúncios")
)

// StatusError é devolvido quando a API responde com status fora da faixa 2xx
type StatusError struct {
	Operation  string
	StatusCode int
	RetryAfter string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Operation, e.StatusCode, strings.TrimSpace(e.Body))
}

// IsRateLimited indica HTTP 429, um sinal para esperar e tentar de novo
func (e *StatusError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsServiceUnavailable indica HTTP 503
func (e *StatusError) IsServiceUnavailable() bool {
	return e.StatusCode == http.StatusServiceUnavailable
}

// RetryAfterDuration interpreta o header retry-after em segundos
func (e *StatusError) RetryAfterDuration(fallback time.Duration) time.Duration {
	return ParseRetryAfter(e.RetryAfter, fallback)
}

// maxRetryAfter é o maior valor representável em time.Duration
const maxRetryAfter = time.Duration(math.MaxInt64)

// ParseRetryAfter converte o valor do header (segundos, inteiros ou fracionários).
// Ausente, inválido ou não positivo resulta no fallback; valores que não cabem
// em time.Duration saturam em maxRetryAfter.
func ParseRetryAfter(value string, fallback time.Duration) time.Duration {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return fallback
	}
	nanos := seconds * float64(time.Second)
	if nanos >= float64(maxRetryAfter) {
		return maxRetryAfter
	}
	return time.Duration(nanos)
}

// AsStatusError extrai o StatusError da cadeia de erros
func AsStatusError(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}

func newStatusError(operation string, statusCode int, header http.Header, body []byte) *StatusError {
	return &StatusError{
		Operation:  operation,
		StatusCode: statusCode,
		RetryAfter: header.Get("Retry-After"),
		Body:       string(body),
	}
}
