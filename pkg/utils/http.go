package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// ErrRequestTimeout indica que a requisição não respondeu dentro do prazo.
// É distinto dos erros de conexão, que são devolvidos como vieram do client.
var ErrRequestTimeout = errors.New("request timeout")

// Doer é o subconjunto de *http.Client usado pelo wrapper
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Response é a resposta já lida por completo, com o corpo e a conexão liberados
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// DoWithTimeout executa a requisição com prazo máximo de timeout. O corpo é lido
// dentro do prazo e o timer é liberado tanto no sucesso quanto na falha.
func DoWithTimeout(ctx context.Context, client Doer, req *http.Request, timeout time.Duration) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, fmt.Errorf("%w after %s: %s %s", ErrRequestTimeout, timeout, req.Method, req.URL.Path)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, fmt.Errorf("%w after %s reading body: %s %s", ErrRequestTimeout, timeout, req.Method, req.URL.Path)
		}
		return nil, fmt.Errorf("erro ao ler resposta: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
