package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Exercised under -race: a token refresh must not tear while concurrent
// requests read the token for their Authorization headers.
func TestTokenRefreshConcurrentWithReaders(t *testing.T) {
	svc := &LLMService{accessToken: "initial"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				tok := svc.token()
				assert.NotEmpty(t, tok)
			}
		}()
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				svc.setToken(fmt.Sprintf("refreshed-%d-%d", i, j))
			}
		}(i)
	}
	wg.Wait()

	assert.NotEqual(t, "", svc.token())
}

func TestIsQuotaError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "http 429",
			err:      errors.New("request failed with status 429"),
			expected: true,
		},
		{
			name:     "quota message",
			err:      errors.New("Quota exceeded for this billing period"),
			expected: true,
		},
		{
			name:     "too many requests",
			err:      errors.New("Too Many Requests"),
			expected: true,
		},
		{
			name:     "unrelated failure",
			err:      errors.New("connection reset by peer"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isQuotaError(tt.err))
		})
	}
}
