package telegram

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewHTTPClientTimeout(t *testing.T) {
	tests := []struct {
		name        string
		pollTimeout time.Duration
		want        time.Duration
	}{
		{name: "default polling", pollTimeout: 60 * time.Second, want: 70 * time.Second},
		{name: "short polling", pollTimeout: 0, want: 10 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newHTTPClient(tt.pollTimeout)
			assert.Equal(t, tt.want, client.Timeout)
			assert.Greater(t, client.Timeout, tt.pollTimeout)
		})
	}
}
