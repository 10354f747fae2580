package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurlHostForListenAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		listenAddr string
		want       string
	}{
		{":8080", "localhost:8080"},
		{"127.0.0.1:8080", "127.0.0.1:8080"},
		{"0.0.0.0:9000", "localhost:9000"},
		{"[::]:8080", "localhost:8080"},
		{"[::1]:8080", "[::1]:8080"},
		{"explorer.internal:443", "explorer.internal:443"},
		{"  :7070  ", "localhost:7070"},
		{"", "localhost:8080"},
		{"   ", "localhost:8080"},
		{"localhost", "localhost"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, curlHostForListenAddr(tt.listenAddr), "listen addr %q", tt.listenAddr)
	}
}
