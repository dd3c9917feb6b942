package redisinfra

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "verification:mobile:01HX", key("01HX", "mobile"))
	assert.NotEqual(t, key("a", "email"), key("a", "mobile"))
}

func TestNewClient_BadURL(t *testing.T) {
	_, err := NewClient(context.Background(), "not-a-url")
	assert.ErrorContains(t, err, "parse redis url")
}
