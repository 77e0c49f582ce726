package cache

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"moniker/internal/platform/redis"
)

func TestIsMiss(t *testing.T) {
	assert.True(t, isMiss(redis.Nil))
	assert.True(t, isMiss(fmt.Errorf("read preferred name: %w", redis.Nil)),
		"wrapped misses must still read as misses")
	assert.False(t, isMiss(errors.New("connection refused")))
	assert.False(t, isMiss(nil))
}
