package requestctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCaller(t *testing.T) {
	assert.Empty(t, Caller(context.Background()))
	assert.Equal(t, "registrar-1", Caller(WithCaller(context.Background(), " registrar-1 ")))
}
