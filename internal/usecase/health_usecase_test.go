package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	uc := NewHealthUsecase(map[string]Pinger{
		"database": PingFunc(func(context.Context) error { return nil }),
		"redis":    nil,
	})
	status := uc.Check(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "ok", status.Dependencies["database"])
	assert.Equal(t, "disabled", status.Dependencies["redis"])

	uc = NewHealthUsecase(map[string]Pinger{
		"database": PingFunc(func(context.Context) error { return errors.New("refused") }),
	})
	status = uc.Check(context.Background())
	assert.Equal(t, "degraded", status.Status)
	assert.Equal(t, "degraded", status.Dependencies["database"])
}
