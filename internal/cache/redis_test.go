package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"sadhna-backend/internal/models"
)

func TestPayrollKeyFormat(t *testing.T) {
	assert.Equal(t, "payroll:12:2024-03", PayrollKey(12, 3, 2024))
}

func TestHelpersAreNoOpsWithoutClient(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	assert.False(t, IsHealthy())

	SetCached(ctx, "k", []byte("v"), time.Minute)
	_, ok := GetCached(ctx, "k")
	assert.False(t, ok)

	pc := NewPayrollCache()
	pc.Set(ctx, &models.PayrollSummary{EmployeeID: 1, Month: 1, Year: 2024})
	_, ok = pc.Get(ctx, 1, 1, 2024)
	assert.False(t, ok)

	assert.NotPanics(t, func() { pc.Invalidate(ctx, 1) })
}
