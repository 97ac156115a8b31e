package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureOutput redireciona o logger global para um buffer durante o teste
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()

	buffer := &bytes.Buffer{}
	previous := logrus.StandardLogger().Out
	logrus.SetOutput(buffer)
	logrus.SetFormatter(&logrus.JSONFormatter{})
	t.Cleanup(func() {
		logrus.SetOutput(previous)
		logrus.SetFormatter(&logrus.TextFormatter{})
	})

	return buffer
}

func TestContinueCorrelation(t *testing.T) {
	tests := []struct {
		name        string
		incoming    string
		expectReuse bool
	}{
		{
			name:        "Reaproveita UUID do chamador",
			incoming:    "3f8a1c2e-7b4d-4e6f-9a0b-1c2d3e4f5a6b",
			expectReuse: true,
		},
		{
			name:        "Normaliza espaços e caixa",
			incoming:    "  3F8A1C2E-7B4D-4E6F-9A0B-1C2D3E4F5A6B ",
			expectReuse: true,
		},
		{
			name:     "Gera novo id para valor inválido",
			incoming: "req-123",
		},
		{
			name:     "Gera novo id quando ausente",
			incoming: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, id := ContinueCorrelation(context.Background(), tt.incoming)

			require.NotEmpty(t, id)
			assert.Equal(t, id, GetCorrelationID(ctx))
			if tt.expectReuse {
				assert.Equal(t, "3f8a1c2e-7b4d-4e6f-9a0b-1c2d3e4f5a6b", id)
			} else {
				assert.NotEqual(t, tt.incoming, id)
			}
		})
	}
}

func TestForTenant_DevelopmentFilter(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	buffer := captureOutput(t)

	ctx, id := WithCorrelationID(context.Background())
	ForTenant(ctx, "T1").WithFields(Fields{
		"actor_id":    "A",
		"remote_addr": "10.0.0.1",
	}).Info("evento")

	output := buffer.String()
	assert.Contains(t, output, `"tenant_id":"T1"`)
	assert.Contains(t, output, `"actor_id":"A"`)
	assert.Contains(t, output, id)
	assert.NotContains(t, output, "remote_addr")
}

func TestForTenant_ProductionKeepsAllFields(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	buffer := captureOutput(t)

	ForTenant(context.Background(), "T1").WithField("remote_addr", "10.0.0.1").Warn("evento")

	output := buffer.String()
	assert.Contains(t, output, `"tenant_id":"T1"`)
	assert.Contains(t, output, `"remote_addr":"10.0.0.1"`)
	assert.NotContains(t, output, correlationIDField)
}
