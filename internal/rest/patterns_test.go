package rest

import (
	"adPulse/domain"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPatternService struct {
	patterns   []domain.WinningPattern
	refreshErr error
	refreshed  []string
}

func (s *stubPatternService) GetAllPatterns(_ context.Context) ([]domain.WinningPattern, error) {
	return s.patterns, nil
}

func (s *stubPatternService) UpsertPattern(_ context.Context, pattern *domain.WinningPattern) (*domain.WinningPattern, error) {
	return pattern, nil
}

func (s *stubPatternService) DeletePattern(_ context.Context, creativeKey string) error {
	return nil
}

func (s *stubPatternService) RefreshCreative(_ context.Context, creativeKey string) error {
	s.refreshed = append(s.refreshed, creativeKey)
	return s.refreshErr
}

func TestPatternWebhookRejectsBadToken(t *testing.T) {
	stub := &stubPatternService{}
	ctrl := NewPatternWebhookController(stub, "shared-secret")

	c, rec := newAllocationContext(http.MethodPost, "/", `{"creative_key": "hero-video-v2"}`)
	c.Request().Header.Set("x-webhook-token", "wrong-secret")

	require.NoError(t, ctrl.HandleWebhook(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, stub.refreshed)
}

func TestPatternWebhookRejectsMissingToken(t *testing.T) {
	stub := &stubPatternService{}
	ctrl := NewPatternWebhookController(stub, "shared-secret")

	c, rec := newAllocationContext(http.MethodPost, "/", `{"creative_key": "hero-video-v2"}`)

	require.NoError(t, ctrl.HandleWebhook(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, stub.refreshed)
}

func TestPatternWebhookRefreshesCreative(t *testing.T) {
	stub := &stubPatternService{}
	ctrl := NewPatternWebhookController(stub, "shared-secret")

	c, rec := newAllocationContext(http.MethodPost, "/", `{"creative_key": "hero-video-v2", "event": "pattern.updated"}`)
	c.Request().Header.Set("x-webhook-token", "shared-secret")

	require.NoError(t, ctrl.HandleWebhook(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"hero-video-v2"}, stub.refreshed)
}

func TestPatternWebhookRequiresCreativeKey(t *testing.T) {
	stub := &stubPatternService{}
	ctrl := NewPatternWebhookController(stub, "shared-secret")

	c, rec := newAllocationContext(http.MethodPost, "/", `{"event": "pattern.updated"}`)
	c.Request().Header.Set("x-webhook-token", "shared-secret")

	require.NoError(t, ctrl.HandleWebhook(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, stub.refreshed)
}
