package onboarding

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"codeberg.org/finboard/server/finboard/deliveries"
	"codeberg.org/finboard/server/finboard/profiles"
	"codeberg.org/finboard/server/finboard/subscribers"
	"codeberg.org/finboard/server/internal/auth"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStores struct {
	profile    *profiles.Profile
	count      int
	subscriber *subscribers.Subscriber
	deliveries []deliveries.Delivery
	countErr   error
}

func (s *stubStores) FindByID(_ context.Context, _ string) (*profiles.Profile, error) {
	if s.profile == nil {
		return nil, pgx.ErrNoRows
	}

	return s.profile, nil
}

func (s *stubStores) CountByUser(_ context.Context, _ string) (int, error) {
	return s.count, s.countErr
}

func (s *stubStores) FindByUserID(_ context.Context, _ string) (*subscribers.Subscriber, error) {
	if s.subscriber == nil {
		return nil, pgx.ErrNoRows
	}

	return s.subscriber, nil
}

func (s *stubStores) ListByUser(_ context.Context, _ string, _ int) ([]deliveries.Delivery, error) {
	return s.deliveries, nil
}

const (
	secret = "jwtsecret"

	userA = "6f1c2a8e-3b7d-4e59-9a10-2c4d5e6f7a81"
	userB = "0b9e8d7c-6a5f-4e3d-8c2b-1a0f9e8d7c6b"
)

func get(t *testing.T, s *stubStores, path string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), Stores{
		Profiles:    s,
		Categories:  s,
		Subscribers: s,
		Deliveries:  s,
	}, secret)

	token, err := auth.GenerateServiceToken(secret, time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestGetStatus_FullyOnboarded(t *testing.T) {
	end := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	s := &stubStores{
		profile:    &profiles.Profile{ID: userA, Email: "a@b.com", Name: "Usuário"},
		count:      15,
		subscriber: &subscribers.Subscriber{UserID: userA, Subscribed: true, SubscriptionTier: "Trial", TrialEnd: &end},
		deliveries: []deliveries.Delivery{{UserID: userA, Status: deliveries.StatusCompleted}},
	}

	w := get(t, s, "/api/v1/onboarding/"+userA)
	require.Equal(t, http.StatusOK, w.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, userA, resp.UserID)
	assert.True(t, resp.FullyOnboarded)
	assert.Equal(t, 15, resp.CategoryCount)
	require.NotNil(t, resp.Subscriber)
	assert.Equal(t, "Trial", resp.Subscriber.SubscriptionTier)
	assert.True(t, end.Equal(*resp.Subscriber.TrialEnd))
	assert.Len(t, resp.Deliveries, 1)
}

func TestGetStatus_NothingProvisioned(t *testing.T) {
	w := get(t, &stubStores{}, "/api/v1/onboarding/"+userB)
	require.Equal(t, http.StatusOK, w.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.False(t, resp.FullyOnboarded)
	assert.Nil(t, resp.Profile)
	assert.Nil(t, resp.Subscriber)
	assert.Empty(t, resp.Deliveries)
}

func TestGetStatus_StoreError(t *testing.T) {
	w := get(t, &stubStores{countErr: errors.New("connection refused")}, "/api/v1/onboarding/"+userA)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetStatus_RejectsNonUUID(t *testing.T) {
	s := &stubStores{countErr: errors.New("invalid input syntax for type uuid")}

	for _, id := range []string{"u1", "not-a-uuid", "123"} {
		w := get(t, s, "/api/v1/onboarding/"+id)
		assert.Equal(t, http.StatusBadRequest, w.Code, id)
	}
}

func TestGetStatus_NormalizesUUID(t *testing.T) {
	w := get(t, &stubStores{}, "/api/v1/onboarding/"+strings.ToUpper(userA))
	require.Equal(t, http.StatusOK, w.Code)

	var resp StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, userA, resp.UserID)
}

func TestRegisterRoutes_DisabledWithoutSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	RegisterRoutes(router.Group("/api/v1"), Stores{}, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/onboarding/"+userA, nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
