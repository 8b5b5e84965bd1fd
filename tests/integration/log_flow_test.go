package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitStopperAPI/handlers"
	"habitStopperAPI/internal/habitlog"
	"habitStopperAPI/internal/user"
	"habitStopperAPI/middleware"
	"habitStopperAPI/services"
	"habitStopperAPI/tests/helpers"
)

func createTestUser(t *testing.T, userService *services.UserService) string {
	t.Helper()
	clerkID := "user_test_" + time.Now().Format("20060102150405.000000000")
	_, err := userService.CreateUser(context.Background(), &user.CreateUserRequest{
		ClerkID:   clerkID,
		Email:     "testlogs@example.com",
		Username:  "testlogs",
		FirstName: "Test",
		LastName:  "Logs",
	})
	require.NoError(t, err)
	return clerkID
}

func countLogs(t *testing.T, pool *pgxpool.Pool, clerkID, date string) int {
	t.Helper()
	var count int
	err := pool.QueryRow(context.Background(), `
		SELECT COUNT(*)
		FROM habit_logs l
		JOIN users u ON u.id = l.user_id
		WHERE u.clerk_id = $1 AND l.date = $2
	`, clerkID, date).Scan(&count)
	require.NoError(t, err)
	return count
}

func TestSetStatus_Idempotent(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	logService := services.NewLogService(pool)
	clerkID := createTestUser(t, services.NewUserService(pool))
	ctx := context.Background()

	first, err := logService.SetStatus(ctx, clerkID, "2024-03-05", habitlog.StatusSuccess)
	require.NoError(t, err)
	second, err := logService.SetStatus(ctx, clerkID, "2024-03-05", habitlog.StatusSuccess)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, countLogs(t, pool, clerkID, "2024-03-05"))
}

func TestSetStatus_LastWriteWins(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	logService := services.NewLogService(pool)
	clerkID := createTestUser(t, services.NewUserService(pool))
	ctx := context.Background()

	_, err := logService.SetStatus(ctx, clerkID, "2024-03-05", habitlog.StatusSuccess)
	require.NoError(t, err)
	entry, err := logService.SetStatus(ctx, clerkID, "2024-03-05", habitlog.StatusFailed)
	require.NoError(t, err)

	assert.Equal(t, habitlog.StatusFailed, entry.Status)
	assert.Equal(t, 1, countLogs(t, pool, clerkID, "2024-03-05"))

	logs, err := logService.ListLogs(ctx, clerkID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, habitlog.StatusFailed, logs[0].Status)
}

func TestSetStatus_ConcurrentWritersLeaveOneRow(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	logService := services.NewLogService(pool)
	clerkID := createTestUser(t, services.NewUserService(pool))

	const writers = 10
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			status := habitlog.StatusSuccess
			if i%2 == 1 {
				status = habitlog.StatusFailed
			}
			_, err := logService.SetStatus(context.Background(), clerkID, "2024-03-05", status)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, countLogs(t, pool, clerkID, "2024-03-05"))
}

func TestListLogs_ReturnsOnlyOwnedLogs(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userService := services.NewUserService(pool)
	logService := services.NewLogService(pool)
	ctx := context.Background()

	owner := createTestUser(t, userService)
	other := createTestUser(t, userService)

	_, err := logService.SetStatus(ctx, owner, "2024-03-01", habitlog.StatusSuccess)
	require.NoError(t, err)
	_, err = logService.SetStatus(ctx, owner, "2024-03-15", habitlog.StatusFailed)
	require.NoError(t, err)
	_, err = logService.SetStatus(ctx, other, "2024-03-02", habitlog.StatusSuccess)
	require.NoError(t, err)

	logs, err := logService.ListLogs(ctx, owner)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "2024-03-01", logs[0].Date)
	assert.Equal(t, "2024-03-15", logs[1].Date)
}

func TestSetStatus_UnknownIdentity(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	logService := services.NewLogService(pool)

	_, err := logService.SetStatus(context.Background(), "user_never_seen", "2024-03-05", habitlog.StatusSuccess)
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestWebhookProvisioning_ThenCurrentUser(t *testing.T) {
	pool := helpers.SetupTestDB(t)
	defer helpers.CleanupTestDB(t, pool)

	userService := services.NewUserService(pool)
	webhookHandler := handlers.NewWebhookHandler(userService)
	userHandler := handlers.NewUserHandler(userService)

	clerkID := "user_test_" + time.Now().Format("20060102150405.000000000")

	// CLERK_WEBHOOK_SECRET is unset in tests, so signature checking is skipped.
	payload := helpers.MockClerkWebhookPayload("user.created", clerkID)
	rr := httptest.NewRecorder()
	webhookHandler.HandleClerkWebhook(rr, httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewReader(payload)))
	require.Equal(t, http.StatusOK, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/current_user", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.ClerkIDKey, clerkID))
	rr = httptest.NewRecorder()
	userHandler.GetCurrentUser(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got user.User
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, clerkID, got.ClerkID)
	assert.Equal(t, "testuser", got.Username)
	assert.True(t, got.EmailVerified)
}
