package deliveries

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()

	mock.ExpectExec("INSERT INTO webhook_deliveries").
		WithArgs("corr-1", SourceWebhook, "u1", StatusCompleted, "", `{"success":true}`, "", now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = NewRepository(mock).Record(context.Background(), Delivery{
		CorrelationID: "corr-1",
		Source:        SourceWebhook,
		UserID:        "u1",
		Status:        StatusCompleted,
		Outcome:       json.RawMessage(`{"success":true}`),
		ReceivedAt:    now,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()

	mock.ExpectQuery("FROM webhook_deliveries").
		WithArgs("u1", 5).
		WillReturnRows(pgxmock.NewRows([]string{"correlation_id", "source", "user_id", "status", "reason", "outcome", "error", "received_at"}).
			AddRow("corr-2", SourceRealtime, "u1", StatusSkipped, "provisioning-in-progress", []byte(nil), "", now).
			AddRow("corr-1", SourceWebhook, "u1", StatusCompleted, "", []byte(`{"success":true}`), "", now.Add(-time.Minute)))

	list, err := NewRepository(mock).ListByUser(context.Background(), "u1", 5)

	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "corr-2", list[0].CorrelationID)
	assert.Equal(t, "provisioning-in-progress", list[0].Reason)
	assert.JSONEq(t, `{"success":true}`, string(list[1].Outcome))
}
