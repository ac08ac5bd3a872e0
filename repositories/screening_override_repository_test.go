package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearwatch/screening-backend/models"
)

var repoNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func overrideRows(overrides ...models.ScreeningOverride) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{
		"id", "entity_id", "entity_type", "reason", "justification",
		"requested_by", "approved_by", "status", "expires_at", "created_at", "updated_at",
	})
	for _, o := range overrides {
		rows.AddRow(o.Id, o.EntityId, o.EntityType.String(), o.Reason, o.Justification,
			o.RequestedBy, o.ApprovedBy, o.Status.String(), o.ExpiresAt, o.CreatedAt, o.UpdatedAt)
	}
	return rows
}

func TestScreeningDbRepository_CreateOverride(t *testing.T) {
	exec, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer exec.Close()

	exec.ExpectExec("INSERT INTO screening_overrides").
		WithArgs("ov-1", "entity-1", "PERSON", "false positive", "same name, different DOB",
			"analyst@example.com", "PENDING", (*time.Time)(nil), repoNow, repoNow).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewScreeningDbRepository()
	err = repo.CreateOverride(context.Background(), exec, models.CreateOverrideInput{
		EntityId:      "entity-1",
		EntityType:    models.EntityTypePerson,
		Reason:        "false positive",
		Justification: "same name, different DOB",
		RequestedBy:   "analyst@example.com",
	}, "ov-1", repoNow)

	require.NoError(t, err)
	require.NoError(t, exec.ExpectationsWereMet())
}

func TestScreeningDbRepository_GetOverride(t *testing.T) {
	exec, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer exec.Close()

	stored := models.ScreeningOverride{
		Id:          "ov-1",
		EntityId:    "entity-1",
		EntityType:  models.EntityTypePerson,
		Reason:      "false positive",
		RequestedBy: "analyst@example.com",
		Status:      models.OverrideStatusPending,
		CreatedAt:   repoNow,
		UpdatedAt:   repoNow,
	}
	exec.ExpectQuery("SELECT .* FROM screening_overrides WHERE id = \\$1").
		WithArgs("ov-1").
		WillReturnRows(overrideRows(stored))

	repo := NewScreeningDbRepository()
	override, err := repo.GetOverride(context.Background(), exec, "ov-1")

	require.NoError(t, err)
	assert.Equal(t, stored, override)
	require.NoError(t, exec.ExpectationsWereMet())
}

func TestScreeningDbRepository_GetOverride_NotFound(t *testing.T) {
	exec, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer exec.Close()

	exec.ExpectQuery("SELECT .* FROM screening_overrides WHERE id = \\$1").
		WithArgs("missing").
		WillReturnRows(overrideRows())

	repo := NewScreeningDbRepository()
	_, err = repo.GetOverride(context.Background(), exec, "missing")

	assert.ErrorIs(t, err, models.NotFoundError)
}

func TestScreeningDbRepository_UpdateOverrideStatus(t *testing.T) {
	exec, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer exec.Close()

	approver := "officer@example.com"
	exec.ExpectExec("UPDATE screening_overrides SET").
		WithArgs("APPROVED", repoNow, approver, "ov-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	repo := NewScreeningDbRepository()
	err = repo.UpdateOverrideStatus(context.Background(), exec, "ov-1",
		models.OverrideStatusApproved, &approver, repoNow)

	require.NoError(t, err)
	require.NoError(t, exec.ExpectationsWereMet())
}

func TestScreeningDbRepository_GetLatestApprovedOverride_None(t *testing.T) {
	exec, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer exec.Close()

	exec.ExpectQuery("SELECT .* FROM screening_overrides WHERE").
		WithArgs("entity-1", "PERSON", "APPROVED").
		WillReturnRows(overrideRows())

	repo := NewScreeningDbRepository()
	override, err := repo.GetLatestApprovedOverride(context.Background(), exec,
		"entity-1", models.EntityTypePerson)

	require.NoError(t, err)
	assert.Nil(t, override)
}

func TestScreeningDbRepository_IsWhitelisted(t *testing.T) {
	exec, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer exec.Close()

	rows := pgxmock.NewRows([]string{
		"id", "entity_id", "entity_type", "entity_name", "added_by", "created_at",
	}).AddRow("wl-1", "entity-1", "PERSON", "Jon Smith", "analyst@example.com", repoNow)

	exec.ExpectQuery("SELECT .* FROM screening_whitelist WHERE").
		WithArgs("entity-1", "PERSON").
		WillReturnRows(rows)

	repo := NewScreeningDbRepository()
	whitelisted, err := repo.IsWhitelisted(context.Background(), exec,
		"entity-1", models.EntityTypePerson)

	require.NoError(t, err)
	assert.True(t, whitelisted)
}
