package registrations

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tws-events/checkin/internal/models"
	"github.com/tws-events/checkin/pkg/database"
)

// testPool connects to TEST_DATABASE_URL, migrates, and empties the registrations table.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, dsn, database.PoolOptions{}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, database.Migrate(ctx, pool, zap.NewNop()))
	_, err = pool.Exec(ctx, `TRUNCATE registrations`)
	require.NoError(t, err)
	return pool
}

func TestRepository_CreateAndFind(t *testing.T) {
	repo := NewRepository(testPool(t))
	ctx := context.Background()

	reg := &models.Registration{
		FullName:       "Ada Lovelace",
		Email:          "ada@example.com",
		Phone:          "555-0100",
		Institution:    "Analytical Society",
		RegistrationID: "TWS-AAAA-0001",
	}
	require.NoError(t, repo.Create(ctx, reg))
	assert.NotZero(t, reg.ID)
	assert.False(t, reg.RegisteredAt.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, reg.RegistrationID, byEmail.RegistrationID)

	byID, err := repo.GetByRegistrationID(ctx, "TWS-AAAA-0001")
	require.NoError(t, err)
	assert.Equal(t, reg.Email, byID.Email)

	exists, err := repo.RegistrationIDExists(ctx, "TWS-AAAA-0001")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.GetByRegistrationID(ctx, "TWS-MISS-0000")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_UniqueIndexes(t *testing.T) {
	repo := NewRepository(testPool(t))
	ctx := context.Background()

	base := models.Registration{FullName: "A", Email: "a@example.com", Phone: "1", Institution: "X", RegistrationID: "TWS-AAAA-0001"}
	first := base
	require.NoError(t, repo.Create(ctx, &first))

	sameEmail := base
	sameEmail.RegistrationID = "TWS-AAAA-0002"
	err := repo.Create(ctx, &sameEmail)
	require.ErrorIs(t, err, database.ErrConstraintViolation)
	assert.Equal(t, ConstraintEmail, database.ConstraintName(err))

	sameID := base
	sameID.Email = "b@example.com"
	err = repo.Create(ctx, &sameID)
	require.ErrorIs(t, err, database.ErrConstraintViolation)
	assert.Equal(t, ConstraintRegistrationID, database.ConstraintName(err))
}

func TestRepository_ListNewestFirst(t *testing.T) {
	pool := testPool(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	for i, id := range []string{"TWS-AAAA-0001", "TWS-AAAA-0002", "TWS-AAAA-0003"} {
		_, err := pool.Exec(ctx, `INSERT INTO registrations (full_name, email, phone, institution, registration_id, registered_at)
			VALUES ('n', $1, '1', 'x', $2, NOW() - make_interval(mins => $3))`,
			id+"@example.com", id, 10-i)
		require.NoError(t, err)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "TWS-AAAA-0003", list[0].RegistrationID)
	assert.Equal(t, "TWS-AAAA-0001", list[2].RegistrationID)
}
