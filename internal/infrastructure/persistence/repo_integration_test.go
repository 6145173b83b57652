package persistence_test

import (
	"context"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // golang postgres driver
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"card_tradein/internal/domain/entity"
	"card_tradein/internal/domain/value"
	"card_tradein/internal/infrastructure/persistence"
	"card_tradein/pkg/dbtest"
)

// Гоняется только против живой БД: TEST_PG_DSN=postgres://... go test ./...
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := os.Getenv("TEST_PG_DSN")
	if dsn == "" {
		t.Skip("TEST_PG_DSN is not set")
	}

	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, dbtest.MigrateFromFile(db, "../../../migrations/0001_init.sql"))

	_, err = db.Exec(`TRUNCATE bracket_settings, fallback_log`)
	require.NoError(t, err)

	return db
}

func TestBracketRepositoryListByGame(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	db := testDB(t)

	_, err := db.Exec(`
		INSERT INTO bracket_settings (game, min_value, max_value, cash_percentage, trade_percentage)
		VALUES ('pokemon', 0, 10, 30, 45),
		       ('pokemon', 10.01, 100, 40, 55),
		       ('magic', 0, 50, 25, 40)`)
	rq.NoError(err)

	_, err = db.Exec(`
		INSERT INTO bracket_settings (game, fixed_cash_value, fixed_trade_value)
		VALUES ('japanese-pokemon', 10, 15)`)
	rq.NoError(err)

	repo := persistence.NewBracketRepository(db)

	settings, err := repo.ListByGame(ctx, value.GamePokemon)
	rq.NoError(err)
	rq.Len(settings, 2)
	rq.Equal(entity.BracketRanged, settings[0].Kind)
	rq.InDelta(0, settings[0].MinValue, 1e-9)
	rq.InDelta(10.01, settings[1].MinValue, 1e-9)

	settings, err = repo.ListByGame(ctx, value.GameJapanesePokemon)
	rq.NoError(err)
	rq.Len(settings, 1)
	rq.Equal(entity.BracketFixed, settings[0].Kind)
	rq.InDelta(10, settings[0].FixedCash, 1e-9)

	settings, err = repo.ListByGame(ctx, value.GameLorcana)
	rq.NoError(err)
	rq.Empty(settings)
}

func TestFallbackLogRepositoryAppend(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()
	db := testDB(t)

	repo := persistence.NewFallbackLogRepository(db)

	rq.NoError(repo.Append(ctx, entity.FallbackLogEntry{
		Game:      value.GamePokemon,
		BaseValue: 1000,
		Reason:    "no price range match for 1000.00",
		UserID:    "u-1",
		CreatedAt: time.Now(),
	}))

	rq.NoError(repo.Append(ctx, entity.FallbackLogEntry{
		Game:      value.GameMagic,
		BaseValue: 5,
		Reason:    "no settings found",
	}))

	var count int
	rq.NoError(db.Get(&count, `SELECT COUNT(*) FROM fallback_log`))
	rq.Equal(2, count)

	var userID *string
	rq.NoError(db.Get(&userID, `SELECT user_id FROM fallback_log WHERE game = 'magic'`))
	rq.Nil(userID)
}
