//go:build integration

package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bangalorecabs/service-booking/internal/domain/geo"
	"github.com/bangalorecabs/service-booking/pkg/maps"
)

// setupPlaceCacheDB starts a PostgreSQL testcontainer, connects GORM, and
// migrates the place-lookup table.
func setupPlaceCacheDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_places",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_places sslmode=disable", host, port.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(&PlaceLookupModel{}))
	return db
}

func placeCandidates(placeID string) []maps.Candidate {
	return []maps.Candidate{{
		PlaceID:     placeID,
		Description: "Koramangala, Bengaluru",
		Coordinate:  geo.Coordinate{Latitude: 12.9352, Longitude: 77.6245},
	}}
}

func lookupRowCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&PlaceLookupModel{}).Count(&count).Error)
	return count
}

func TestGormPlaceCacheRepository_PutGetRoundTrip(t *testing.T) {
	db := setupPlaceCacheDB(t)
	repo := NewGormPlaceCacheRepository(db, time.Hour)
	ctx := context.Background()

	want := placeCandidates("p1")
	require.NoError(t, repo.Put(ctx, "koramangala|12.9629,77.5775", want))

	got, hit, err := repo.Get(ctx, "koramangala|12.9629,77.5775")
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, want, got)

	_, hit, err = repo.Get(ctx, "no-such-key")
	require.NoError(t, err)
	assert.False(t, hit, "an absent key is a miss, not an error")
}

func TestGormPlaceCacheRepository_ExpiredEntryIsAMiss(t *testing.T) {
	db := setupPlaceCacheDB(t)
	repo := NewGormPlaceCacheRepository(db, 300*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "shortlived", placeCandidates("p1")))

	_, hit, err := repo.Get(ctx, "shortlived")
	require.NoError(t, err)
	require.True(t, hit, "entry must be served before its TTL elapses")

	require.Eventually(t, func() bool {
		_, hit, err := repo.Get(ctx, "shortlived")
		return err == nil && !hit
	}, 3*time.Second, 50*time.Millisecond, "entry past its TTL must read as a miss")
}

func TestGormPlaceCacheRepository_PutReplacesExistingKey(t *testing.T) {
	db := setupPlaceCacheDB(t)
	repo := NewGormPlaceCacheRepository(db, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, "mg road", placeCandidates("stale")))
	require.NoError(t, repo.Put(ctx, "mg road", placeCandidates("fresh")))

	got, hit, err := repo.Get(ctx, "mg road")
	require.NoError(t, err)
	require.True(t, hit)
	require.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].PlaceID)

	assert.EqualValues(t, 1, lookupRowCount(t, db), "rewriting a key must not grow the table")
}

func TestGormPlaceCacheRepository_PurgeExpiredRemovesOnlyExpiredRows(t *testing.T) {
	db := setupPlaceCacheDB(t)
	shortRepo := NewGormPlaceCacheRepository(db, 100*time.Millisecond)
	longRepo := NewGormPlaceCacheRepository(db, time.Hour)
	ctx := context.Background()

	require.NoError(t, shortRepo.Put(ctx, "doomed-1", placeCandidates("p1")))
	require.NoError(t, shortRepo.Put(ctx, "doomed-2", placeCandidates("p2")))
	require.NoError(t, longRepo.Put(ctx, "keeper", placeCandidates("p3")))

	time.Sleep(200 * time.Millisecond)

	purged, err := shortRepo.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, purged)
	assert.EqualValues(t, 1, lookupRowCount(t, db))

	_, hit, err := longRepo.Get(ctx, "keeper")
	require.NoError(t, err)
	assert.True(t, hit, "unexpired rows must survive the purge")

	purged, err = shortRepo.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, purged)
}
