package postgres_test

import (
	"context"
	"phonebook/postgres"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

const migrationsDir = "../migrations"

func TestConnection(t *testing.T) {
	dbName, dbUser, dbPass := "phonebook_conn", "phonebook", "123456"
	db := CreateConnection(t, dbName, dbUser, dbPass)
	MigrateTestDatabase(t, db, migrationsDir)

	var currentUser string
	err := db.Raw("SELECT current_user").Scan(&currentUser).Error
	require.NoError(t, err)
	assert.Equal(t, dbUser, currentUser)

	assert.True(t, db.Migrator().HasTable(&postgres.ContactModel{}), "contacts table should exist after migration")
}

func TestNewConnection_Error(t *testing.T) {
	opts := postgres.Options{
		DBName:   "nonexistent",
		DBUser:   "invaliduser",
		Password: "wrongpass",
		Host:     "invalidhost",
		Port:     "5432",
		SSLMode:  true,
	}

	_, err := postgres.NewConnection(opts)
	assert.Error(t, err)
}

func TestOptions_DSN(t *testing.T) {
	opts := postgres.Options{
		DBName:   "phonebook",
		DBUser:   "store",
		Password: "secret",
		Host:     "db",
		Port:     "5432",
	}

	assert.Equal(t, "host=db port=5432 user=store password=secret dbname=phonebook sslmode=disable", opts.DSN())

	opts.SSLMode = true
	assert.Contains(t, opts.DSN(), "sslmode=require")
}

func MigrateTestDatabase(t testing.TB, db *gorm.DB, migrationPath string) {
	t.Helper()

	migrations := &migrate.FileMigrationSource{
		Dir: migrationPath,
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)

	_, err = migrate.Exec(sqlDB, "postgres", migrations, migrate.Up)
	require.NoError(t, err)
}

func CreateConnection(t testing.TB, dbName string, dbUser string, dbPass string) *gorm.DB {
	t.Helper()
	cont := SetupPostgresContainer(t, dbName, dbUser, dbPass)
	host, port := extractHostAndPort(t, cont)

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   dbName,
		DBUser:   dbUser,
		Password: dbPass,
		Host:     host,
		Port:     port.Port(),
	})
	require.NoError(t, err)

	return db
}

func extractHostAndPort(t testing.TB, cont testcontainers.Container) (string, nat.Port) {
	t.Helper()
	ctx := context.Background()
	host, err := cont.Host(ctx)
	require.NoError(t, err, "failed to get container host")

	port, err := cont.MappedPort(ctx, nat.Port("5432/tcp"))
	require.NoError(t, err, "failed to get mapped port")
	return host, port
}

func SetupPostgresContainer(t testing.TB, dbname, user, password string) testcontainers.Container {
	t.Helper()
	ctx := context.Background()
	container, err := pgcontainer.RunContainer(ctx,
		testcontainers.WithImage("docker.io/postgres:15.2-alpine"),
		pgcontainer.WithDatabase(dbname),
		pgcontainer.WithUsername(user),
		pgcontainer.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, container.Terminate(ctx))
	})

	return container
}
