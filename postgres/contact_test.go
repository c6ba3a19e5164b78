package postgres_test

import (
	"context"
	"phonebook/contact"
	"phonebook/postgres"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestContactRepository(t *testing.T) {
	// Arrange - one container shared by every subtest
	dbName, dbUser, dbPass := "contact_test", "testuser", "testpass"
	db := CreateConnection(t, dbName, dbUser, dbPass)
	MigrateTestDatabase(t, db, migrationsDir)
	ctx := context.Background()

	t.Run("creates a contact verbatim", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)
		c := contact.Contact{Name: "Bob", Number: "not-a-number"}

		err := repo.CreateContact(ctx, c)

		require.NoError(t, err)
		assertContactExists(t, db, c)
	})

	t.Run("allows duplicate names", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)

		require.NoError(t, repo.CreateContact(ctx, contact.Contact{Name: "Alice", Number: "+14155552671"}))
		require.NoError(t, repo.CreateContact(ctx, contact.Contact{Name: "Alice", Number: "+16502530000"}))

		var count int64
		require.NoError(t, db.Model(&postgres.ContactModel{}).Where("name = ?", "Alice").Count(&count).Error)
		assert.Equal(t, int64(2), count)
	})

	t.Run("returns all contacts", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)
		expected := []contact.Contact{
			{Name: "Alice", Number: "+14155552671"},
			{Name: "Bob", Number: "+442071838750"},
			{Name: "Charlie", Number: "+16502530000"},
		}
		mustCreateContacts(t, db, expected)

		contacts, err := repo.AllContacts(ctx)

		require.NoError(t, err)
		assert.ElementsMatch(t, expected, contacts)
	})

	t.Run("returns empty list when no contacts exist", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)

		contacts, err := repo.AllContacts(ctx)

		require.NoError(t, err)
		assert.Empty(t, contacts)
	})

	t.Run("updates number and leaves other rows untouched", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)
		mustCreateContacts(t, db, []contact.Contact{
			{Name: "Alice", Number: "+14155552671"},
			{Name: "Bob", Number: "+16502530000"},
		})

		err := repo.UpdateNumber(ctx, "Alice", "+442071838750")

		require.NoError(t, err)
		assertContactExists(t, db, contact.Contact{Name: "Alice", Number: "+442071838750"})
		assertContactExists(t, db, contact.Contact{Name: "Bob", Number: "+16502530000"})
	})

	t.Run("update of unknown name is silent", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)

		err := repo.UpdateNumber(ctx, "Nobody", "+442071838750")

		assert.NoError(t, err)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)
		mustCreateContacts(t, db, []contact.Contact{{Name: "Alice", Number: "+14155552671"}})

		assert.NoError(t, repo.DeleteContact(ctx, "Alice"))
		assert.NoError(t, repo.DeleteContact(ctx, "Alice"))
		assert.NoError(t, repo.DeleteContact(ctx, "Ghost"))

		contacts, err := repo.AllContacts(ctx)
		require.NoError(t, err)
		assert.Empty(t, contacts)
	})

	t.Run("fails with closed database connection", func(t *testing.T) {
		repo := postgres.NewContactRepository(db)
		mustCloseDBConnection(db)

		_, err := repo.AllContacts(ctx)
		assert.Error(t, err)

		err = repo.CreateContact(ctx, contact.Contact{Name: "Alice", Number: "+14155552671"})
		assert.Error(t, err)
	})
}

func mustCloseDBConnection(db *gorm.DB) {
	sqlDB, _ := db.DB()
	sqlDB.Close()
}

func mustCreateContacts(t *testing.T, db *gorm.DB, contacts []contact.Contact) {
	t.Helper()
	for _, c := range contacts {
		err := db.Create(&postgres.ContactModel{
			Name:   c.Name,
			Number: c.Number,
		}).Error
		require.NoError(t, err)
	}
}

// assertContactExists verifies that a row with exactly these values exists
func assertContactExists(t testing.TB, db *gorm.DB, expected contact.Contact) {
	t.Helper()
	var model postgres.ContactModel
	result := db.Where("name = ? AND number = ?", expected.Name, expected.Number).Take(&model)
	require.NoError(t, result.Error, "contact should exist in database")
	assert.Equal(t, expected.Name, model.Name)
	assert.Equal(t, expected.Number, model.Number)
}

func cleanupContactDatabase(t testing.TB, db *gorm.DB) {
	t.Helper()
	err := db.Exec("TRUNCATE TABLE contacts").Error
	require.NoError(t, err)
}
