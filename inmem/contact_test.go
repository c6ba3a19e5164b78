package inmem_test

import (
	"context"
	"testing"

	"phonebook/contact"
	"phonebook/inmem"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps insertion order", func(t *testing.T) {
		repo := inmem.NewContactRepository()
		require.NoError(t, repo.CreateContact(ctx, contact.Contact{Name: "Bob", Number: "+442071838750"}))
		require.NoError(t, repo.CreateContact(ctx, contact.Contact{Name: "Alice", Number: "+14155552671"}))

		rows, err := repo.AllContacts(ctx)

		require.NoError(t, err)
		assert.Equal(t, []contact.Contact{
			{Name: "Bob", Number: "+442071838750"},
			{Name: "Alice", Number: "+14155552671"},
		}, rows)
	})

	t.Run("allows duplicate names", func(t *testing.T) {
		repo := inmem.NewContactRepository()
		require.NoError(t, repo.CreateContact(ctx, contact.Contact{Name: "Alice", Number: "+14155552671"}))
		require.NoError(t, repo.CreateContact(ctx, contact.Contact{Name: "Alice", Number: "+16502530000"}))

		rows, err := repo.AllContacts(ctx)

		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})

	t.Run("updates only matching rows", func(t *testing.T) {
		repo := inmem.NewContactRepository(
			contact.Contact{Name: "Alice", Number: "+14155552671"},
			contact.Contact{Name: "Bob", Number: "+16502530000"},
		)

		require.NoError(t, repo.UpdateNumber(ctx, "Alice", "+442071838750"))
		require.NoError(t, repo.UpdateNumber(ctx, "Nobody", "+442071838750"))

		rows, err := repo.AllContacts(ctx)
		require.NoError(t, err)
		assert.Equal(t, []contact.Contact{
			{Name: "Alice", Number: "+442071838750"},
			{Name: "Bob", Number: "+16502530000"},
		}, rows)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		repo := inmem.NewContactRepository(contact.Contact{Name: "Alice", Number: "+14155552671"})

		assert.NoError(t, repo.DeleteContact(ctx, "Ghost"))
		assert.NoError(t, repo.DeleteContact(ctx, "Ghost"))
		assert.NoError(t, repo.DeleteContact(ctx, "Alice"))
		assert.NoError(t, repo.DeleteContact(ctx, "Alice"))

		rows, err := repo.AllContacts(ctx)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("returned rows are a snapshot", func(t *testing.T) {
		repo := inmem.NewContactRepository(contact.Contact{Name: "Alice", Number: "+14155552671"})

		rows, err := repo.AllContacts(ctx)
		require.NoError(t, err)
		rows[0].Number = "changed"

		again, err := repo.AllContacts(ctx)
		require.NoError(t, err)
		assert.Equal(t, "+14155552671", again[0].Number)
	})
}
