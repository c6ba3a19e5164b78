package postgres

import (
	"context"
	"phonebook/contact"

	"gorm.io/gorm"
)

// ContactModel represents the database model for contacts. The table has no
// key: rows are addressed by name and duplicates are allowed.
type ContactModel struct {
	Name   string `gorm:"not null"`
	Number string `gorm:"not null"`
}

// TableName specifies the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ContactRepository implements contact.Repository interface
type ContactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new contact repository
func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// CreateContact inserts a new row; the number is stored verbatim.
func (r *ContactRepository) CreateContact(ctx context.Context, c contact.Contact) error {
	model := ContactModel{
		Name:   c.Name,
		Number: c.Number,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *ContactRepository) UpdateNumber(ctx context.Context, name, number string) error {
	return r.db.WithContext(ctx).
		Model(&ContactModel{}).
		Where("name = ?", name).
		Update("number", number).Error
}

func (r *ContactRepository) DeleteContact(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Where("name = ?", name).Delete(&ContactModel{}).Error
}

// AllContacts returns rows in the order the database yields them.
func (r *ContactRepository) AllContacts(ctx context.Context) ([]contact.Contact, error) {
	var models []ContactModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}

	contacts := make([]contact.Contact, len(models))
	for i, model := range models {
		contacts[i] = contact.Contact{
			Name:   model.Name,
			Number: model.Number,
		}
	}
	return contacts, nil
}
