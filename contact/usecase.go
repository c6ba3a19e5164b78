package contact

import "context"

type Service interface {
	AddContact(ctx context.Context, c Contact) error
	EditNumber(ctx context.Context, name, number string) error
	DeleteContact(ctx context.Context, name string) error
	ListContacts(ctx context.Context) ([]Contact, error)
}

// Repository persists contact rows. UpdateNumber and DeleteContact touch every
// row whose name matches and succeed when none does.
type Repository interface {
	CreateContact(ctx context.Context, c Contact) error
	UpdateNumber(ctx context.Context, name, number string) error
	DeleteContact(ctx context.Context, name string) error
	AllContacts(ctx context.Context) ([]Contact, error)
}

type Usecase struct {
	r Repository
}

func NewUsecase(r Repository) *Usecase {
	return &Usecase{r: r}
}

func (uc *Usecase) AddContact(ctx context.Context, c Contact) error {
	return uc.r.CreateContact(ctx, c)
}

func (uc *Usecase) EditNumber(ctx context.Context, name, number string) error {
	return uc.r.UpdateNumber(ctx, name, number)
}

func (uc *Usecase) DeleteContact(ctx context.Context, name string) error {
	return uc.r.DeleteContact(ctx, name)
}

func (uc *Usecase) ListContacts(ctx context.Context) ([]Contact, error) {
	return uc.r.AllContacts(ctx)
}
