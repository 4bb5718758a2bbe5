package command

import (
	"context"
	"net/mail"
	"strings"

	"github.com/tair/grocery-pos/internal/customer/domain"
	"github.com/tair/grocery-pos/pkg/apperror"
	"github.com/tair/grocery-pos/pkg/database"
)

// CustomerInput carries the editable fields of a customer. Nil fields are
// left unchanged on update.
type CustomerInput struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

func normalizeEmail(raw string) (*string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return nil, nil
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, apperror.InvalidInput("invalid email %q", raw)
	}
	return &email, nil
}

func (in CustomerInput) apply(c *domain.Customer) error {
	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if c.Name == "" {
		return apperror.InvalidInput("customer name is required")
	}
	if in.Email != nil {
		email, err := normalizeEmail(*in.Email)
		if err != nil {
			return err
		}
		c.Email = email
	}
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		c.Address = strings.TrimSpace(*in.Address)
	}
	return nil
}

type CreateCustomerHandler struct {
	repo domain.CustomerRepository
}

func NewCreateCustomerHandler(repo domain.CustomerRepository) *CreateCustomerHandler {
	return &CreateCustomerHandler{repo: repo}
}

func (h *CreateCustomerHandler) Handle(ctx context.Context, in CustomerInput) (*domain.Customer, error) {
	customer := &domain.Customer{}
	if err := in.apply(customer); err != nil {
		return nil, err
	}
	if err := h.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

type UpdateCustomerHandler struct {
	repo domain.CustomerRepository
}

func NewUpdateCustomerHandler(repo domain.CustomerRepository) *UpdateCustomerHandler {
	return &UpdateCustomerHandler{repo: repo}
}

func (h *UpdateCustomerHandler) Handle(ctx context.Context, id uint, in CustomerInput) (*domain.Customer, error) {
	customer, err := h.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.apply(customer); err != nil {
		return nil, err
	}
	if err := h.repo.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomerHandler removes customers that no sale references
type DeleteCustomerHandler struct {
	repo domain.CustomerRepository
	tx   *database.Transactor
}

func NewDeleteCustomerHandler(repo domain.CustomerRepository, tx *database.Transactor) *DeleteCustomerHandler {
	return &DeleteCustomerHandler{repo: repo, tx: tx}
}

func (h *DeleteCustomerHandler) Handle(ctx context.Context, id uint) error {
	return h.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := h.repo.FindByID(ctx, id); err != nil {
			return err
		}
		referenced, err := h.repo.HasSales(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return apperror.Conflict("customer %d has sales and cannot be deleted", id)
		}
		return h.repo.Delete(ctx, id)
	})
}
