package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/keilerkonzept/sponsorwall/internal/api"
	"github.com/keilerkonzept/sponsorwall/internal/domain"
)

// CompanyAPI is the part of the API client the companies store needs.
type CompanyAPI interface {
	Companies(ctx context.Context) ([]domain.Company, error)
	CreateCompany(ctx context.Context, in api.CompanyInput) (domain.Company, error)
	UpdateCompany(ctx context.Context, id string, in api.CompanyInput) (domain.Company, error)
	DeleteCompany(ctx context.Context, id string) error
}

type Companies struct {
	*resource[domain.Company]
	api CompanyAPI
}

func NewCompanies(client CompanyAPI, logger *zap.Logger) *Companies {
	return &Companies{
		resource: newResource("companies", func(c domain.Company) string { return c.ID }, logger),
		api:      client,
	}
}

func (s *Companies) Fetch(ctx context.Context) error {
	items, err := call(ctx, s.resource, "fetch", s.api.Companies)
	if err != nil {
		return err
	}
	s.replaceAll(items)
	return nil
}

func (s *Companies) Create(ctx context.Context, in api.CompanyInput) (domain.Company, error) {
	c, err := call(ctx, s.resource, "create", func(ctx context.Context) (domain.Company, error) {
		return s.api.CreateCompany(ctx, in)
	})
	if err != nil {
		return domain.Company{}, err
	}
	s.appendItem(c)
	return c, nil
}

func (s *Companies) Update(ctx context.Context, id string, in api.CompanyInput) (domain.Company, error) {
	c, err := call(ctx, s.resource, "update", func(ctx context.Context) (domain.Company, error) {
		return s.api.UpdateCompany(ctx, id, in)
	})
	if err != nil {
		return domain.Company{}, err
	}
	s.replaceByID(id, c)
	return c, nil
}

func (s *Companies) Delete(ctx context.Context, id string) error {
	_, err := call(ctx, s.resource, "delete", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.api.DeleteCompany(ctx, id)
	})
	if err != nil {
		return err
	}
	s.removeByID(id)
	return nil
}
