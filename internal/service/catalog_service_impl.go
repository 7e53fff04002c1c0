package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/menuplan/internal/db"
	"github.com/alexanderramin/menuplan/internal/domain"
	"github.com/alexanderramin/menuplan/internal/importer"
	"github.com/alexanderramin/menuplan/internal/repository"
)

type catalogService struct {
	terms repository.TermRepo
	items repository.ItemRepo
	uow   db.UnitOfWork
}

func NewCatalogService(terms repository.TermRepo, items repository.ItemRepo, uow db.UnitOfWork) CatalogService {
	return &catalogService{terms: terms, items: items, uow: uow}
}

func (s *catalogService) CreateTerm(ctx context.Context, t *domain.Term) error {
	var errs []error
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		errs = append(errs, fmt.Errorf("name is required"))
	}
	if !domain.ValidTaxonomies[string(t.Taxonomy)] {
		errs = append(errs, fmt.Errorf("unknown taxonomy %q", t.Taxonomy))
	}
	if t.MenuType != "" {
		if _, ok := domain.ParseMenuType(string(t.MenuType)); !ok {
			errs = append(errs, fmt.Errorf("unknown menu type %q", t.MenuType))
		} else if t.Taxonomy != domain.TaxonomyProgramMenu {
			errs = append(errs, fmt.Errorf("menu type only applies to program_menu terms"))
		}
	}
	if len(errs) > 0 {
		return formatValidationErrors("term validation", errs)
	}
	return s.terms.Create(ctx, t)
}

func (s *catalogService) ListTerms(ctx context.Context, taxonomy domain.Taxonomy) ([]domain.Term, error) {
	return s.terms.List(ctx, taxonomy)
}

func (s *catalogService) CreateItem(ctx context.Context, item *domain.Item) error {
	item.Title = strings.TrimSpace(item.Title)
	if item.Title == "" {
		return fmt.Errorf("title is required")
	}
	if item.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return s.items.Create(ctx, item)
}

func (s *catalogService) Item(ctx context.Context, id int64) (*domain.Item, error) {
	return s.items.GetByID(ctx, id)
}

func (s *catalogService) ListItems(ctx context.Context, publishedOnly bool) ([]domain.Item, error) {
	return s.items.List(ctx, publishedOnly)
}

// CreateMissingTerms creates the report's missing terms in one
// transaction, in taxonomy then first-seen order. Program menus get the
// menu type their name implies, if any.
func (s *catalogService) CreateMissingTerms(ctx context.Context, report *importer.ValidationReport) ([]domain.Term, error) {
	var created []domain.Term
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		terms := repository.NewSQLiteTermRepo(tx)
		for _, taxonomy := range domain.Taxonomies {
			for _, name := range report.MissingTerms[taxonomy] {
				t := domain.Term{Name: name, Taxonomy: taxonomy}
				if taxonomy == domain.TaxonomyProgramMenu {
					t.MenuType = t.InferredMenuType()
				}
				if err := terms.Create(ctx, &t); err != nil {
					return fmt.Errorf("creating %s term %q: %w", taxonomy, name, err)
				}
				created = append(created, t)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *catalogService) MenuType(ctx context.Context, menuID int64) (domain.MenuType, error) {
	t, err := s.terms.GetByID(ctx, menuID)
	if err != nil {
		return "", err
	}
	return t.EffectiveMenuType(), nil
}
