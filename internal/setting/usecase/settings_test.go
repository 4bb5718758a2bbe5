package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/tair/grocery-pos/internal/setting/domain"
	"github.com/tair/grocery-pos/internal/setting/repository"
	"github.com/tair/grocery-pos/internal/setting/usecase"
	"github.com/tair/grocery-pos/internal/testutil"
	"github.com/tair/grocery-pos/pkg/apperror"
)

func TestSeedDefaultsKeepsExistingValues(t *testing.T) {
	svc := usecase.NewSettingService(repository.NewGormSettingRepository(testutil.NewDB(t)))
	ctx := context.Background()

	if _, err := svc.Upsert(ctx, usecase.UpsertCommand{Key: "store_name", Value: "Corner Shop", ActorID: 1}); err != nil {
		t.Fatal(err)
	}
	if err := svc.SeedDefaults(ctx); err != nil {
		t.Fatal(err)
	}
	if err := svc.SeedDefaults(ctx); err != nil {
		t.Fatal(err)
	}

	all, err := svc.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != len(domain.Defaults) {
		t.Errorf("got %d settings, want %d", len(all), len(domain.Defaults))
	}
	name, err := svc.Get(ctx, "store_name")
	if err != nil {
		t.Fatal(err)
	}
	if name.Value != "Corner Shop" {
		t.Errorf("store_name = %q, seeding overwrote it", name.Value)
	}
}

func TestUpsertAndDelete(t *testing.T) {
	svc := usecase.NewSettingService(repository.NewGormSettingRepository(testutil.NewDB(t)))
	ctx := context.Background()

	s, err := svc.Upsert(ctx, usecase.UpsertCommand{Key: "tax.rate", Value: "0.08", Description: "Sales tax", ActorID: 3})
	if err != nil {
		t.Fatal(err)
	}
	if s.Value != "0.08" || s.UpdatedBy == nil || *s.UpdatedBy != 3 {
		t.Errorf("setting = %+v", s)
	}

	s, err = svc.Upsert(ctx, usecase.UpsertCommand{Key: "tax.rate", Value: "0.09", ActorID: 4})
	if err != nil {
		t.Fatal(err)
	}
	if s.Value != "0.09" || s.Description != "Sales tax" || *s.UpdatedBy != 4 {
		t.Errorf("after second upsert = %+v", s)
	}

	for _, key := range []string{"", "Tax", "9lives", "bad key"} {
		if _, err := svc.Upsert(ctx, usecase.UpsertCommand{Key: key, Value: "x"}); !errors.Is(err, apperror.ErrInvalidInput) {
			t.Errorf("key %q: %v, want invalid input", key, err)
		}
	}

	if err := svc.Delete(ctx, "tax.rate"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(ctx, "tax.rate"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("get after delete: %v, want not found", err)
	}
	if err := svc.Delete(ctx, "tax.rate"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second delete: %v, want not found", err)
	}
}
