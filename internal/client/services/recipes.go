package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/merge"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/reconcile"
)

type RecipeService interface {
	Generate(ctx context.Context, ingredients []string, prompt string) ([]models.Recipe, error)
	// IngredientsFor lists the distinct product names in a category, or of
	// every product when categoryID is 0.
	IngredientsFor(ctx context.Context, categoryID int) ([]string, error)
}

type recipeService struct {
	d *Deps
}

func NewRecipeService(d *Deps) RecipeService {
	return &recipeService{d: d}
}

func (s *recipeService) Generate(ctx context.Context, ingredients []string, prompt string) ([]models.Recipe, error) {
	prompt = strings.TrimSpace(prompt)
	ingredients = distinct(ingredients)
	if prompt == "" {
		return nil, fmt.Errorf("%w: prompt is empty", ErrInvalidInput)
	}
	if len(ingredients) == 0 {
		return nil, fmt.Errorf("%w: no ingredients selected", ErrInvalidInput)
	}

	recipes, err := s.d.Client.GenerateRecipes(ctx, models.RecipeRequest{
		AvailableIngredients: ingredients,
		UserPrompt:           prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("recipe error: %w", err)
	}
	return recipes, nil
}

func (s *recipeService) IngredientsFor(ctx context.Context, categoryID int) ([]string, error) {
	snap := s.d.Scheduler.Current(ctx, reconcile.CollectionProducts)
	if snap.FetchedAt.IsZero() {
		var err error
		if snap, err = s.d.Scheduler.Refresh(ctx, reconcile.CollectionProducts, reconcile.TriggerFocus); err != nil && len(snap.Views) == 0 {
			return nil, err
		}
	}

	views := merge.Apply(snap.Views, merge.Filter{CategoryID: categoryID})
	names := make([]string, len(views))
	for i, v := range views {
		names[i] = v.Name
	}
	return distinct(names), nil
}

// distinct trims names and drops blanks and case-insensitive repeats,
// keeping first occurrences in order.
func distinct(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		k := strings.ToLower(n)
		if n == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, n)
	}
	return out
}
