package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
)

const aiHint = "Tip: recipes are generated by an AI model from what is in your fridge. " +
	"Check ingredients and cooking times before you rely on them. Type 'nohint' to hide this."

// Recipe asks for ingredients (prefilled from the inventory, optionally one
// category) and a wish, then prints the generated recipes.
func (a *App) Recipe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("recipe", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cat := fs.Int("cat", 0, "take ingredients from this category")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("usage: recipe [-cat N]")
	}

	if a.hints.ShowAIHint(ctx) {
		fmt.Fprintln(a.out, aiHint)
	}

	available, err := a.recipes.IngredientsFor(ctx, *cat)
	if err != nil {
		return err
	}
	line, err := a.ask("Ingredients, comma separated", strings.Join(available, ", "))
	if err != nil {
		return err
	}
	prompt, err := getSimpleText(a.reader, "What would you like to cook?", a.out)
	if err != nil {
		return err
	}

	recipes, err := a.recipes.Generate(ctx, SplitList(line), prompt)
	if err != nil {
		return err
	}
	if len(recipes) == 0 {
		fmt.Fprintln(a.out, "No recipes found.")
		return nil
	}
	for i, r := range recipes {
		fmt.Fprintf(a.out, "%d. %s", i+1, r.Title)
		if r.Difficulty != "" {
			fmt.Fprintf(a.out, " (%s)", r.Difficulty)
		}
		fmt.Fprintln(a.out)
		if len(r.UsedIngredients) > 0 {
			fmt.Fprintln(a.out, "   uses:", strings.Join(r.UsedIngredients, ", "))
		}
		if len(r.MissingIngredients) > 0 {
			fmt.Fprintln(a.out, "   missing:", strings.Join(r.MissingIngredients, ", "))
		}
		for j, step := range r.Instructions {
			fmt.Fprintf(a.out, "   %d) %s\n", j+1, step)
		}
	}
	return nil
}

func (a *App) DismissHint(ctx context.Context, _ []string) error {
	if err := a.hints.DismissAIHint(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Hint hidden")
	return nil
}
