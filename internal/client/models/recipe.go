package models

import "encoding/json"

// Recipe is one suggestion from the recipe generator. Known fields are
// decoded for display; Raw keeps the untouched item.
type Recipe struct {
	Title              string   `json:"title"`
	Difficulty         string   `json:"difficulty"`
	MatchPercentage    float64  `json:"matchPercentage"`
	UsedIngredients    []string `json:"usedIngredients"`
	MissingIngredients []string `json:"missingIngredients"`
	Instructions       []string `json:"instructions"`
	// PrepTime arrives as text or minutes depending on the model output.
	PrepTime json.RawMessage `json:"prepTime"`

	Raw json.RawMessage `json:"-"`
}

// RecipeRequest is the body of a generation call.
type RecipeRequest struct {
	AvailableIngredients []string `json:"availableIngredients"`
	UserPrompt           string   `json:"userPrompt"`
}
