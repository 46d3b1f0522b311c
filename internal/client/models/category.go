package models

// Category is a client-side product classification. The backend does not
// store it, so assignments live in the local overlay.
type Category struct {
	ID    int
	Name  string
	Icon  string
	Color string
}

// Categories is the static catalog assignments resolve against.
var Categories = []Category{
	{ID: 1, Name: "Dairy", Icon: "cheese", Color: "#FFE082"},
	{ID: 2, Name: "Meat", Icon: "food-steak", Color: "#EF9A9A"},
	{ID: 3, Name: "Vegetables", Icon: "carrot", Color: "#A5D6A7"},
	{ID: 4, Name: "Fruits", Icon: "food-apple", Color: "#FFAB91"},
	{ID: 5, Name: "Fish", Icon: "fish", Color: "#81D4FA"},
	{ID: 6, Name: "Grains", Icon: "barley", Color: "#D7CCC8"},
	{ID: 7, Name: "Bakery", Icon: "bread-slice", Color: "#FFCC80"},
	{ID: 8, Name: "Drinks", Icon: "cup", Color: "#B3E5FC"},
	{ID: 9, Name: "Frozen", Icon: "snowflake", Color: "#E1F5FE"},
	{ID: 10, Name: "Sweets", Icon: "candy", Color: "#F8BBD0"},
	{ID: 11, Name: "Sauces", Icon: "bottle-tonic", Color: "#FFCDD2"},
	{ID: 12, Name: "Spices", Icon: "shaker", Color: "#DCEDC8"},
	{ID: 13, Name: "Canned", Icon: "food-variant", Color: "#CFD8DC"},
	{ID: 14, Name: "Eggs", Icon: "egg", Color: "#FFF9C4"},
}

var categoryIndex = func() map[int]*Category {
	m := make(map[int]*Category, len(Categories))
	for i := range Categories {
		m[Categories[i].ID] = &Categories[i]
	}
	return m
}()

// CategoryByID resolves id against the catalog.
func CategoryByID(id int) (Category, bool) {
	c, ok := categoryIndex[id]
	if !ok {
		return Category{}, false
	}
	return *c, true
}

// CategoryByName finds a category by case-sensitive catalog name, as produced
// by the product scanner ("Dairy", "Meat", ...).
func CategoryByName(name string) (Category, bool) {
	for _, c := range Categories {
		if c.Name == name {
			return c, true
		}
	}
	return Category{}, false
}
