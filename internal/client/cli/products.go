package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/merge"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/mutation"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/reconcile"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/services"
	"github.com/dmitrijs2005/fridgekeeper/internal/timex"
)

func (a *App) List(ctx context.Context, args []string) error {
	return a.listCollection(ctx, reconcile.CollectionProducts, "list", args)
}

func (a *App) Expiring(ctx context.Context, args []string) error {
	return a.listCollection(ctx, reconcile.CollectionExpiring, "expiring", args)
}

func (a *App) Favorites(ctx context.Context, args []string) error {
	return a.listCollection(ctx, reconcile.CollectionFavorites, "favorites", args)
}

func (a *App) listCollection(ctx context.Context, coll reconcile.Collection, name string, args []string) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		f      merge.Filter
		sort   string
		cached bool
	)
	fs.StringVar(&f.StorageTab, "tab", "", "storage place id or name")
	fs.StringVar(&f.Search, "search", "", "name contains")
	fs.BoolVar(&f.FavoritesOnly, "fav", false, "favorites only")
	fs.IntVar(&f.CategoryID, "cat", 0, "category id")
	fs.StringVar(&sort, "sort", "", "asc or desc by expiration date")
	fs.BoolVar(&cached, "cached", false, "do not refresh")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("usage: %s [-tab T] [-search S] [-fav] [-cat N] [-sort asc|desc] [-cached]", name)
	}
	f.Sort = merge.ParseSortOrder(sort)

	var (
		list services.ProductList
		err  error
	)
	if cached {
		list = a.products.Cached(ctx, coll, f)
	} else {
		list, err = a.products.List(ctx, coll, f, reconcile.TriggerPullToRefresh)
	}
	if err != nil {
		if !list.Stale || len(list.Views) == 0 {
			return err
		}
		fmt.Fprintln(a.out, "Showing last known data:", describe(err))
	} else if list.Stale {
		fmt.Fprintln(a.out, "Showing last known data.")
	}

	printViews(a.out, list.Views)
	return nil
}

func printViews(w io.Writer, views []models.ProductView) {
	if len(views) == 0 {
		fmt.Fprintln(w, "No products.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tPLACE\tEXPIRES\tCATEGORY\tFRESH\t")
	for _, v := range views {
		name := v.Name
		if v.Favorite {
			name = "* " + name
		}
		if v.Pending {
			name += " ~"
		}
		category := ""
		if v.Category != nil {
			category = v.Category.Name
		}
		place := v.StorageName()
		if place == "" {
			place = v.StoragePlaceID
		}
		fmt.Fprintf(tw, "%s\t%s\t%s %s\t%s\t%s\t%s\t%.0f%%\t\n",
			v.ID, name, strconv.FormatFloat(v.Quantity, 'f', -1, 64), v.Unit,
			place, v.ExpirationDate.Display(), category, v.Freshness)
	}
	_ = tw.Flush()
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := needArg(args, "show <id>")
	if err != nil {
		return err
	}
	v, err := a.products.Get(ctx, id)
	if err != nil {
		return err
	}
	printViews(a.out, []models.ProductView{v})
	if v.Comment != "" {
		fmt.Fprintln(a.out, "Comment:", v.Comment)
	}
	return nil
}

func (a *App) Add(ctx context.Context, _ []string) error {
	in, categoryID, err := a.askProduct(ctx, nil)
	if errors.Is(err, errDone) {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}
	if err != nil {
		return err
	}
	p, err := a.products.Create(ctx, in, categoryID)
	if err != nil {
		return err
	}
	if p.ID == "" {
		fmt.Fprintln(a.out, "Added", in.Name)
	} else {
		fmt.Fprintf(a.out, "Added %s (id %s)\n", in.Name, p.ID)
	}
	return nil
}

// AddBatch collects products until an empty name and creates them in one
// call.
func (a *App) AddBatch(ctx context.Context, _ []string) error {
	var items []services.BatchItem
	for {
		fmt.Fprintf(a.out, "Product %d (empty name to finish)\n", len(items)+1)
		in, categoryID, err := a.askProduct(ctx, nil)
		if errors.Is(err, errDone) {
			break
		}
		if err != nil {
			return err
		}
		items = append(items, services.BatchItem{Input: in, CategoryID: categoryID})
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "Nothing to add.")
		return nil
	}
	created, err := a.products.CreateBatch(ctx, items)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %d products\n", len(created))
	return nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := needArg(args, "edit <id>")
	if err != nil {
		return err
	}
	current, err := a.products.Get(ctx, id)
	if err != nil {
		return err
	}
	in, categoryID, err := a.askProduct(ctx, &current)
	if err != nil {
		return err
	}
	if err := a.products.Update(ctx, id, in, categoryID); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Saved")
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := needArg(args, "delete <id>")
	if err != nil {
		return err
	}
	if err := a.products.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}

func (a *App) Favorite(ctx context.Context, args []string) error {
	id, err := needArg(args, "fav <id>")
	if err != nil {
		return err
	}
	on, err := a.products.ToggleFavorite(ctx, id)
	var rb *mutation.RollbackError
	switch {
	case errors.Is(err, mutation.ErrBusy):
		fmt.Fprintln(a.out, "A change for this product is still in progress.")
		return nil
	case errors.As(err, &rb):
		return fmt.Errorf("favorite change reverted: %s", describe(rb.Err))
	case err != nil:
		return err
	}
	if on {
		fmt.Fprintln(a.out, "Added to favorites")
	} else {
		fmt.Fprintln(a.out, "Removed from favorites")
	}
	return nil
}

func (a *App) Places(ctx context.Context, _ []string) error {
	places, err := a.products.StoragePlaces(ctx)
	if err != nil {
		return err
	}
	for _, p := range places {
		fmt.Fprintf(a.out, "%s) %s\n", p.ID, p.Name)
	}
	return nil
}

func (a *App) Categories(context.Context, []string) error {
	for _, c := range models.Categories {
		fmt.Fprintf(a.out, "%d) %s\n", c.ID, c.Name)
	}
	return nil
}

// errDone ends a batch prompt.
var errDone = errors.New("done")

// askProduct prompts for every product field. Defaults come from base when
// editing; an empty name on a new product returns errDone.
func (a *App) askProduct(ctx context.Context, base *models.ProductView) (models.ProductInput, int, error) {
	var (
		def        models.ProductInput
		defCat     string
		defQty     string
		defExpires string
	)
	if base != nil {
		def = models.ProductInput{
			Name:           base.Name,
			Quantity:       base.Quantity,
			Unit:           base.Unit,
			ExpirationDate: base.ExpirationDate,
			StoragePlaceID: base.StoragePlaceID,
			Comment:        base.Comment,
		}
		defQty = strconv.FormatFloat(base.Quantity, 'f', -1, 64)
		defExpires = base.ExpirationDate.Display()
		if base.Category != nil {
			defCat = strconv.Itoa(base.Category.ID)
		}
	}

	in := def
	name, err := a.ask("Name", def.Name)
	if err != nil {
		return in, 0, err
	}
	if name == "" {
		return in, 0, errDone
	}
	in.Name = name

	qty, err := a.ask("Quantity", defQty)
	if err != nil {
		return in, 0, err
	}
	if in.Quantity, err = strconv.ParseFloat(strings.ReplaceAll(qty, ",", "."), 64); err != nil {
		return in, 0, fmt.Errorf("quantity %q is not a number", qty)
	}

	unit, err := a.ask("Unit (pcs, kg, g, l, ml)", string(def.Unit))
	if err != nil {
		return in, 0, err
	}
	if in.Unit, err = models.ParseUnit(unit); err != nil {
		return in, 0, err
	}

	expires, err := a.ask("Expiration date DD-MM-YYYY (empty for none)", defExpires)
	if err != nil {
		return in, 0, err
	}
	if in.ExpirationDate, err = timex.ParseDisplay(expires); err != nil {
		return in, 0, err
	}

	places, err := a.products.StoragePlaces(ctx)
	if err != nil {
		return in, 0, err
	}
	names := make([]string, len(places))
	for i, p := range places {
		names[i] = p.ID + "=" + p.Name
	}
	place, err := a.ask("Storage place ("+strings.Join(names, ", ")+")", def.StoragePlaceID)
	if err != nil {
		return in, 0, err
	}
	if in.StoragePlaceID, err = resolvePlace(places, place); err != nil {
		return in, 0, err
	}

	cat, err := a.ask("Category id or name (empty for none)", defCat)
	if err != nil {
		return in, 0, err
	}
	categoryID, err := resolveCategory(cat)
	if err != nil {
		return in, 0, err
	}

	if in.Comment, err = a.ask("Comment", def.Comment); err != nil {
		return in, 0, err
	}
	return in, categoryID, nil
}

// ask prompts with an optional default shown in brackets; empty input keeps
// the default.
func (a *App) ask(prompt, def string) (string, error) {
	if def != "" {
		prompt = fmt.Sprintf("%s [%s]", prompt, def)
	}
	s, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if s == "" {
		return def, nil
	}
	return s, nil
}

func resolvePlace(places []models.StoragePlace, s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, p := range places {
		if p.ID == s || strings.EqualFold(p.Name, s) {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("unknown storage place %q", s)
}

func resolveCategory(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if id, err := strconv.Atoi(s); err == nil {
		if _, ok := models.CategoryByID(id); ok {
			return id, nil
		}
		return 0, fmt.Errorf("%w: %d", services.ErrUnknownCategory, id)
	}
	for _, c := range models.Categories {
		if strings.EqualFold(c.Name, s) {
			return c.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", services.ErrUnknownCategory, s)
}
