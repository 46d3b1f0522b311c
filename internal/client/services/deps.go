// Package services contains the application services of the fridgekeeper
// client. They sit between a user interface (the REPL in cli) and the core
// packages: the remote client, the local overlay, the optimistic mutation
// controller and the reconciliation scheduler.
package services

import (
	"context"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/client"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/mutation"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/overlay"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/reconcile"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/session"
	"github.com/dmitrijs2005/fridgekeeper/internal/logging"
	"github.com/go-playground/validator/v10"
)

// Deps is the state shared by all services of one process.
type Deps struct {
	Client    client.Client
	Session   *session.Session
	Overlay   *overlay.Store
	Favorites *mutation.FavoriteSet
	Mutations *mutation.Controller[string]
	Scheduler *reconcile.Scheduler
	Log       logging.Logger

	categories *overlay.CategoryMap
	notes      *overlay.NoteBook
	profile    *overlay.ProfileCache
	validate   *validator.Validate
}

// NewDeps wires the core around c and store.
func NewDeps(c client.Client, sess *session.Session, store kv.Store, log logging.Logger, retry reconcile.RetryPolicy) *Deps {
	ov := overlay.New(store, log)
	favs := mutation.NewFavoriteSet()
	ctrl := mutation.NewController[string](favs,
		mutation.WithLogger[string](log),
		mutation.WithRollbackHook[string](func(e *mutation.RollbackError) {
			log.Warn(context.Background(), "favorite change reverted", "id", e.ID, "err", e.Err)
		}),
	)
	cats := overlay.NewCategoryMap(ov)

	return &Deps{
		Client:     c,
		Session:    sess,
		Overlay:    ov,
		Favorites:  favs,
		Mutations:  ctrl,
		Scheduler:  reconcile.New(c, cats, favs, ctrl, log, retry),
		Log:        log,
		categories: cats,
		notes:      overlay.NewNoteBook(ov),
		profile:    overlay.NewProfileCache(ov),
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}
