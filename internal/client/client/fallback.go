package client

import (
	"context"
	"errors"
	"net/http"
)

// methodLadder tries HTTP methods in order, moving to the next one only when
// the server answers 405. Any other outcome, success included, stops the
// ladder. It exists because the favorite endpoint's method differs between
// backend versions; drop it once the backend settles on one.
type methodLadder []string

var favoriteMethods = methodLadder{http.MethodPatch, http.MethodPost, http.MethodPut}

var errEmptyLadder = errors.New("no methods to try")

func (l methodLadder) run(ctx context.Context, call func(ctx context.Context, method string) error) error {
	if len(l) == 0 {
		return errEmptyLadder
	}
	var err error
	for _, m := range l {
		err = call(ctx, m)
		if s, ok := statusOf(err); ok && s == http.StatusMethodNotAllowed {
			continue
		}
		return err
	}
	return err
}
