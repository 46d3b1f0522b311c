package cli

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/models"
	"github.com/dmitrijs2005/fridgekeeper/internal/client/services"
)

// getSimpleText and getPassword point to the interactive input helpers and
// can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) askCredentials() (models.Credentials, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return models.Credentials{}, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return models.Credentials{}, err
	}
	return models.Credentials{Email: email, Password: string(password)}, nil
}

// Register creates an account. Backends that do not sign the new user in
// leave the client logged out; the user is asked to login then.
func (a *App) Register(ctx context.Context, _ []string) error {
	creds, err := a.askCredentials()
	if err != nil {
		return err
	}
	signedIn, err := a.auth.Register(ctx, creds)
	if err != nil {
		return err
	}
	if !signedIn {
		fmt.Fprintln(a.out, "Account created, please login.")
		return nil
	}
	fmt.Fprintln(a.out, "Account created, you are logged in.")
	a.afterLogin(ctx)
	return nil
}

func (a *App) Login(ctx context.Context, _ []string) error {
	creds, err := a.askCredentials()
	if err != nil {
		return err
	}
	if err := a.auth.Login(ctx, creds); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Login successful")
	a.afterLogin(ctx)
	return nil
}

// Logout forgets the session. With -purge the local notes of the account
// are deleted as well.
func (a *App) Logout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("logout", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	purge := fs.Bool("purge", false, "delete local notes too")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("usage: logout [-purge]: %w", err)
	}

	err := a.auth.Logout(ctx, services.LogoutOptions{PurgeLocalData: *purge})
	a.setUserName("")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
