package cli

import (
	"context"
	"fmt"
	"strings"
)

// Profile shows the profile, or renames or deletes the account.
func (a *App) Profile(ctx context.Context, args []string) error {
	if len(args) == 0 {
		p, err := a.profile.Load(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Email:", p.Email)
		fmt.Fprintln(a.out, "Name: ", p.Name)
		return nil
	}

	switch args[0] {
	case "rename":
		p, err := a.profile.Update(ctx, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		a.setUserName(p.Name)
		fmt.Fprintln(a.out, "Name saved")
		return nil
	case "delete":
		answer, err := getSimpleText(a.reader, "Delete the account and all local data? Type 'yes' to confirm", a.out)
		if err != nil {
			return err
		}
		if answer != "yes" {
			fmt.Fprintln(a.out, "Cancelled")
			return nil
		}
		if err := a.profile.Delete(ctx); err != nil {
			return err
		}
		a.setUserName("")
		fmt.Fprintln(a.out, "Account deleted")
		return nil
	default:
		return fmt.Errorf("usage: profile [rename <name>|delete]")
	}
}
