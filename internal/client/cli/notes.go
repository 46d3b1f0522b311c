package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/models"
)

// Notes lists local notes, optionally filtered by a search phrase.
func (a *App) Notes(ctx context.Context, args []string) error {
	notes, err := a.notes.List(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		fmt.Fprintln(a.out, "No notes.")
		return nil
	}
	for _, n := range notes {
		printNote(a.out, n)
	}
	return nil
}

func printNote(w io.Writer, n models.Note) {
	pin := " "
	if n.Pinned {
		pin = "^"
	}
	fmt.Fprintf(w, "%s %s  %s  (%s)\n", pin, n.ID, n.Title, n.UpdatedAt.Local().Format(time.DateTime))
	for _, line := range strings.Split(n.Text, "\n") {
		if line != "" {
			fmt.Fprintln(w, "    "+line)
		}
	}
}

// Note handles "note add", "note edit <id>", "note pin <id>" and
// "note rm <id>".
func (a *App) Note(ctx context.Context, args []string) error {
	const usage = "note add|edit <id>|pin <id>|rm <id>"
	sub, err := needArg(args, usage)
	if err != nil {
		return err
	}

	if sub == "add" {
		title, text, err := a.askNote("", "")
		if err != nil {
			return err
		}
		n, err := a.notes.Create(ctx, title, text)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Note saved:", n.ID)
		return nil
	}

	id, err := needArg(args[1:], usage)
	if err != nil {
		return err
	}
	switch sub {
	case "edit":
		current, err := a.findNote(ctx, id)
		if err != nil {
			return err
		}
		title, text, err := a.askNote(current.Title, current.Text)
		if err != nil {
			return err
		}
		if _, err := a.notes.Edit(ctx, id, title, text); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Note saved")
	case "pin":
		n, err := a.notes.TogglePin(ctx, id)
		if err != nil {
			return err
		}
		if n.Pinned {
			fmt.Fprintln(a.out, "Pinned")
		} else {
			fmt.Fprintln(a.out, "Unpinned")
		}
	case "rm":
		if err := a.notes.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Note deleted")
	default:
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

func (a *App) askNote(title, text string) (string, string, error) {
	title, err := a.ask("Title", title)
	if err != nil {
		return "", "", err
	}
	prompt := "Text"
	if text != "" {
		prompt = "Text (empty keeps the current one)"
	}
	body, err := GetMultiline(a.reader, prompt, a.out)
	if err != nil {
		return "", "", err
	}
	if body == "" {
		body = text
	}
	return title, body, nil
}

func (a *App) findNote(ctx context.Context, id string) (models.Note, error) {
	notes, err := a.notes.List(ctx, "")
	if err != nil {
		return models.Note{}, err
	}
	for _, n := range notes {
		if n.ID == id {
			return n, nil
		}
	}
	return models.Note{}, fmt.Errorf("note %s not found", id)
}
