package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/models"
)

// printNotifier shows expiry reminders in the terminal.
type printNotifier struct {
	out io.Writer
}

func (n *printNotifier) NotifyExpiring(_ context.Context, products []models.Product) error {
	if _, err := fmt.Fprintf(n.out, "Expiring soon (%d):\n", len(products)); err != nil {
		return err
	}
	for _, p := range products {
		if _, err := fmt.Fprintf(n.out, "  - %s, %s\n", p.Name, p.ExpirationDate.Display()); err != nil {
			return err
		}
	}
	return nil
}
