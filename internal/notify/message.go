package notify

import (
	"fmt"
	"strings"

	"github.com/GlebRadaev/rafflehub/internal/domain"
)

func numbers(rec *domain.Record) string {
	parts := make([]string, len(rec.Numbers))
	for i, n := range rec.Numbers {
		parts[i] = domain.FormatNumber(n)
	}
	return strings.Join(parts, ", ")
}

// Message renders the plain-text ticket confirmation.
func Message(receipt domain.Receipt) string {
	var b strings.Builder
	rec := receipt.Record
	if rec == nil {
		return ""
	}

	title := rec.RaffleID
	if receipt.Raffle != nil {
		title = receipt.Raffle.Title
	}
	fmt.Fprintf(&b, "Raffle: %s\n", title)

	buyer := rec.Buyer
	if name := strings.TrimSpace(buyer.FirstName + " " + buyer.LastName); name != "" {
		fmt.Fprintf(&b, "Buyer: %s\n", name)
	}
	if buyer.Cedula != "" {
		fmt.Fprintf(&b, "ID: %s\n", buyer.Cedula)
	}
	fmt.Fprintf(&b, "Tickets: %s\n", numbers(rec))
	fmt.Fprintf(&b, "Amount: %s\n", rec.Amount.StringFixed(2))
	fmt.Fprintf(&b, "Payment: %s\n", rec.Channel)
	fmt.Fprintf(&b, "Receipt: %s", rec.ReceiptCode)
	return b.String()
}
