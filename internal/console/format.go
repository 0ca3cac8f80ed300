package console

import (
	"fmt"
	"strings"

	"github.com/sirpyerre/storefront/internal/core/domain"
)

func formatProduct(p domain.Product) string {
	return fmt.Sprintf("%s | %s | $%.2f | Stock: %d", p.ID, p.Name, p.Price, p.Stock)
}

func formatUser(u domain.User) string {
	return fmt.Sprintf("%s | %s | %s", u.ID, u.Username, u.Role)
}

func formatCartItem(it domain.CartItem) string {
	return fmt.Sprintf("%s x%d = $%.2f", it.Product.Name, it.Quantity, it.Subtotal())
}

func formatTransaction(tx domain.Transaction) string {
	return fmt.Sprintf("| %s | $%.2f | %s |", tx.Username, tx.Amount, tx.Timestamp.Format(domain.TimestampLayout))
}

func heading(title string) string {
	return "\n--- " + strings.ToUpper(title) + " ---"
}
