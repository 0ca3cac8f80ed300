// Package console is a line-oriented front-end over ports.StorefrontService:
// a start screen, the customer and admin menus, and the lockout after too
// many consecutive invalid menu inputs.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/storefront/internal/core/domain"
	"github.com/sirpyerre/storefront/internal/core/ports"
)

const defaultMaxInvalid = 3

// errQuit ends the current menu because input is exhausted.
var errQuit = errors.New("input closed")

type Console struct {
	svc        ports.StorefrontService
	in         *bufio.Scanner
	out        io.Writer
	maxInvalid int
	log        zerolog.Logger
}

func New(svc ports.StorefrontService, in io.Reader, out io.Writer, maxInvalid int, log zerolog.Logger) *Console {
	if maxInvalid <= 0 {
		maxInvalid = defaultMaxInvalid
	}
	return &Console{
		svc:        svc,
		in:         bufio.NewScanner(in),
		out:        out,
		maxInvalid: maxInvalid,
		log:        log,
	}
}

// Run drives the start screen until the user exits, input runs out, or ctx
// is cancelled.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.println("\n=== STOREFRONT ===\n1. Login\n2. Register\n3. Exit")
		choice, err := c.readInt("Choice: ")
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			c.println("Invalid input! Please enter a number.")
			continue
		}

		switch choice {
		case 1:
			err = c.login(ctx)
		case 2:
			err = c.register(ctx)
		case 3:
			c.println("Goodbye!")
			return nil
		default:
			c.println("Invalid choice! Please select 1-3.")
		}
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) login(ctx context.Context) error {
	username, err := c.readLine("Username: ")
	if err != nil {
		return err
	}
	password, err := c.readLine("Password: ")
	if err != nil {
		return err
	}

	u, err := c.svc.Login(username, password)
	if err != nil {
		c.println("Invalid username or password!")
		return nil
	}
	c.printf("Welcome, %s!\n", u.Username)

	if u.IsAdmin() {
		err = c.adminMenu(ctx)
	} else {
		err = c.customerMenu(ctx)
	}
	c.svc.Logout()
	return err
}

func (c *Console) register(ctx context.Context) error {
	username, err := c.readLine("Choose username: ")
	if err != nil {
		return err
	}
	password, err := c.readLine("Choose password: ")
	if err != nil {
		return err
	}

	_, err = c.svc.Register(ctx, ports.Credentials{Username: username, Password: password})
	switch {
	case err == nil:
		c.println("Registration successful! You can now log in.")
	case errors.Is(err, domain.ErrConflict):
		c.println("Username already exists!")
	default:
		c.printf("Registration failed: %v\n", err)
	}
	c.warnIfStale()
	return nil
}

// menuLoop shows menu until pick returns done, counting consecutive invalid
// inputs and forcing a logout once maxInvalid is reached.
func (c *Console) menuLoop(ctx context.Context, menu string, options int, pick func(int) (bool, error)) error {
	invalid := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.println(menu)
		choice, err := c.readInt("Choice: ")
		if errors.Is(err, errQuit) {
			return err
		}
		if err == nil && (choice < 1 || choice > options) {
			c.printf("Invalid choice! Please select 1-%d.\n", options)
			err = errInvalidChoice
		} else if err != nil {
			c.println("Invalid input! Please enter a number.")
		}
		if err != nil {
			invalid++
			if invalid >= c.maxInvalid {
				c.println("\nWARNING: Too many invalid attempts. Logging out for security.")
				c.log.Warn().Int("attempts", invalid).Msg("session locked out")
				return nil
			}
			continue
		}

		invalid = 0
		done, err := pick(choice)
		if err != nil || done {
			return err
		}
	}
}

var errInvalidChoice = errors.New("invalid choice")

func (c *Console) customerMenu(ctx context.Context) error {
	const menu = "\n--- CUSTOMER MENU ---\n1. View Products\n2. Add to Cart\n3. View Cart\n4. Remove from Cart\n5. Checkout\n6. Logout"
	return c.menuLoop(ctx, menu, 6, func(choice int) (bool, error) {
		switch choice {
		case 1:
			c.showProducts()
		case 2:
			return false, c.addToCart()
		case 3:
			c.showCart()
		case 4:
			return false, c.removeFromCart()
		case 5:
			return false, c.checkout(ctx)
		case 6:
			return true, nil
		}
		return false, nil
	})
}

func (c *Console) adminMenu(ctx context.Context) error {
	const menu = "\n--- ADMIN MENU ---\n1. View Products\n2. Add Product\n3. Remove Product\n4. Restock Product\n5. View Users\n6. Remove User\n7. View Payment History\n8. View User Purchase History\n9. Logout"
	return c.menuLoop(ctx, menu, 9, func(choice int) (bool, error) {
		switch choice {
		case 1:
			c.showProducts()
		case 2:
			return false, c.addProduct(ctx)
		case 3:
			return false, c.removeProduct(ctx)
		case 4:
			return false, c.restock(ctx)
		case 5:
			c.showUsers()
		case 6:
			return false, c.removeUser(ctx)
		case 7:
			c.showRevenue()
		case 8:
			return false, c.showPurchaseHistory()
		case 9:
			return true, nil
		}
		return false, nil
	})
}

// ── Customer actions ──────────────────────────────────────────────────────────

func (c *Console) showProducts() {
	c.println(heading("products"))
	products := c.svc.ListProducts()
	if len(products) == 0 {
		c.println("No products available.")
		return
	}
	for _, p := range products {
		c.println(formatProduct(p))
	}
}

func (c *Console) addToCart() error {
	id, err := c.readLine("Product ID: ")
	if err != nil {
		return err
	}
	qty, err := c.readInt("Quantity: ")
	if errors.Is(err, errQuit) {
		return err
	}
	if err != nil {
		c.println("Invalid quantity!")
		return nil
	}

	switch err := c.svc.AddProductToCart(id, qty); {
	case err == nil:
		c.println("Added to cart!")
	case errors.Is(err, domain.ErrNotFound):
		c.println("Product not found!")
	case errors.Is(err, domain.ErrInsufficientStock):
		c.println("Not enough stock!")
	case errors.Is(err, domain.ErrConflict):
		c.println("Already in cart!")
	default:
		c.println("Invalid quantity!")
	}
	return nil
}

func (c *Console) removeFromCart() error {
	id, err := c.readLine("Product ID to remove: ")
	if err != nil {
		return err
	}
	if err := c.svc.RemoveFromCart(id); err != nil {
		c.println("Product not in cart!")
		return nil
	}
	c.println("Removed!")
	return nil
}

func (c *Console) showCart() {
	items := c.svc.ViewCart()
	if len(items) == 0 {
		c.println("Cart is empty!")
		return
	}
	c.println(heading("cart"))
	for _, it := range items {
		c.println(formatCartItem(it))
	}
	c.printf("Total: $%.2f\n", c.svc.CartTotal())
}

func (c *Console) checkout(ctx context.Context) error {
	total := c.svc.CartTotal()
	if total <= 0 {
		c.println("Cart is empty!")
		return nil
	}

	c.println(heading("payment options"))
	for i, m := range domain.PaymentMethods {
		c.printf("%d. %s\n", i+1, m.Label())
	}
	choice, err := c.readInt("Select: ")
	if errors.Is(err, errQuit) {
		return err
	}
	method, perr := domain.PaymentMethodFromChoice(choice)
	if err != nil || perr != nil {
		c.println("Checkout failed. Please review your cart and try again.")
		return nil
	}

	tx, err := c.svc.Checkout(ctx, method)
	switch {
	case err == nil:
		c.printf("Payment of $%.2f processed successfully!\nOrder confirmed. Thank you for your purchase!\n", tx.Amount)
	case errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrNotFound):
		c.println("Unable to checkout: one or more items are out of stock.")
	default:
		c.println("Checkout failed. Please review your cart and try again.")
	}
	c.warnIfStale()
	return nil
}

// ── Admin actions ─────────────────────────────────────────────────────────────

func (c *Console) addProduct(ctx context.Context) error {
	id, err := c.readLine("Product ID: ")
	if err != nil {
		return err
	}
	name, err := c.readLine("Product Name: ")
	if err != nil {
		return err
	}
	price, err := c.readFloat("Price: ")
	if errors.Is(err, errQuit) {
		return err
	}
	if err != nil {
		c.println("Invalid input!")
		return nil
	}
	stock, err := c.readInt("Stock: ")
	if errors.Is(err, errQuit) {
		return err
	}
	if err != nil {
		c.println("Invalid input!")
		return nil
	}

	err = c.svc.AddProduct(ctx, ports.ProductInput{ID: id, Name: name, Price: price, Stock: stock})
	switch {
	case err == nil:
		c.println("Product added successfully!")
	case errors.Is(err, domain.ErrConflict):
		c.println("Product ID already exists!")
	default:
		c.printf("Invalid input! %v\n", err)
	}
	c.warnIfStale()
	return nil
}

func (c *Console) removeProduct(ctx context.Context) error {
	id, err := c.readLine("Product ID to remove: ")
	if err != nil {
		return err
	}
	if err := c.svc.RemoveProduct(ctx, id); err != nil {
		c.println("Product not found!")
	} else {
		c.println("Product removed successfully!")
	}
	c.warnIfStale()
	return nil
}

func (c *Console) restock(ctx context.Context) error {
	id, err := c.readLine("Product ID: ")
	if err != nil {
		return err
	}
	qty, err := c.readInt("Quantity to add: ")
	if errors.Is(err, errQuit) {
		return err
	}
	if err != nil {
		c.println("Invalid quantity!")
		return nil
	}

	switch err := c.svc.Restock(ctx, id, qty); {
	case err == nil:
		c.println("Stock updated!")
	case errors.Is(err, domain.ErrNotFound):
		c.println("Product not found!")
	default:
		c.println("Invalid quantity!")
	}
	c.warnIfStale()
	return nil
}

func (c *Console) showUsers() {
	c.println(heading("users"))
	for _, u := range c.svc.ListUsers() {
		c.println(formatUser(u))
	}
}

func (c *Console) removeUser(ctx context.Context) error {
	username, err := c.readLine("Username to remove: ")
	if err != nil {
		return err
	}
	if err := c.svc.RemoveUser(ctx, username); err != nil {
		c.println("User not found or cannot remove admin!")
	} else {
		c.println("User removed successfully!")
	}
	c.warnIfStale()
	return nil
}

func (c *Console) showRevenue() {
	report := c.svc.Revenue()
	c.println(heading("payment history"))
	if len(report.Transactions) == 0 {
		c.println("No transactions recorded.")
		return
	}
	for _, tx := range report.Transactions {
		c.println(formatTransaction(tx))
	}
	c.printf("\nTotal Revenue: $%.2f\n", report.Total)
}

func (c *Console) showPurchaseHistory() error {
	username, err := c.readLine("Username to check: ")
	if err != nil {
		return err
	}
	h := c.svc.UserPurchaseHistory(username)
	if len(h.Transactions) == 0 {
		c.printf("\nNo purchases by %s\n", username)
		return nil
	}
	c.println(heading(username + "'s purchase history"))
	for _, tx := range h.Transactions {
		c.println(formatTransaction(tx))
	}
	c.printf("Total Spent: $%.2f\n", h.Total)
	return nil
}

// ── I/O helpers ───────────────────────────────────────────────────────────────

func (c *Console) warnIfStale() {
	if err := c.svc.PersistErr(); err != nil {
		c.println("Warning: changes could not be saved to disk; they are kept in memory.")
	}
}

func (c *Console) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	if !c.in.Scan() {
		return "", errQuit
	}
	return strings.TrimRight(c.in.Text(), "\r"), nil
}

func (c *Console) readInt(prompt string) (int, error) {
	s, err := c.readLine(prompt)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(s))
}

func (c *Console) readFloat(prompt string) (float64, error) {
	s, err := c.readLine(prompt)
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
