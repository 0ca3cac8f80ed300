package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/storefront/internal/core/domain"
	"github.com/sirpyerre/storefront/internal/core/ports"
	"github.com/sirpyerre/storefront/internal/core/service"
	"github.com/sirpyerre/storefront/internal/infrastructure/store/flatfile"
)

func newSession(t *testing.T, dir string) *service.Storefront {
	t.Helper()
	store := flatfile.New(flatfile.Config{Dir: dir, Location: time.UTC}, zerolog.Nop())
	svc := service.NewStorefront(store, zerolog.Nop())
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return svc
}

func run(t *testing.T, svc *service.Storefront, script ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(script, "\n") + "\n")
	if err := New(svc, in, &out, 3, zerolog.Nop()).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func TestConsole_CustomerCheckoutFlow(t *testing.T) {
	dir := t.TempDir()
	svc := newSession(t, dir)

	out := run(t, svc,
		"2", "bob", "pw12",
		"1", "bob", "pw12",
		"2", "P1", "6",
		"2", "P1", "5",
		"3",
		// Credit card.
		"5", "1",
		"6",
		"3",
	)

	for _, want := range []string{
		"Registration successful!",
		"Welcome, bob!",
		"Not enough stock!",
		"Added to cart!",
		"Laptop x5 = $4995.00",
		"Payment of $4995.00 processed successfully!",
		"Goodbye!",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}

	if p, _ := svc.FindProduct("P1"); p.Stock != 0 {
		t.Fatalf("expected P1 stock 0, got %d", p.Stock)
	}

	// A fresh session over the same directory sees the persisted checkout.
	reloaded := newSession(t, dir)
	h := reloaded.UserPurchaseHistory("bob")
	if len(h.Transactions) != 1 || h.Total != 4995 {
		t.Fatalf("expected persisted transaction, got %+v", h)
	}
	if p, _ := reloaded.FindProduct("P1"); p.Stock != 0 {
		t.Fatalf("expected persisted stock 0, got %d", p.Stock)
	}
}

func TestConsole_LockoutAfterInvalidInputs(t *testing.T) {
	svc := newSession(t, t.TempDir())

	out := run(t, svc,
		"1", "admin", "admin",
		"abc", "42", "0",
		"3",
	)

	if !strings.Contains(out, "WARNING: Too many invalid attempts") {
		t.Fatalf("expected lockout warning:\n%s", out)
	}
	if !strings.Contains(out, "Goodbye!") {
		t.Fatalf("expected to return to the start screen and exit:\n%s", out)
	}
	if _, ok := svc.CurrentUser(); ok {
		t.Fatalf("lockout must end the session")
	}
}

func TestConsole_ValidInputResetsInvalidCounter(t *testing.T) {
	svc := newSession(t, t.TempDir())

	out := run(t, svc,
		"1", "admin", "admin",
		"x", "x", "1", "x", "x",
		"9",
		"3",
	)

	if strings.Contains(out, "WARNING") {
		t.Fatalf("a valid choice should reset the invalid counter:\n%s", out)
	}
}

func TestConsole_AdminFlow(t *testing.T) {
	svc := newSession(t, t.TempDir())

	out := run(t, svc,
		"2", "carol", "pw",
		"1", "admin", "admin",
		"2", "P3", "Keyboard", "45.5", "7",
		"2", "P3", "Other", "1", "1",
		"4", "P2", "5",
		"6", "admin",
		"6", "carol",
		"5",
		"7",
		"8", "carol",
		"9",
		"3",
	)

	for _, want := range []string{
		"Product added successfully!",
		"Product ID already exists!",
		"Stock updated!",
		"User not found or cannot remove admin!",
		"User removed successfully!",
		"A1 | admin | ADMIN",
		"No transactions recorded.",
		"No purchases by carol",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if p, _ := svc.FindProduct("P2"); p.Stock != 15 {
		t.Fatalf("expected P2 stock 15, got %d", p.Stock)
	}
	if len(svc.ListUsers()) != 1 {
		t.Fatalf("expected only the admin to remain")
	}
}

func TestConsole_FailedLoginAndEOF(t *testing.T) {
	svc := newSession(t, t.TempDir())

	out := run(t, svc, "1", "admin", "nope")

	if !strings.Contains(out, "Invalid username or password!") {
		t.Fatalf("expected login failure message:\n%s", out)
	}
}

func TestSession_PaddedUsernameKeepsHistoryAfterReload(t *testing.T) {
	dir := t.TempDir()
	svc := newSession(t, dir)
	ctx := context.Background()

	if _, err := svc.Register(ctx, ports.Credentials{Username: " bob", Password: "pw"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Login(" bob", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.AddProductToCart("P2", 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Checkout(ctx, domain.PaymentNone); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	reloaded := newSession(t, dir)
	if _, err := reloaded.Login(" bob", "pw"); err != nil {
		t.Fatalf("login after reload: %v", err)
	}
	if h := reloaded.UserPurchaseHistory(" bob"); len(h.Transactions) != 1 || h.Total != 25 {
		t.Fatalf("expected the padded username's purchase after reload, got %+v", h)
	}
	if h := reloaded.UserPurchaseHistory("bob"); len(h.Transactions) != 0 {
		t.Fatalf("history must not leak to the trimmed username: %+v", h)
	}
}
