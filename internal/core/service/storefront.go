package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sirpyerre/storefront/internal/core/domain"
	"github.com/sirpyerre/storefront/internal/core/ports"
	"github.com/sirpyerre/storefront/internal/metrics"
)

// Resource names, shared with metrics labels and log fields.
const (
	ResourceUsers        = "users"
	ResourceProducts     = "products"
	ResourceTransactions = "transactions"
)

// Option customises a Storefront at construction time.
type Option func(*Storefront)

// WithClock overrides the time source used to stamp transactions.
func WithClock(now func() time.Time) Option {
	return func(s *Storefront) { s.now = now }
}

// WithOrderRefs overrides the generator of customer order references.
func WithOrderRefs(next func() string) Option {
	return func(s *Storefront) { s.nextOrderRef = next }
}

// Storefront composes the catalog, identity store, cart and ledger behind
// the operation set presentation layers use. A single mutex serialises every
// operation, so checkout validates and commits inside one critical section.
type Storefront struct {
	mu sync.Mutex

	store   ports.Store
	catalog *Catalog
	users   *IdentityStore
	ledger  *Ledger
	cart    *domain.Cart
	current string

	validate     *inputValidator
	now          func() time.Time
	nextOrderRef func() string
	saveErrs     map[string]error
	log          zerolog.Logger
}

var _ ports.StorefrontService = (*Storefront)(nil)

// NewStorefront returns an empty storefront backed by store. Call Load to
// read the persisted resources.
func NewStorefront(store ports.Store, log zerolog.Logger, opts ...Option) *Storefront {
	s := &Storefront{
		store:        store,
		catalog:      &Catalog{},
		users:        &IdentityStore{},
		ledger:       NewLedger(nil),
		cart:         domain.NewCart(),
		validate:     newInputValidator(),
		now:          time.Now,
		nextOrderRef: func() string { return uuid.NewString() },
		saveErrs:     make(map[string]error),
		log:          log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory state with the persisted resources. A resource
// that cannot be read is logged and treated as empty; empty users and
// products are then seeded with the defaults. The returned error joins the
// read failures and is informational only: the storefront is usable either way.
func (s *Storefront) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error

	users, err := s.store.LoadUsers(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("resource", ResourceUsers).Msg("load failed, falling back to defaults")
		errs = append(errs, fmt.Errorf("load %s: %w", ResourceUsers, err))
		users = nil
	}
	if len(users) == 0 {
		s.log.Info().Msg("no users loaded, seeding default admin")
		users = []domain.User{domain.DefaultAdmin()}
	}
	var skippedUsers []domain.User
	s.users, skippedUsers = NewIdentityStore(users)
	for _, u := range skippedUsers {
		s.log.Warn().Str("username", u.Username).Msg("duplicate username skipped on load")
	}

	products, err := s.store.LoadProducts(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("resource", ResourceProducts).Msg("load failed, falling back to defaults")
		errs = append(errs, fmt.Errorf("load %s: %w", ResourceProducts, err))
		products = nil
	}
	if len(products) == 0 {
		s.log.Info().Msg("no products loaded, seeding sample catalog")
		products = domain.SampleProducts()
	}
	var skippedProducts []domain.Product
	s.catalog, skippedProducts = NewCatalog(products)
	for _, p := range skippedProducts {
		s.log.Warn().Str("product_id", p.ID).Msg("invalid or duplicate product skipped on load")
	}

	txs, err := s.store.LoadTransactions(ctx)
	if err != nil {
		s.log.Warn().Err(err).Str("resource", ResourceTransactions).Msg("load failed, starting with an empty ledger")
		errs = append(errs, fmt.Errorf("load %s: %w", ResourceTransactions, err))
		txs = nil
	}
	s.ledger = NewLedger(txs)

	s.cart.Clear()
	s.current = ""

	s.log.Info().
		Int("users", s.users.Len()).
		Int("products", s.catalog.Len()).
		Int("transactions", s.ledger.Len()).
		Msg("storefront loaded")

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrPersistence, errors.Join(errs...))
	}
	return nil
}

// ── Session ───────────────────────────────────────────────────────────────────

// Login starts a session for the matching user and empties the cart.
// A failed attempt leaves any current session untouched.
func (s *Storefront) Login(username, password string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users.Login(username, password)
	if !ok {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		s.log.Warn().Str("username", username).Msg("login failed")
		return domain.User{}, domain.ErrInvalidCredentials
	}

	s.current = u.Username
	s.cart.Clear()
	metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	s.log.Info().Str("username", u.Username).Str("role", string(u.Role)).Msg("login")
	return u, nil
}

func (s *Storefront) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != "" {
		s.log.Info().Str("username", s.current).Msg("logout")
	}
	s.current = ""
	s.cart.Clear()
}

func (s *Storefront) CurrentUser() (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == "" {
		return domain.User{}, false
	}
	return s.users.Find(s.current)
}

// Register creates a customer account and persists the users resource.
func (s *Storefront) Register(ctx context.Context, in ports.Credentials) (domain.User, error) {
	if err := s.validate.Validate(in); err != nil {
		return domain.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.users.Register(in.Username, in.Password)
	if err != nil {
		return domain.User{}, err
	}
	s.log.Info().Str("username", u.Username).Str("id", u.ID).Msg("customer registered")
	s.persist(ctx, ResourceUsers)
	return u, nil
}

// ── Catalog ───────────────────────────────────────────────────────────────────

func (s *Storefront) ListProducts() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.List()
}

func (s *Storefront) FindProduct(id string) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog.Find(id)
}

// AddProduct is an admin operation; the caller is responsible for routing.
func (s *Storefront) AddProduct(ctx context.Context, in ports.ProductInput) error {
	if err := s.validate.Validate(in); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.catalog.Add(domain.Product{ID: in.ID, Name: in.Name, Price: in.Price, Stock: in.Stock}); err != nil {
		return err
	}
	s.log.Info().Str("product_id", in.ID).Msg("product added")
	s.persist(ctx, ResourceProducts)
	return nil
}

// RemoveProduct deletes the row unconditionally, even when a cart still
// references it; checkout rejects such carts.
func (s *Storefront) RemoveProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.catalog.Remove(id) {
		return fmt.Errorf("remove product %s: %w", id, domain.ErrProductNotFound)
	}
	s.log.Info().Str("product_id", id).Msg("product removed")
	s.persist(ctx, ResourceProducts)
	return nil
}

func (s *Storefront) Restock(ctx context.Context, id string, qty int) error {
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.catalog.AddStock(id, qty); err != nil {
		return err
	}
	s.log.Info().Str("product_id", id).Int("qty", qty).Msg("product restocked")
	s.persist(ctx, ResourceProducts)
	return nil
}

func (s *Storefront) SetPrice(ctx context.Context, id string, price float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.catalog.SetPrice(id, price); err != nil {
		return err
	}
	s.log.Info().Str("product_id", id).Float64("price", price).Msg("price updated")
	s.persist(ctx, ResourceProducts)
	return nil
}

// ── Cart ──────────────────────────────────────────────────────────────────────

// AddProductToCart checks qty against the catalog's current stock; nothing
// is reserved until checkout.
func (s *Storefront) AddProductToCart(id string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.addToCart(id, qty)
	metrics.CartAdditionsTotal.WithLabelValues(cartResult(err)).Inc()
	return err
}

func (s *Storefront) addToCart(id string, qty int) error {
	if qty <= 0 {
		return domain.ErrInvalidQuantity
	}
	p := s.catalog.row(id)
	if p == nil {
		return fmt.Errorf("add to cart %s: %w", id, domain.ErrProductNotFound)
	}
	return s.cart.AddItem(p, qty)
}

func (s *Storefront) RemoveFromCart(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart.RemoveItem(id) {
		return fmt.Errorf("remove from cart %s: %w", id, domain.ErrProductNotFound)
	}
	return nil
}

func (s *Storefront) ViewCart() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Rebind(s.catalog.row)
	return s.cart.Items()
}

func (s *Storefront) CartTotal() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Rebind(s.catalog.row)
	return s.cart.Total()
}

// Checkout turns the cart into a transaction, all or nothing.
//
// Lines are first rebound to the catalog's current row for their product id,
// so a product removed and added again is charged at its new price. Every
// line is then validated against that row before any stock moves. Only when all lines pass is stock deducted, the
// transaction appended, and the cart cleared. A non-empty method must be one
// of the named payment methods.
func (s *Storefront) Checkout(ctx context.Context, method domain.PaymentMethod) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == "" {
		metrics.CheckoutsTotal.WithLabelValues("unauthenticated").Inc()
		return domain.Transaction{}, domain.ErrNotAuthenticated
	}
	s.cart.Rebind(s.catalog.row)
	total := s.cart.Total()
	if total <= 0 {
		metrics.CheckoutsTotal.WithLabelValues("empty_cart").Inc()
		return domain.Transaction{}, domain.ErrEmptyCart
	}
	if method != domain.PaymentNone && !method.Valid() {
		metrics.CheckoutsTotal.WithLabelValues("invalid_payment").Inc()
		return domain.Transaction{}, fmt.Errorf("checkout: %w: %q", domain.ErrInvalidPayment, method)
	}

	items := s.cart.Items()
	if err := s.validateCart(items); err != nil {
		s.log.Warn().Err(err).Str("username", s.current).Msg("checkout rejected")
		return domain.Transaction{}, err
	}

	for _, it := range items {
		s.catalog.ReduceStock(it.Product.ID, it.Quantity)
	}
	tx := domain.NewTransaction(s.current, total, s.now())
	s.ledger.Append(tx)
	orderRef := s.nextOrderRef()
	s.users.AddOrder(s.current, orderRef)
	s.cart.Clear()

	metrics.CheckoutsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	metrics.RevenueTotal.Add(total)
	s.log.Info().
		Str("username", tx.Username).
		Float64("amount", tx.Amount).
		Str("payment_method", string(method)).
		Str("order_ref", orderRef).
		Int("lines", len(items)).
		Msg("checkout committed")

	s.persist(ctx, ResourceProducts)
	s.persist(ctx, ResourceTransactions)
	return tx, nil
}

// validateCart is the read-only first phase of checkout.
func (s *Storefront) validateCart(items []domain.CartItem) error {
	var short []string
	for _, it := range items {
		row := s.catalog.row(it.Product.ID)
		if row == nil {
			metrics.CheckoutsTotal.WithLabelValues("product_missing").Inc()
			return fmt.Errorf("checkout: %s: %w", it.Product.ID, domain.ErrProductNotFound)
		}
		if it.Quantity > row.Stock {
			short = append(short, fmt.Sprintf("%s (want %d, have %d)", row.ID, it.Quantity, row.Stock))
		}
	}
	if len(short) > 0 {
		metrics.CheckoutsTotal.WithLabelValues("insufficient_stock").Inc()
		return fmt.Errorf("checkout: %w: %s", domain.ErrInsufficientStock, strings.Join(short, ", "))
	}
	return nil
}

// ── Users & ledger ────────────────────────────────────────────────────────────

func (s *Storefront) ListUsers() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users.List()
}

// RemoveUser deletes a customer account. Removing the user of the current
// session also ends that session.
func (s *Storefront) RemoveUser(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.users.RemoveUser(username); err != nil {
		return err
	}
	if s.current == username {
		s.current = ""
		s.cart.Clear()
	}
	s.log.Info().Str("username", username).Msg("user removed")
	s.persist(ctx, ResourceUsers)
	return nil
}

func (s *Storefront) ListTransactions() []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.List()
}

// UserPurchaseHistory filters the ledger by username. No match is not an error.
func (s *Storefront) UserPurchaseHistory(username string) ports.PurchaseHistory {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs, total := s.ledger.ForUser(username)
	return ports.PurchaseHistory{Username: username, Transactions: txs, Total: total}
}

func (s *Storefront) Revenue() ports.RevenueReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ports.RevenueReport{Transactions: s.ledger.List(), Total: s.ledger.Total()}
}

// ── Persistence ───────────────────────────────────────────────────────────────

// Save rewrites all three resources. Unlike the saves that follow a mutation,
// its failure is returned to the caller.
func (s *Storefront) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, res := range []string{ResourceUsers, ResourceProducts, ResourceTransactions} {
		if err := s.persist(ctx, res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PersistErr reports the resources whose last save failed. It is nil once
// every resource has been saved successfully since its last failure.
func (s *Storefront) PersistErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, res := range []string{ResourceUsers, ResourceProducts, ResourceTransactions} {
		if err := s.saveErrs[res]; err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// persist writes one resource. Failures are logged and remembered but the
// in-memory state is kept; nothing is retried.
func (s *Storefront) persist(ctx context.Context, resource string) error {
	var err error
	switch resource {
	case ResourceUsers:
		err = s.store.SaveUsers(ctx, s.users.List())
	case ResourceProducts:
		err = s.store.SaveProducts(ctx, s.catalog.List())
	case ResourceTransactions:
		err = s.store.SaveTransactions(ctx, s.ledger.List())
	default:
		err = fmt.Errorf("unknown resource %q", resource)
	}

	if err != nil {
		err = fmt.Errorf("%w: save %s: %w", domain.ErrPersistence, resource, err)
		s.saveErrs[resource] = err
		metrics.PersistenceSavesTotal.WithLabelValues(resource, metrics.ResultFailure).Inc()
		s.log.Error().Err(err).Str("resource", resource).Msg("save failed, persisted copy is stale")
		return err
	}

	delete(s.saveErrs, resource)
	metrics.PersistenceSavesTotal.WithLabelValues(resource, metrics.ResultSuccess).Inc()
	return nil
}

func cartResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrConflict):
		return "duplicate"
	default:
		return "invalid_quantity"
	}
}
