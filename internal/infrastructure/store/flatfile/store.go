package flatfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/sirpyerre/storefront/internal/core/domain"
	"github.com/sirpyerre/storefront/internal/core/ports"
)

const (
	DefaultUsersFile        = "users.txt"
	DefaultProductsFile     = "products.txt"
	DefaultTransactionsFile = "transactions.txt"

	filePerm = 0o644
)

// Config captures where the three resources live. Empty file names fall back
// to the defaults and a nil Location to time.Local.
type Config struct {
	Dir              string
	UsersFile        string
	ProductsFile     string
	TransactionsFile string
	Location         *time.Location
}

// Store implements ports.Store on top of plain text files.
type Store struct {
	cfg Config
	log zerolog.Logger
}

var _ ports.Store = (*Store)(nil)

func New(cfg Config, log zerolog.Logger) *Store {
	if cfg.UsersFile == "" {
		cfg.UsersFile = DefaultUsersFile
	}
	if cfg.ProductsFile == "" {
		cfg.ProductsFile = DefaultProductsFile
	}
	if cfg.TransactionsFile == "" {
		cfg.TransactionsFile = DefaultTransactionsFile
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Store{cfg: cfg, log: log}
}

func (s *Store) LoadUsers(ctx context.Context) ([]domain.User, error) {
	return load(ctx, s, s.cfg.UsersFile, DecodeUsers)
}

func (s *Store) LoadProducts(ctx context.Context) ([]domain.Product, error) {
	return load(ctx, s, s.cfg.ProductsFile, DecodeProducts)
}

func (s *Store) LoadTransactions(ctx context.Context) ([]domain.Transaction, error) {
	return load(ctx, s, s.cfg.TransactionsFile, func(r io.Reader) ([]domain.Transaction, []*LineError, error) {
		return DecodeTransactions(r, s.cfg.Location)
	})
}

func (s *Store) SaveUsers(ctx context.Context, users []domain.User) error {
	return s.save(ctx, s.cfg.UsersFile, func(w io.Writer) error { return EncodeUsers(w, users) })
}

func (s *Store) SaveProducts(ctx context.Context, products []domain.Product) error {
	return s.save(ctx, s.cfg.ProductsFile, func(w io.Writer) error { return EncodeProducts(w, products) })
}

func (s *Store) SaveTransactions(ctx context.Context, txs []domain.Transaction) error {
	return s.save(ctx, s.cfg.TransactionsFile, func(w io.Writer) error {
		return EncodeTransactions(w, txs, s.cfg.Location)
	})
}

func (s *Store) path(name string) string {
	return filepath.Join(s.cfg.Dir, name)
}

// load reads one resource. A missing file is an empty resource; malformed
// lines are logged and skipped.
func load[T any](ctx context.Context, s *Store, name string, decode func(io.Reader) ([]T, []*LineError, error)) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Debug().Str("file", s.path(name)).Msg("resource missing, starting empty")
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	records, malformed, err := decode(f)
	for _, le := range malformed {
		s.log.Warn().Err(le.Err).Str("file", name).Int("line", le.Line).Msg("malformed line skipped")
	}
	if err != nil {
		return nil, err
	}
	return records, nil
}

// save fully rewrites a resource. The content goes to a temporary file in
// the same directory that is then renamed over the target, so a failed write
// leaves the previous copy intact.
func (s *Store) save(ctx context.Context, name string, encode func(io.Writer) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := s.path(name)
	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if err := encode(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod %s: %w", name, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
