// Package flatfile persists users, products and transactions as line-oriented
// text files, one record per line:
//
//	users         id,username,password,ROLE
//	products      id,name,price,stock
//	transactions  username||amount||YYYY-MM-DD HH:MM:SS
//
// Decoding is tolerant: a malformed line is reported as a *LineError and
// skipped while the rest of the resource is still read.
package flatfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sirpyerre/storefront/internal/core/domain"
)

const (
	fieldSep = ","
	txSep    = "||"
)

var (
	errFieldCount = errors.New("wrong number of fields")
	errNumber     = errors.New("malformed number")
)

// LineError describes one malformed line of a resource.
type LineError struct {
	Resource string
	Line     int
	Text     string
	Err      error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s line %d: %v", e.Resource, e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// ── Users ─────────────────────────────────────────────────────────────────────

func EncodeUser(u domain.User) string {
	return strings.Join([]string{u.ID, u.Username, u.Password, string(u.Role)}, fieldSep)
}

func DecodeUser(line string) (domain.User, error) {
	f := strings.Split(line, fieldSep)
	if len(f) != 4 {
		return domain.User{}, fmt.Errorf("%w: want 4, got %d", errFieldCount, len(f))
	}
	role, err := domain.ParseRole(strings.TrimSpace(f[3]))
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{ID: f[0], Username: f[1], Password: f[2], Role: role}, nil
}

func EncodeUsers(w io.Writer, users []domain.User) error {
	return writeLines(w, len(users), func(i int) string { return EncodeUser(users[i]) })
}

func DecodeUsers(r io.Reader) ([]domain.User, []*LineError, error) {
	return decodeLines(r, "users", DecodeUser)
}

// ── Products ──────────────────────────────────────────────────────────────────

func EncodeProduct(p domain.Product) string {
	return strings.Join([]string{
		p.ID,
		p.Name,
		strconv.FormatFloat(p.Price, 'f', -1, 64),
		strconv.Itoa(p.Stock),
	}, fieldSep)
}

func DecodeProduct(line string) (domain.Product, error) {
	f := strings.Split(line, fieldSep)
	if len(f) != 4 {
		return domain.Product{}, fmt.Errorf("%w: want 4, got %d", errFieldCount, len(f))
	}
	price, err := parseAmount(f[2])
	if err != nil {
		return domain.Product{}, fmt.Errorf("price: %w", err)
	}
	if price < 0 {
		return domain.Product{}, domain.ErrInvalidPrice
	}
	stock, err := strconv.Atoi(strings.TrimSpace(f[3]))
	if err != nil {
		return domain.Product{}, fmt.Errorf("stock: %w: %q", errNumber, f[3])
	}
	if stock < 0 {
		return domain.Product{}, domain.ErrInvalidStock
	}
	return domain.Product{ID: f[0], Name: f[1], Price: price, Stock: stock}, nil
}

func EncodeProducts(w io.Writer, products []domain.Product) error {
	return writeLines(w, len(products), func(i int) string { return EncodeProduct(products[i]) })
}

func DecodeProducts(r io.Reader) ([]domain.Product, []*LineError, error) {
	return decodeLines(r, "products", DecodeProduct)
}

// ── Transactions ──────────────────────────────────────────────────────────────

// EncodeTransaction renders the timestamp in loc at second precision.
func EncodeTransaction(tx domain.Transaction, loc *time.Location) string {
	return strings.Join([]string{
		tx.Username,
		strconv.FormatFloat(tx.Amount, 'f', -1, 64),
		tx.Timestamp.In(loc).Format(domain.TimestampLayout),
	}, txSep)
}

// DecodeTransaction interprets the timestamp in loc. The username is kept
// byte for byte so it still matches the users resource.
func DecodeTransaction(line string, loc *time.Location) (domain.Transaction, error) {
	f := strings.Split(line, txSep)
	if len(f) != 3 {
		return domain.Transaction{}, fmt.Errorf("%w: want 3, got %d", errFieldCount, len(f))
	}
	amount, err := parseAmount(f[1])
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("amount: %w", err)
	}
	if amount <= 0 {
		return domain.Transaction{}, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	ts, err := time.ParseInLocation(domain.TimestampLayout, strings.TrimSpace(f[2]), loc)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("timestamp: %w", err)
	}
	return domain.Transaction{Username: f[0], Amount: amount, Timestamp: ts}, nil
}

func EncodeTransactions(w io.Writer, txs []domain.Transaction, loc *time.Location) error {
	return writeLines(w, len(txs), func(i int) string { return EncodeTransaction(txs[i], loc) })
}

func DecodeTransactions(r io.Reader, loc *time.Location) ([]domain.Transaction, []*LineError, error) {
	return decodeLines(r, "transactions", func(line string) (domain.Transaction, error) {
		return DecodeTransaction(line, loc)
	})
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", errNumber, s)
	}
	return v, nil
}

func writeLines(w io.Writer, n int, line func(i int) string) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < n; i++ {
		if _, err := bw.WriteString(line(i) + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// decodeLines applies decode to every non-blank line. Only a read failure
// is returned as an error; malformed lines are collected.
func decodeLines[T any](r io.Reader, resource string, decode func(string) (T, error)) ([]T, []*LineError, error) {
	var (
		out       []T
		malformed []*LineError
	)
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := decode(line)
		if err != nil {
			malformed = append(malformed, &LineError{Resource: resource, Line: n, Text: line, Err: err})
			continue
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return out, malformed, fmt.Errorf("read %s: %w", resource, err)
	}
	return out, malformed, nil
}
