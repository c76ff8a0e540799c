package fakeapi

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/stellar-burgers/internal/domain"
	"github.com/jhoicas/stellar-burgers/internal/domain/entity"
	"github.com/jhoicas/stellar-burgers/pkg/jwt"
)

var (
	errBadCredentials = errors.New("email or password are incorrect")
	errBadResetCode   = errors.New("Incorrect reset token")
	errBadRefresh     = errors.New("Token is invalid")
	errBadIngredients = errors.New("One or more ids provided are incorrect")
)

type account struct {
	id           string
	email        string
	name         string
	passwordHash string
}

// store estado en memoria del API de pruebas: cuentas, refresh tokens, códigos de recuperación
// y pedidos. Todo bajo un único mutex.
type store struct {
	mu sync.Mutex

	secret   string
	tokenTTL time.Duration
	cookTime time.Duration
	now      func() time.Time

	catalog  map[string]entity.Ingredient
	listing  []entity.Ingredient
	accounts map[string]*account // por email
	refresh  map[string]string   // refresh token → id de cuenta
	resets   map[string]string   // email → código
	orders   []storedOrder       // más reciente primero
	next     int
}

type storedOrder struct {
	entity.Order
	owner string
}

func newStore(cfg Config) *store {
	s := &store{
		secret:   cfg.JWTSecret,
		tokenTTL: cfg.TokenTTL,
		cookTime: cfg.CookTime,
		now:      cfg.Now,
		catalog:  make(map[string]entity.Ingredient, len(cfg.Catalog)),
		listing:  append([]entity.Ingredient(nil), cfg.Catalog...),
		accounts: make(map[string]*account),
		refresh:  make(map[string]string),
		resets:   make(map[string]string),
		next:     cfg.FirstOrderNumber,
	}
	for _, ing := range cfg.Catalog {
		s.catalog[ing.ID] = ing
	}
	return s
}

// ── Cuentas ───────────────────────────────────────────────────────────────────

// register crea la cuenta con el password hasheado con bcrypt.
func (s *store) register(email, name, password string) (*account, error) {
	email = normalizeEmail(email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[email]; ok {
		return nil, domain.ErrEmailAlreadyExists
	}
	acc := &account{id: uuid.NewString(), email: email, name: name, passwordHash: string(hash)}
	s.accounts[email] = acc
	return acc, nil
}

func (s *store) login(email, password string) (*account, error) {
	s.mu.Lock()
	acc, ok := s.accounts[normalizeEmail(email)]
	s.mu.Unlock()
	if !ok {
		return nil, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.passwordHash), []byte(password)); err != nil {
		return nil, errBadCredentials
	}
	return acc, nil
}

func (s *store) byID(id string) (*account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if acc.id == id {
			return acc, true
		}
	}
	return nil, false
}

func (s *store) update(id, email, name, password string) (entity.User, error) {
	var hash []byte
	if password != "" {
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost); err != nil {
			return entity.User{}, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var acc *account
	for _, a := range s.accounts {
		if a.id == id {
			acc = a
			break
		}
	}
	if acc == nil {
		return entity.User{}, domain.ErrNotFound
	}
	if email = normalizeEmail(email); email != "" && email != acc.email {
		if _, taken := s.accounts[email]; taken {
			return entity.User{}, domain.ErrEmailAlreadyExists
		}
		delete(s.accounts, acc.email)
		acc.email = email
		s.accounts[email] = acc
	}
	if name != "" {
		acc.name = name
	}
	if hash != nil {
		acc.passwordHash = string(hash)
	}
	return acc.user(), nil
}

func (a *account) user() entity.User {
	return entity.User{Email: a.email, Name: a.name}
}

// ── Tokens ────────────────────────────────────────────────────────────────────

// issue genera access token (con prefijo Bearer, como el API real) y un refresh token opaco.
func (s *store) issue(acc *account) (access, refresh string, err error) {
	return s.issueWithTTL(acc, s.tokenTTL)
}

func (s *store) issueWithTTL(acc *account, ttl time.Duration) (access, refresh string, err error) {
	tok, err := jwt.Generate(s.secret, acc.id, ttl)
	if err != nil {
		return "", "", err
	}
	refresh = strings.ReplaceAll(uuid.NewString(), "-", "")
	s.mu.Lock()
	s.refresh[refresh] = acc.id
	s.mu.Unlock()
	return jwt.BearerPrefix + tok, refresh, nil
}

// rotate canjea un refresh token por un par nuevo; el viejo deja de servir.
func (s *store) rotate(refresh string) (access, next string, err error) {
	s.mu.Lock()
	id, ok := s.refresh[refresh]
	delete(s.refresh, refresh)
	s.mu.Unlock()
	if !ok {
		return "", "", errBadRefresh
	}
	acc, ok := s.byID(id)
	if !ok {
		return "", "", errBadRefresh
	}
	return s.issue(acc)
}

func (s *store) revoke(refresh string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.refresh[refresh]; !ok {
		return false
	}
	delete(s.refresh, refresh)
	return true
}

// ── Recuperación de contraseña ────────────────────────────────────────────────

// requestReset genera un código de seis dígitos. Como el API real, responde igual exista o no
// la cuenta; el código se devuelve para que el servidor lo registre en el log.
func (s *store) requestReset(email string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())
	email = normalizeEmail(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[email]; ok {
		s.resets[email] = code
	}
	return code, nil
}

func (s *store) reset(code, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, c := range s.resets {
		if c == code {
			s.accounts[email].passwordHash = string(hash)
			delete(s.resets, email)
			return nil
		}
	}
	return errBadResetCode
}

// ── Pedidos ───────────────────────────────────────────────────────────────────

func (s *store) placeOrder(owner string, ids []string) (entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var bun *entity.Ingredient
	var names []string
	for _, id := range ids {
		ing, ok := s.catalog[id]
		if !ok {
			return entity.Order{}, errBadIngredients
		}
		if ing.IsBun() && bun == nil {
			bun = &ing
		}
		if !ing.IsBun() {
			names = append(names, firstWord(ing.Name))
		}
	}
	if bun == nil {
		return entity.Order{}, errBadIngredients
	}

	now := s.now()
	s.next++
	o := entity.Order{
		ID:          strings.ReplaceAll(uuid.NewString(), "-", "")[:24],
		Ingredients: append([]string(nil), ids...),
		Status:      entity.OrderPending,
		Name:        burgerName(names),
		CreatedAt:   now,
		UpdatedAt:   now,
		Number:      s.next,
	}
	s.orders = append([]storedOrder{{Order: o, owner: owner}}, s.orders...)
	return o, nil
}

// cook pasa a "done" los pedidos que llevan más de cookTime en cocina. Se evalúa al leer.
func (s *store) cookLocked() {
	now := s.now()
	for i := range s.orders {
		o := &s.orders[i]
		if o.Status == entity.OrderPending && now.Sub(o.CreatedAt) >= s.cookTime {
			o.Status = entity.OrderDone
			o.UpdatedAt = now
		}
	}
}

// feed pedidos públicos (hasta limit), total histórico y total del día.
func (s *store) feed(limit int) ([]entity.Order, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookLocked()

	y, m, d := s.now().Date()
	today := 0
	out := make([]entity.Order, 0, min(limit, len(s.orders)))
	for _, o := range s.orders {
		if oy, om, od := o.CreatedAt.Date(); oy == y && om == m && od == d {
			today++
		}
		if len(out) < limit {
			out = append(out, o.Order)
		}
	}
	return out, len(s.orders), today
}

// ordersOf historial del usuario, del más viejo al más nuevo como el API real.
func (s *store) ordersOf(owner string) []entity.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookLocked()
	out := []entity.Order{}
	for i := len(s.orders) - 1; i >= 0; i-- {
		if s.orders[i].owner == owner {
			out = append(out, s.orders[i].Order)
		}
	}
	return out
}

func (s *store) order(number int) (entity.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookLocked()
	for _, o := range s.orders {
		if o.Number == number {
			return o.Order, true
		}
	}
	return entity.Order{}, false
}

func (s *store) ingredients() []entity.Ingredient {
	return append([]entity.Ingredient(nil), s.listing...)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func firstWord(name string) string {
	if i := strings.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}

// burgerName nombre al estilo del API real: los rellenos y la palabra "burger".
func burgerName(fillings []string) string {
	seen := make(map[string]bool, len(fillings))
	parts := make([]string, 0, len(fillings)+1)
	for _, f := range fillings {
		if !seen[f] {
			seen[f] = true
			parts = append(parts, strings.ToLower(f))
		}
	}
	if len(parts) == 0 {
		return "Clásica burger"
	}
	first := []rune(parts[0])
	parts[0] = strings.ToUpper(string(first[:1])) + string(first[1:])
	return strings.Join(append(parts, "burger"), " ")
}
