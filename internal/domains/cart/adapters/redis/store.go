package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-pos-server/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/cart/ports"
)

const (
	keyPrefix        = "pos:cart:"
	DefaultTTL       = 24 * time.Hour
	maxUpdateRetries = 5
)

var _ ports.Store = (*Store)(nil)

// ErrContention is returned when optimistic updates keep colliding.
var ErrContention = errors.New("cart update contention")

// Store keeps carts as JSON documents under pos:cart:<registerID>.
type Store struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the idle expiry of stored carts. Zero disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

func NewStore(client goredis.UniversalClient, opts ...Option) *Store {
	s := &Store{client: client, ttl: DefaultTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

type cartRecord struct {
	RegisterID        string       `json:"registerId"`
	Lines             []lineRecord `json:"lines"`
	PaymentInProgress bool         `json:"paymentInProgress"`
}

type lineRecord struct {
	MenuItemID int64           `json:"menuItemId"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	VATRate    decimal.Decimal `json:"vatRate"`
	Quantity   int32           `json:"quantity"`
}

func (s *Store) Get(ctx context.Context, registerID string) (*domain.Cart, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	return load(ctx, s.client, registerID)
}

// Update runs mutate inside WATCH/MULTI so concurrent writers on the same register retry.
func (s *Store) Update(ctx context.Context, registerID string, mutate func(*domain.Cart) error) (*domain.Cart, error) {
	if err := s.ensureClient(); err != nil {
		return nil, err
	}
	key := keyPrefix + registerID
	var result *domain.Cart
	txf := func(tx *goredis.Tx) error {
		cart, err := load(ctx, tx, registerID)
		if err != nil {
			return err
		}
		if err := mutate(cart); err != nil {
			return err
		}
		payload, err := json.Marshal(toRecord(cart))
		if err != nil {
			return fmt.Errorf("encode cart: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, key, payload, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		result = cart
		return nil
	}
	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := s.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, ErrContention
}

func (s *Store) Delete(ctx context.Context, registerID string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	return s.client.Del(ctx, keyPrefix+registerID).Err()
}

func (s *Store) ensureClient() error {
	if s == nil || s.client == nil {
		return errors.New("redis cart store not configured")
	}
	return nil
}

type getter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

func load(ctx context.Context, cmd getter, registerID string) (*domain.Cart, error) {
	raw, err := cmd.Get(ctx, keyPrefix+registerID).Bytes()
	if errors.Is(err, goredis.Nil) {
		return domain.NewCart(registerID)
	}
	if err != nil {
		return nil, err
	}
	var record cartRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", registerID, err)
	}
	return record.toDomain(registerID), nil
}

func toRecord(cart *domain.Cart) cartRecord {
	rec := cartRecord{
		RegisterID:        cart.RegisterID,
		Lines:             make([]lineRecord, 0, len(cart.Lines)),
		PaymentInProgress: cart.PaymentInProgress,
	}
	for _, line := range cart.Lines {
		rec.Lines = append(rec.Lines, lineRecord(line))
	}
	return rec
}

func (r cartRecord) toDomain(registerID string) *domain.Cart {
	cart := &domain.Cart{
		RegisterID:        registerID,
		Lines:             make([]domain.Line, 0, len(r.Lines)),
		PaymentInProgress: r.PaymentInProgress,
	}
	for _, line := range r.Lines {
		if line.Quantity <= 0 {
			continue
		}
		cart.Lines = append(cart.Lines, domain.Line(line))
	}
	return cart
}
