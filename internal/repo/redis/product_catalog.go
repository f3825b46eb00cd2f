package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Gunvolt24/order_admission/internal/domain"
	"github.com/Gunvolt24/order_admission/internal/ports"
)

// Проверка, что ProductCatalog удовлетворяет интерфейсу ProductCatalog.
var _ ports.ProductCatalog = (*ProductCatalog)(nil)

const (
	keyPrefix     = "product:"
	fieldName     = "name"
	fieldPrice    = "price_cents"
	fieldQuantity = "quantity"
)

// ProductCatalog - каталог товаров в Redis, по хешу на товар.
//
// Reserve/Release - оптимистичная транзакция: WATCH ключей товаров в порядке ID,
// чтение и проверка остатков, затем MULTI/EXEC с HINCRBY. Если кто-то изменил
// остаток между WATCH и EXEC, возвращается domain.ErrReservationConflict.
type ProductCatalog struct {
	client *goredis.Client
}

// NewProductCatalog - конструктор ProductCatalog.
func NewProductCatalog(client *goredis.Client) *ProductCatalog {
	return &ProductCatalog{client: client}
}

func productKey(id string) string { return keyPrefix + id }

// Seed - загрузить товары, не перетирая остатки уже известных Redis товаров.
// Цена и название обновляются всегда.
func (c *ProductCatalog) Seed(ctx context.Context, products []domain.Product) error {
	if len(products) == 0 {
		return nil
	}
	_, err := c.client.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, p := range products {
			key := productKey(p.ID)
			pipe.HSet(ctx, key, fieldName, p.Name, fieldPrice, p.PriceCents)
			pipe.HSetNX(ctx, key, fieldQuantity, p.Quantity)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	return nil
}

// FindAllByID - снимок цен и остатков одним пайплайном; неизвестные ID пропускаются.
func (c *ProductCatalog) FindAllByID(ctx context.Context, productIDs []string) ([]domain.Product, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	seen := make(map[string]struct{}, len(productIDs))
	ids := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	cmds := make([]*goredis.MapStringStringCmd, len(ids))
	_, err := c.client.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, productKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("hgetall products: %w", err)
	}

	products := make([]domain.Product, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		p, err := parseProduct(ids[i], fields)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// Reserve - списать остатки атомарно для всего списка.
func (c *ProductCatalog) Reserve(ctx context.Context, decrements []domain.Decrement) error {
	return c.adjust(ctx, "reserve", decrements, -1)
}

// Release - вернуть ранее списанные остатки.
func (c *ProductCatalog) Release(ctx context.Context, decrements []domain.Decrement) error {
	return c.adjust(ctx, "release", decrements, +1)
}

func (c *ProductCatalog) adjust(ctx context.Context, op string, decrements []domain.Decrement, sign int64) error {
	sorted := domain.SortedDecrements(decrements)
	if len(sorted) == 0 {
		return nil
	}

	keys := make([]string, 0, len(sorted))
	for _, d := range sorted {
		if d.Amount < 0 {
			return fmt.Errorf("%s: negative amount for product %s", op, d.ProductID)
		}
		keys = append(keys, productKey(d.ProductID))
	}

	txf := func(tx *goredis.Tx) error {
		var missing []string
		for i, d := range sorted {
			qty, err := tx.HGet(ctx, keys[i], fieldQuantity).Int()
			if errors.Is(err, goredis.Nil) {
				missing = append(missing, d.ProductID)
				continue
			}
			if err != nil {
				return fmt.Errorf("%s: read quantity %s: %w", op, d.ProductID, err)
			}
			if sign < 0 && d.Amount > qty {
				return &domain.InsufficientStockError{ProductID: d.ProductID, Requested: d.Amount, Available: qty}
			}
		}
		if len(missing) > 0 {
			return &domain.ProductNotFoundError{Missing: missing}
		}

		_, err := tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			for i, d := range sorted {
				pipe.HIncrBy(ctx, keys[i], fieldQuantity, sign*int64(d.Amount))
			}
			return nil
		})
		return err
	}

	err := c.client.Watch(ctx, txf, keys...)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, goredis.TxFailedErr):
		return fmt.Errorf("%s: %w", op, domain.ErrReservationConflict)
	case domain.IsBusinessError(err):
		return err
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// Quantity - текущий остаток товара (для тестов и диагностики).
func (c *ProductCatalog) Quantity(ctx context.Context, productID string) (int, error) {
	qty, err := c.client.HGet(ctx, productKey(productID), fieldQuantity).Int()
	if errors.Is(err, goredis.Nil) {
		return 0, &domain.ProductNotFoundError{Missing: []string{productID}}
	}
	return qty, err
}

func parseProduct(id string, fields map[string]string) (domain.Product, error) {
	price, err := strconv.ParseInt(fields[fieldPrice], 10, 64)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %s: bad %s: %w", id, fieldPrice, err)
	}
	qty, err := strconv.Atoi(fields[fieldQuantity])
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %s: bad %s: %w", id, fieldQuantity, err)
	}
	return domain.Product{ID: id, Name: fields[fieldName], PriceCents: price, Quantity: qty}, nil
}
