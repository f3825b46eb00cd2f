package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/Gunvolt24/order_admission/config"
	"github.com/Gunvolt24/order_admission/internal/domain"
	"github.com/Gunvolt24/order_admission/internal/ports"
	"github.com/Gunvolt24/order_admission/internal/repo/memory"
	"github.com/Gunvolt24/order_admission/internal/repo/redis"
)

// productSource - справочник товаров в Postgres, из которого наполняются
// каталоги redis и memory.
type productSource interface {
	ports.ProductCatalog
	All(ctx context.Context) ([]domain.Product, error)
}

// buildCatalog - каталог остатков по Storage.CatalogBackend.
// Товары и строки заказов остаются в Postgres (внешние ключи), поэтому
// redis/memory наполняются из него при старте.
//
// memory не переживает рестарт: резервы живут только в процессе и не пишутся
// обратно в Postgres, поэтому после перезапуска остатки снова берутся из
// products.quantity, а уже принятые заказы их не уменьшают. Режим годится
// для одного экземпляра в тестах и локальной разработке.
func buildCatalog(ctx context.Context, cfg *config.Config, source productSource, log ports.Logger) (ports.ProductCatalog, func(), error) {
	noop := func() {}

	switch strings.ToLower(strings.TrimSpace(cfg.Storage.CatalogBackend)) {
	case "", config.CatalogPostgres:
		return source, noop, nil

	case config.CatalogMemory:
		products, err := source.All(ctx)
		if err != nil {
			return nil, noop, fmt.Errorf("load catalog: %w", err)
		}
		log.Warnf(ctx, "catalog backend=memory is not restart-safe: reserved stock is not written back to postgres")
		return memory.NewProductCatalog(products...), noop, nil

	case config.CatalogRedis:
		products, err := source.All(ctx)
		if err != nil {
			return nil, noop, fmt.Errorf("load catalog: %w", err)
		}
		client, err := redis.NewClient(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, noop, err
		}
		catalog := redis.NewProductCatalog(client)
		if err := catalog.Seed(ctx, products); err != nil {
			_ = client.Close()
			return nil, noop, fmt.Errorf("seed redis catalog: %w", err)
		}
		return catalog, func() { _ = client.Close() }, nil

	default:
		return nil, noop, fmt.Errorf("unknown catalog backend %q", cfg.Storage.CatalogBackend)
	}
}
