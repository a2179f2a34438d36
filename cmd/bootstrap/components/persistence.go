package components

import (
	"context"

	"marketplace-booking/internal/infra/db"
	"marketplace-booking/internal/infra/memstore"
	"marketplace-booking/internal/infra/pgquery"
	"marketplace-booking/internal/infra/readstore"
	"marketplace-booking/internal/infra/uow"
	"marketplace-booking/internal/pkg/config"
	"marketplace-booking/internal/pkg/errs"
	"marketplace-booking/internal/usecase/queries"
	"marketplace-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(NewStorage),
)

// Storage is everything the use cases read and write through, backed by
// one driver.
type Storage struct {
	fx.Out

	UoW          shared.UnitOfWork
	Services     queries.ServiceReadStore
	Availability queries.AvailabilityReadStore
	Intervals    queries.BookedIntervalReadStore
	Bookings     queries.BookingReadStore
}

func NewStorage(lc fx.Lifecycle, cfg config.Config) (Storage, error) {
	switch cfg.Storage.Driver {
	case StorageDriverMemory:
		return newMemoryStorage(), nil
	case StorageDriverPostgres, "":
		return newPostgresStorage(lc, cfg.DB)
	default:
		return Storage{}, errs.Newf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
}

func newMemoryStorage() Storage {
	store := memstore.New()
	reads := store.ReadStore()
	return Storage{
		UoW:          store,
		Services:     reads,
		Availability: reads,
		Intervals:    reads,
		Bookings:     store.BookingReadStore(),
	}
}

func newPostgresStorage(lc fx.Lifecycle, cfg config.DBConfig) (Storage, error) {
	pool, cleanup, err := db.Connect(context.Background(), cfg)
	if err != nil {
		return Storage{}, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	q := pgquery.New()
	bookings := readstore.NewBookingReadStore(q, pool)
	return Storage{
		UoW:          uow.NewPostgresUoW(pool, q),
		Services:     readstore.NewServiceReadStore(q, pool),
		Availability: readstore.NewAvailabilityReadStore(q, pool),
		Intervals:    bookings,
		Bookings:     bookings,
	}, nil
}
