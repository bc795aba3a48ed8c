package repository

import "github.com/jackc/pgx/v5/pgxpool"

// Store bundles the per-table repositories behind one value satisfying
// the service layer's store interfaces.
type Store struct {
	*WorkingHourRepository
	*TimeOffRepository
	*BookingRepository
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		WorkingHourRepository: NewWorkingHourRepository(pool),
		TimeOffRepository:     NewTimeOffRepository(pool),
		BookingRepository:     NewBookingRepository(pool),
	}
}
