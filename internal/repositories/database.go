package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/config"
	"github.com/XSAM/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	_ "github.com/lib/pq"
)

type Repository struct {
	DB           *sql.DB
	Tx           TxManager
	Book         BookRepository
	Cart         CartRepository
	Order        OrderRepository
	Payment      PaymentRepository
	Address      AddressRepository
	Outbox       OutboxRepository
	Notification NotificationRepository
	User         UserRepository
}

func New(ctx context.Context, cfg *config.Config) (*Repository, error) {
	db, err := otelsql.Open("postgres", cfg.Database.GetDSN(),
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
		otelsql.WithSpanOptions(otelsql.SpanOptions{DisableErrSkip: true}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return NewFromDB(db), nil
}

// NewFromDB wires every repository around an already opened pool.
func NewFromDB(db *sql.DB) *Repository {
	return &Repository{
		DB:           db,
		Tx:           NewTxManager(db),
		Book:         NewBookRepository(db),
		Cart:         NewCartRepository(db),
		Order:        NewOrderRepository(db),
		Payment:      NewPaymentRepository(db),
		Address:      NewAddressRepository(db),
		Outbox:       NewOutboxRepository(db),
		Notification: NewNotificationRepository(db),
		User:         NewUserRepository(db),
	}
}

func (p *Repository) Close() error {
	return p.DB.Close()
}
