package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/catalog/pkg/database"
	"github.com/ghuser/catalog/pkg/events"
	productdomain "github.com/ghuser/catalog/services/product/domain"
	domainevents "github.com/ghuser/catalog/services/product/domain/events"
	"github.com/ghuser/catalog/services/product/domain/models"
	"github.com/ghuser/catalog/services/product/domain/repositories"
)

const uniqueViolation = "23505"

const productColumns = `id, name, description, category, price_cents, available, created_at, updated_at`

// ProductRepository implements repositories.ProductRepository against PostgreSQL.
type ProductRepository struct {
	db  *database.Database
	bus *events.EventBus
}

var _ repositories.ProductRepository = (*ProductRepository)(nil)

// NewProductRepository returns a repository on db. When bus is non-nil every
// write publishes its event in the same transaction.
func NewProductRepository(db *database.Database, bus *events.EventBus) *ProductRepository {
	return &ProductRepository{db: db, bus: bus}
}

// Save inserts p. A case-insensitive name clash returns ErrProductAlreadyExists.
func (r *ProductRepository) Save(ctx context.Context, p *models.Product) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO products (`+productColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			p.ID, p.Name.String(), p.Description, p.Category, p.Price.Cents(), p.Available, p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			return translateWriteError("insert product", err)
		}
		evt := changedEvent(p, p.CreatedAt)
		return r.publish(ctx, tx, domainevents.TopicProductCreated, evt.EventID, evt)
	})
}

// GetByID returns ErrProductNotFound when no row matches.
func (r *ProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	row := r.db.DB().QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, productdomain.ErrProductNotFound
		}
		return nil, fmt.Errorf("query product: %w", err)
	}
	return p, nil
}

// List returns a page ordered newest first, optionally filtered by category.
func (r *ProductRepository) List(ctx context.Context, opts repositories.ListOpts) ([]*models.Product, int, error) {
	rows, err := r.db.DB().QueryContext(ctx,
		`SELECT `+productColumns+` FROM products
		 WHERE ($1 = '' OR category = $1)
		 ORDER BY created_at DESC, id
		 LIMIT $2 OFFSET $3`,
		opts.Category, opts.Limit, opts.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", err)
	}

	var total int
	if err := r.db.DB().QueryRowContext(ctx,
		`SELECT count(*) FROM products WHERE ($1 = '' OR category = $1)`, opts.Category,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	return products, total, nil
}

// Update writes the editable fields of p.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE products
			 SET name = $2, description = $3, category = $4, price_cents = $5, available = $6, updated_at = $7
			 WHERE id = $1`,
			p.ID, p.Name.String(), p.Description, p.Category, p.Price.Cents(), p.Available, p.UpdatedAt,
		)
		if err != nil {
			return translateWriteError("update product", err)
		}
		if err := requireRow(res); err != nil {
			return err
		}
		evt := changedEvent(p, p.UpdatedAt)
		return r.publish(ctx, tx, domainevents.TopicProductUpdated, evt.EventID, evt)
	})
}

// Delete removes the product with id, or returns ErrProductNotFound.
func (r *ProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		if err := requireRow(res); err != nil {
			return err
		}
		evt := domainevents.ProductDeletedEvent{
			EventID:    uuid.New(),
			Version:    domainevents.Version,
			ProductID:  id,
			OccurredAt: time.Now().UTC(),
		}
		return r.publish(ctx, tx, domainevents.TopicProductDeleted, evt.EventID, evt)
	})
}

func (r *ProductRepository) publish(ctx context.Context, tx *sql.Tx, topic string, eventID uuid.UUID, event any) error {
	if r.bus == nil {
		return nil
	}
	msg, err := events.NewJSONMessage(eventID, domainevents.Version, event)
	if err != nil {
		return err
	}
	p, err := r.bus.NewTxPublisher(ctx, tx)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	if err := p.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

func changedEvent(p *models.Product, at time.Time) domainevents.ProductChangedEvent {
	return domainevents.ProductChangedEvent{
		EventID:    uuid.New(),
		Version:    domainevents.Version,
		ProductID:  p.ID,
		Name:       p.Name.String(),
		Category:   p.Category,
		PriceCents: p.Price.Cents(),
		OccurredAt: at,
	}
}

func translateWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return productdomain.ErrProductAlreadyExists
	}
	return fmt.Errorf("%s: %w", op, err)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return productdomain.ErrProductNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*models.Product, error) {
	var (
		p    models.Product
		name string
		cent int64
	)
	if err := s.Scan(&p.ID, &name, &p.Description, &p.Category, &cent, &p.Available, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Name = models.ProductName(name)
	p.Price = models.Price(cent)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}
