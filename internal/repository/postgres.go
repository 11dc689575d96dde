package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dine24/dine24-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// PostgresStore implements Store on a Postgres database
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a store over an open database handle
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const menuColumns = `id, name, category, price, offer_price, quantity, rating, is_veg, orders_placed, created_at, updated_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMenuItem(row scanner) (models.MenuItem, error) {
	var (
		item  models.MenuItem
		offer sql.NullInt64
	)
	err := row.Scan(&item.ID, &item.Name, &item.Category, &item.Price, &offer, &item.Quantity,
		&item.Rating, &item.IsVeg, &item.OrdersPlaced, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return item, err
	}
	if offer.Valid {
		v := offer.Int64
		item.OfferPrice = &v
	}
	return item, nil
}

func (s *PostgresStore) ListMenu(ctx context.Context, filter models.MenuFilter) ([]models.MenuItem, error) {
	query := `SELECT ` + menuColumns + ` FROM menu_items WHERE TRUE`
	args := make([]interface{}, 0, 3)

	if filter.Search != "" {
		args = append(args, filter.Search)
		query += fmt.Sprintf(` AND strpos(lower(name), lower($%d)) > 0`, len(args))
	}
	if filter.Category != "" && filter.Category != "all" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(` AND lower(category) = lower($%d)`, len(args))
	}
	if filter.Veg != nil {
		args = append(args, *filter.Veg)
		query += fmt.Sprintf(` AND is_veg = $%d`, len(args))
	}
	query += ` ORDER BY category, name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	defer rows.Close()

	items := make([]models.MenuItem, 0)
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *PostgresStore) GetMenuItem(ctx context.Context, id int64) (*models.MenuItem, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+menuColumns+` FROM menu_items WHERE id = $1`, id)
	item, err := scanMenuItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMenuItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	return &item, nil
}

func (s *PostgresStore) FindMenuItemByName(ctx context.Context, name string) (*models.MenuItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+menuColumns+` FROM menu_items WHERE lower(trim(name)) = lower(trim($1)) LIMIT 1`, name)
	item, err := scanMenuItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMenuItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find menu item: %w", err)
	}
	return &item, nil
}

func (s *PostgresStore) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO menu_items (name, category, price, offer_price, quantity, rating, is_veg, orders_placed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		item.Name, item.Category, item.Price, item.OfferPrice, item.Quantity, item.Rating, item.IsVeg, item.OrdersPlaced,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create menu item: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	err := s.db.QueryRowContext(ctx, `
		UPDATE menu_items
		SET name = $1, category = $2, price = $3, offer_price = $4, quantity = $5, rating = $6, is_veg = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING orders_placed, created_at, updated_at`,
		item.Name, item.Category, item.Price, item.OfferPrice, item.Quantity, item.Rating, item.IsVeg, item.ID,
	).Scan(&item.OrdersPlaced, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrMenuItemNotFound
	}
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteMenuItem(ctx context.Context, id int64) error {
	return s.execAffecting(ctx, ErrMenuItemNotFound, `DELETE FROM menu_items WHERE id = $1`, id)
}

func (s *PostgresStore) IncrementOrdersPlaced(ctx context.Context, id int64, by int) error {
	return s.execAffecting(ctx, ErrMenuItemNotFound,
		`UPDATE menu_items SET orders_placed = orders_placed + $1, updated_at = NOW() WHERE id = $2`, by, id)
}

// execAffecting runs a statement and maps zero affected rows to notFound
func (s *PostgresStore) execAffecting(ctx context.Context, notFound error, query string, args ...interface{}) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

const tableColumns = `id, table_number, seating_capacity, section, is_available, created_at`

func scanTable(row scanner) (models.RestaurantTable, error) {
	var t models.RestaurantTable
	err := row.Scan(&t.ID, &t.TableNumber, &t.SeatingCapacity, &t.Section, &t.IsAvailable, &t.CreatedAt)
	return t, err
}

func (s *PostgresStore) ListTables(ctx context.Context) ([]models.RestaurantTable, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+tableColumns+` FROM restaurant_tables ORDER BY section, table_number`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	tables := make([]models.RestaurantTable, 0)
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (s *PostgresStore) GetTable(ctx context.Context, tableNumber string) (*models.RestaurantTable, error) {
	t, err := scanTable(s.db.QueryRowContext(ctx,
		`SELECT `+tableColumns+` FROM restaurant_tables WHERE table_number = $1`, tableNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get table: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) CreateTable(ctx context.Context, table *models.RestaurantTable) error {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO restaurant_tables (table_number, seating_capacity, section, is_available)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		table.TableNumber, table.SeatingCapacity, table.Section, table.IsAvailable,
	).Scan(&table.ID, &table.CreatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateTable
	}
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

func (s *PostgresStore) SetTableAvailability(ctx context.Context, tableNumber string, available bool) error {
	return s.execAffecting(ctx, ErrTableNotFound,
		`UPDATE restaurant_tables SET is_available = $1 WHERE table_number = $2`, available, tableNumber)
}

// CreateWithItems inserts the reservation and its items in a single transaction
func (s *PostgresStore) CreateWithItems(ctx context.Context, res *models.Reservation, items []models.ReservationItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reservation tx: %w", err)
	}
	defer tx.Rollback()

	if res.ID == "" {
		res.ID = uuid.New().String()
	}

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO reservations (id, full_name, email, phone, num_people, purpose, arrival_date, arrival_time,
			table_number, table_capacity, order_type, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`,
		res.ID, res.FullName, res.Email, res.Phone, res.NumPeople, res.Purpose, res.ArrivalDate, res.ArrivalTime,
		res.TableNumber, res.TableCapacity, res.OrderType, res.TotalAmount, res.Status,
	).Scan(&res.CreatedAt, &res.UpdatedAt); err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}

	stored := make([]models.ReservationItem, len(items))
	for i, item := range items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.ReservationID = res.ID
		item.CreatedAt = res.CreatedAt

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO reservation_items (id, reservation_id, menu_item_id, name, quantity, price, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, item.ReservationID, item.MenuItemID, item.Name, item.Quantity, item.Price, item.CreatedAt,
		); err != nil {
			return fmt.Errorf("insert reservation item: %w", err)
		}
		stored[i] = item
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reservation: %w", err)
	}
	res.Items = stored
	return nil
}

const reservationColumns = `r.id, r.full_name, r.email, r.phone, r.num_people, r.purpose,
	to_char(r.arrival_date, 'YYYY-MM-DD'), to_char(r.arrival_time, 'HH24:MI'),
	r.table_number, r.table_capacity, r.order_type, r.total_amount, r.status, r.created_at, r.updated_at`

const itemColumns = `ri.id, ri.reservation_id, ri.menu_item_id, ri.name, ri.quantity, ri.price, ri.created_at`

func scanReservation(row scanner) (models.Reservation, error) {
	var r models.Reservation
	err := row.Scan(&r.ID, &r.FullName, &r.Email, &r.Phone, &r.NumPeople, &r.Purpose,
		&r.ArrivalDate, &r.ArrivalTime, &r.TableNumber, &r.TableCapacity, &r.OrderType,
		&r.TotalAmount, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (s *PostgresStore) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	list, err := s.listReservations(ctx, `r.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, ErrReservationNotFound
	}
	return &list[0], nil
}

func (s *PostgresStore) ListReservations(ctx context.Context, status string) ([]models.Reservation, error) {
	return s.listReservations(ctx, `($1::text = '' OR r.status = $1)`, status)
}

func (s *PostgresStore) ListReservationsByEmail(ctx context.Context, email string) ([]models.Reservation, error) {
	return s.listReservations(ctx, `lower(r.email) = lower($1)`, email)
}

// listReservations loads matching reservations and then all their items with
// a second query using the same condition.
func (s *PostgresStore) listReservations(ctx context.Context, cond string, arg interface{}) ([]models.Reservation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations r WHERE `+cond+` ORDER BY r.created_at DESC`, arg)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	list := make([]models.Reservation, 0)
	index := make(map[string]int)
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		index[r.ID] = len(list)
		list = append(list, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return list, nil
	}

	itemRows, err := s.db.QueryContext(ctx, `
		SELECT `+itemColumns+`
		FROM reservation_items ri
		JOIN reservations r ON r.id = ri.reservation_id
		WHERE `+cond+`
		ORDER BY ri.created_at, ri.id`, arg)
	if err != nil {
		return nil, fmt.Errorf("list reservation items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var it models.ReservationItem
		if err := itemRows.Scan(&it.ID, &it.ReservationID, &it.MenuItemID, &it.Name, &it.Quantity, &it.Price, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reservation item: %w", err)
		}
		if i, ok := index[it.ReservationID]; ok {
			list[i].Items = append(list[i].Items, it)
		}
	}
	return list, itemRows.Err()
}

func (s *PostgresStore) BookedTables(ctx context.Context, date, at string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT table_number
		FROM reservations
		WHERE arrival_date = $1::date AND arrival_time = $2::time AND status = $3`,
		date, at, models.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("booked tables: %w", err)
	}
	defer rows.Close()

	booked := make([]string, 0)
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return nil, fmt.Errorf("scan booked table: %w", err)
		}
		booked = append(booked, number)
	}
	return booked, rows.Err()
}

func (s *PostgresStore) UpdateReservationStatus(ctx context.Context, id, status string) error {
	return s.execAffecting(ctx, ErrReservationNotFound,
		`UPDATE reservations SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
}

func (s *PostgresStore) DeleteReservation(ctx context.Context, id string) error {
	return s.execAffecting(ctx, ErrReservationNotFound, `DELETE FROM reservations WHERE id = $1`, id)
}

const specialColumns = `id, menu_item_id, special_price, special_description, is_active, created_at, updated_at`

func scanSpecial(row scanner) (models.DailySpecial, error) {
	var (
		sp    models.DailySpecial
		price sql.NullInt64
	)
	err := row.Scan(&sp.ID, &sp.MenuItemID, &price, &sp.SpecialDescription, &sp.IsActive, &sp.CreatedAt, &sp.UpdatedAt)
	if err == nil && price.Valid {
		v := price.Int64
		sp.SpecialPrice = &v
	}
	return sp, err
}

func (s *PostgresStore) ListSpecials(ctx context.Context, activeOnly bool) ([]models.DailySpecial, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+specialColumns+` FROM todays_specials WHERE ($1 = FALSE OR is_active) ORDER BY created_at DESC`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list specials: %w", err)
	}
	defer rows.Close()

	specials := make([]models.DailySpecial, 0)
	for rows.Next() {
		sp, err := scanSpecial(rows)
		if err != nil {
			return nil, fmt.Errorf("scan special: %w", err)
		}
		specials = append(specials, sp)
	}
	return specials, rows.Err()
}

func (s *PostgresStore) GetSpecial(ctx context.Context, id string) (*models.DailySpecial, error) {
	sp, err := scanSpecial(s.db.QueryRowContext(ctx, `SELECT `+specialColumns+` FROM todays_specials WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSpecialNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get special: %w", err)
	}
	return &sp, nil
}

func (s *PostgresStore) CreateSpecial(ctx context.Context, special *models.DailySpecial) error {
	if special.ID == "" {
		special.ID = uuid.New().String()
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO todays_specials (id, menu_item_id, special_price, special_description, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		special.ID, special.MenuItemID, special.SpecialPrice, special.SpecialDescription, special.IsActive,
	).Scan(&special.CreatedAt, &special.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create special: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateSpecial(ctx context.Context, special *models.DailySpecial) error {
	err := s.db.QueryRowContext(ctx, `
		UPDATE todays_specials
		SET menu_item_id = $1, special_price = $2, special_description = $3, is_active = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING created_at, updated_at`,
		special.MenuItemID, special.SpecialPrice, special.SpecialDescription, special.IsActive, special.ID,
	).Scan(&special.CreatedAt, &special.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSpecialNotFound
	}
	if err != nil {
		return fmt.Errorf("update special: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteSpecial(ctx context.Context, id string) error {
	return s.execAffecting(ctx, ErrSpecialNotFound, `DELETE FROM todays_specials WHERE id = $1`, id)
}
