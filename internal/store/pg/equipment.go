package pg

import (
	"context"
	"database/sql"
	"fmt"

	"dtiestoque.org/internal/inventory"
)

const equipmentColumns = `id, tipo_equipamento, marca, modelo, patrimonio, numero_serie,
	status_equipamento, local_id, data_cadastro, observacao`

func (s *Store) List(ctx context.Context) ([]inventory.Equipment, error) {
	rows, err := s.db.QueryContext(ctx, `
		select `+equipmentColumns+`
		from equipamentos
		order by id
		limit $1
	`, inventory.ListLimit)
	if err != nil {
		return nil, inventory.StorageError(fmt.Errorf("list equipment: %w", err))
	}
	defer rows.Close()

	out := make([]inventory.Equipment, 0)
	for rows.Next() {
		eq, err := scanEquipment(rows)
		if err != nil {
			return nil, inventory.StorageError(err)
		}
		out = append(out, eq)
	}
	if err := rows.Err(); err != nil {
		return nil, inventory.StorageError(err)
	}
	return out, nil
}

func (s *Store) Create(ctx context.Context, f inventory.Fields) (int64, error) {
	f = f.Normalize()
	var id int64
	err := s.db.QueryRowContext(ctx, `
		insert into equipamentos (tipo_equipamento, marca, modelo, patrimonio, numero_serie,
			status_equipamento, local_id, data_cadastro, observacao)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		returning id
	`, fieldArgs(f)...).Scan(&id)
	if err != nil {
		return 0, inventory.StorageError(fmt.Errorf("create equipment: %w", err))
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, id int64, f inventory.Fields) (int64, error) {
	f = f.Normalize()
	args := append(fieldArgs(f), id)
	res, err := s.db.ExecContext(ctx, `
		update equipamentos
		set tipo_equipamento = $1, marca = $2, modelo = $3, patrimonio = $4, numero_serie = $5,
			status_equipamento = $6, local_id = $7, data_cadastro = $8, observacao = $9
		where id = $10
	`, args...)
	if err != nil {
		return 0, inventory.StorageError(fmt.Errorf("update equipment %d: %w", id, err))
	}
	return affected(res)
}

func (s *Store) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `delete from equipamentos where id = $1`, id)
	if err != nil {
		return 0, inventory.StorageError(fmt.Errorf("delete equipment %d: %w", id, err))
	}
	return affected(res)
}

func (s *Store) CategoryCounts(ctx context.Context) ([]inventory.CategoryCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		select tipo_equipamento, count(*)
		from equipamentos
		group by tipo_equipamento
	`)
	if err != nil {
		return nil, inventory.StorageError(fmt.Errorf("count by category: %w", err))
	}
	defer rows.Close()

	out := make([]inventory.CategoryCount, 0)
	for rows.Next() {
		var c inventory.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, inventory.StorageError(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, inventory.StorageError(err)
	}
	return out, nil
}

func (s *Store) StatusCounts(ctx context.Context) ([]inventory.StatusCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		select status_equipamento, count(*)
		from equipamentos
		group by status_equipamento
	`)
	if err != nil {
		return nil, inventory.StorageError(fmt.Errorf("count by status: %w", err))
	}
	defer rows.Close()

	out := make([]inventory.StatusCount, 0)
	for rows.Next() {
		var (
			st string
			n  int64
		)
		if err := rows.Scan(&st, &n); err != nil {
			return nil, inventory.StorageError(err)
		}
		out = append(out, inventory.StatusCount{Status: inventory.Status(st), Count: n})
	}
	if err := rows.Err(); err != nil {
		return nil, inventory.StorageError(err)
	}
	return out, nil
}

func (s *Store) Summary(ctx context.Context) (inventory.Summary, error) {
	var total int64
	if err := s.db.QueryRowContext(ctx, `select count(*) from equipamentos`).Scan(&total); err != nil {
		return inventory.Summary{}, inventory.StorageError(fmt.Errorf("summary: %w", err))
	}
	return inventory.Summary{Total: total}, nil
}

func (s *Store) Counts(ctx context.Context) (inventory.Counts, error) {
	var total, discard int64
	err := s.db.QueryRowContext(ctx, `
		select count(*),
			count(*) filter (where status_equipamento like '%' || $1 || '%')
		from equipamentos
	`, inventory.DiscardMarker).Scan(&total, &discard)
	if err != nil {
		return inventory.Counts{}, inventory.StorageError(fmt.Errorf("counts: %w", err))
	}
	return inventory.NewCounts(total, discard), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEquipment(r rowScanner) (inventory.Equipment, error) {
	var (
		eq                  inventory.Equipment
		status              string
		asset, serial, note sql.NullString
		location            sql.NullInt64
		registered          sql.NullTime
	)
	if err := r.Scan(&eq.ID, &eq.Type, &eq.Brand, &eq.Model, &asset, &serial,
		&status, &location, &registered, &note); err != nil {
		return inventory.Equipment{}, fmt.Errorf("scan equipment: %w", err)
	}
	eq.Status = inventory.Status(status)
	eq.AssetTag = stringPtr(asset)
	eq.SerialNumber = stringPtr(serial)
	eq.Note = stringPtr(note)
	if location.Valid {
		v := location.Int64
		eq.LocationID = &v
	}
	if registered.Valid {
		d := inventory.NewDate(registered.Time)
		eq.RegisteredOn = &d
	}
	return eq, nil
}

func fieldArgs(f inventory.Fields) []any {
	var location, registered any
	if f.LocationID != nil {
		location = *f.LocationID
	}
	if f.RegisteredOn != nil {
		registered = f.RegisteredOn.Time
	}
	return []any{
		f.Type, f.Brand, f.Model,
		nullString(f.AssetTag), nullString(f.SerialNumber),
		string(f.Status), location, registered,
		nullString(f.Note),
	}
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func affected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, inventory.StorageError(fmt.Errorf("rows affected: %w", err))
	}
	return n, nil
}
