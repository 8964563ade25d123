package db

import "time"

func (d *DB) CreateEnvironment(name, variables string) (Environment, error) {
	res, err := d.Exec(`INSERT INTO environments (name, variables) VALUES (?, ?)`, name, variables)
	if err != nil {
		return Environment{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Environment{}, err
	}
	return d.GetEnvironment(id)
}

func (d *DB) GetEnvironment(id int64) (Environment, error) {
	row := d.QueryRow(`SELECT id, name, variables, created_at, updated_at, archived_at FROM environments WHERE id = ?`, id)
	return scanEnvironment(row)
}

func (d *DB) ListEnvironments(includeArchived bool) ([]Environment, error) {
	query := `SELECT id, name, variables, created_at, updated_at, archived_at FROM environments`
	if !includeArchived {
		query += ` WHERE archived_at IS NULL`
	}
	query += ` ORDER BY id`
	rows, err := d.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	environments := []Environment{}
	for rows.Next() {
		e, err := scanEnvironment(rows)
		if err != nil {
			return nil, err
		}
		environments = append(environments, e)
	}
	return environments, rows.Err()
}

func (d *DB) UpdateEnvironment(id int64, name, variables string) (Environment, error) {
	res, err := d.Exec(`UPDATE environments SET name = ?, variables = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, name, variables, id)
	if err != nil {
		return Environment{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Environment{}, ErrNotFound
	}
	return d.GetEnvironment(id)
}

func (d *DB) ArchiveEnvironment(id int64) error {
	now := time.Now().UTC()
	res, err := d.Exec(`UPDATE environments SET archived_at = ? WHERE id = ?`, now, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DB) UnarchiveEnvironment(id int64) error {
	res, err := d.Exec(`UPDATE environments SET archived_at = NULL WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DB) DeleteEnvironment(id int64) error {
	res, err := d.Exec(`DELETE FROM environments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanEnvironment(s scanner) (Environment, error) {
	var e Environment
	if err := s.Scan(&e.ID, &e.Name, &e.Variables, &e.CreatedAt, &e.UpdatedAt, &e.ArchivedAt); err != nil {
		return Environment{}, err
	}
	return e, nil
}
