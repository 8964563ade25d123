package db

import "time"

// CreateFolder inserts a folder. Grounded on original_source/src/folders.rs
// create_folder (INSERT ... RETURNING translated to insert-then-select,
// since database/sql has no RETURNING portable across drivers used here).
func (d *DB) CreateFolder(name string) (Folder, error) {
	res, err := d.Exec(`INSERT INTO folders (name) VALUES (?)`, name)
	if err != nil {
		return Folder{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Folder{}, err
	}
	return d.GetFolder(id)
}

func (d *DB) GetFolder(id int64) (Folder, error) {
	row := d.QueryRow(`SELECT id, name, created_at, updated_at, archived_at FROM folders WHERE id = ?`, id)
	return scanFolder(row)
}

// ListFolders mirrors original_source's list_folders WHERE-clause branch on
// include_archived.
func (d *DB) ListFolders(includeArchived bool) ([]Folder, error) {
	query := `SELECT id, name, created_at, updated_at, archived_at FROM folders`
	if !includeArchived {
		query += ` WHERE archived_at IS NULL`
	}
	query += ` ORDER BY id`
	rows, err := d.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	folders := []Folder{}
	for rows.Next() {
		f, err := scanFolderRows(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

func (d *DB) UpdateFolder(id int64, name string) (Folder, error) {
	res, err := d.Exec(`UPDATE folders SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, name, id)
	if err != nil {
		return Folder{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Folder{}, ErrNotFound
	}
	return d.GetFolder(id)
}

func (d *DB) ArchiveFolder(id int64) error {
	now := time.Now().UTC()
	return d.setFolderArchived(id, &now)
}

func (d *DB) UnarchiveFolder(id int64) error {
	return d.setFolderArchived(id, nil)
}

func (d *DB) setFolderArchived(id int64, at *time.Time) error {
	res, err := d.Exec(`UPDATE folders SET archived_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DB) DeleteFolder(id int64) error {
	res, err := d.Exec(`DELETE FROM folders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFolder(s scanner) (Folder, error) {
	var f Folder
	var archived *time.Time
	if err := s.Scan(&f.ID, &f.Name, &f.CreatedAt, &f.UpdatedAt, &archived); err != nil {
		return Folder{}, err
	}
	f.ArchivedAt = archived
	return f, nil
}

func scanFolderRows(rows scanner) (Folder, error) {
	return scanFolder(rows)
}
