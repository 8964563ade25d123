package db

import "time"

const requestColumns = `id, name, method, url, body, headers, folder_id, request_type, body_type, body_content, auth_type, auth_token, auth_username, auth_password, created_at, updated_at, archived_at`

// CreateRequestParams carries the fields accepted on create/update, grounded
// on original_source/src/requests.rs's CreateRequest/UpdateRequest.
type CreateRequestParams struct {
	Name         string
	Method       string
	URL          string
	Body         *string
	Headers      *string
	FolderID     *int64
	RequestType  string
	BodyType     string
	BodyContent  *string
	AuthType     string
	AuthToken    *string
	AuthUsername *string
	AuthPassword *string
}

func (d *DB) CreateRequest(p CreateRequestParams) (Request, error) {
	res, err := d.Exec(
		`INSERT INTO requests (name, method, url, body, headers, folder_id, request_type, body_type, body_content, auth_type, auth_token, auth_username, auth_password)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Name, p.Method, p.URL, p.Body, p.Headers, p.FolderID, p.RequestType, p.BodyType, p.BodyContent, p.AuthType, p.AuthToken, p.AuthUsername, p.AuthPassword,
	)
	if err != nil {
		return Request{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Request{}, err
	}
	return d.GetRequest(id)
}

func (d *DB) GetRequest(id int64) (Request, error) {
	row := d.QueryRow(`SELECT `+requestColumns+` FROM requests WHERE id = ?`, id)
	return scanRequest(row)
}

// ListRequests mirrors original_source's four-way branch on
// (include_archived, folder_id).
func (d *DB) ListRequests(includeArchived bool, folderID *int64) ([]Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests`
	var conds []string
	var args []any
	if !includeArchived {
		conds = append(conds, "archived_at IS NULL")
	}
	if folderID != nil {
		conds = append(conds, "folder_id = ?")
		args = append(args, *folderID)
	}
	if len(conds) > 0 {
		query += " WHERE " + conds[0]
		for _, c := range conds[1:] {
			query += " AND " + c
		}
	}
	query += " ORDER BY id"

	rows, err := d.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []Request{}
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (d *DB) UpdateRequest(id int64, p CreateRequestParams) (Request, error) {
	res, err := d.Exec(
		`UPDATE requests SET name = ?, method = ?, url = ?, body = ?, headers = ?, folder_id = ?, request_type = ?, body_type = ?, body_content = ?, auth_type = ?, auth_token = ?, auth_username = ?, auth_password = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		p.Name, p.Method, p.URL, p.Body, p.Headers, p.FolderID, p.RequestType, p.BodyType, p.BodyContent, p.AuthType, p.AuthToken, p.AuthUsername, p.AuthPassword, id,
	)
	if err != nil {
		return Request{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Request{}, ErrNotFound
	}
	return d.GetRequest(id)
}

func (d *DB) ArchiveRequest(id int64) error {
	now := time.Now().UTC()
	res, err := d.Exec(`UPDATE requests SET archived_at = ? WHERE id = ?`, now, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DB) UnarchiveRequest(id int64) error {
	res, err := d.Exec(`UPDATE requests SET archived_at = NULL WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (d *DB) DeleteRequest(id int64) error {
	res, err := d.Exec(`DELETE FROM requests WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanRequest(s scanner) (Request, error) {
	var r Request
	if err := s.Scan(
		&r.ID, &r.Name, &r.Method, &r.URL, &r.Body, &r.Headers, &r.FolderID,
		&r.RequestType, &r.BodyType, &r.BodyContent, &r.AuthType, &r.AuthToken,
		&r.AuthUsername, &r.AuthPassword, &r.CreatedAt, &r.UpdatedAt, &r.ArchivedAt,
	); err != nil {
		return Request{}, err
	}
	return r, nil
}
