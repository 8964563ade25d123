package db

import "time"

// Folder mirrors original_source/src/folders.rs's public Folder shape.
type Folder struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at"`
}

// Request mirrors original_source/src/requests.rs's Request shape: the
// legacy freeform body/headers fields sit alongside the typed body_type/
// body_content/auth fields, per the data model's documented invariant.
type Request struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Method       string     `json:"method"`
	URL          string     `json:"url"`
	Body         *string    `json:"body"`
	Headers      *string    `json:"headers"`
	FolderID     *int64     `json:"folder_id"`
	RequestType  string     `json:"request_type"`
	BodyType     string     `json:"body_type"`
	BodyContent  *string    `json:"body_content"`
	AuthType     string     `json:"auth_type"`
	AuthToken    *string    `json:"auth_token"`
	AuthUsername *string    `json:"auth_username"`
	AuthPassword *string    `json:"auth_password"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	ArchivedAt   *time.Time `json:"archived_at"`
}

// Environment mirrors original_source/src/environments.rs.
type Environment struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Variables  string     `json:"variables"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at"`
}

// NetworkSettings mirrors original_source/src/network.rs's singleton row.
type NetworkSettings struct {
	ID          int64   `json:"id"`
	AutoProxy   bool    `json:"auto_proxy"`
	HTTPProxy   *string `json:"http_proxy"`
	HTTPSProxy  *string `json:"https_proxy"`
	NoProxy     *string `json:"no_proxy"`
}

// AllowedMethods is the create/update method allow-list for kind=api
// requests (spec §3, §8 "Method validation"); kind=ws is unvalidated.
var AllowedMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "DELETE": true,
	"PATCH": true, "HEAD": true, "OPTIONS": true,
}
