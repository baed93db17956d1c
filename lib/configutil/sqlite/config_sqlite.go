package configsqlite

import (
	"database/sql"
	"fmt"
	"net/url"

	devenv "banks-etl/dev/env"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

// Struct configures where the relational sink lives. A local file is
// opened with the sqlite driver, a url (libsql://, https://, ws://) with
// the libsql client.
type Struct struct {
	File      string `json:"file"`
	Url       string `json:"url"`
	AuthToken string `json:"auth_token"`
}

func (config Struct) String() string {
	if config.Url != "" {
		return config.Url
	}
	return config.File
}

func (config Struct) OpenDB() (*sql.DB, error) {
	if config.Url != "" {
		return config.openRemote()
	}
	if config.File == "" {
		return nil, fmt.Errorf("a database file or url was not specified")
	}

	dbpath, err := devenv.ResolvePath(config.File)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dbpath)
	if err != nil {
		return nil, err
	}
	// the pipeline holds a single connection for its whole run
	db.SetMaxOpenConns(1)
	err = db.Ping()
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (config Struct) openRemote() (*sql.DB, error) {
	link, err := url.Parse(config.Url)
	if err != nil {
		return nil, err
	}
	if config.AuthToken != "" {
		values := link.Query()
		values.Set("authToken", config.AuthToken)
		link.RawQuery = values.Encode()
	}
	db, err := sql.Open("libsql", link.String())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
