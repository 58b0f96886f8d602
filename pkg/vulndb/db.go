package vulndb

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"
)

const (
	vulnTable = `CREATE TABLE IF NOT EXISTS vulns (
			navi_id INTEGER PRIMARY KEY,
			asset_ip TEXT,
			asset_uuid TEXT,
			asset_hostname TEXT,
			first_found TEXT,
			last_found TEXT,
			output TEXT,
			plugin_id TEXT,
			plugin_name TEXT,
			plugin_family TEXT,
			port TEXT,
			protocol TEXT,
			severity TEXT,
			scan_completed TEXT,
			scan_started TEXT,
			scan_uuid TEXT,
			schedule_id TEXT,
			state TEXT,
			cves TEXT,
			score TEXT,
			exploit TEXT,
			xrefs TEXT,
			synopsis TEXT);`

	assetTable = `CREATE TABLE IF NOT EXISTS assets (
			ip_address TEXT,
			hostname TEXT,
			fqdn TEXT,
			uuid TEXT PRIMARY KEY,
			first_found TEXT,
			last_found TEXT,
			operating_system TEXT,
			mac_address TEXT,
			agent_uuid TEXT,
			last_licensed_scan_date TEXT,
			network TEXT);`

	keyTable = `CREATE TABLE IF NOT EXISTS keys (
			access_key TEXT,
			secret_key TEXT);`
)

// Open connects to the sqlite cache at path and makes sure
// the tables exist so that an empty cache can still be queried
func Open(path string) (*Client, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	cli := &Client{DB: db, Path: path}
	if err = cli.Init(); err != nil {
		db.Close()
		return nil, err
	}

	return cli, nil
}

func (cli *Client) Init() error {
	if err := cli.DB.Ping(); err != nil {
		return fmt.Errorf("connect database %s: %w", cli.Path, err)
	}

	for _, table := range []string{vulnTable, assetTable, keyTable} {
		if _, err := cli.DB.Exec(table); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}

	return nil
}

func (cli *Client) Close() error {
	return cli.DB.Close()
}

// Query runs statement as given and collects every row.
// The statement is not inspected, so writes go through as well.
func (cli *Client) Query(ctx context.Context, statement string) (*Result, error) {
	log.Debugf("query: %s", statement)

	rows, err := cli.DB.QueryContext(ctx, statement)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	res := &Result{Columns: columns, Rows: []Row{}}

	for rows.Next() {
		values := make([]sql.NullString, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}

		if err = rows.Scan(dest...); err != nil {
			return res, err
		}

		r := make(Row, len(columns))
		for i, v := range values {
			r[i] = v.String
		}

		res.Rows = append(res.Rows, r)
	}

	if err = rows.Err(); err != nil {
		return res, err
	}

	log.Debugf("query returned %d rows", len(res.Rows))

	return res, nil
}

// Keys returns the first api key pair saved in the cache
func (cli *Client) Keys(ctx context.Context) (string, string, error) {
	var access, secret sql.NullString

	err := cli.DB.QueryRowContext(ctx, `SELECT access_key, secret_key FROM keys LIMIT 1`).Scan(&access, &secret)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", "", ErrNoKeys
		}
		return "", "", err
	}

	return access.String, secret.String, nil
}
