package hdpack

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// DB maps ROM checksums to the directories of the packs made for them.
type DB struct {
	db *sql.DB
}

// Pack is a registered pack directory and the checksums it is used for.
type Pack struct {
	Dir       string
	Checksums []string
}

// NewDB opens, creating if necessary, the sqlite database in file.
func NewDB(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS pack (id INTEGER PRIMARY KEY NOT NULL, dir TEXT NOT NULL UNIQUE)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS checksum (pack_id INTEGER NOT NULL, crc TEXT NOT NULL UNIQUE, FOREIGN KEY(pack_id) REFERENCES pack(id))"); err != nil {
		return nil, err
	}

	return &DB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.db.Close()
}

func normalizeCRC(crc string) (string, error) {
	crc = strings.ToUpper(strings.TrimSpace(crc))
	if len(crc) == 0 || len(crc) > 8 || strings.Trim(crc, "0123456789ABCDEF") != "" {
		return "", errors.Errorf("hdpack: bad checksum %q", crc)
	}
	return strings.Repeat("0", 8-len(crc)) + crc, nil
}

func (db *DB) addPack(dir string) (int64, error) {
	var id int64
	switch err := db.db.QueryRow("SELECT id FROM pack WHERE dir = ?", dir).Scan(&id); err {
	case sql.ErrNoRows:
		result, err := db.db.Exec("INSERT INTO pack (dir) VALUES (?)", dir)
		if err != nil {
			return 0, err
		}
		return result.LastInsertId()
	case nil:
		return id, nil
	default:
		return 0, err
	}
}

// Register records that the pack in dir is used for the ROM with checksum
// crc, replacing any earlier registration of crc.
func (db *DB) Register(crc, dir string) error {
	crc, err := normalizeCRC(crc)
	if err != nil {
		return err
	}
	if dir, err = filepath.Abs(dir); err != nil {
		return err
	}

	id, err := db.addPack(dir)
	if err != nil {
		return errors.Wrapf(err, "hdpack: registering %q", dir)
	}
	if _, err := db.db.Exec("INSERT OR REPLACE INTO checksum (pack_id, crc) VALUES (?, ?)", id, crc); err != nil {
		return errors.Wrapf(err, "hdpack: registering %s", crc)
	}
	return nil
}

// FindPackByCRC returns the pack directory registered for crc. It returns an
// empty string if there is none.
func (db *DB) FindPackByCRC(crc string) (string, error) {
	crc, err := normalizeCRC(crc)
	if err != nil {
		return "", err
	}

	var dir string
	switch err := db.db.QueryRow("SELECT p.dir FROM checksum AS c JOIN pack AS p ON c.pack_id = p.id WHERE c.crc = ?", crc).Scan(&dir); err {
	case sql.ErrNoRows:
		return "", nil
	case nil:
		return dir, nil
	default:
		return "", err
	}
}

// Packs returns every pack with at least one checksum, ordered by directory.
func (db *DB) Packs() ([]Pack, error) {
	rows, err := db.db.Query("SELECT p.dir, c.crc FROM pack AS p JOIN checksum AS c ON c.pack_id = p.id ORDER BY p.dir, c.crc")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var packs []Pack
	for rows.Next() {
		var dir, crc string
		if err := rows.Scan(&dir, &crc); err != nil {
			return nil, err
		}
		if n := len(packs); n == 0 || packs[n-1].Dir != dir {
			packs = append(packs, Pack{Dir: dir})
		}
		packs[len(packs)-1].Checksums = append(packs[len(packs)-1].Checksums, crc)
	}
	return packs, rows.Err()
}
