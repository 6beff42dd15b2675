package cdg

import (
	"bytes"
	"database/sql"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/bodgit/cdg/cover"
	"github.com/bodgit/cdg/transcript"
	_ "github.com/mattn/go-sqlite3"
)

// DB caches quantized covers and transcripts, keyed by the SHA-1 of the
// source file.
type DB struct {
	db *sql.DB
}

// NewDB opens, creating if necessary, the database in file.
func NewDB(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS cover (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, image BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS transcript (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL UNIQUE, name TEXT NOT NULL, data TEXT NOT NULL)"); err != nil {
		db.Close()
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

// LoadCover returns the quantized form of the image in file, quantizing and
// storing it on first use.
func (db *DB) LoadCover(file string) (*image.Paletted, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sha, err := sha1Reader(f)
	if err != nil {
		return nil, err
	}

	var b []byte
	switch err := db.db.QueryRow("SELECT image FROM cover WHERE sha1 = ?", sha).Scan(&b); err {
	case sql.ErrNoRows:
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		m, err := cover.Load(f)
		if err != nil {
			return nil, err
		}

		buf := new(bytes.Buffer)
		if err := cover.Encode(buf, m); err != nil {
			return nil, err
		}
		if _, err := db.db.Exec("INSERT OR REPLACE INTO cover (sha1, image) VALUES (?, ?)", sha, buf.Bytes()); err != nil {
			return nil, err
		}
		return m, nil
	case nil:
		return cover.Decode(bytes.NewReader(b))
	default:
		return nil, err
	}
}

// AddTranscript stores t against the audio with the given SHA-1.
func (db *DB) AddTranscript(sha, name string, t *transcript.Transcript) error {
	b := new(bytes.Buffer)
	if err := t.Write(b); err != nil {
		return err
	}
	if _, err := db.db.Exec("INSERT OR REPLACE INTO transcript (sha1, name, data) VALUES (?, ?, ?)", sha, name, b.String()); err != nil {
		return err
	}
	return nil
}

// FindTranscript returns the transcript stored against the audio with the
// given SHA-1, or nil if there is none.
func (db *DB) FindTranscript(sha string) (*transcript.Transcript, error) {
	var data string
	switch err := db.db.QueryRow("SELECT data FROM transcript WHERE sha1 = ?", sha).Scan(&data); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return transcript.Read(bytes.NewReader([]byte(data)))
	default:
		return nil, err
	}
}
