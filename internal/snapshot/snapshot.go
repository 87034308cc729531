// Package snapshot writes and reads portable catalog archives: a tar.gz
// holding the catalog as YAML and, optionally, the SQLite database it came
// from.
package snapshot

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/HerbHall/shopfind/internal/source"
	"github.com/HerbHall/shopfind/pkg/models"
)

// CatalogEntry is the archive member holding the catalog.
const CatalogEntry = "catalog.yaml"

// ErrNoCatalog is returned when an archive lacks the catalog member.
var ErrNoCatalog = errors.New("snapshot has no " + CatalogEntry)

// Write creates a tar.gz archive at outputPath with the products as YAML.
// When dbPath is non-empty the database is checkpointed and included too.
func Write(ctx context.Context, products []models.Product, dbPath, outputPath string) error {
	data, err := yaml.Marshal(struct {
		Products []models.Product `yaml:"products"`
	}{Products: products})
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}

	if dbPath != "" {
		if _, err := os.Stat(dbPath); err != nil {
			return fmt.Errorf("database file not found: %w", err)
		}
		if err := checkpointWAL(ctx, dbPath); err != nil {
			return fmt.Errorf("WAL checkpoint failed: %w", err)
		}
	}

	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer outFile.Close()

	gw := gzip.NewWriter(outFile)
	tw := tar.NewWriter(gw)

	if err := addBytesToTar(tw, CatalogEntry, data); err != nil {
		return fmt.Errorf("adding catalog to archive: %w", err)
	}
	if dbPath != "" {
		if err := addFileToTar(tw, dbPath, filepath.Base(dbPath)); err != nil {
			return fmt.Errorf("adding database to archive: %w", err)
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	if err := gw.Close(); err != nil {
		return fmt.Errorf("closing gzip stream: %w", err)
	}
	return outFile.Close()
}

// Read extracts the catalog from an archive created by Write.
func Read(archivePath string) ([]models.Product, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading gzip stream: %w", err)
	}
	defer gr.Close()

	tr := tar.NewReader(gr)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil, ErrNoCatalog
		}
		if err != nil {
			return nil, fmt.Errorf("reading archive: %w", err)
		}
		if hdr.Name != CatalogEntry {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", CatalogEntry, err)
		}
		products, err := source.ParseProducts(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", CatalogEntry, err)
		}
		return products, nil
	}
}

// checkpointWAL opens the database, runs a TRUNCATE checkpoint to flush the
// WAL, and closes the connection.
func checkpointWAL(ctx context.Context, dbPath string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)")
	return err
}

func addBytesToTar(tw *tar.Writer, name string, data []byte) error {
	hdr := &tar.Header{
		Name:    name,
		Mode:    0o644,
		Size:    int64(len(data)),
		ModTime: time.Now(),
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := tw.Write(data)
	return err
}

// addFileToTar adds a single file to the tar archive under the given name.
func addFileToTar(tw *tar.Writer, filePath, archiveName string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = archiveName

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}

	_, err = io.Copy(tw, f)
	return err
}
