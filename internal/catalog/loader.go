package catalog

import (
	"bytes"
	"context"
	"database/sql"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"brecha/internal/util"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	_ "github.com/mattn/go-sqlite3"    // registers the "sqlite3" database/sql driver
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// EmbeddedSource is the Source() of the catalog compiled into the binary.
const EmbeddedSource = "embedded:default_catalog.yaml"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Source tells Load where the categories live. With Driver set the categories
// are read from a SQL table; otherwise Path points to a YAML or CSV file, and
// an empty Path selects the embedded default catalog.
type Source struct {
	Path   string
	Driver string
	DSN    string
	Table  string
}

// Load reads and validates a catalog. Every failure satisfies
// errors.Is(err, ErrCatalogLoad).
func Load(ctx context.Context, src Source) (*Catalog, error) {
	var (
		cat *Catalog
		err error
	)
	switch {
	case src.Driver != "":
		cat, err = loadSQL(ctx, src)
	case src.Path == "":
		cat, err = ParseYAML(EmbeddedSource, bytes.NewReader(defaultCatalogYAML))
	default:
		cat, err = loadFile(src.Path)
	}
	if err != nil {
		return nil, err
	}

	log.Infof("Loaded %d categories from %s", cat.Len(), cat.Source())
	return cat, nil
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return ParseYAML(EmbeddedSource, bytes.NewReader(defaultCatalogYAML))
}

func loadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Source: path, Reason: "cannot read file", Err: err}
	}
	content, err := util.CleanFileContent(raw, path)
	if err != nil {
		return nil, &LoadError{Source: path, Reason: "unreadable content", Err: err}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(path, strings.NewReader(content))
	case ".csv":
		return ParseCSV(path, strings.NewReader(content))
	default:
		return nil, &LoadError{Source: path, Reason: "unsupported file extension (want .yaml, .yml or .csv)"}
	}
}

type yamlCatalog struct {
	Categories []Category `yaml:"categories"`
}

// ParseYAML decodes a document of the form
//
//	categories:
//	  - id: 1
//	    name: ...
//	    definition: |
//	      ...
func ParseYAML(source string, r io.Reader) (*Catalog, error) {
	var doc yamlCatalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Source: source, Reason: "catalog is empty"}
		}
		return nil, &LoadError{Source: source, Reason: "malformed YAML", Err: err}
	}
	return New(source, doc.Categories)
}

// ParseCSV decodes a CSV file whose header names the id, name and definition
// columns (any order, extra columns ignored). Definitions may span lines when quoted.
func ParseCSV(source string, r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Source: source, Reason: "catalog is empty"}
		}
		return nil, &LoadError{Source: source, Reason: "malformed CSV header", Err: err}
	}

	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, required := range []string{"id", "name", "definition"} {
		if _, ok := cols[required]; !ok {
			return nil, &LoadError{Source: source, Reason: fmt.Sprintf("missing %q column", required)}
		}
	}

	var categories []Category
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &LoadError{Source: source, Reason: "malformed CSV", Err: err}
		}

		field := func(name string) string {
			if i := cols[name]; i < len(record) {
				return record[i]
			}
			return ""
		}

		rawID := strings.TrimSpace(field("id"))
		if rawID == "" {
			return nil, &LoadError{Source: source, Reason: fmt.Sprintf("line %d: missing id", line)}
		}
		id, err := strconv.Atoi(rawID)
		if err != nil {
			return nil, &LoadError{Source: source, Reason: fmt.Sprintf("line %d: invalid id %q", line, rawID), Err: err}
		}

		categories = append(categories, Category{
			ID:         id,
			Name:       field("name"),
			Definition: field("definition"),
		})
	}

	return New(source, categories)
}

func loadSQL(ctx context.Context, src Source) (*Catalog, error) {
	table := src.Table
	if table == "" {
		table = "categories"
	}
	label := fmt.Sprintf("%s table %s", src.Driver, table)

	if src.DSN == "" {
		return nil, &LoadError{Source: label, Reason: "DSN is required for SQL catalog sources"}
	}
	if !tableNamePattern.MatchString(table) {
		return nil, &LoadError{Source: label, Reason: "invalid table name"}
	}

	db, err := sql.Open(src.Driver, src.DSN)
	if err != nil {
		return nil, &LoadError{Source: label, Reason: "cannot open database", Err: err}
	}
	defer db.Close()

	return QueryCatalog(ctx, db, label, table)
}

// QueryCatalog reads id, name and definition from table ordered by id.
func QueryCatalog(ctx context.Context, db *sql.DB, source, table string) (*Catalog, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, &LoadError{Source: source, Reason: "invalid table name"}
	}

	rows, err := db.QueryContext(ctx, "SELECT id, name, definition FROM "+table+" ORDER BY id")
	if err != nil {
		return nil, &LoadError{Source: source, Reason: "query failed", Err: err}
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var (
			cat       Category
			name, def sql.NullString
		)
		if err := rows.Scan(&cat.ID, &name, &def); err != nil {
			return nil, &LoadError{Source: source, Reason: "scan failed", Err: err}
		}
		cat.Name = name.String
		cat.Definition = def.String
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, &LoadError{Source: source, Reason: "row iteration failed", Err: err}
	}

	return New(source, categories)
}
