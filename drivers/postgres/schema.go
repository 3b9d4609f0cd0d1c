package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seamusabshere/dbcrossbar/capability"
	"github.com/seamusabshere/dbcrossbar/errs"
	"github.com/seamusabshere/dbcrossbar/portable"
)

// Driver implements read_schema/write_schema for both the text
// postgres-sql: scheme and the live postgres: scheme (spec §4.3).
type Driver struct{}

// ReadSchemaText parses a "CREATE TABLE ...;" document, as read from a
// postgres-sql: locator or the --schema file accompanying a "conv" or
// "cp" invocation.
func (Driver) ReadSchemaText(data []byte) (*portable.Table, error) {
	ct, err := ParseCreateTable(string(data))
	if err != nil {
		return nil, err
	}
	return ct.ToPortable()
}

// WriteSchemaText renders a portable table as a "CREATE TABLE ...;"
// document (spec §4.3, testable scenario S1).
func (Driver) WriteSchemaText(table *portable.Table) ([]byte, error) {
	ct, err := FromPortable(table)
	if err != nil {
		return nil, err
	}
	return []byte(ct.Print()), nil
}

// ReadSchemaLive introspects a live table's column set via
// information_schema, the catalog-backed counterpart to
// ReadSchemaText's file-backed parse (spec §4.3 "the catalog over a
// live connection").
func ReadSchemaLive(ctx context.Context, loc *Locator) (*portable.Table, error) {
	pool, err := pgxpool.New(ctx, loc.URL)
	if err != nil {
		return nil, &errs.RemoteError{Backend: "postgres", Err: err}
	}
	defer pool.Close()

	rows, err := pool.Query(ctx, `
		SELECT column_name, is_nullable, data_type, udt_name,
		       COALESCE(character_maximum_length, 0),
		       COALESCE(numeric_precision, 0),
		       COALESCE(numeric_scale, 0)
		FROM information_schema.columns
		WHERE table_name = $1
		ORDER BY ordinal_position`, loc.TableName)
	if err != nil {
		return nil, &errs.RemoteError{Backend: "postgres", Err: fmt.Errorf("reading columns for %q: %w", loc.TableName, err)}
	}
	defer rows.Close()

	ct := &CreateTable{Name: loc.TableName}
	for rows.Next() {
		var name, isNullable, dataType, udtName string
		var charLen, numPrec, numScale int
		if err := rows.Scan(&name, &isNullable, &dataType, &udtName, &charLen, &numPrec, &numScale); err != nil {
			return nil, &errs.RemoteError{Backend: "postgres", Err: err}
		}
		dt, err := nativeTypeFromCatalog(dataType, udtName, charLen, numPrec, numScale)
		if err != nil {
			return nil, err
		}
		ct.Columns = append(ct.Columns, Column{
			Name:       name,
			Type:       dt,
			IsNullable: isNullable == "YES",
		})
	}
	if err := rows.Err(); err != nil {
		return nil, &errs.RemoteError{Backend: "postgres", Err: err}
	}
	return ct.ToPortable()
}

// nativeTypeFromCatalog maps information_schema.columns' reported type
// to our native DataType. PostgreSQL reports array columns as
// data_type = "ARRAY" with the element type encoded in udt_name as
// "_<typname>" (e.g. "_int4" for integer[]); this is the catalog's
// equivalent of the "[]" suffix the text parser reads directly.
func nativeTypeFromCatalog(dataType, udtName string, charLen, numPrec, numScale int) (DataType, error) {
	if dataType == "ARRAY" {
		elemUDT := udtName
		if len(elemUDT) > 0 && elemUDT[0] == '_' {
			elemUDT = elemUDT[1:]
		}
		elem, err := nativeTypeFromUDTName(elemUDT, charLen, numPrec, numScale)
		if err != nil {
			return DataType{}, err
		}
		return elem.Array(), nil
	}
	p := &parser{input: dataType}
	dt, err := p.dataType()
	if err != nil {
		// Fall back to the udt_name, which is always a single identifier
		// PostgreSQL's own catalog understands (e.g. "geometry").
		return nativeTypeFromUDTName(udtName, charLen, numPrec, numScale)
	}
	return applyModifiers(dt, charLen, numPrec, numScale), nil
}

func nativeTypeFromUDTName(udtName string, charLen, numPrec, numScale int) (DataType, error) {
	p := &parser{input: udtName}
	dt, err := p.baseType()
	if err != nil {
		return DataType{Kind: Other, Native: udtName}, nil
	}
	return applyModifiers(dt, charLen, numPrec, numScale), nil
}

func applyModifiers(dt DataType, charLen, numPrec, numScale int) DataType {
	switch dt.Kind {
	case VarChar:
		dt.VarCharLen = charLen
	case Numeric:
		dt.NumPrec, dt.NumScale = numPrec, numScale
	}
	return dt
}

// WriteSchemaLive emits a CREATE TABLE for table against a live
// connection, honoring the destination's if_exists mode (spec §4.6).
func WriteSchemaLive(ctx context.Context, loc *Locator, table *portable.Table, ifExists capability.IfExists) error {
	pool, err := pgxpool.New(ctx, loc.URL)
	if err != nil {
		return &errs.RemoteError{Backend: "postgres", Err: err}
	}
	defer pool.Close()

	ct, err := FromPortable(table)
	if err != nil {
		return err
	}
	ct.Name = loc.TableName

	if ifExists == capability.IfExistsOverwrite {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+quoteIdent(loc.TableName)); err != nil {
			return &errs.RemoteError{Backend: "postgres", Err: fmt.Errorf("dropping existing table: %w", err)}
		}
	}
	if _, err := pool.Exec(ctx, ct.Print()); err != nil {
		return &errs.RemoteError{Backend: "postgres", Err: fmt.Errorf("creating table: %w", err)}
	}
	return nil
}
