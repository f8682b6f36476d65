package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies one of the three data-quality finding tables.
type Kind string

const (
	SchemaChange  Kind = "schema-change"
	NameMismatch  Kind = "name-mismatch"
	DtypeMismatch Kind = "dtype-mismatch"
)

// Kinds lists every dataset kind in display order.
var Kinds = []Kind{SchemaChange, NameMismatch, DtypeMismatch}

// ErrUnknownKind is returned when a kind name cannot be resolved.
var ErrUnknownKind = errors.New("unknown dataset kind")

// Field names shared by the kinds.
const (
	FieldSchemaName  = "schema_name"
	FieldTableName   = "table_name"
	FieldColumnCount = "column_count"

	FieldNewColumnsCount     = "new_columns_count"
	FieldNewColumnsName      = "new_columns_name"
	FieldDeletedColumnsCount = "deleted_columns_count"
	FieldDeletedColumnsName  = "deleted_columns_name"

	FieldNameMismatchCount   = "column_name_mismatch_count"
	FieldNameMismatchPercent = "percent_column_name_mismatch"
	FieldMismatchColumnNames = "mismatch_column_names"
	FieldCurrentNames        = "mismatch_columns_current_name"
	FieldExpectedNames       = "mismatch_columns_expected_name"

	FieldDtypeMismatchCount   = "column_dtype_mismatch_count"
	FieldDtypeMismatchPercent = "percent_column_mismatch"
	FieldMismatchColumns      = "mismatch_columns"
	FieldCurrentDtypes        = "mismatch_column_current_dtypes"
	FieldExpectedDtypes       = "expected_column_dtypes"
)

// FieldType is the declared semantic type of a field.
type FieldType int

const (
	TextField FieldType = iota
	NumericField
)

// Field is one declared column of a kind.
type Field struct {
	Name string
	Type FieldType
}

var schemas = map[Kind][]Field{
	SchemaChange: {
		{FieldSchemaName, TextField},
		{FieldTableName, TextField},
		{FieldNewColumnsCount, NumericField},
		{FieldNewColumnsName, TextField},
		{FieldDeletedColumnsCount, NumericField},
		{FieldDeletedColumnsName, TextField},
	},
	NameMismatch: {
		{FieldSchemaName, TextField},
		{FieldTableName, TextField},
		{FieldColumnCount, NumericField},
		{FieldNameMismatchCount, NumericField},
		{FieldNameMismatchPercent, NumericField},
		{FieldMismatchColumnNames, TextField},
		{FieldCurrentNames, TextField},
		{FieldExpectedNames, TextField},
	},
	DtypeMismatch: {
		{FieldSchemaName, TextField},
		{FieldTableName, TextField},
		{FieldColumnCount, NumericField},
		{FieldDtypeMismatchCount, NumericField},
		{FieldDtypeMismatchPercent, NumericField},
		{FieldMismatchColumns, TextField},
		{FieldCurrentDtypes, TextField},
		{FieldExpectedDtypes, TextField},
	},
}

// ParseKind resolves a kind from its name or one of the legacy file-based aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "schema-change", "schema", "new-old-delete", "newolddelete":
		return SchemaChange, nil
	case "name-mismatch", "names", "column-name-mismatch", "columnnamemismatch":
		return NameMismatch, nil
	case "dtype-mismatch", "dtypes", "column-dtype", "columndtype":
		return DtypeMismatch, nil
	}
	return "", fmt.Errorf("%w: %q (use schema-change, name-mismatch or dtype-mismatch)", ErrUnknownKind, s)
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	_, ok := schemas[k]
	return ok
}

// Fields returns the declared columns of the kind in display order.
func (k Kind) Fields() []Field {
	return schemas[k]
}

// FieldType returns the declared type of name for this kind.
func (k Kind) FieldType(name string) (FieldType, bool) {
	for _, f := range schemas[k] {
		if f.Name == name {
			return f.Type, true
		}
	}
	return TextField, false
}

// PercentField is the mismatch percentage column for the mismatch kinds; empty otherwise.
func (k Kind) PercentField() string {
	switch k {
	case NameMismatch:
		return FieldNameMismatchPercent
	case DtypeMismatch:
		return FieldDtypeMismatchPercent
	}
	return ""
}

// CountField is the per-table finding count column of the mismatch kinds.
func (k Kind) CountField() string {
	switch k {
	case NameMismatch:
		return FieldNameMismatchCount
	case DtypeMismatch:
		return FieldDtypeMismatchCount
	}
	return ""
}

// Title is a human-readable heading for the kind.
func (k Kind) Title() string {
	switch k {
	case SchemaChange:
		return "Schema Changes"
	case NameMismatch:
		return "Column Name Mismatches"
	case DtypeMismatch:
		return "Column Data Type Mismatches"
	}
	return string(k)
}
