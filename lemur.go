// Package lemur provides an in-memory columnar compute engine: nullable
// typed columns, frames with expression evaluation, grouped aggregation,
// window ranking, multi-key sorting, statistics and CSV interchange. This
// package is the sole public API; the internal packages are implementation
// detail.
package lemur

import (
	"io"

	"github.com/lemur-data/lemur/internal/config"
	"github.com/lemur-data/lemur/internal/dataframe"
	"github.com/lemur-data/lemur/internal/errors"
	"github.com/lemur-data/lemur/internal/expr"
	lio "github.com/lemur-data/lemur/internal/io"
	"github.com/lemur-data/lemur/internal/kernel"
	"github.com/lemur-data/lemur/internal/series"
	"github.com/lemur-data/lemur/internal/value"
	"github.com/lemur-data/lemur/internal/window"
)

// Core data types.
type (
	// Series is a named, immutable, nullable column of one element type.
	Series = series.Series
	// DataFrame is an ordered collection of equal-length named columns.
	DataFrame = dataframe.DataFrame
	// GroupedDataFrame is a frame partitioned by a group key, ready for
	// aggregation.
	GroupedDataFrame = dataframe.GroupedDataFrame
	// Value is a single nullable cell.
	Value = value.Value
	// DataType identifies a column's element type.
	DataType = value.DataType
)

// Column element types.
const (
	Int32Type   = value.Int32
	Float64Type = value.Float64
	BoolType    = value.Bool
	StringType  = value.String
)

// Null is the absent cell value.
var Null = value.Null

// Cell constructors.
var (
	Int32Value   = value.NewInt32
	Float64Value = value.NewFloat64
	BoolValue    = value.NewBool
	StringValue  = value.NewString
)

// Series constructors. The plain forms take dense values; the Nullable
// forms take pointer slices where nil marks an absent cell.
var (
	NewInt32Series           = series.NewInt32
	NewFloat64Series         = series.NewFloat64
	NewBoolSeries            = series.NewBool
	NewStringSeries          = series.NewString
	NewNullableInt32Series   = series.NewNullableInt32
	NewNullableFloat64Series = series.NewNullableFloat64
	NewNullableBoolSeries    = series.NewNullableBool
	NewNullableStringSeries  = series.NewNullableString
	SeriesFromValues         = series.FromValues
)

// NewDataFrame creates a frame from columns. All columns must share one row
// count and have distinct, non-empty names.
func NewDataFrame(cols ...*Series) (*DataFrame, error) {
	return dataframe.New(cols...)
}

// Expressions and conditions.
type (
	// Expr is an expression tree node evaluated against a frame.
	Expr = expr.Expr
	// ColumnExpr references a named column.
	ColumnExpr = expr.ColumnExpr
	// LiteralExpr holds a constant broadcast to the frame's length.
	LiteralExpr = expr.LiteralExpr
	// BinaryExpr applies a binary operator to two subtrees.
	BinaryExpr = expr.BinaryExpr
	// UnaryExpr applies a unary operator to a subtree.
	UnaryExpr = expr.UnaryExpr
)

var (
	// Col references a column in an expression.
	Col = expr.Col
	// Lit embeds a constant in an expression.
	Lit = expr.Lit
	// Not negates a boolean expression.
	Not = expr.Not
	// Neg negates a numeric expression.
	Neg = expr.Neg
)

// Sorting.
type SortKey = dataframe.SortKey

// Asc builds an ascending sort key.
func Asc(column string) SortKey { return SortKey{Column: column, Ascending: true} }

// Desc builds a descending sort key.
func Desc(column string) SortKey { return SortKey{Column: column, Ascending: false} }

// Grouped aggregation.
type (
	// Aggregation pairs a column with the reduction applied to it.
	Aggregation = dataframe.Aggregation
	// AggFunc names a per-group reduction.
	AggFunc = dataframe.AggFunc
)

const (
	AggSum    = dataframe.AggSum
	AggMean   = dataframe.AggMean
	AggCount  = dataframe.AggCount
	AggMin    = dataframe.AggMin
	AggMax    = dataframe.AggMax
	AggStdDev = dataframe.AggStdDev
)

// Window ranking.
type WindowSpec = window.Spec

// Window starts a ranking spec from partition columns; an empty list means
// one partition spanning the whole frame.
func Window(partitionBy ...string) *WindowSpec { return window.PartitionBy(partitionBy...) }

// RowNumber appends an Int32 "row_number" column numbering rows per
// partition under the spec's ordering.
func RowNumber(df *DataFrame, spec *WindowSpec) (*DataFrame, error) {
	return window.RowNumber(df, spec)
}

// Rank appends an Int32 "rank" column with gaps after ties.
func Rank(df *DataFrame, spec *WindowSpec) (*DataFrame, error) {
	return window.Rank(df, spec)
}

// DenseRank appends an Int32 "dense_rank" column without gaps after ties.
func DenseRank(df *DataFrame, spec *WindowSpec) (*DataFrame, error) {
	return window.DenseRank(df, spec)
}

// CSV interchange.
type CSVOptions = lio.CSVOptions

// ReadCSV parses a frame from RFC 4180 CSV with default options.
func ReadCSV(r io.Reader) (*DataFrame, error) {
	return lio.ReadCSV(r, lio.DefaultCSVOptions())
}

// ReadCSVWithOptions parses a frame from CSV with explicit options.
func ReadCSVWithOptions(r io.Reader, opts CSVOptions) (*DataFrame, error) {
	return lio.ReadCSV(r, opts)
}

// ReadCSVFile reads a frame from a CSV file.
func ReadCSVFile(path string) (*DataFrame, error) {
	return lio.ReadCSVFile(path, lio.DefaultCSVOptions())
}

// WriteCSV serializes the frame as RFC 4180 CSV.
func WriteCSV(w io.Writer, df *DataFrame) error { return lio.WriteCSV(w, df) }

// WriteCSVFile writes the frame to a CSV file.
func WriteCSVFile(path string, df *DataFrame) error { return lio.WriteCSVFile(path, df) }

// Numeric kernels.

// PCAFirstComponent computes the first principal component of a row-major
// sample matrix as a unit vector over the features.
func PCAFirstComponent(matrix [][]float64) ([]float64, error) {
	return kernel.PCAFirstComponent(matrix)
}

// Configuration.
type Config = config.Config

// GlobalConfig returns a snapshot of the engine configuration.
func GlobalConfig() Config { return config.Global() }

// SetGlobalConfig replaces the engine configuration after validation.
func SetGlobalConfig(c Config) error { return config.SetGlobal(c) }

// LoadConfigFromFile reads a YAML or JSON configuration file.
func LoadConfigFromFile(path string) (Config, error) { return config.LoadFromFile(path) }

// ConfigFromEnv overlays LEMUR_* environment variables onto c.
func ConfigFromEnv(c Config) Config { return config.FromEnv(c) }

// Error classification.
type ErrorKind = errors.Kind

const (
	ErrSchemaMismatch   = errors.KindSchemaMismatch
	ErrTypeError        = errors.KindTypeError
	ErrIndexOutOfBounds = errors.KindIndexOutOfBounds
	ErrColumnNotFound   = errors.KindColumnNotFound
	ErrEmptyInput       = errors.KindEmptyInput
	ErrMalformedInput   = errors.KindMalformedInput
)

// IsErrorKind reports whether err is an engine error of the given kind.
func IsErrorKind(err error, kind ErrorKind) bool { return errors.IsKind(err, kind) }
