// Package io reads and writes frames as RFC 4180 CSV. The first record is
// the header, an empty field is an absent cell, and by default every column
// loads as a string column; optional type inference promotes columns whose
// valid fields all parse as a narrower type.
package io

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/lemur-data/lemur/internal/config"
	"github.com/lemur-data/lemur/internal/dataframe"
	"github.com/lemur-data/lemur/internal/errors"
	"github.com/lemur-data/lemur/internal/series"
	"github.com/lemur-data/lemur/internal/value"
)

// CSVOptions controls CSV reading.
type CSVOptions struct {
	// InferTypes promotes each column to int32, float64 or bool when every
	// valid field parses as that type, tried in that order. Off by default;
	// the global config can switch the default on.
	InferTypes bool
}

// DefaultCSVOptions picks up the configured inference default.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{InferTypes: config.Global().CSVInferTypes}
}

// ReadCSV parses a frame from CSV. The header names the columns; every
// record must have the header's field count. A header with no data rows
// yields an empty frame with the named string columns.
func ReadCSV(r io.Reader, opts CSVOptions) (*dataframe.DataFrame, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewEmptyInput("ReadCSV", "input has no header record")
	}
	if err != nil {
		return nil, errors.NewMalformedInput("ReadCSV", "cannot parse header record", err)
	}

	fields := make([][]string, len(header))
	valid := make([][]bool, len(header))
	for {
		record, rerr := reader.Read()
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, errors.NewMalformedInput("ReadCSV", "cannot parse record", rerr)
		}
		for i, field := range record {
			fields[i] = append(fields[i], field)
			valid[i] = append(valid[i], field != "")
		}
	}

	cols := make([]*series.Series, len(header))
	for i, name := range header {
		col, berr := buildColumn(name, fields[i], valid[i], opts.InferTypes)
		if berr != nil {
			return nil, berr
		}
		cols[i] = col
	}
	return dataframe.New(cols...)
}

// ReadCSVFile reads a frame from a CSV file on disk.
func ReadCSVFile(path string, opts CSVOptions) (*dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewMalformedInput("ReadCSVFile", "cannot open file", err)
	}
	defer f.Close()
	return ReadCSV(f, opts)
}

// buildColumn materializes one parsed column, optionally inferring a
// narrower type from its valid fields.
func buildColumn(name string, fields []string, valid []bool, infer bool) (*series.Series, error) {
	dtype := value.String
	if infer {
		dtype = inferType(fields, valid)
	}
	vals := make([]value.Value, len(fields))
	for i, field := range fields {
		if !valid[i] {
			continue
		}
		switch dtype {
		case value.Int32:
			n, _ := strconv.ParseInt(field, 10, 32)
			vals[i] = value.NewInt32(int32(n))
		case value.Float64:
			f, _ := strconv.ParseFloat(field, 64)
			vals[i] = value.NewFloat64(f)
		case value.Bool:
			b, _ := strconv.ParseBool(field)
			vals[i] = value.NewBool(b)
		default:
			vals[i] = value.NewString(field)
		}
	}
	return series.FromValues(name, dtype, vals)
}

// inferType picks the narrowest type every valid field parses as, trying
// int32, then float64, then bool. A column with no valid fields stays a
// string column.
func inferType(fields []string, valid []bool) value.DataType {
	seen := false
	isInt, isFloat, isBool := true, true, true
	for i, field := range fields {
		if !valid[i] {
			continue
		}
		seen = true
		if isInt {
			if _, err := strconv.ParseInt(field, 10, 32); err != nil {
				isInt = false
			}
		}
		if isFloat {
			if _, err := strconv.ParseFloat(field, 64); err != nil {
				isFloat = false
			}
		}
		if isBool {
			if _, err := strconv.ParseBool(field); err != nil {
				isBool = false
			}
		}
		if !isInt && !isFloat && !isBool {
			return value.String
		}
	}
	switch {
	case !seen:
		return value.String
	case isInt:
		return value.Int32
	case isFloat:
		return value.Float64
	case isBool:
		return value.Bool
	default:
		return value.String
	}
}

// WriteCSV serializes the frame as CSV: header first, one record per row,
// absent cells as empty fields. Quoting follows RFC 4180; fields containing
// separators, quotes or newlines are quoted with doubled inner quotes.
func WriteCSV(w io.Writer, df *dataframe.DataFrame) error {
	writer := csv.NewWriter(w)
	names := df.ColumnNames()
	if err := writer.Write(names); err != nil {
		return errors.NewMalformedInput("WriteCSV", "cannot write header", err)
	}

	cols := make([]*series.Series, len(names))
	for i, name := range names {
		col, err := df.Column(name)
		if err != nil {
			return err
		}
		cols[i] = col
	}

	record := make([]string, len(cols))
	for row := 0; row < df.RowCount(); row++ {
		for i, col := range cols {
			v, err := col.Get(row)
			if err != nil {
				return err
			}
			record[i] = v.String()
		}
		if err := writer.Write(record); err != nil {
			return errors.NewMalformedInput("WriteCSV", "cannot write record", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.NewMalformedInput("WriteCSV", "cannot flush output", err)
	}
	return nil
}

// WriteCSVFile writes the frame to a CSV file on disk.
func WriteCSVFile(path string, df *dataframe.DataFrame) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.NewMalformedInput("WriteCSVFile", "cannot create file", err)
	}
	defer f.Close()
	return WriteCSV(f, df)
}
