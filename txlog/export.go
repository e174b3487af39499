package txlog

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// ExportRow is the parquet layout of a Record.
type ExportRow struct {
	Hash    string `parquet:"name=hash, type=BYTE_ARRAY, convertedtype=UTF8"`
	Summary string `parquet:"name=summary, type=BYTE_ARRAY, convertedtype=UTF8"`
	AddedAt int64  `parquet:"name=added_at, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	From    string `parquet:"name=from, type=BYTE_ARRAY, convertedtype=UTF8"`
	ChainID int64  `parquet:"name=chain_id, type=INT64"`
}

func toRow(r Record) ExportRow {
	return ExportRow{
		Hash:    r.Hash.Hex(),
		Summary: r.Summary,
		AddedAt: r.AddedAt.UnixMilli(),
		From:    r.From.Hex(),
		ChainID: r.ChainID,
	}
}

// ExportParquet writes records to a snappy-compressed parquet file at path.
func ExportParquet(path string, records []Record) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(ExportRow), 2)
	if err != nil {
		return fmt.Errorf("creating parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, r := range records {
		if err := pw.Write(toRow(r)); err != nil {
			return fmt.Errorf("writing %s: %w", r.Hash.Hex(), err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finishing parquet file: %w", err)
	}
	return nil
}
