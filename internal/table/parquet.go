package table

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// columnOrderKey stores the frame column order, since parquet groups sort their fields
const columnOrderKey = "docwrangler.columns"

func compressionOption(codec string) parquet.WriterOption {
	switch strings.ToLower(codec) {
	case "snappy":
		return parquet.Compression(&parquet.Snappy)
	case "gzip":
		return parquet.Compression(&parquet.Gzip)
	case "none":
		return parquet.Compression(&parquet.Uncompressed)
	default:
		return parquet.Compression(&parquet.Zstd)
	}
}

// frameSchema maps every column to an optional string leaf
func frameSchema(frame *Frame) *parquet.Schema {
	group := make(parquet.Group, len(frame.columns))
	for _, c := range frame.columns {
		group[c] = parquet.Optional(parquet.String())
	}
	return parquet.NewSchema("record", group)
}

func writeParquet(path string, frame *Frame, codec string) error {
	schema := frameSchema(frame)

	// leaf position of each frame column in the schema
	leaf := make(map[string]int, len(frame.columns))
	for i, p := range schema.Columns() {
		leaf[p[0]] = i
	}
	order, err := json.Marshal(frame.columns)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	writer := parquet.NewWriter(f, schema,
		compressionOption(codec),
		parquet.KeyValueMetadata(columnOrderKey, string(order)),
	)

	rows := make([]parquet.Row, 0, len(frame.rows))
	for _, r := range frame.rows {
		row := make(parquet.Row, len(frame.columns))
		for c, name := range frame.columns {
			idx := leaf[name]
			if r[c].Valid {
				row[idx] = parquet.ByteArrayValue([]byte(r[c].Value)).Level(0, 1, idx)
			} else {
				row[idx] = parquet.NullValue().Level(0, 0, idx)
			}
		}
		rows = append(rows, row)
	}

	if _, err := writer.WriteRows(rows); err != nil {
		writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	return f.Close()
}

func readParquet(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pqFile, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, err
	}

	var leaves []string
	for _, p := range pqFile.Schema().Columns() {
		leaves = append(leaves, strings.Join(p, "."))
	}
	columns := leaves
	if raw, ok := pqFile.Lookup(columnOrderKey); ok {
		var stored []string
		if err := json.Unmarshal([]byte(raw), &stored); err == nil && len(stored) == len(leaves) {
			columns = stored
		}
	}

	frame := NewFrame(columns...)
	position := make(map[int]int, len(leaves))
	for i, name := range leaves {
		position[i] = frame.ColumnIndex(name)
	}

	reader := parquet.NewReader(pqFile)
	defer reader.Close()

	buf := make([]parquet.Row, 128)
	for {
		n, err := reader.ReadRows(buf)
		for _, row := range buf[:n] {
			cells := make([]Cell, len(columns))
			for _, v := range row {
				pos, ok := position[v.Column()]
				if !ok || pos < 0 || v.IsNull() {
					continue
				}
				cells[pos] = Str(string(v.ByteArray()))
			}
			if err := frame.AppendRow(cells); err != nil {
				return nil, err
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if n == 0 {
			break
		}
	}
	return frame, nil
}
