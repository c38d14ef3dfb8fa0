package etl

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"student-etl/internal/model"
	"student-etl/pkg/utils"
)

// ------------------- Extraction -------------------

// Extract reads the full ordered batch of raw rows from a source
// (CSV or JSON, local file or http). Batch sizes are small, so the whole
// batch is materialized up front instead of streamed.
func Extract(ctx context.Context, sourceType, pathOrURL string) ([]model.RawRow, error) {
	fmt.Printf("➡️ Starting extraction from source: %s (%s)\n", pathOrURL, sourceType)

	switch strings.ToLower(sourceType) {
	case "csv":
		return extractCSV(ctx, pathOrURL)
	case "json", "api":
		return extractJSON(ctx, pathOrURL)
	default:
		return nil, fmt.Errorf("unknown source type: %s", sourceType)
	}
}

func openSource(ctx context.Context, pathOrURL string) (io.ReadCloser, error) {
	if strings.HasPrefix(pathOrURL, "http") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pathOrURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to GET source: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("source returned status %d", resp.StatusCode)
		}
		return resp.Body, nil
	}

	file, err := os.Open(pathOrURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open source file: %w", err)
	}
	return file, nil
}

// ------------------- CSV Extraction -------------------

func extractCSV(ctx context.Context, pathOrURL string) ([]model.RawRow, error) {
	src, err := openSource(ctx, pathOrURL)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	csvReader := csv.NewReader(src)
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1 // sheet rows may be ragged

	headers, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, h := range headers {
		// Clean header names: trim whitespace and remove ALL quotes
		headers[i] = strings.ReplaceAll(strings.TrimSpace(h), `"`, "")
	}

	var rows []model.RawRow
	line := 1 // header is line 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error at line %d: %w", line+1, err)
		}
		line++

		rows = append(rows, rowFromRecord(headers, record, line))
	}

	fmt.Printf("📄 CSV extraction done: %d records read from %s\n", len(rows), pathOrURL)
	return rows, nil
}

// rowFromRecord zips headers and cells into a RawRow. Short rows are
// padded with blanks and long rows truncated to the header width, the
// way the spreadsheet extractor behaves.
func rowFromRecord(headers, record []string, line int) model.RawRow {
	fields := make(map[string]interface{}, len(headers))
	for i, h := range headers {
		if i < len(record) {
			fields[h] = utils.ParseValue(record[i])
		} else {
			fields[h] = ""
		}
	}
	return model.RawRow{Line: line, Fields: fields}
}

// ------------------- JSON Extraction -------------------

func extractJSON(ctx context.Context, pathOrURL string) ([]model.RawRow, error) {
	src, err := openSource(ctx, pathOrURL)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	body, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON body: %w", err)
	}

	var items []map[string]interface{}
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}

	rows := make([]model.RawRow, 0, len(items))
	for i, item := range items {
		rows = append(rows, model.RawRow{Line: i + 1, Fields: item})
	}

	fmt.Printf("🌐 JSON extraction done: %d records read from %s\n", len(rows), pathOrURL)
	return rows, nil
}
