package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads product exports and upserts them into the catalog.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
	logger      *zap.Logger
}

func NewCSVImporter(r io.Reader, repo ProductWriter, logger *zap.Logger) *CSVImporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
		logger:      logger,
	}
}

type csvRow struct {
	ID        string
	Key       string
	Name      string
	Desc      string
	SKU       string
	Cents     int64
	Currency  string
	ImageURLs []string
}

// Run parses CSV rows and upserts products grouped by product key.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	var (
		current  *csvRow
		imported int
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if row == nil {
			continue
		}

		if row.Key != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows (images) belong to the current product.
		if current != nil && len(row.ImageURLs) > 0 {
			current.ImageURLs = append(current.ImageURLs, row.ImageURLs...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.Key == "" || row.Name == "" || row.SKU == "" || row.Cents <= 0 || row.Currency == "" {
		return fmt.Errorf("invalid product row (missing required fields) for key %q", row.Key)
	}
	if row.ID != "" && len(row.ID) != 36 {
		return fmt.Errorf("invalid id for key %q: %s", row.Key, row.ID)
	}

	p := domain.Product{
		ID:          row.ID,
		Key:         row.Key,
		SKU:         row.SKU,
		Name:        row.Name,
		Description: row.Desc,
		PriceCents:  row.Cents,
		Currency:    strings.ToUpper(row.Currency),
	}
	// The cart shows a single image per line.
	if len(row.ImageURLs) > 0 {
		p.ImageURL = row.ImageURLs[0]
		if extra := len(row.ImageURLs) - 1; extra > 0 {
			i.logger.Debug("importer: extra images ignored", zap.String("key", row.Key), zap.Int("count", extra))
		}
	}

	if _, err := i.productRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Key, err)
	}
	i.logger.Info("importer: product saved", zap.String("key", row.Key), zap.String("sku", row.SKU))
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*csvRow, error) {
	id := pick(record, index, "id")
	key := pick(record, index, "key")
	name := pick(record, index, "name.en")
	desc := pick(record, index, "description.en")
	sku := pick(record, index, "variants.sku")
	currency := pick(record, index, "variants.prices.value.currencyCode")
	centStr := pick(record, index, "variants.prices.value.centAmount")
	priceStr := pick(record, index, "variants.prices.value.amount")

	imageURL := pick(record, index, "variants.images.url")

	if key == "" && imageURL == "" {
		return nil, nil
	}

	cents, err := parseCents(centStr, priceStr)
	if err != nil {
		return nil, fmt.Errorf("price for key %q: %w", key, err)
	}

	row := &csvRow{
		Key:      key,
		Name:     name,
		Desc:     desc,
		SKU:      sku,
		Cents:    cents,
		Currency: currency,
		ID:       id,
	}
	if imageURL != "" {
		row.ImageURLs = []string{imageURL}
	}
	return row, nil
}

// parseCents prefers the integer cent column and falls back to a decimal
// amount such as "12.99".
func parseCents(centStr, amountStr string) (int64, error) {
	if centStr != "" {
		return strconv.ParseInt(centStr, 10, 64)
	}
	if amountStr == "" {
		return 0, nil
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return 0, err
	}
	if amount.Exponent() < -2 {
		return 0, fmt.Errorf("amount %s has more than two decimals", amountStr)
	}
	return amount.Shift(2).IntPart(), nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
