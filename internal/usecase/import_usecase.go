package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/boglefolio/internal/domain"
)

// ImportBatchSize is the number of staged rows committed together as one
// durability unit.
const ImportBatchSize = 100

// ErrNothingImported signals that a whole import job produced no created or
// updated transaction. The accompanying ImportResult carries the row errors.
var ErrNothingImported = errors.New("no transactions imported")

// ImportResult summarizes one import job.
type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

// ImportUseCase reconciles CSV transaction rows against the store with
// insert-or-update semantics and per-row failure tolerance.
type ImportUseCase struct {
	txManager       TransactionManager
	accountRepo     AccountRepository
	assetRepo       AssetRepository
	transactionRepo TransactionRepository
	idGen           IDGenerator
	logger          zerolog.Logger
}

// NewImportUseCase creates a new ImportUseCase.
func NewImportUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	assetRepo AssetRepository,
	transactionRepo TransactionRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
) *ImportUseCase {
	return &ImportUseCase{
		txManager:       txManager,
		accountRepo:     accountRepo,
		assetRepo:       assetRepo,
		transactionRepo: transactionRepo,
		idGen:           idGen,
		logger:          logger,
	}
}

// ImportCSV runs the import to completion and returns the summary. When not
// a single row was created or updated the error is ErrNothingImported and
// the returned result still carries the collected row errors.
func (uc *ImportUseCase) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	result, err := uc.importRows(ctx, r)
	if err != nil {
		return nil, err
	}

	if result.Created == 0 && result.Updated == 0 {
		return result, ErrNothingImported
	}

	return result, nil
}

// ImportCSVAsync buffers the input, acknowledges with a job ID, and runs the
// identical per-row algorithm in the background. The outcome is only
// observable through the log.
func (uc *ImportUseCase) ImportCSVAsync(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to buffer import payload: %w", err)
	}

	jobID := ulid.Make().String()
	logger := uc.logger.With().Str("job_id", jobID).Logger()

	go func() {
		result, err := uc.ImportCSV(context.Background(), bytes.NewReader(data))
		if err != nil {
			if errors.Is(err, ErrNothingImported) {
				logger.Error().
					Int("skipped", result.Skipped).
					Strs("errors", result.Errors).
					Msg("background import finished with nothing imported")
				return
			}

			logger.Error().Err(err).Msg("background import failed")
			return
		}

		logger.Info().
			Int("created", result.Created).
			Int("updated", result.Updated).
			Int("skipped", result.Skipped).
			Int("error_count", len(result.Errors)).
			Msg("background import finished")
	}()

	return jobID, nil
}

// csvRow is one parsed record keyed by header column name.
type csvRow struct {
	columns map[string]int
	record  []string
}

func (r csvRow) get(name string) (string, bool) {
	idx, ok := r.columns[name]
	if !ok || idx >= len(r.record) {
		return "", false
	}

	return strings.TrimSpace(r.record[idx]), true
}

// stagedOp is one pending insert or update, deduplicated by natural key.
type stagedOp struct {
	txn    *domain.Transaction
	insert bool
}

// importBatch accumulates staged operations until the next flush. rows
// remembers every input row attributed to the batch, in input order, so a
// failed flush can convert all of them to row-level errors.
type importBatch struct {
	ops   []*stagedOp
	rows  []batchRow
	byKey map[string]*stagedOp
}

type batchRow struct {
	num     int
	created bool
}

func newImportBatch() *importBatch {
	return &importBatch{byKey: make(map[string]*stagedOp)}
}

func (b *importBatch) reset() {
	b.ops = b.ops[:0]
	b.rows = b.rows[:0]
	b.byKey = make(map[string]*stagedOp)
}

func (uc *ImportUseCase) importRows(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &ImportResult{Errors: []string{}}, nil
		}

		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	result := &ImportResult{Errors: []string{}}
	batch := newImportBatch()

	// Row 1 is the header; reported row numbers start at 2.
	rowNum := 1

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		rowNum++

		if err != nil {
			uc.recordRowError(result, rowNum, fmt.Sprintf("parse error: %v", err))
			continue
		}

		uc.processRow(ctx, csvRow{columns: columns, record: record}, rowNum, batch, result)

		if len(batch.ops) >= ImportBatchSize {
			uc.flush(ctx, batch, result)
		}
	}

	uc.flush(ctx, batch, result)

	uc.logger.Info().
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Int("error_count", len(result.Errors)).
		Msg("import finished")

	return result, nil
}

// processRow applies the per-row algorithm: parse, verify references, match
// the natural key, and stage an insert or update. Any failure is recorded as
// a row-level error and the row is skipped.
func (uc *ImportUseCase) processRow(ctx context.Context, row csvRow, rowNum int, batch *importBatch, result *ImportResult) {
	parsed, err := parseRow(row)
	if err != nil {
		uc.recordRowError(result, rowNum, err.Error())
		return
	}

	if _, err := uc.accountRepo.GetByID(ctx, parsed.accountID); err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			uc.recordRowError(result, rowNum, fmt.Sprintf("account %s not found", parsed.accountID))
		} else {
			uc.recordRowError(result, rowNum, fmt.Sprintf("account lookup failed: %v", err))
		}

		return
	}

	if _, err := uc.assetRepo.GetByID(ctx, parsed.assetID); err != nil {
		if errors.Is(err, domain.ErrAssetNotFound) {
			uc.recordRowError(result, rowNum, fmt.Sprintf("asset %s not found", parsed.assetID))
		} else {
			uc.recordRowError(result, rowNum, fmt.Sprintf("asset lookup failed: %v", err))
		}

		return
	}

	key := domain.NaturalKey{
		AccountID:  parsed.accountID,
		AssetID:    parsed.assetID,
		Type:       parsed.txType,
		Quantity:   parsed.quantity,
		Price:      parsed.price,
		Fee:        parsed.fee,
		OccurredAt: parsed.occurredAt,
	}

	now := time.Now().UTC()

	// A row may duplicate an earlier row of the same file whose write is
	// still staged; match against the pending batch before the store.
	if staged, ok := batch.byKey[key.String()]; ok {
		staged.txn.Quantity = parsed.quantity
		staged.txn.Price = parsed.price
		staged.txn.Fee = parsed.fee
		staged.txn.UpdatedAt = now
		batch.rows = append(batch.rows, batchRow{num: rowNum, created: false})

		return
	}

	existing, err := uc.transactionRepo.FindByNaturalKey(ctx, key)
	if err != nil {
		uc.recordRowError(result, rowNum, fmt.Sprintf("duplicate lookup failed: %v", err))
		return
	}

	var op *stagedOp
	if existing != nil {
		// Overwriting with values that already match the natural key keeps
		// the update idempotent by construction.
		existing.Quantity = parsed.quantity
		existing.Price = parsed.price
		existing.Fee = parsed.fee
		existing.UpdatedAt = now

		op = &stagedOp{txn: existing, insert: false}
		batch.rows = append(batch.rows, batchRow{num: rowNum, created: false})
	} else {
		op = &stagedOp{
			txn: &domain.Transaction{
				ID:         uc.idGen.Generate(),
				AccountID:  parsed.accountID,
				AssetID:    parsed.assetID,
				Type:       parsed.txType,
				Quantity:   parsed.quantity,
				Price:      parsed.price,
				Fee:        parsed.fee,
				OccurredAt: parsed.occurredAt,
				CreatedAt:  now,
				UpdatedAt:  now,
			},
			insert: true,
		}
		batch.rows = append(batch.rows, batchRow{num: rowNum, created: true})
	}

	batch.ops = append(batch.ops, op)
	batch.byKey[key.String()] = op
}

// flush commits the staged batch as one database transaction. On failure the
// whole batch rolls back and every row attributed to it becomes a row-level
// error, so committed state never contains half a batch.
func (uc *ImportUseCase) flush(ctx context.Context, batch *importBatch, result *ImportResult) {
	if len(batch.ops) == 0 {
		batch.reset()
		return
	}

	err := uc.commitBatch(ctx, batch)
	if err != nil {
		for _, row := range batch.rows {
			uc.recordRowError(result, row.num, fmt.Sprintf("batch commit failed: %v", err))
		}

		batch.reset()

		return
	}

	for _, row := range batch.rows {
		if row.created {
			result.Created++
		} else {
			result.Updated++
		}
	}

	uc.logger.Debug().Int("rows", len(batch.rows)).Msg("import batch committed")
	batch.reset()
}

func (uc *ImportUseCase) commitBatch(ctx context.Context, batch *importBatch) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, op := range batch.ops {
		if op.insert {
			err = uc.transactionRepo.CreateTx(ctx, tx, op.txn)
		} else {
			err = uc.transactionRepo.UpdateTx(ctx, tx, op.txn)
		}

		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (uc *ImportUseCase) recordRowError(result *ImportResult, rowNum int, msg string) {
	full := fmt.Sprintf("row %d: %s", rowNum, msg)
	result.Errors = append(result.Errors, full)
	result.Skipped++
	uc.logger.Warn().Int("row", rowNum).Msg(msg)
}

// parsedRow holds the typed fields of one CSV row.
type parsedRow struct {
	accountID  string
	assetID    string
	txType     domain.TransactionType
	quantity   decimal.Decimal
	price      decimal.Decimal
	fee        decimal.Decimal
	occurredAt time.Time
}

func parseRow(row csvRow) (*parsedRow, error) {
	assetID, err := parseUUIDField(row, "asset_id")
	if err != nil {
		return nil, err
	}

	accountID, err := parseUUIDField(row, "account_id")
	if err != nil {
		return nil, err
	}

	rawType, ok := row.get("type")
	if !ok {
		return nil, errors.New(`missing required column "type"`)
	}

	txType, err := domain.ParseTransactionType(rawType)
	if err != nil {
		return nil, err
	}

	quantity, err := parseDecimalField(row, "quantity")
	if err != nil {
		return nil, err
	}
	if quantity.IsNegative() {
		return nil, domain.ErrNegativeQuantity
	}

	price, err := parseDecimalField(row, "price")
	if err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, domain.ErrNegativePrice
	}

	// fee is optional and defaults to zero when absent or blank.
	fee := decimal.Zero
	if raw, ok := row.get("fee"); ok && raw != "" {
		fee, err = decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid fee %q", raw)
		}
	}
	if fee.IsNegative() {
		return nil, domain.ErrNegativeFee
	}

	rawDate, ok := row.get("date")
	if !ok {
		return nil, errors.New(`missing required column "date"`)
	}

	occurredAt, err := parseTimestamp(rawDate)
	if err != nil {
		return nil, err
	}

	return &parsedRow{
		accountID:  accountID,
		assetID:    assetID,
		txType:     txType,
		quantity:   quantity,
		price:      price,
		fee:        fee,
		occurredAt: occurredAt,
	}, nil
}

func parseUUIDField(row csvRow, name string) (string, error) {
	raw, ok := row.get(name)
	if !ok {
		return "", fmt.Errorf("missing required column %q", name)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid %s %q", name, raw)
	}

	return id.String(), nil
}

func parseDecimalField(row csvRow, name string) (decimal.Decimal, error) {
	raw, ok := row.get(name)
	if !ok {
		return decimal.Zero, fmt.Errorf("missing required column %q", name)
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q", name, raw)
	}

	return d, nil
}

// timestampLayouts are the accepted ISO-8601 shapes, matching the formats
// commonly produced by broker exports.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
