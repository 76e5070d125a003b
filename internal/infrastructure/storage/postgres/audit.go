package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"stockpilot/internal/core/id"
	"stockpilot/internal/domain/audit"
)

const auditLogsTable = "audit_logs"

// CompressionAlgo specifies the compression algorithm used for oversized
// audit payloads.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditRepo implements audit.Recorder. Entries are written through the
// ambient transaction so they commit with the mutation they describe.
// Payloads above the threshold are stored zstd-compressed.
type AuditRepo struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes
}

// NewAuditRepo creates a new audit repository.
func NewAuditRepo(txManager *TxManager) (*AuditRepo, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditRepo{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024,
	}, nil
}

type auditPayload struct {
	OldValues map[string]any `json:"oldValues,omitempty"`
	NewValues map[string]any `json:"newValues,omitempty"`
}

// encodePayload prepares old and new values for storage. Payloads above
// the threshold collapse into a single zstd frame and the plain JSON
// columns are nulled so the row stays small.
func (r *AuditRepo) encodePayload(entry audit.Entry) (oldJSON, newJSON, compressed []byte, algo CompressionAlgo, err error) {
	oldJSON, err = json.Marshal(entry.OldValues)
	if err != nil {
		return nil, nil, nil, algo, fmt.Errorf("marshal old values: %w", err)
	}
	newJSON, err = json.Marshal(entry.NewValues)
	if err != nil {
		return nil, nil, nil, algo, fmt.Errorf("marshal new values: %w", err)
	}

	algo = CompressionNone
	if len(oldJSON)+len(newJSON) > r.compressThreshold {
		payload, err := json.Marshal(auditPayload{OldValues: entry.OldValues, NewValues: entry.NewValues})
		if err != nil {
			return nil, nil, nil, algo, fmt.Errorf("marshal payload: %w", err)
		}
		compressed = r.encoder.EncodeAll(payload, nil)
		algo = CompressionZstd
		oldJSON, newJSON = nil, nil
	}

	return oldJSON, newJSON, compressed, algo, nil
}

// decodePayload restores the value maps from whichever storage form the
// row carries.
func (r *AuditRepo) decodePayload(e *audit.Entry, oldJSON, newJSON, compressed []byte, algo CompressionAlgo) error {
	if algo == CompressionZstd && len(compressed) > 0 {
		decompressed, err := r.decoder.DecodeAll(compressed, nil)
		if err != nil {
			return fmt.Errorf("decompress payload: %w", err)
		}
		var payload auditPayload
		if err := json.Unmarshal(decompressed, &payload); err != nil {
			return fmt.Errorf("unmarshal payload: %w", err)
		}
		e.OldValues = payload.OldValues
		e.NewValues = payload.NewValues
		return nil
	}

	if len(oldJSON) > 0 {
		if err := json.Unmarshal(oldJSON, &e.OldValues); err != nil {
			return fmt.Errorf("unmarshal old values: %w", err)
		}
	}
	if len(newJSON) > 0 {
		if err := json.Unmarshal(newJSON, &e.NewValues); err != nil {
			return fmt.Errorf("unmarshal new values: %w", err)
		}
	}
	return nil
}

// Record appends an audit entry.
func (r *AuditRepo) Record(ctx context.Context, entry audit.Entry) error {
	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	oldJSON, newJSON, compressed, algo, err := r.encodePayload(entry)
	if err != nil {
		return err
	}

	sql := `
		INSERT INTO audit_logs (
			id, action, table_name, record_id, user_id,
			old_values, new_values, payload_compressed, compression_algo,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	querier := r.txManager.GetQuerier(ctx)
	_, err = querier.Exec(ctx, sql,
		entry.ID, entry.Action, entry.TableName, entry.RecordID, entry.UserID,
		oldJSON, newJSON, compressed, algo,
		entry.CreatedAt,
	)
	if err != nil {
		return TranslateError("insert "+auditLogsTable, err)
	}

	return nil
}

// GetRecordHistory retrieves audit history for a record, newest first.
func (r *AuditRepo) GetRecordHistory(ctx context.Context, tableName string, recordID id.ID, limit int) ([]audit.Entry, error) {
	sql := `
		SELECT id, action, table_name, record_id, user_id,
			   old_values, new_values, payload_compressed, compression_algo,
			   created_at
		FROM audit_logs
		WHERE table_name = $1 AND record_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.txManager.GetQuerier(ctx).Query(ctx, sql, tableName, recordID, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var (
			e          audit.Entry
			oldJSON    []byte
			newJSON    []byte
			compressed []byte
			algo       CompressionAlgo
		)
		err := rows.Scan(
			&e.ID, &e.Action, &e.TableName, &e.RecordID, &e.UserID,
			&oldJSON, &newJSON, &compressed, &algo,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		if err := r.decodePayload(&e, oldJSON, newJSON, compressed, algo); err != nil {
			return nil, err
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Ensure interface compliance.
var _ audit.Recorder = (*AuditRepo)(nil)
