package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/cardpoint"
	"github.com/google/uuid"
)

// timeFormat is RFC 3339 with fixed-width nanoseconds so stored values
// sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// Compile-time interface verification.
var _ cardpoint.SnapshotService = (*SnapshotService)(nil)

// SnapshotService implements cardpoint.SnapshotService using SQLite.
type SnapshotService struct {
	db  *DB
	now func() time.Time
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(db *DB) *SnapshotService {
	return &SnapshotService{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// hashContent computes xxHash of content and returns hex string.
func hashContent(content string) string {
	h := xxhash.Sum64String(content)
	b := make([]byte, 8)
	for i := range b {
		b[i] = byte(h >> (56 - 8*i))
	}
	return hex.EncodeToString(b)
}

// Save stores html as the newest snapshot of label. When the content is
// unchanged only the latest snapshot's fetch time is updated.
func (s *SnapshotService) Save(ctx context.Context, label, html string) error {
	if strings.TrimSpace(label) == "" {
		return cardpoint.Errorf(cardpoint.EINVALID, "snapshot label required")
	}

	hash := hashContent(html)
	fetchedAt := s.now().Format(timeFormat)

	var latestID, latestHash string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, content_hash FROM snapshots
		WHERE label = ?
		ORDER BY fetched_at DESC, rowid DESC
		LIMIT 1
	`, label).Scan(&latestID, &latestHash)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return err
	case latestHash == hash:
		_, err := s.db.ExecContext(ctx, `UPDATE snapshots SET fetched_at = ? WHERE id = ?`, fetchedAt, latestID)
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, label, content, content_hash, fetched_at)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.New().String(), label, html, hash, fetchedAt)
	return err
}

// Load returns the content of the newest snapshot of label.
func (s *SnapshotService) Load(ctx context.Context, label string) (string, error) {
	var content string
	err := s.db.QueryRowContext(ctx, `
		SELECT content FROM snapshots
		WHERE label = ?
		ORDER BY fetched_at DESC, rowid DESC
		LIMIT 1
	`, label).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", cardpoint.Errorf(cardpoint.ENOTFOUND, "no snapshot for %s", label)
	}
	if err != nil {
		return "", err
	}
	return content, nil
}

// FindSnapshots retrieves snapshots matching the filter, newest first.
func (s *SnapshotService) FindSnapshots(ctx context.Context, filter cardpoint.SnapshotFilter) ([]*cardpoint.Snapshot, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, label, content, content_hash, fetched_at FROM snapshots WHERE 1=1`)
	if filter.Label != nil {
		query.WriteString(" AND label = ?")
		args = append(args, *filter.Label)
	}
	query.WriteString(" ORDER BY fetched_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []*cardpoint.Snapshot
	for rows.Next() {
		var snap cardpoint.Snapshot
		var fetchedAt string
		if err := rows.Scan(&snap.ID, &snap.Label, &snap.Content, &snap.ContentHash, &fetchedAt); err != nil {
			return nil, err
		}
		if snap.FetchedAt, err = parseRFC3339(fetchedAt, "fetched_at"); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, &snap)
	}
	return snapshots, rows.Err()
}
