package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"RugScan/pkg/logger"
)

// ScamDB is a file-backed set of known scam addresses. The file is a JSON
// document with an "addresses" array; addresses are matched case-insensitively.
// Loaded once at startup and read-only afterwards, so lookups need no locking.
type ScamDB struct {
	addresses map[string]struct{}
}

type scamFile struct {
	Addresses []string `json:"addresses"`
}

// LoadScamDB reads the scam address list from path. A missing path is not an
// error: the service runs with an empty set and logs the degradation.
func LoadScamDB(path string, log *logger.Logger) (*ScamDB, error) {
	db := &ScamDB{addresses: map[string]struct{}{}}
	if path == "" {
		log.Warn("no scam database configured, known-scam detection disabled")
		return db, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("scam database file not found, known-scam detection disabled",
				logger.String("path", path))
			return db, nil
		}
		return nil, fmt.Errorf("read scam database: %w", err)
	}

	var f scamFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse scam database: %w", err)
	}
	for _, addr := range f.Addresses {
		db.addresses[strings.ToLower(addr)] = struct{}{}
	}

	log.Info("scam database loaded",
		logger.String("path", path), logger.Int("addresses", len(db.addresses)))
	return db, nil
}

func (db *ScamDB) IsKnownScam(address string) bool {
	_, ok := db.addresses[strings.ToLower(address)]
	return ok
}

func (db *ScamDB) Size() int {
	return len(db.addresses)
}
