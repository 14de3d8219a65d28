package helper

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

/*
   =========================================================
   SCHEMA
   =========================================================
*/

// TokenBlacklistModel: token staff yang sudah logout / dicabut (disimpan sebagai HMAC).
type TokenBlacklistModel struct {
	ID        uint           `gorm:"primaryKey"`
	Token     string         `gorm:"column:token;type:text;not null;uniqueIndex"`
	ExpiredAt time.Time      `gorm:"column:expired_at;not null;index"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (TokenBlacklistModel) TableName() string { return "token_blacklist" }

/*
   =========================================================
   LOW-LEVEL UTILS
   =========================================================
*/

func hmacHex(msg, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(msg))
	return hex.EncodeToString(m.Sum(nil)) // cocok ke kolom TEXT
}

/*
   =========================================================
   CORE API (token TEXT, expired_at, deleted_at)
   =========================================================
*/

// Add: simpan HMAC(access_token) (hex) ke kolom token TEXT.
func Add(ctx context.Context, db *gorm.DB, rawAccessToken, jwtSecret string, expiresAt time.Time) error {
	if db == nil || strings.TrimSpace(rawAccessToken) == "" || strings.TrimSpace(jwtSecret) == "" {
		return nil
	}
	tokenHex := hmacHex(rawAccessToken, jwtSecret)
	return db.WithContext(ctx).Exec(`
		INSERT INTO token_blacklist (token, expired_at, created_at)
		VALUES (?, ?, NOW())
		ON CONFLICT (token) DO UPDATE
		SET expired_at = EXCLUDED.expired_at,
		    deleted_at = NULL
	`, tokenHex, expiresAt).Error
}

// IsBlacklisted: ada baris aktif dan belum expired?
func IsBlacklisted(ctx context.Context, db *gorm.DB, rawAccessToken, jwtSecret string) (bool, error) {
	if db == nil || strings.TrimSpace(rawAccessToken) == "" || strings.TrimSpace(jwtSecret) == "" {
		return false, nil
	}
	tokenHex := hmacHex(rawAccessToken, jwtSecret)
	var exists bool
	err := db.WithContext(ctx).Raw(`
		SELECT EXISTS (
		  SELECT 1
		  FROM token_blacklist
		  WHERE token = ?
		    AND deleted_at IS NULL
		    AND expired_at > NOW()
		)
	`, tokenHex).Scan(&exists).Error
	return exists, err
}

// Checker: adapter untuk AuthJWTOpts.BlacklistChecker. db nil → selalu lolos.
func Checker(db *gorm.DB, jwtSecret string, timeout time.Duration) func(rawToken string) (bool, error) {
	if db == nil {
		return nil
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return func(raw string) (bool, error) {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return IsBlacklisted(ctx, db, raw, jwtSecret)
	}
}

// Revoker: adapter untuk route logout. db nil → nil (pakai MemoryBlacklist).
func Revoker(db *gorm.DB, jwtSecret string) func(ctx context.Context, rawToken string, expiresAt time.Time) error {
	if db == nil {
		return nil
	}
	return func(ctx context.Context, raw string, exp time.Time) error {
		return Add(ctx, db, raw, jwtSecret, exp)
	}
}

// PurgeExpired: hapus yang sudah lewat
func PurgeExpired(ctx context.Context, db *gorm.DB) (int64, error) {
	if db == nil {
		return 0, nil
	}
	res := db.WithContext(ctx).Exec(`DELETE FROM token_blacklist WHERE expired_at <= NOW()`)
	return res.RowsAffected, res.Error
}

// StartBlacklistCleanupScheduler: purge token kadaluarsa tiap jam.
func StartBlacklistCleanupScheduler(db *gorm.DB, logger *zap.Logger) (*cron.Cron, error) {
	if db == nil {
		return nil, nil
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc("@hourly", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := PurgeExpired(ctx, db)
		if err != nil {
			logger.Error("[TOKEN-BLACKLIST] purge gagal", zap.Error(err))
			return
		}
		logger.Debug("[TOKEN-BLACKLIST] purge selesai", zap.Int64("deleted", n))
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

/*
   =========================================================
   MEMORY (FEE_STORE=memory)
   =========================================================
*/

// MemoryBlacklist: blacklist di memori untuk mode tanpa database.
// Entry kadaluarsa dibuang setiap Add.
type MemoryBlacklist struct {
	mu     sync.Mutex
	secret string
	items  map[string]time.Time
	Now    func() time.Time
}

func NewMemoryBlacklist(jwtSecret string) *MemoryBlacklist {
	return &MemoryBlacklist{
		secret: jwtSecret,
		items:  make(map[string]time.Time),
		Now:    time.Now,
	}
}

func (m *MemoryBlacklist) Add(_ context.Context, rawToken string, expiresAt time.Time) error {
	if strings.TrimSpace(rawToken) == "" {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.Now()
	for k, exp := range m.items {
		if !exp.After(now) {
			delete(m.items, k)
		}
	}
	m.items[hmacHex(rawToken, m.secret)] = expiresAt
	return nil
}

func (m *MemoryBlacklist) IsBlacklisted(rawToken string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.items[hmacHex(rawToken, m.secret)]
	return ok && exp.After(m.Now()), nil
}

func (m *MemoryBlacklist) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
