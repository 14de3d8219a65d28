package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || strings.TrimSpace(value) == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return strings.TrimSpace(value)
}

func getEnvInt(key string, def int) int {
	v := GetEnv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvBool(key string, def bool) bool {
	switch strings.ToLower(GetEnv(key)) {
	case "":
		return def
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func getEnvList(key string, def []string) []string {
	v := GetEnv(key)
	if v == "" {
		return def
	}
	out := make([]string, 0)
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// =======================
// TYPED CONFIG
// =======================

type DBConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
	SSLMode  string

	MaxOpenConns     int
	MaxIdleConns     int
	StatementTimeout time.Duration
	SlowThreshold    time.Duration
	AutoMigrate      bool
}

type OSSConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	SecurityToken string
	Bucket        string
	Prefix        string
	PublicBase    string
}

type Config struct {
	AppEnv   string
	LogLevel string
	Port     string

	// "postgres" (default) atau "memory" untuk run lokal tanpa DB
	FeeStore string
	DB       DBConfig

	JWTSecret      string
	CORSOrigins    []string
	RateLimit      int
	RequestTimeout time.Duration
	TimeZone       string

	InstitutionName    string
	InstitutionAddress string
	ReceiptCopyLabel   string
	ReceiptPrefix      string
	ReceiptDigits      int
	ReceiptLogoPath    string

	// JSON siswa untuk seed awal (kosong = tidak seed)
	SeedStudentsFile string

	// kosong = reminder dimatikan
	ReminderCron string

	OSS OSSConfig
}

func (c Config) IsMemoryStore() bool {
	return strings.EqualFold(c.FeeStore, "memory")
}

// Load reads the typed config from the environment. Call LoadEnv first.
func Load() Config {
	return Config{
		AppEnv:   GetEnv("APP_ENV", "production"),
		LogLevel: GetEnv("LOG_LEVEL"),
		Port:     GetEnv("PORT", "3000"),

		FeeStore: GetEnv("FEE_STORE", "postgres"),
		DB: DBConfig{
			User:             GetEnv("DB_USER"),
			Password:         GetEnv("DB_PASSWORD"),
			Host:             GetEnv("DB_HOST", "localhost"),
			Port:             GetEnv("DB_PORT", "5432"),
			Name:             GetEnv("DB_NAME"),
			SSLMode:          GetEnv("DB_SSLMODE", "require"),
			MaxOpenConns:     getEnvInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:     getEnvInt("DB_MAX_IDLE_CONNS", 10),
			StatementTimeout: time.Duration(getEnvInt("DB_STATEMENT_TIMEOUT_MS", 3000)) * time.Millisecond,
			SlowThreshold:    time.Duration(getEnvInt("DB_SLOW_QUERY_MS", 200)) * time.Millisecond,
			AutoMigrate:      getEnvBool("DB_AUTO_MIGRATE", false),
		},

		JWTSecret: GetEnv("JWT_SECRET"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		}),
		RateLimit:      getEnvInt("RATE_LIMIT_PER_MINUTE", 100),
		RequestTimeout: time.Duration(getEnvInt("HTTP_REQUEST_TIMEOUT_MS", 5000)) * time.Millisecond,
		TimeZone:       GetEnv("APP_TIMEZONE", "Asia/Kolkata"),

		InstitutionName:    GetEnv("INSTITUTION_NAME", "CAREER INSTITUTE OF MEDICAL SCIENCES & HOSPITAL"),
		InstitutionAddress: GetEnv("INSTITUTION_ADDRESS", "IIM ROAD, GHAILLA LUCKNOW - 226 013"),
		ReceiptCopyLabel:   GetEnv("RECEIPT_COPY_LABEL", "(STUDENT FILE COPY)"),
		ReceiptPrefix:      GetEnv("RECEIPT_PREFIX", "CIMS00"),
		ReceiptDigits:      getEnvInt("RECEIPT_DIGITS", 6),
		ReceiptLogoPath:    GetEnv("RECEIPT_LOGO_PATH"),
		SeedStudentsFile:   GetEnv("SEED_STUDENTS_FILE"),

		ReminderCron: GetEnv("REMINDER_CRON", "0 9 * * *"),

		OSS: OSSConfig{
			Endpoint:      GetEnv("ALI_OSS_ENDPOINT"),
			AccessKey:     GetEnv("ALI_OSS_ACCESS_KEY"),
			SecretKey:     GetEnv("ALI_OSS_SECRET_KEY"),
			SecurityToken: GetEnv("ALI_OSS_SECURITY_TOKEN"),
			Bucket:        GetEnv("ALI_OSS_BUCKET"),
			Prefix:        GetEnv("ALI_OSS_RECEIPT_PREFIX", "receipts"),
			PublicBase:    GetEnv("ALI_OSS_PUBLIC_BASE"),
		},
	}
}
