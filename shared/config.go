// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package shared

import (
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	DBDriver   string `mapstructure:"DB_DRIVER" validate:"oneof=postgres sqlite"`
	SQLitePath string `mapstructure:"SQLITE_PATH"`
	// SerializeDB forces every statement through a single lock.
	// Defaults to true for sqlite.
	SerializeDB *bool `mapstructure:"SERIALIZE_DB"`

	PostgresUser     string `mapstructure:"POSTGRES_USER"`
	PostgresPassword string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresHost     string `mapstructure:"POSTGRES_HOST"`
	PostgresPort     string `mapstructure:"POSTGRES_PORT"`
	PostgresDB       string `mapstructure:"POSTGRES_DB"`

	ReposDir       string        `mapstructure:"REPOS_DIR" validate:"required"`
	ExportsDir     string        `mapstructure:"EXPORTS_DIR" validate:"required"`
	ExportLifetime time.Duration `mapstructure:"EXPORT_LIFETIME" validate:"gt=0"`

	NVDBaseURL         string        `mapstructure:"NVD_BASE_URL" validate:"required,url"`
	NVDAPIKey          string        `mapstructure:"NVD_API_KEY"`
	NVDPageDelay       time.Duration `mapstructure:"NVD_PAGE_DELAY"`
	NVDRetryDelay      time.Duration `mapstructure:"NVD_RETRY_DELAY"`
	NVDMaxRetries      int           `mapstructure:"NVD_MAX_RETRIES" validate:"gte=0"`
	RedHatBaseURL      string        `mapstructure:"REDHAT_BASE_URL" validate:"required,url"`
	RedHatRequestDelay time.Duration `mapstructure:"REDHAT_REQUEST_DELAY"`
	RedHatBatchSize    int           `mapstructure:"REDHAT_BATCH_SIZE" validate:"gt=0"`
	FallbackThreshold  int           `mapstructure:"FALLBACK_THRESHOLD" validate:"gte=0"`
	HTTPCacheTTL       time.Duration `mapstructure:"HTTP_CACHE_TTL"`

	IngestionWorkers int    `mapstructure:"INGESTION_WORKERS" validate:"gt=0"`
	JWTSecret        string `mapstructure:"JWT_SECRET"`
	Port             int    `mapstructure:"PORT" validate:"gt=0"`
	Environment      string `mapstructure:"ENVIRONMENT"`
	ErrorTrackingDSN string `mapstructure:"ERROR_TRACKING_DSN"`
	AllowedOrigins   string `mapstructure:"ALLOWED_ORIGINS"`
}

func (c Config) ShouldSerializeDB() bool {
	if c.SerializeDB != nil {
		return *c.SerializeDB
	}
	return c.DBDriver == DriverSQLite
}

var configDefaults = map[string]any{
	"DB_DRIVER":            DriverPostgres,
	"SQLITE_PATH":          "fixcurator.db",
	"SERIALIZE_DB":         nil,
	"POSTGRES_USER":        "fixcurator",
	"POSTGRES_PASSWORD":    "",
	"POSTGRES_HOST":        "localhost",
	"POSTGRES_PORT":        "5432",
	"POSTGRES_DB":          "fixcurator",
	"REPOS_DIR":            "repos",
	"EXPORTS_DIR":          "exports",
	"EXPORT_LIFETIME":      "120s",
	"NVD_BASE_URL":         "https://services.nvd.nist.gov/rest/json/cves/2.0",
	"NVD_API_KEY":          "",
	"NVD_PAGE_DELAY":       "5s",
	"NVD_RETRY_DELAY":      "5s",
	"NVD_MAX_RETRIES":      3,
	"REDHAT_BASE_URL":      "https://access.redhat.com/hydra/rest/securitydata",
	"REDHAT_REQUEST_DELAY": "500ms",
	"REDHAT_BATCH_SIZE":    100,
	"FALLBACK_THRESHOLD":   20,
	"HTTP_CACHE_TTL":       "1h",
	"INGESTION_WORKERS":    2,
	"JWT_SECRET":           "",
	"PORT":                 8080,
	"ENVIRONMENT":          "dev",
	"ERROR_TRACKING_DSN":   "",
	"ALLOWED_ORIGINS":      "http://localhost:3000",
}

// NewConfig reads the configuration from the environment.
// Call LoadConfig before to pick up a .env file.
func NewConfig() (Config, error) {
	v := viper.New()
	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return Config{}, errors.Wrap(err, "could not decode config")
	}

	if err := V.Struct(cfg); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}
