package config

import (
	"encoding/json"
	"os"

	"github.com/indicasta/customerd/internal/flagx"
	"github.com/indicasta/customerd/internal/timex"
)

type JsonConfig struct {
	EndpointAddr          string         `json:"endpoint_addr"`
	StorageBackend        string         `json:"storage_backend"`
	DatabaseDSN           string         `json:"database_dsn"`
	SQLitePath            string         `json:"sqlite_path"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	S3RootUser            string         `json:"s3_root_user"`
	S3RootPassword        string         `json:"s3_root_password"`
	S3Bucket              string         `json:"s3_bucket"`
	S3Region              string         `json:"s3_region"`
	S3BaseEndpoint        string         `json:"s3_base_endpoint"`
	SeedDemoData          *bool          `json:"seed_demo_data"`
}

// parseJson overlays values from the JSON config file named by the
// -c/-config flag. Fields absent from the file keep their defaults.
func parseJson(config *Config) error {
	fileName := flagx.JsonConfigFlags()
	if fileName == "" {
		return nil
	}

	data, err := os.ReadFile(fileName)
	if err != nil {
		return err
	}

	jc := &JsonConfig{}
	if err := json.Unmarshal(data, jc); err != nil {
		return err
	}

	if jc.EndpointAddr != "" {
		config.EndpointAddr = jc.EndpointAddr
	}
	if jc.StorageBackend != "" {
		config.StorageBackend = jc.StorageBackend
	}
	if jc.DatabaseDSN != "" {
		config.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SQLitePath != "" {
		config.SQLitePath = jc.SQLitePath
	}
	if jc.SecretKey != "" {
		config.SecretKey = jc.SecretKey
	}
	if jc.TokenValidityDuration.Duration != 0 {
		config.TokenValidityDuration = jc.TokenValidityDuration.Duration
	}
	if jc.S3RootUser != "" {
		config.S3RootUser = jc.S3RootUser
	}
	if jc.S3RootPassword != "" {
		config.S3RootPassword = jc.S3RootPassword
	}
	if jc.S3Bucket != "" {
		config.S3Bucket = jc.S3Bucket
	}
	if jc.S3Region != "" {
		config.S3Region = jc.S3Region
	}
	if jc.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = jc.S3BaseEndpoint
	}
	if jc.SeedDemoData != nil {
		config.SeedDemoData = *jc.SeedDemoData
	}

	return nil
}
