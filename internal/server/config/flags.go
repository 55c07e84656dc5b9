package config

import (
	"flag"
	"os"

	"github.com/indicasta/customerd/internal/flagx"
)

// parseFlags overlays command line flags on top of the config assembled so
// far. Only flags actually passed take effect.
func parseFlags(config *Config) error {
	endpointAddr := flag.String("a", config.EndpointAddr, "address and port to run server")
	storageBackend := flag.String("b", config.StorageBackend, "storage backend (memory, postgres or sqlite)")
	databaseDSN := flag.String("d", config.DatabaseDSN, "postgres connection string")
	sqlitePath := flag.String("f", config.SQLitePath, "sqlite database file")
	secretKey := flag.String("s", config.SecretKey, "jwt signing key")
	tokenValidity := flag.Duration("t", config.TokenValidityDuration, "access token validity period")
	s3RootUser := flag.String("u", config.S3RootUser, "object storage access key")
	s3RootPassword := flag.String("w", config.S3RootPassword, "object storage secret key")
	s3Bucket := flag.String("k", config.S3Bucket, "object storage bucket for profile images")
	s3Region := flag.String("r", config.S3Region, "object storage region")
	s3BaseEndpoint := flag.String("e", config.S3BaseEndpoint, "object storage endpoint url")
	seedDemoData := flag.Bool("seed", config.SeedDemoData, "insert demo customers on startup")

	flags := []string{"-a", "-b", "-d", "-f", "-s", "-t", "-u", "-w", "-k", "-r", "-e", "-seed"}
	if err := flag.CommandLine.Parse(flagx.FilterArgs(os.Args[1:], flags)); err != nil {
		return err
	}

	config.EndpointAddr = *endpointAddr
	config.StorageBackend = *storageBackend
	config.DatabaseDSN = *databaseDSN
	config.SQLitePath = *sqlitePath
	config.SecretKey = *secretKey
	config.TokenValidityDuration = *tokenValidity
	config.S3RootUser = *s3RootUser
	config.S3RootPassword = *s3RootPassword
	config.S3Bucket = *s3Bucket
	config.S3Region = *s3Region
	config.S3BaseEndpoint = *s3BaseEndpoint
	config.SeedDemoData = *seedDemoData

	return nil
}
