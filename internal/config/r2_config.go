package config

import "os"

// R2 Cloudflare configuration for disaster recovery. The endpoint and keys
// come from the environment so a recovery binary still works without a
// config file on disk.
const (
	R2BucketName = "electric-db-backups"
	R2Region     = "auto"
)

func r2Endpoint() string {
	return os.Getenv("R2_ENDPOINT")
}

func r2AccessKey() string {
	return os.Getenv("R2_ACCESS_KEY_ID")
}

func r2SecretKey() string {
	return os.Getenv("R2_SECRET_ACCESS_KEY")
}
