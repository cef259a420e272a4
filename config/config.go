// config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

var (
	Port                string
	MongoURI            string
	DatabaseName        string
	JWTKey              []byte
	JWTExpiration       time.Duration
	ApprovalChainLength int
)

func LoadConfig() {
	Port = os.Getenv("PORT")
	if Port == "" {
		Port = "8080"
	}

	MongoURI = os.Getenv("MONGO_URI")
	if MongoURI == "" {
		MongoURI = "mongodb://localhost:27017"
	}

	DatabaseName = os.Getenv("MONGO_DB")
	if DatabaseName == "" {
		DatabaseName = "quoteportal"
	}

	JWTKey = []byte(os.Getenv("JWT_SECRET"))
	if len(JWTKey) == 0 {
		JWTKey = []byte("secret")
	}

	expireStr := os.Getenv("JWT_EXPIRE")
	dur := 24 * time.Hour
	if expireStr != "" {
		if expireStr == "7d" {
			dur = 7 * 24 * time.Hour
		} else {
			var err error
			dur, err = time.ParseDuration(expireStr)
			if err != nil {
				log.Printf("Invalid JWT_EXPIRE: %s, using 24h", expireStr)
				dur = 24 * time.Hour
			}
		}
	}
	JWTExpiration = dur

	// Number of sign-offs an RFQ needs before its award chain is complete.
	ApprovalChainLength = 3
	if chainStr := os.Getenv("APPROVAL_CHAIN_LENGTH"); chainStr != "" {
		if n, err := strconv.Atoi(chainStr); err == nil && n > 0 {
			ApprovalChainLength = n
		} else {
			log.Printf("Invalid APPROVAL_CHAIN_LENGTH: %s, using 3", chainStr)
		}
	}
}
