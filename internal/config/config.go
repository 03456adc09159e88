package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
}

type MailchimpConfig struct {
	APIKey     string
	AudienceID string
	Datacenter string
}

// ParkingConfig iptal edilen pledge'lerin payment/membership kayıtlarını
// devralan sentinel kullanıcı ve pledge. Ortamdan gelir, global değildir.
type ParkingConfig struct {
	UserID   uint
	PledgeID uint
}

type Config struct {
	R2        R2Config
	Mailchimp MailchimpConfig
	Parking   ParkingConfig

	// Kampanya kapanışından sonra kabul edilen ek süre (dakika)
	CampaignGraceMinutes int
}

func LoadConfig() *Config {
	cfg := &Config{}

	// R2 config
	cfg.R2.AccountID = os.Getenv("R2_ACCOUNT_ID")
	cfg.R2.AccessKeyID = os.Getenv("R2_ACCESS_KEY_ID")
	cfg.R2.SecretAccessKey = os.Getenv("R2_SECRET_ACCESS_KEY")
	cfg.R2.Bucket = os.Getenv("R2_BUCKET")
	cfg.R2.PublicURL = os.Getenv("R2_PUBLIC_URL")

	// Mailchimp config
	cfg.Mailchimp.APIKey = os.Getenv("MAILCHIMP_API_KEY")
	cfg.Mailchimp.AudienceID = os.Getenv("MAILCHIMP_AUDIENCE_ID")
	cfg.Mailchimp.Datacenter = os.Getenv("MAILCHIMP_DC")

	// Parking sentinelleri
	cfg.Parking.UserID = mustParseUint("PARKING_USER_ID")
	cfg.Parking.PledgeID = mustParseUint("PARKING_PLEDGE_ID")

	cfg.CampaignGraceMinutes = 20
	if v := os.Getenv("CAMPAIGN_GRACE_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("Invalid CAMPAIGN_GRACE_MINUTES: %v", err)
		}
		cfg.CampaignGraceMinutes = minutes
	}

	return cfg
}

// Parking id'leri boş bırakılamaz: 0'a düşerlerse iptal akışı gerçek
// kayıtları sahipsiz id'lere taşır.
func mustParseUint(key string) uint {
	id, err := parseRequiredUint(key, os.Getenv(key))
	if err != nil {
		log.Fatalf("%v", err)
	}
	return id
}

func parseRequiredUint(key, value string) (uint, error) {
	if value == "" {
		return 0, fmt.Errorf("%s is not set", key)
	}
	id, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return uint(id), nil
}
