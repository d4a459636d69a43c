package config

import (
	"github.com/spf13/viper"
)

const (
	DBURL = "database.mysql"

	FirebaseProjectID             = "firebase.project_id"
	FirebaseServiceAccountKeyPath = "firebase.service_account_key_path"

	AdminIdentity = "boxoffice.admin_identity"

	ApiAddress                 = "algorand.api_address"
	ApiKey                     = "algorand.api_key"
	MinFee                     = "algorand.min_fee"
	TreasuryAddress            = "algorand.treasury_address"
	TreasurySecurityParaphrase = "algorand.treasury_security_paraphrase"

	VaultAddress   = "vault.address"
	VaultToken     = "vault.token"
	VaultUnSealKey = "vault.unseal_key"
	PayoutPath     = "vault.payout_path"
	TreasuryPath   = "vault.treasury_path"

	Port               = "server.port"
	JWTOfflineInterval = "server.jwt_offline_interval"
	Secret             = "server.secret"

	RedisAddress  = "redis.address"
	RedisPassword = "redis.password"
	RedisDB       = "redis.db"
	NotifyChannel = "redis.notify_channel"

	WebhookURL = "notify.webhook_url"
)

func init() {
	viper.AutomaticEnv()
	viper.SetDefault(Port, "9000")
	viper.SetDefault(JWTOfflineInterval, 120)
	viper.SetDefault(NotifyChannel, "evently.notifications")
}
