package main

import (
	"context"
	"evently-backend/config"
	c "evently-backend/context"
	"evently-backend/logger"
	"evently-backend/payment"
	"evently-backend/router"
	"evently-backend/vault"
	"flag"
	l "log"

	"github.com/codegangsta/negroni"
	"github.com/spf13/viper"
)

var (
	version string
)

const defaultCorrelationID = "00000000.00000000"

var ctx context.Context

func init() {
	ctx = c.NewContext(defaultCorrelationID)
}

func main() {
	cfgPath := flag.String("CONFIG_PATH", "./config.yaml", "Path to config file")
	seedTreasury := flag.Bool("seed-treasury", false, "Seal the configured treasury account into vault and exit")
	flag.Parse()

	viper.SetConfigFile(*cfgPath)

	err := viper.ReadInConfig()
	if err != nil {
		l.Fatalln("error reading config")
	}

	if *seedTreasury {
		seed()
		return
	}

	muxRouter := router.Router(ctx)

	n := negroni.New()
	n.UseHandler(muxRouter)
	n.Run(viper.GetString(config.Port))
}

// seed stores the treasury account from config into vault so the running
// service never needs the passphrase in its environment.
func seed() {
	v, err := vault.New(
		viper.GetString(config.VaultToken),
		viper.GetString(config.VaultUnSealKey),
		viper.GetString(config.VaultAddress),
		viper.GetString(config.PayoutPath),
		viper.GetString(config.TreasuryPath))
	if err != nil {
		logger.Fatalf(ctx, "seed: error creating vault client: %+v", err)
	}

	accounts := payment.NewAccounts(*v, viper.GetString(config.Secret))
	err = accounts.SeedTreasury(&payment.Account{
		AccountAddress:     viper.GetString(config.TreasuryAddress),
		SecurityPassphrase: viper.GetString(config.TreasurySecurityParaphrase),
	})
	if err != nil {
		logger.Fatalf(ctx, "seed: error seeding treasury account: %+v", err)
	}

	logger.Info(ctx, "seed: treasury account sealed into vault")
}
