package config

import (
	"flag"
	"time"
)

const (
	defaultDBDNS               = ""
	defaultPaymentTimeout      = 10 * time.Second
	defaultExpirySweepInterval = time.Minute
)

type Flags struct {
	address string

	dbDNS               string
	pricingFile         string
	logLevel            string
	paymentTimeout      time.Duration
	expirySweepInterval time.Duration
}

func (flags *Flags) Init(flagSet *flag.FlagSet, args []string) error {
	flagSet.StringVar(&flags.address, "a", ":8080", "Address and port to run server")

	flagSet.StringVar(&flags.dbDNS, "d", defaultDBDNS, "db dns")
	flagSet.StringVar(&flags.pricingFile, "p", "", "pricing table yaml file")
	flagSet.StringVar(&flags.logLevel, "l", "info", "log level")
	flagSet.DurationVar(&flags.paymentTimeout, "payment-timeout", defaultPaymentTimeout, "mock payment timeout")
	flagSet.DurationVar(&flags.expirySweepInterval, "expiry-interval", defaultExpirySweepInterval, "expired order sweep interval")

	return flagSet.Parse(args)
}
