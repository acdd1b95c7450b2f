package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/spf13/viper"
)

const (
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// NetworkKey is the chain the daemon syncs against, one of bitcoin, testnet, regtest
	NetworkKey = "NETWORK"
	// ProviderURLKey is the base url of the block data provider
	ProviderURLKey = "PROVIDER_URL"
	// WalletNameKey is the name of the wallet the daemon keeps in sync
	WalletNameKey = "WALLET_NAME"
	// PageSizeKey is the number of transactions requested per history page
	PageSizeKey = "PAGE_SIZE"
	// MaxResultsKey caps the number of transactions collected per sync run
	MaxResultsKey = "MAX_RESULTS"
	// SyncIntervalKey is the duration in seconds between two wallet sync rounds
	SyncIntervalKey = "SYNC_INTERVAL"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// EnableProfilerKey enables profiler that can be used to investigate performance issues
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines interval for printing basic daemon statistics
	StatsIntervalKey = "STATS_INTERVAL"

	DbLocation       = "db"
	ProfilerLocation = "stats"

	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("bitwallet-daemon", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("BITWALLET")
	vip.AutomaticEnv()

	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(NetworkKey, "bitcoin")
	vip.SetDefault(ProviderURLKey, "https://api.bitaps.com/btc/v1")
	vip.SetDefault(PageSizeKey, 50)
	vip.SetDefault(MaxResultsKey, 2000)
	vip.SetDefault(SyncIntervalKey, 60)
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

func GetDuration(key string) time.Duration {
	return vip.GetDuration(key)
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	switch network := GetString(NetworkKey); network {
	case "bitcoin", "testnet", "regtest":
	default:
		return fmt.Errorf("network must be one of bitcoin, testnet, regtest")
	}

	if _, err := url.ParseRequestURI(GetString(ProviderURLKey)); err != nil {
		return fmt.Errorf("please provide a valid provider url")
	}

	if GetInt(PageSizeKey) <= 0 {
		return fmt.Errorf("%s must be greater than 0", PageSizeKey)
	}
	if GetInt(MaxResultsKey) <= 0 {
		return fmt.Errorf("%s must be greater than 0", MaxResultsKey)
	}

	switch dbType := GetString(DBTypeKey); dbType {
	case DBBadger, DBInMemory:
	default:
		return fmt.Errorf("db type must be one of %s, %s", DBBadger, DBInMemory)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
		return err
	}

	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
