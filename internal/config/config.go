// Package config loads the engine's startup-time settings bundle. Unlike
// a hot-reloadable application config, this bundle is read once and never
// watched: spec.md's Design Notes call for keeping configuration "a
// compile-time or startup-time immutable settings bundle."
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Settings is the immutable set of tunables the storage engine was built
// around (spec.md §6's "Configuration constants").
type Settings struct {
	PageSize    int
	CacheSize   int
	BTreeOrder  int
	MaxKeyLen   int
	MaxValueLen int

	DataFile    string
	JournalFile string
}

// Default returns spec.md's fixed build-time constants.
func Default() Settings {
	return Settings{
		PageSize:    4096,
		CacheSize:   100,
		BTreeOrder:  64,
		MaxKeyLen:   256,
		MaxValueLen: 1024,
		DataFile:    "database.dat",
		JournalFile: "journal.log",
	}
}

// Load builds a Settings bundle from defaults, optionally overridden by a
// config file (if configPath is non-empty) and by DBENGN_-prefixed
// environment variables, grounded on raciott-FinKV/config/config.go's
// viper.New/SetDefault/ReadInConfig shape. Overrides never take effect
// after this call returns — there is no WatchConfig here.
func Load(configPath string) (Settings, error) {
	v := viper.New()
	v.SetEnvPrefix("DBENGN")
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("page_size", d.PageSize)
	v.SetDefault("cache_size", d.CacheSize)
	v.SetDefault("btree_order", d.BTreeOrder)
	v.SetDefault("max_key_len", d.MaxKeyLen)
	v.SetDefault("max_value_len", d.MaxValueLen)
	v.SetDefault("data_file", d.DataFile)
	v.SetDefault("journal_file", d.JournalFile)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, fmt.Errorf("config: read %s: %w", configPath, err)
		}
	}

	s := Settings{
		PageSize:    v.GetInt("page_size"),
		CacheSize:   v.GetInt("cache_size"),
		BTreeOrder:  v.GetInt("btree_order"),
		MaxKeyLen:   v.GetInt("max_key_len"),
		MaxValueLen: v.GetInt("max_value_len"),
		DataFile:    v.GetString("data_file"),
		JournalFile: v.GetString("journal_file"),
	}
	return s, nil
}
