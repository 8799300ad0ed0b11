//
// Created on 2023/6/16 by khanghh
// Project: github.com/verichains/account-hooks
// Copyright (c) 2023 Verichains Lab
//

package main

import (
	"fmt"
	"os"
	"reflect"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/naoina/toml"
)

// These settings ensure that TOML keys use the same names as Go struct fields.
var tomlSettings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

func loadTOMLConfig(filename string, conf interface{}) error {
	var err error
	var buf []byte
	if buf, err = os.ReadFile(filename); err == nil {
		err = tomlSettings.Unmarshal(buf, conf)
	}
	return err
}

type whitelistConfig struct {
	Enabled bool
	Targets []string // hex addresses allowed for every scenario token
}

type spendLimitConfig struct {
	Enabled    bool
	DailyLimit uint64
}

type rewardConfig struct {
	Enabled bool
	Token   common.Address
	Amount  uint64
}

type loggerConfig struct {
	Enabled bool
}

type simConfig struct {
	Authority  common.Address
	Account    common.Address
	Whitelist  whitelistConfig
	SpendLimit spendLimitConfig
	Reward     rewardConfig
	Logger     loggerConfig
}

var DefaultConfig = simConfig{
	Authority: common.HexToAddress("0x0000000000000000000000000000000000000a11"),
	Account:   common.HexToAddress("0x0000000000000000000000000000000000000acc"),
	Whitelist: whitelistConfig{Enabled: true},
	SpendLimit: spendLimitConfig{
		Enabled:    true,
		DailyLimit: 1000000000000000000, // 1 native token per day
	},
	Logger: loggerConfig{Enabled: true},
}

func (cfg *simConfig) Sanitize() error {
	if cfg.Authority == (common.Address{}) {
		log.Warn("Sanitizing simulator authority address", "updated", DefaultConfig.Authority)
		cfg.Authority = DefaultConfig.Authority
	}
	if cfg.Account == (common.Address{}) {
		log.Warn("Sanitizing simulated account address", "updated", DefaultConfig.Account)
		cfg.Account = DefaultConfig.Account
	}
	if cfg.Reward.Enabled && cfg.Reward.Amount == 0 {
		log.Warn("Reward hook enabled with zero amount, payouts will be skipped")
	}
	return nil
}
