//
// Created on 2023/6/14 by khanghh
// Project: github.com/verichains/account-hooks
// Copyright (c) 2023 Verichains Lab
//

package logdb

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
)

// LogIterator walks all execution log records of one token in insertion
// order. Callers must Release it when done.
type LogIterator struct {
	token common.Hash
	it    ethdb.Iterator
	rec   *Record
}

func NewLogIterator(db ethdb.Iteratee, token common.Hash) *LogIterator {
	return &LogIterator{
		token: token,
		it:    db.NewIterator(tokenLogPrefix(token), nil),
	}
}

// Next advances the iterator to the next record, reporting whether one is
// available. Undecodable entries terminate the iteration.
func (it *LogIterator) Next() bool {
	if !it.it.Next() {
		return false
	}
	rec := new(Record)
	if err := rlp.DecodeBytes(it.it.Value(), rec); err != nil {
		log.Error("Invalid execution log record", "token", it.token, "err", err)
		return false
	}
	it.rec = rec
	return true
}

// Record returns the record the iterator currently points at.
func (it *LogIterator) Record() *Record {
	return it.rec
}

func (it *LogIterator) Release() {
	it.it.Release()
}
