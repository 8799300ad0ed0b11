//
// Created on 2023/6/14 by khanghh
// Project: github.com/verichains/account-hooks
// Copyright (c) 2023 Verichains Lab
//

package logdb

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
)

// ReadExecutionLog retrieves the record stored at the given token and index,
// or nil if it is missing or undecodable.
func ReadExecutionLog(db ethdb.KeyValueReader, token common.Hash, index uint64) *Record {
	data, _ := db.Get(executionLogKey(token, index))
	if len(data) == 0 {
		return nil
	}
	rec := new(Record)
	if err := rlp.DecodeBytes(data, rec); err != nil {
		log.Error("Invalid execution log record", "token", token, "index", index, "err", err)
		return nil
	}
	return rec
}

// WriteExecutionLog stores a record at the given token and index.
func WriteExecutionLog(db ethdb.KeyValueWriter, token common.Hash, index uint64, rec *Record) {
	data, err := rlp.EncodeToBytes(rec)
	if err != nil {
		log.Crit("Failed to encode execution log record", "err", err)
	}
	if err := db.Put(executionLogKey(token, index), data); err != nil {
		log.Crit("Failed to store execution log record", "err", err)
	}
}

// DeleteExecutionLog removes the record at the given token and index.
func DeleteExecutionLog(db ethdb.KeyValueWriter, token common.Hash, index uint64) {
	if err := db.Delete(executionLogKey(token, index)); err != nil {
		log.Crit("Failed to delete execution log record", "err", err)
	}
}

// ReadExecutionCount retrieves the number of records logged for a token.
func ReadExecutionCount(db ethdb.KeyValueReader, token common.Hash) uint64 {
	data, _ := db.Get(executionCountKey(token))
	if len(data) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(data)
}

// WriteExecutionCount stores the number of records logged for a token.
func WriteExecutionCount(db ethdb.KeyValueWriter, token common.Hash, count uint64) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], count)
	if err := db.Put(executionCountKey(token), buf[:]); err != nil {
		log.Crit("Failed to store execution log count", "err", err)
	}
}
