//
// Created on 2023/6/14 by khanghh
// Project: github.com/verichains/account-hooks
// Copyright (c) 2023 Verichains Lab
//

// Package logdb persists per-token execution log records in any ethdb
// key-value store. Records are RLP encoded and keyed by token and insertion
// index, so a token's log can be read back in order with a prefix iterator.
package logdb

import (
	"bytes"
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
)

var (
	ExecutionLogPrefix   = []byte("l") // ExecutionLogPrefix + token + index -> execution log record
	ExecutionCountPrefix = []byte("n") // ExecutionCountPrefix + token -> number of records
)

func executionLogKey(token common.Hash, index uint64) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, ExecutionLogPrefix)
	binary.Write(buf, binary.BigEndian, token.Bytes())
	binary.Write(buf, binary.BigEndian, index)
	return buf.Bytes()
}

func executionCountKey(token common.Hash) []byte {
	return append(ExecutionCountPrefix, token.Bytes()...)
}

// tokenLogPrefix covers every record key of one token, in index order.
func tokenLogPrefix(token common.Hash) []byte {
	return append(ExecutionLogPrefix, token.Bytes()...)
}
