// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naamancurtis/trx/money"
)

func TestTransactionLog_InsertAndGet(t *testing.T) {
	log := NewTransactionLog()
	amount, err := money.ParseString("5.0")
	require.NoError(t, err)

	ok := log.Insert(1, TransactionRecord{Amount: amount, Kind: KindDeposit, Status: StatusNormal})
	assert.True(t, ok)

	rec := log.Get(1)
	require.NotNil(t, rec)
	assert.Equal(t, amount, rec.Amount)
	assert.Equal(t, KindDeposit, rec.Kind)
	assert.Equal(t, StatusNormal, rec.Status)
}

func TestTransactionLog_FirstWriterWins(t *testing.T) {
	log := NewTransactionLog()
	first, _ := money.ParseString("5.0")
	second, _ := money.ParseString("9.0")

	assert.True(t, log.Insert(1, TransactionRecord{Amount: first, Kind: KindDeposit}))
	assert.False(t, log.Insert(1, TransactionRecord{Amount: second, Kind: KindDeposit}))

	rec := log.Get(1)
	require.NotNil(t, rec)
	assert.Equal(t, first, rec.Amount)
}

func TestTransactionLog_GetAbsent(t *testing.T) {
	log := NewTransactionLog()
	assert.Nil(t, log.Get(42))
}

func TestTransactionLog_MutateThroughHandle(t *testing.T) {
	log := NewTransactionLog()
	amount, _ := money.ParseString("5.0")
	log.Insert(1, TransactionRecord{Amount: amount, Kind: KindDeposit, Status: StatusNormal})

	rec := log.Get(1)
	rec.Status = StatusDisputed

	assert.Equal(t, StatusDisputed, log.Get(1).Status)
}
