package dbbadger

import (
	"context"
	"os"

	"github.com/bitwallet-network/bitwallet-daemon/internal/core/domain"
	"github.com/bitwallet-network/bitwallet-daemon/internal/core/ports"
	"github.com/thanhpk/randstr"
)

var ctx = context.Background()
var manager ports.RepoManager
var testDbDir = "testdb"

func before() {
	var err error
	manager, err = NewRepoManager(testDbDir, nil)
	if err != nil {
		panic(err)
	}
}

func after() {
	manager.Close()

	if err := os.RemoveAll(testDbDir); err != nil {
		panic(err)
	}
}

func insertTestWallet() uint64 {
	id, err := manager.WalletRepository().AddWallet(ctx, domain.Wallet{
		Name:        "testwallet" + randstr.Hex(4),
		NetworkName: "bitcoin",
		Scheme:      domain.SchemeBIP32,
		WitnessType: domain.WitnessTypeSegwit,
		Encoding:    domain.EncodingBech32,
	})
	if err != nil {
		panic(err)
	}
	return id
}

func insertTestKey(walletID uint64, address string) uint64 {
	id, err := manager.KeyRepository().AddKey(ctx, domain.Key{
		WalletID:    walletID,
		NetworkName: "bitcoin",
		KeyType:     domain.KeyTypeBIP32,
		Address:     address,
	})
	if err != nil {
		panic(err)
	}
	return id
}
