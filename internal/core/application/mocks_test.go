package application_test

import (
	"github.com/stretchr/testify/mock"

	"github.com/bitwallet-network/bitwallet-daemon/pkg/provider"
)

// **** Provider ****

type mockProvider struct {
	mock.Mock
}

func (m *mockProvider) Name() string {
	return "mock"
}

func (m *mockProvider) ListAddressHistory(
	address string, pageSize, pageNum int,
) ([]provider.TxRecord, int, error) {
	args := m.Called(address, pageSize, pageNum)

	var res []provider.TxRecord
	if a := args.Get(0); a != nil {
		res = a.([]provider.TxRecord)
	}
	return res, args.Int(1), args.Error(2)
}

func (m *mockProvider) GetTransaction(txid string) (*provider.TxRecord, error) {
	args := m.Called(txid)

	var res *provider.TxRecord
	if a := args.Get(0); a != nil {
		res = a.(*provider.TxRecord)
	}
	return res, args.Error(1)
}

func (m *mockProvider) GetRawTransaction(txid string) (string, error) {
	args := m.Called(txid)

	var res string
	if a := args.Get(0); a != nil {
		res = a.(string)
	}
	return res, args.Error(1)
}

func (m *mockProvider) GetChainHeight() (uint64, error) {
	args := m.Called()

	var res uint64
	if a := args.Get(0); a != nil {
		res = a.(uint64)
	}
	return res, args.Error(1)
}

func (m *mockProvider) ListMempool(txid string) ([]string, error) {
	args := m.Called(txid)

	var res []string
	if a := args.Get(0); a != nil {
		res = a.([]string)
	}
	return res, args.Error(1)
}

func (m *mockProvider) GetBalance(addresses []string) (uint64, error) {
	args := m.Called(addresses)

	var res uint64
	if a := args.Get(0); a != nil {
		res = a.(uint64)
	}
	return res, args.Error(1)
}
