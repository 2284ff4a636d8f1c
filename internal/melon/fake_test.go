package melon

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
)

type fakeMethod func(args []any) []any

type fakeContract struct {
	def     *lazyABI
	methods map[string]fakeMethod
}

// fakeChain answers eth_call by ABI-packing canned outputs per contract and method.
type fakeChain struct {
	mu        sync.Mutex
	contracts map[common.Address]fakeContract
	failures  map[string]error
	calls     map[string]int
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		contracts: make(map[common.Address]fakeContract),
		failures:  make(map[string]error),
		calls:     make(map[string]int),
	}
}

func (f *fakeChain) register(addr common.Address, def *lazyABI, methods map[string]fakeMethod) {
	f.contracts[addr] = fakeContract{def: def, methods: methods}
}

func (f *fakeChain) CallContract(_ context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if blockNumber != nil {
		return nil, fmt.Errorf("unexpected block number %s", blockNumber)
	}
	if msg.To == nil || len(msg.Data) < 4 {
		return nil, errors.New("malformed call")
	}
	contract, ok := f.contracts[*msg.To]
	if !ok {
		return nil, nil
	}
	parsed, err := contract.def.instance()
	if err != nil {
		return nil, err
	}
	method, err := parsed.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	args, err := method.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.calls[method.Name]++
	failure := f.failures[method.Name]
	f.mu.Unlock()
	if failure != nil {
		return nil, failure
	}

	fn, ok := contract.methods[method.Name]
	if !ok {
		return nil, fmt.Errorf("method %s not stubbed", method.Name)
	}
	return method.Outputs.Pack(fn(args)...)
}

func (f *fakeChain) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func addr(n int64) common.Address {
	return common.BigToAddress(big.NewInt(n))
}

func name32(s string) [32]byte {
	var b [32]byte
	copy(b[:], s)
	return b
}

func returns(values ...any) fakeMethod {
	return func([]any) []any { return values }
}
