package melon

import (
	"bytes"
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/jgrizzled/melon-list/internal/domain"
)

// ContractCaller executes read-only contract calls.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// call packs method with args, executes it against the latest block and unpacks the result.
// Transport and decoding failures wrap domain.ErrDataUnavailable.
func call(ctx context.Context, caller ContractCaller, contract common.Address, def *lazyABI, method string, args ...any) ([]any, error) {
	parsed, err := def.instance()
	if err != nil {
		return nil, fmt.Errorf("parse abi for %s: %w", method, err)
	}
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &contract, Data: data}
	resp, err := caller.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s on %s: %w: %w", method, contract.Hex(), domain.ErrDataUnavailable, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s from %s: %w: %w", method, contract.Hex(), domain.ErrDataUnavailable, err)
	}
	return values, nil
}

func valueAt(values []any, i int, method string) (any, error) {
	if i >= len(values) {
		return nil, fmt.Errorf("%s: missing output %d: %w", method, i, domain.ErrDataUnavailable)
	}
	return values[i], nil
}

func asAddress(value any) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T: %w", value, domain.ErrDataUnavailable)
	}
}

func asBigInt(value any) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T: %w", value, domain.ErrDataUnavailable)
	}
}

func asUint8(value any) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case *big.Int:
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint8 type %T: %w", value, domain.ErrDataUnavailable)
	}
}

func asAddresses(value any) ([]common.Address, error) {
	v, ok := value.([]common.Address)
	if !ok {
		return nil, fmt.Errorf("unsupported address array type %T: %w", value, domain.ErrDataUnavailable)
	}
	return v, nil
}

func asBigInts(value any) ([]*big.Int, error) {
	v, ok := value.([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("unsupported int array type %T: %w", value, domain.ErrDataUnavailable)
	}
	return v, nil
}

func asBools(value any) ([]bool, error) {
	v, ok := value.([]bool)
	if !ok {
		return nil, fmt.Errorf("unsupported bool array type %T: %w", value, domain.ErrDataUnavailable)
	}
	return v, nil
}

func asBytes32s(value any) ([][32]byte, error) {
	v, ok := value.([][32]byte)
	if !ok {
		return nil, fmt.Errorf("unsupported bytes32 array type %T: %w", value, domain.ErrDataUnavailable)
	}
	return v, nil
}

func bytes32ToString(v [32]byte) string {
	return string(bytes.TrimRight(v[:], "\x00"))
}
