package chain

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

func toBigInt(v interface{}) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return new(big.Int), nil
		}
		return n, nil
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	case int8:
		return big.NewInt(int64(n)), nil
	case int16:
		return big.NewInt(int64(n)), nil
	case int32:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	}
	return nil, fmt.Errorf("unexpected numeric output %T", v)
}

func toUint64(v interface{}) (uint64, error) {
	n, err := toBigInt(v)
	if err != nil {
		return 0, err
	}
	if n.Sign() < 0 || !n.IsUint64() {
		return 0, fmt.Errorf("output %s out of uint64 range", n.String())
	}
	return n.Uint64(), nil
}

func toAddress(v interface{}) (common.Address, error) {
	addr, ok := v.(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("unexpected address output %T", v)
	}
	return addr, nil
}

func toString(v interface{}) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("unexpected string output %T", v)
	}
	return s, nil
}

// namedOutput picks an output by name, falling back to the first output.
func namedOutput(method abi.Method, out []interface{}, name string) interface{} {
	for i, arg := range method.Outputs {
		if arg.Name == name && i < len(out) {
			return out[i]
		}
	}
	return out[0]
}
