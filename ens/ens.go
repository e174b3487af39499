package ens

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/RaghavSood/swapdesk/chain"
)

// ErrNotFound means the input is neither an address nor a name with an
// address record.
var ErrNotFound = errors.New("recipient not found")

const (
	defaultTTL       = 5 * time.Minute
	defaultCacheSize = 256
)

// Namehash implements the EIP-137 name hash.
func Namehash(name string) common.Hash {
	var node common.Hash
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := crypto.Keccak256([]byte(labels[i]))
		node = common.BytesToHash(crypto.Keccak256(node[:], labelHash))
	}
	return node
}

// Resolver turns an address string or ENS name into an address.
type Resolver struct {
	caller   ethereum.ContractCaller
	registry common.Address
	cache    *Cache[common.Address]
	logger   *zap.Logger
}

func NewResolver(caller ethereum.ContractCaller, registry common.Address, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		caller:   caller,
		registry: registry,
		cache:    NewCache[common.Address](defaultCacheSize, defaultTTL),
		logger:   logger,
	}
}

// Resolve returns the address for input. Hex addresses pass through. Errors
// other than ErrNotFound are transient lookup failures.
func (r *Resolver) Resolve(ctx context.Context, input string) (common.Address, error) {
	input = strings.TrimSpace(input)
	if common.IsHexAddress(input) {
		return common.HexToAddress(input), nil
	}
	if !strings.Contains(input, ".") || strings.HasPrefix(input, "0x") {
		return common.Address{}, ErrNotFound
	}

	name := strings.ToLower(input)
	return r.cache.GetOrFetch(name, func() (common.Address, error) {
		return r.lookup(ctx, name)
	})
}

func (r *Resolver) lookup(ctx context.Context, name string) (common.Address, error) {
	node := Namehash(name)

	resolverAddr, err := r.call(ctx, r.registry, "resolver", node)
	if err != nil {
		return common.Address{}, fmt.Errorf("querying resolver for %s: %w", name, err)
	}
	if resolverAddr == (common.Address{}) {
		return common.Address{}, ErrNotFound
	}

	addr, err := r.call(ctx, resolverAddr, "addr", node)
	if err != nil {
		return common.Address{}, fmt.Errorf("querying addr for %s: %w", name, err)
	}
	if addr == (common.Address{}) {
		return common.Address{}, ErrNotFound
	}

	r.logger.Debug("resolved ens name", zap.String("name", name), zap.String("address", addr.Hex()))
	return addr, nil
}

func (r *Resolver) call(ctx context.Context, to common.Address, method string, node common.Hash) (common.Address, error) {
	contract := chain.ENSResolverABI
	if method == "resolver" {
		contract = chain.ENSRegistryABI
	}

	data, err := contract.Pack(method, node)
	if err != nil {
		return common.Address{}, err
	}
	out, err := r.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return common.Address{}, err
	}
	if len(out) == 0 {
		return common.Address{}, nil
	}

	decoded, err := contract.Unpack(method, out)
	if err != nil {
		return common.Address{}, fmt.Errorf("unpacking %s: %w", method, err)
	}
	return decoded[0].(common.Address), nil
}
