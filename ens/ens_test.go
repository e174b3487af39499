package ens

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RaghavSood/swapdesk/chain"
)

func TestNamehash(t *testing.T) {
	assert.Equal(t, common.Hash{}, Namehash(""))
	assert.Equal(t, common.HexToHash("0x93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4ae"), Namehash("eth"))
	assert.Equal(t, common.HexToHash("0xde9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f"), Namehash("foo.eth"))
}

type fakeRegistry struct {
	registry common.Address
	resolver common.Address
	records  map[common.Hash]common.Address
	err      error
	calls    int
}

func (f *fakeRegistry) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var node common.Hash
	copy(node[:], msg.Data[4:36])

	switch *msg.To {
	case f.registry:
		if _, ok := f.records[node]; !ok {
			return chain.ENSRegistryABI.Methods["resolver"].Outputs.Pack(common.Address{})
		}
		return chain.ENSRegistryABI.Methods["resolver"].Outputs.Pack(f.resolver)
	case f.resolver:
		return chain.ENSResolverABI.Methods["addr"].Outputs.Pack(f.records[node])
	}
	return nil, errors.New("unexpected target")
}

func newFake() *fakeRegistry {
	return &fakeRegistry{
		registry: common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"),
		resolver: common.HexToAddress("0x4976fb03C32e5B8cfe2b6cCB31c09Ba78EBaBa41"),
		records: map[common.Hash]common.Address{
			Namehash("vitalik.eth"): common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"),
		},
	}
}

func TestResolveName(t *testing.T) {
	f := newFake()
	r := NewResolver(f, f.registry, nil)

	addr, err := r.Resolve(context.Background(), "Vitalik.eth")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"), addr)

	// second lookup hits the cache
	calls := f.calls
	_, err = r.Resolve(context.Background(), "vitalik.eth")
	require.NoError(t, err)
	assert.Equal(t, calls, f.calls)
}

func TestResolveAddressPassesThrough(t *testing.T) {
	f := newFake()
	r := NewResolver(f, f.registry, nil)

	addr, err := r.Resolve(context.Background(), "0x000000000000000000000000000000000000dEaD")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xdead"), addr)
	assert.Zero(t, f.calls)
}

func TestResolveNotFound(t *testing.T) {
	f := newFake()
	r := NewResolver(f, f.registry, nil)

	_, err := r.Resolve(context.Background(), "nobody.eth")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Resolve(context.Background(), "not an address")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Resolve(context.Background(), "0x1234")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveTransientFailure(t *testing.T) {
	f := newFake()
	f.err = errors.New("dial tcp: connection refused")
	r := NewResolver(f, f.registry, nil)

	_, err := r.Resolve(context.Background(), "vitalik.eth")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestCacheExpires(t *testing.T) {
	c := NewCache[int](8, 50*time.Millisecond)

	var fetches int
	fetch := func() (int, error) { fetches++; return fetches, nil }

	v, _ := c.GetOrFetch("k", fetch)
	assert.Equal(t, 1, v)
	v, _ = c.GetOrFetch("k", fetch)
	assert.Equal(t, 1, v)

	require.Eventually(t, func() bool {
		v, _ := c.GetOrFetch("k", fetch)
		return v > 1
	}, time.Second, 20*time.Millisecond)

	c.Invalidate("k")
	before := fetches
	_, _ = c.GetOrFetch("k", fetch)
	assert.Equal(t, before+1, fetches)
}

func TestCacheDoesNotKeepFailures(t *testing.T) {
	c := NewCache[int](8, time.Minute)

	_, err := c.GetOrFetch("k", func() (int, error) { return 0, errors.New("timeout") })
	require.Error(t, err)

	v, err := c.GetOrFetch("k", func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestCacheSharesInFlightFetch(t *testing.T) {
	c := NewCache[int](8, time.Minute)

	var fetches atomic.Int32
	release := make(chan struct{})
	fetch := func() (int, error) {
		fetches.Add(1)
		<-release
		return 1, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrFetch("k", fetch)
			assert.NoError(t, err)
			assert.Equal(t, 1, v)
		}()
	}
	require.Eventually(t, func() bool { return fetches.Load() == 1 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), fetches.Load())
}

func TestCacheKeysDoNotBlockEachOther(t *testing.T) {
	c := NewCache[int](8, time.Minute)

	release := make(chan struct{})
	defer close(release)
	go c.GetOrFetch("slow", func() (int, error) {
		<-release
		return 1, nil
	})

	done := make(chan int)
	go func() {
		v, _ := c.GetOrFetch("fast", func() (int, error) { return 2, nil })
		done <- v
	}()

	select {
	case v := <-done:
		assert.Equal(t, 2, v)
	case <-time.After(time.Second):
		t.Fatal("lookup for one key waited on another")
	}
}
