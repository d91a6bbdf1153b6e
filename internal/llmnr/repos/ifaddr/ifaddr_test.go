package ifaddr

import (
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haukened/rr-llmnr/internal/llmnr/domain"
)

// withEnumerate swaps the package enumeration hook for the duration of a
// test.
func withEnumerate(t *testing.T, fn func(ifindex int) ([]net.IP, error)) {
	t.Helper()
	orig := enumerate
	enumerate = fn
	t.Cleanup(func() { enumerate = orig })
}

func TestLookup_FamilyFilter(t *testing.T) {
	withEnumerate(t, func(int) ([]net.IP, error) {
		return []net.IP{
			net.IPv4(192, 168, 1, 5),
			net.ParseIP("fe80::1"),
			net.IPv4(10, 0, 0, 5),
			net.ParseIP("2001:db8::1"),
		}, nil
	})

	repo := New(time.Minute)

	v4, err := repo.Lookup(1, domain.FamilyIPv4)
	require.NoError(t, err)
	assert.Len(t, v4, 2)
	for _, ip := range v4 {
		assert.NotNil(t, ip.To4())
	}

	v6, err := repo.Lookup(1, domain.FamilyIPv6)
	require.NoError(t, err)
	assert.Len(t, v6, 2)
	for _, ip := range v6 {
		assert.Nil(t, ip.To4())
	}

	all, err := repo.Lookup(1, domain.FamilyUnspec)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestLookup_CapsAtMaxAddrs(t *testing.T) {
	withEnumerate(t, func(int) ([]net.IP, error) {
		ips := make([]net.IP, 0, 40)
		for i := 0; i < 40; i++ {
			ips = append(ips, net.IPv4(10, 0, byte(i/256), byte(i%256)))
		}
		return ips, nil
	})

	repo := New(time.Minute)
	got, err := repo.Lookup(1, domain.FamilyIPv4)
	require.NoError(t, err)
	assert.Len(t, got, MaxAddrs)
}

func TestLookup_MemoizesPerInterface(t *testing.T) {
	calls := map[int]int{}
	withEnumerate(t, func(ifindex int) ([]net.IP, error) {
		calls[ifindex]++
		return []net.IP{net.IPv4(10, 0, 0, byte(ifindex))}, nil
	})

	repo := New(time.Minute)
	for i := 0; i < 5; i++ {
		_, err := repo.Lookup(2, domain.FamilyIPv4)
		require.NoError(t, err)
	}
	_, err := repo.Lookup(7, domain.FamilyIPv4)
	require.NoError(t, err)

	assert.Equal(t, 1, calls[2], "burst of lookups must enumerate once")
	assert.Equal(t, 1, calls[7])
}

func TestLookup_ErrorPropagates(t *testing.T) {
	boom := errors.New("no such interface")
	withEnumerate(t, func(int) ([]net.IP, error) {
		return nil, boom
	})

	repo := New(time.Minute)
	_, err := repo.Lookup(9, domain.FamilyIPv4)
	assert.ErrorIs(t, err, boom)
}

func TestLookup_ErrorsAreNotCached(t *testing.T) {
	calls := 0
	withEnumerate(t, func(int) ([]net.IP, error) {
		calls++
		if calls == 1 {
			return nil, fmt.Errorf("transient failure")
		}
		return []net.IP{net.IPv4(10, 0, 0, 1)}, nil
	})

	repo := New(time.Minute)
	_, err := repo.Lookup(1, domain.FamilyIPv4)
	require.Error(t, err)

	got, err := repo.Lookup(1, domain.FamilyIPv4)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
