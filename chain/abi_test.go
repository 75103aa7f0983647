package chain

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestABIStore_LoadOnce(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "factory_abi.json"))
	require.NoError(t, err)

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	store := NewABIStore(srv.Client(), zap.NewNop())
	first, err := store.Load(context.Background(), srv.URL)
	require.NoError(t, err)
	second, err := store.Load(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Contains(t, first.Events, EventBranchCreated)
}

func TestABIStore_FailureNotCached(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "branch_abi.json"))
	require.NoError(t, err)

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	store := NewABIStore(srv.Client(), zap.NewNop())
	_, err = store.Load(context.Background(), srv.URL)
	assert.Error(t, err)

	parsed, err := store.Load(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, parsed.Methods, "reveal")
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}
