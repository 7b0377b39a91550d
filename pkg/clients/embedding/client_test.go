package embedding

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type EmbeddingClientTest struct {
	suite.Suite
}

func (e *EmbeddingClientTest) TestLRUCache_PutGet() {
	cache := NewLRUCache(3)

	cache.Put("a", []float64{1.0})
	cache.Put("b", []float64{2.0})

	got, ok := cache.Get("a")
	e.True(ok)
	e.Equal([]float64{1.0}, got)

	_, ok = cache.Get("missing")
	e.False(ok)
}

func (e *EmbeddingClientTest) TestLRUCache_EvictLeastRecent() {
	cache := NewLRUCache(2)

	cache.Put("a", []float64{1.0})
	cache.Put("b", []float64{2.0})

	// 访问 a，b 成为最久未使用
	_, ok := cache.Get("a")
	e.True(ok)

	cache.Put("c", []float64{3.0})

	_, ok = cache.Get("b")
	e.False(ok, "least recently used entry should be evicted")

	_, ok = cache.Get("a")
	e.True(ok)
	_, ok = cache.Get("c")
	e.True(ok)
}

func (e *EmbeddingClientTest) TestLRUCache_UpdateExisting() {
	cache := NewLRUCache(2)

	cache.Put("a", []float64{1.0})
	cache.Put("a", []float64{9.0})

	got, ok := cache.Get("a")
	e.True(ok)
	e.Equal([]float64{9.0}, got)
}

func (e *EmbeddingClientTest) TestLRUCache_ZeroCapacityUsesDefault() {
	cache := NewLRUCache(0)
	e.Equal(LRUCacheCapacity, cache.capacity)
}

func (e *EmbeddingClientTest) TestVectorToString() {
	e.Equal("[]", VectorToString(nil))
	e.Equal("[]", VectorToString([]float64{}))
	e.Equal("[1.000000]", VectorToString([]float64{1}))
	e.Equal("[0.100000,-0.200000,3.000000]", VectorToString([]float64{0.1, -0.2, 3}))
}

func TestEmbeddingClient(t *testing.T) {
	suite.Run(t, new(EmbeddingClientTest))
}
