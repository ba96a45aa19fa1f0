package cache

import (
	"sync"
	"testing"

	"github.com/groovylang/lsp-core/gparse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCompileCachesAndHits(t *testing.T) {
	c := New(10, nil)
	src := "class A {}\n"

	r1 := c.GetOrCompile("file:///A.groovy", src)
	r2 := c.GetOrCompile("file:///A.groovy", src)

	assert.Equal(t, r1.Root, r2.Root)
	stats := c.Statistics()
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Hits)
}

func TestGetOrCompileRecompilesOnContentChange(t *testing.T) {
	c := New(10, nil)
	c.GetOrCompile("file:///A.groovy", "class A {}\n")
	c.GetOrCompile("file:///A.groovy", "class B {}\n")

	stats := c.Statistics()
	assert.Equal(t, int64(2), stats.Misses)
}

func TestPutEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2, nil)
	c.Put("file:///A.groovy", "a", gparse.Parse(gparse.Request{URI: "file:///A.groovy", Source: "a"}))
	c.Put("file:///B.groovy", "b", gparse.Parse(gparse.Request{URI: "file:///B.groovy", Source: "b"}))
	c.Put("file:///C.groovy", "c", gparse.Parse(gparse.Request{URI: "file:///C.groovy", Source: "c"}))

	_, okA := c.Get("file:///A.groovy")
	_, okC := c.Get("file:///C.groovy")
	assert.False(t, okA)
	assert.True(t, okC)
	assert.Equal(t, int64(1), c.Statistics().Evictions)
}

func TestInvalidateRemovesEntry(t *testing.T) {
	c := New(10, nil)
	c.GetOrCompile("file:///A.groovy", "class A {}\n")
	c.Invalidate("file:///A.groovy")
	_, ok := c.Get("file:///A.groovy")
	assert.False(t, ok)
}

func TestConcurrentGetOrCompileLeavesDocumentCached(t *testing.T) {
	c := New(10, nil)
	src := "class Busy {}\n"
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.GetOrCompile("file:///Busy.groovy", src)
		}()
	}
	wg.Wait()
	_, ok := c.Get("file:///Busy.groovy")
	require.True(t, ok)
}
