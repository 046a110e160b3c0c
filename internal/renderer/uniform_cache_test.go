package renderer

import (
	"reflect"
	"testing"
)

func fakeLookup(known map[string]int32, calls *int) func(uint32, string) int32 {
	return func(_ uint32, name string) int32 {
		*calls++
		if loc, ok := known[name]; ok {
			return loc
		}
		return -1
	}
}

func TestNewUniformCache(t *testing.T) {
	cache := NewUniformCache(0, "test")

	if cache == nil {
		t.Fatal("NewUniformCache returned nil")
	}
	if cache.locations == nil || cache.missing == nil {
		t.Error("maps should be initialized")
	}
}

func TestUniformCacheLooksUpOnce(t *testing.T) {
	calls := 0
	cache := NewUniformCache(7, "test")
	cache.lookup = fakeLookup(map[string]int32{"model": 3}, &calls)

	for i := 0; i < 5; i++ {
		if loc := cache.GetLocation("model"); loc != 3 {
			t.Fatalf("Expected location 3, got %d", loc)
		}
	}
	if calls != 1 {
		t.Errorf("Expected one lookup, got %d", calls)
	}
}

func TestUniformCacheReportsMissing(t *testing.T) {
	calls := 0
	cache := NewUniformCache(7, "test")
	cache.lookup = fakeLookup(map[string]int32{"pointLight[1].diffuse": 4}, &calls)

	cache.GetLocation("pointLight[1].diffuse")
	cache.GetLocation("pointLig[1].diffuse")
	cache.GetLocation("pointLigh[5].linear")
	cache.GetLocation("pointLig[1].diffuse")

	want := []string{"pointLig[1].diffuse", "pointLigh[5].linear"}
	if got := cache.Missing(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected missing %v, got %v", want, got)
	}
	if calls != 3 {
		t.Errorf("Unresolved names should be cached too, got %d lookups", calls)
	}
}

func TestUniformCacheClear(t *testing.T) {
	cache := NewUniformCache(0, "test")
	cache.locations["test"] = 5
	cache.missing["gone"] = struct{}{}

	cache.Clear()

	if len(cache.locations) != 0 || len(cache.Missing()) != 0 {
		t.Error("Clear should empty the cache")
	}
}
