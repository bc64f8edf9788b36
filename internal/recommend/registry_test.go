package recommend

import (
	"sync"
	"testing"
)

func TestRegistryReturnsSameEnginePerShop(t *testing.T) {
	registry := NewRegistry()

	a := registry.For("shop-a.myshopify.com")
	b := registry.For("shop-b.myshopify.com")
	if a == b {
		t.Fatal("expected distinct engines per shop")
	}
	if registry.For("shop-a.myshopify.com") != a {
		t.Fatal("expected stable engine for shop")
	}
}

func TestRegistryTrainingIsolatedPerShop(t *testing.T) {
	registry := NewRegistry()

	registry.For("shop-a.myshopify.com").Train(
		[]SourceProduct{{ID: "1", Title: "A", Price: "10"}},
		[]SourceOrder{{ID: "o1", LineItems: []SourceLineItem{{ProductID: "1", Quantity: 1}}}},
		nil,
	)

	if !registry.For("shop-a.myshopify.com").Trained() {
		t.Fatal("expected shop-a trained")
	}
	if registry.For("shop-b.myshopify.com").Trained() {
		t.Fatal("expected shop-b untrained")
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	engines := make([]*Engine, 50)
	for i := range engines {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			engines[i] = registry.For("shop-a.myshopify.com")
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(engines); i++ {
		if engines[i] != engines[0] {
			t.Fatal("concurrent For returned different engines")
		}
	}
}
