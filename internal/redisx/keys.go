package redisx

import (
	"fmt"
	"time"
)

const (
	// product:{id} -> JSON product, or NotFoundMarker
	KeyProduct = "product:%d"

	NotFoundMarker = "notfound"
)

var (
	TTLProduct         = 5 * time.Minute
	TTLProductNotFound = 1 * time.Minute
)

func ProductKey(id int64) string { return fmt.Sprintf(KeyProduct, id) }

func ProductKeys(ids []int64) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = ProductKey(id)
	}
	return keys
}
